package scenario

import (
	"errors"
	"testing"

	"github.com/iwvelando/loan-estimate/internal/programs"
	"github.com/shopspring/decimal"
	"go.uber.org/zap/zaptest"
)

func TestBuildOrderAndLength(t *testing.T) {
	engine := NewEngine(zaptest.NewLogger(t))
	req := purchaseRequest(programs.Conventional)
	req.DownPaymentPercents = []decimal.Decimal{d("3"), d("10"), d("20")}
	req.RateOptions = []RateCreditOption{
		{AnnualRatePercent: d("6.25"), LenderCredit: d("-1500")},
		{AnnualRatePercent: d("6.5")},
		{AnnualRatePercent: d("6.875"), LenderCredit: d("2000")},
	}

	batch, err := engine.Build(req)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	expected := []string{
		"3% @ 6.250%", "3% @ 6.500%", "3% @ 6.875%",
		"10% @ 6.250%", "10% @ 6.500%", "10% @ 6.875%",
		"20% @ 6.250%", "20% @ 6.500%", "20% @ 6.875%",
	}
	if len(batch.Results) != len(expected) {
		t.Fatalf("len(Results) = %d, expected %d", len(batch.Results), len(expected))
	}
	for i, label := range expected {
		if batch.Results[i].Label != label {
			t.Errorf("Results[%d].Label = %q, expected %q", i, batch.Results[i].Label, label)
		}
	}

	// The non-first-time 3% row is below the Conventional minimum but stays in place.
	for _, result := range batch.Results[:3] {
		if !errors.Is(result.Error, ErrBelowMinimumDownPayment) {
			t.Errorf("%s: Error = %v, expected BELOW_MINIMUM_DOWN_PAYMENT", result.Label, result.Error)
		}
	}
	for _, result := range batch.Results[3:] {
		if !result.Valid() {
			t.Errorf("%s: unexpected error %v", result.Label, result.Error)
		}
	}
}

func TestBuildMetadata(t *testing.T) {
	engine := NewEngine(nil)
	req := purchaseRequest(programs.FHA)
	req.PropertyType = Condo
	req.CondoFeeApplied = true
	req.DownPaymentPercents = []decimal.Decimal{d("3.5")}

	batch, err := engine.Build(req)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if batch.Program != programs.FHA || batch.Purpose != Purchase || batch.PropertyType != Condo {
		t.Errorf("unexpected batch identity %s/%s/%s", batch.Program, batch.Purpose, batch.PropertyType)
	}
	if batch.InterimDays != 16 {
		t.Errorf("InterimDays = %d, expected 16", batch.InterimDays)
	}
	if batch.CatalogVersion != "test" {
		t.Errorf("CatalogVersion = %q, expected test", batch.CatalogVersion)
	}
	assertMoney(t, "PropertyValue", batch.PropertyValue, "300000")
	assertMoney(t, "ClosingCostsTotal", batch.ClosingCostsTotal, "2100")
	if len(batch.ClosingCosts) != 3 || batch.ClosingCosts[2].Label != CondoQuestionnaireLabel {
		t.Errorf("ClosingCosts = %+v, expected the condo questionnaire appended", batch.ClosingCosts)
	}

	result, ok := batch.Find("3.5% @ 6.500%")
	if !ok {
		t.Fatal("Find() did not locate the pair")
	}
	assertMoney(t, "ClosingCostsTotal", result.ClosingCostsTotal, "2100")
	if _, ok := batch.Find("5% @ 6.500%"); ok {
		t.Error("Find() located a pair that was never requested")
	}
}

func TestBuildRefinance(t *testing.T) {
	engine := NewEngine(nil)
	req := purchaseRequest(programs.Conventional)
	req.Purpose = CashOutRefinance
	req.Price = decimal.Zero
	req.LoanAmount = d("200000")
	req.AppraisedValue = d("250000")
	req.CashOut = d("50000")
	req.DownPaymentPercents = []decimal.Decimal{decimal.Zero}
	req.RateOptions = []RateCreditOption{rate("6"), rate("6.5")}

	batch, err := engine.Build(req)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(batch.Results) != 2 {
		t.Fatalf("len(Results) = %d, expected 2", len(batch.Results))
	}
	if batch.Results[0].Label != "0% @ 6.000%" {
		t.Errorf("Label = %q", batch.Results[0].Label)
	}
	assertMoney(t, "PropertyValue", batch.PropertyValue, "250000")
	assertMoney(t, "CashToClose", batch.Results[0].CashToClose, "-44616.67")

	req.DownPaymentPercents = nil
	if _, err := engine.Build(req); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Build() without down payments error = %v, expected %v", err, ErrInvalidInput)
	}
}

func TestBuildNegligibleRate(t *testing.T) {
	engine := NewEngine(nil)
	req := purchaseRequest(programs.Conventional)
	req.RateOptions = []RateCreditOption{rate("0.00000000000001"), rate("0")}

	batch, err := engine.Build(req)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(batch.Results) != 2 {
		t.Fatalf("len(Results) = %d, expected 2", len(batch.Results))
	}
	assertMoney(t, "MonthlyPrincipalInterest", batch.Results[0].MonthlyPrincipalInterest, "666.67")
	if !batch.Results[0].MonthlyPrincipalInterest.Equal(batch.Results[1].MonthlyPrincipalInterest) {
		t.Errorf("negligible rate P&I %s differs from zero rate P&I %s",
			batch.Results[0].MonthlyPrincipalInterest, batch.Results[1].MonthlyPrincipalInterest)
	}
}

func TestBuildRejectsInvalidRequest(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Request)
		target error
	}{
		{"negative price", func(r *Request) { r.Price = d("-1") }, ErrInvalidInput},
		{"refinance negative price", func(r *Request) {
			r.Purpose = RateTermRefinance
			r.LoanAmount = d("200000")
			r.Price = d("-1")
		}, ErrInvalidInput},
		{"negative rate", func(r *Request) { r.RateOptions = []RateCreditOption{rate("-0.5")} }, ErrInvalidInput},
		{"concession over price", func(r *Request) { r.SellerConcession = d("300001") }, ErrInvalidInput},
		{"no rates", func(r *Request) { r.RateOptions = nil }, ErrInvalidInput},
		{"unknown program", func(r *Request) { r.Program = programs.Program("Jumbo") }, ErrConfiguration},
	}

	engine := NewEngine(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := purchaseRequest(programs.Conventional)
			tt.modify(&req)
			batch, err := engine.Build(req)
			if !errors.Is(err, tt.target) {
				t.Fatalf("Build() error = %v, expected %v", err, tt.target)
			}
			if batch != nil {
				t.Error("Build() returned a batch for a rejected request")
			}
		})
	}
}

func TestBuildSellerCreditNeverExceedsCap(t *testing.T) {
	engine := NewEngine(nil)
	for _, program := range programs.All {
		req := purchaseRequest(program)
		req.Borrower.FirstTimeHomebuyer = true
		req.SellerConcession = d("100000")
		req.DownPaymentPercents = []decimal.Decimal{d("3.5"), d("9.99"), d("10"), d("25"), d("30")}
		req.RateOptions = []RateCreditOption{rate("6.5"), rate("7")}

		batch, err := engine.Build(req)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		for _, result := range batch.Results {
			concession, _ := programs.MaxSellerConcession(program, result.DownPaymentPercent)
			limit := req.Price.Mul(concession)
			if result.SellerCreditApplied.GreaterThan(limit) {
				t.Errorf("%s %s: seller credit %s exceeds cap %s", program, result.Label, result.SellerCreditApplied, limit)
			}
		}
	}
}

func TestBuildConventionalMortgageInsuranceThreshold(t *testing.T) {
	engine := NewEngine(nil)
	req := purchaseRequest(programs.Conventional)
	req.Borrower.FirstTimeHomebuyer = true
	req.DownPaymentPercents = []decimal.Decimal{d("3"), d("15"), d("19.9"), d("20"), d("35")}

	batch, err := engine.Build(req)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for _, result := range batch.Results {
		insured := result.MonthlyMortgageInsurance.IsPositive()
		if result.LTVPercent.GreaterThan(d("80")) != insured {
			t.Errorf("%s: LTV %s with mortgage insurance %s", result.Label, result.LTVPercent, result.MonthlyMortgageInsurance)
		}
	}
}
