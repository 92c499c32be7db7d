package config

import (
	"errors"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/iwvelando/loan-estimate/internal/programs"
	"github.com/iwvelando/loan-estimate/internal/scenario"
	"github.com/shopspring/decimal"
)

func TestToRequest(t *testing.T) {
	config, err := LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	req, err := config.Scenarios[0].ToRequest(config.Common)
	if err != nil {
		t.Fatalf("ToRequest() error = %v", err)
	}

	if req.Program != programs.Conventional || req.Purpose != scenario.Purchase || req.PropertyType != scenario.Detached {
		t.Errorf("identity = %s/%s/%s", req.Program, req.Purpose, req.PropertyType)
	}
	if !req.Price.Equal(decimal.NewFromInt(300000)) {
		t.Errorf("Price = %s", req.Price)
	}
	if req.ClosingDate != (civil.Date{Year: 2025, Month: 6, Day: 15}) {
		t.Errorf("ClosingDate = %s, expected the common default", req.ClosingDate)
	}
	if len(req.DownPaymentPercents) != 3 || !req.DownPaymentPercents[0].Equal(decimal.NewFromInt(3)) {
		t.Errorf("DownPaymentPercents = %v", req.DownPaymentPercents)
	}
	if len(req.RateOptions) != 2 {
		t.Fatalf("expected 2 rate options, got %d", len(req.RateOptions))
	}
	if req.RateOptions[1].AnnualRatePercent.String() != "6.875" || !req.RateOptions[1].LenderCredit.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("RateOptions[1] = %+v", req.RateOptions[1])
	}
	if req.ClosingCosts.Version != "test-2025" || len(req.ClosingCosts.Items) != 2 {
		t.Errorf("ClosingCosts = %+v", req.ClosingCosts)
	}
	if !req.Escrow.MonthlyTaxes.Equal(decimal.NewFromInt(300)) {
		t.Errorf("MonthlyTaxes = %s", req.Escrow.MonthlyTaxes)
	}

	if err := scenario.Validate(req); err != nil {
		t.Errorf("converted request failed validation: %v", err)
	}
}

func TestToRequestRefinance(t *testing.T) {
	config, err := LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	req, err := config.Scenarios[2].ToRequest(config.Common)
	if err != nil {
		t.Fatalf("ToRequest() error = %v", err)
	}
	if req.Purpose != scenario.CashOutRefinance {
		t.Errorf("Purpose = %s", req.Purpose)
	}
	if !req.CashOut.Equal(decimal.NewFromInt(50000)) || !req.AppraisedValue.Equal(decimal.NewFromInt(250000)) {
		t.Errorf("CashOut = %s, AppraisedValue = %s", req.CashOut, req.AppraisedValue)
	}
	if len(req.DownPaymentPercents) != 1 || !req.DownPaymentPercents[0].IsZero() {
		t.Errorf("DownPaymentPercents = %v, expected a single 0%% option", req.DownPaymentPercents)
	}
	if err := scenario.Validate(req); err != nil {
		t.Errorf("converted refinance failed validation: %v", err)
	}
}

func TestToRequestVA(t *testing.T) {
	s := Scenario{
		Name:         "va",
		Program:      "VA",
		Price:        decimal.NewFromInt(400000),
		ClosingDate:  "06/15/2025",
		DownPayments: []decimal.Decimal{decimal.Zero},
		Rates:        []RateOption{{Rate: decimal.RequireFromString("6.25")}},
		VA:           VAOptions{FirstUse: true, ExemptFromFundingFee: true},
	}

	req, err := s.ToRequest(Common{})
	if err != nil {
		t.Fatalf("ToRequest() error = %v", err)
	}
	if !req.VA.FirstUseOfBenefit || !req.VA.ExemptFromFundingFee {
		t.Errorf("VA = %+v", req.VA)
	}
	if req.ClosingDate != (civil.Date{Year: 2025, Month: 6, Day: 15}) {
		t.Errorf("ClosingDate = %s", req.ClosingDate)
	}
	if len(req.ClosingCosts.Items) != len(DefaultClosingCosts) {
		t.Errorf("expected the default catalog, got %d items", len(req.ClosingCosts.Items))
	}
}

func TestToRequestErrors(t *testing.T) {
	base := Scenario{
		Name:         "errors",
		Program:      "FHA",
		Price:        decimal.NewFromInt(300000),
		ClosingDate:  "2025-06-15",
		DownPayments: []decimal.Decimal{decimal.RequireFromString("3.5")},
		Rates:        []RateOption{{Rate: decimal.RequireFromString("6.5")}},
	}

	tests := []struct {
		name   string
		modify func(*Scenario)
		target error
		field  string
	}{
		{"unknown program", func(s *Scenario) { s.Program = "Jumbo" }, scenario.ErrConfiguration, "program"},
		{"unknown purpose", func(s *Scenario) { s.Purpose = "construction" }, scenario.ErrConfiguration, "purpose"},
		{"unknown property type", func(s *Scenario) { s.PropertyType = "houseboat" }, scenario.ErrConfiguration, "propertyType"},
		{"missing closing date", func(s *Scenario) { s.ClosingDate = "" }, scenario.ErrInvalidInput, "closingDate"},
		{"malformed closing date", func(s *Scenario) { s.ClosingDate = "June 15" }, scenario.ErrInvalidInput, "closingDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base
			tt.modify(&s)

			_, err := s.ToRequest(Common{})
			if !errors.Is(err, tt.target) {
				t.Fatalf("ToRequest() error = %v, expected %v", err, tt.target)
			}
			var scenarioErr *scenario.Error
			if errors.As(err, &scenarioErr) && scenarioErr.Field != tt.field {
				t.Errorf("Field = %q, expected %q", scenarioErr.Field, tt.field)
			}
		})
	}
}

func TestToRequestKeepsDecimalPrecision(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(`
common:
  closingDate: "2025-06-15"
  closingCosts:
    - label: Title
      amount: 985.20
    - label: Recording
      amount: "351.86"
scenarios:
  - name: precise
    program: FHA
    price: 312345.67
    downPayments: [3.5, "10"]
    rates:
      - rate: 6.125
        credit: -1234.56
`))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	req, err := conf.Scenarios[0].ToRequest(conf.Common)
	if err != nil {
		t.Fatalf("ToRequest() error = %v", err)
	}
	checks := []struct {
		field    string
		got      decimal.Decimal
		expected string
	}{
		{"Price", req.Price, "312345.67"},
		{"DownPaymentPercents[0]", req.DownPaymentPercents[0], "3.5"},
		{"DownPaymentPercents[1]", req.DownPaymentPercents[1], "10"},
		{"AnnualRatePercent", req.RateOptions[0].AnnualRatePercent, "6.125"},
		{"LenderCredit", req.RateOptions[0].LenderCredit, "-1234.56"},
		{"ClosingCosts[0]", req.ClosingCosts.Items[0].Amount, "985.2"},
		{"ClosingCosts[1]", req.ClosingCosts.Items[1].Amount, "351.86"},
	}
	for _, check := range checks {
		if !check.got.Equal(decimal.RequireFromString(check.expected)) {
			t.Errorf("%s = %s, expected %s", check.field, check.got, check.expected)
		}
	}
}

func TestToRequestRefinanceKeepsExplicitDownPayments(t *testing.T) {
	s := Scenario{
		Name:         "refi",
		Program:      "Conventional",
		Purpose:      "refinance",
		LoanAmount:   decimal.NewFromInt(200000),
		ClosingDate:  "2025-06-15",
		DownPayments: []decimal.Decimal{decimal.Zero, decimal.NewFromInt(5)},
		Rates:        []RateOption{{Rate: decimal.NewFromInt(6)}},
	}

	req, err := s.ToRequest(Common{})
	if err != nil {
		t.Fatalf("ToRequest() error = %v", err)
	}
	if len(req.DownPaymentPercents) != 2 {
		t.Errorf("DownPaymentPercents = %v, expected the two configured options", req.DownPaymentPercents)
	}
}
