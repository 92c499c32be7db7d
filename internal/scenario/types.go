// Package scenario computes mortgage cost scenarios: for every combination of
// down payment and rate/credit option it produces the loan amount, monthly
// payment breakdown, upfront fee and cash required at closing.
package scenario

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/iwvelando/loan-estimate/internal/programs"
	"github.com/iwvelando/loan-estimate/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Purpose is the reason for the loan.
type Purpose string

// Loan purposes.
const (
	Purchase          Purpose = "Purchase"
	RateTermRefinance Purpose = "RateTermRefinance"
	CashOutRefinance  Purpose = "CashOutRefinance"
)

// IsRefinance reports whether the purpose refinances an existing loan.
func (p Purpose) IsRefinance() bool {
	return p == RateTermRefinance || p == CashOutRefinance
}

// ParsePurpose resolves a purpose name, ignoring case, spaces, dashes and underscores.
func ParsePurpose(name string) (Purpose, error) {
	switch normalizeName(name) {
	case "", "purchase":
		return Purchase, nil
	case "ratetermrefinance", "refinance", "rateterm":
		return RateTermRefinance, nil
	case "cashoutrefinance", "cashout":
		return CashOutRefinance, nil
	}
	return "", fmt.Errorf("unrecognized loan purpose %q", name)
}

// PropertyType is the kind of property securing the loan.
type PropertyType string

// Property types.
const (
	Attached     PropertyType = "Attached"
	Detached     PropertyType = "Detached"
	Manufactured PropertyType = "Manufactured"
	Condo        PropertyType = "Condo"
)

// ParsePropertyType resolves a property type name; empty means Detached.
func ParsePropertyType(name string) (PropertyType, error) {
	switch normalizeName(name) {
	case "", "detached":
		return Detached, nil
	case "attached":
		return Attached, nil
	case "manufactured":
		return Manufactured, nil
	case "condo", "condominium":
		return Condo, nil
	}
	return "", fmt.Errorf("unrecognized property type %q", name)
}

func normalizeName(name string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(name)))
}

// BorrowerProfile holds the borrower attributes that affect pricing.
type BorrowerProfile struct {
	Name               string `json:"name,omitempty"`
	CreditScore        int    `json:"creditScore"`
	FirstTimeHomebuyer bool   `json:"firstTimeHomebuyer"`
}

// EscrowPolicy controls monthly escrow and the related prepaid reserves.
type EscrowPolicy struct {
	Waived           bool            `json:"waived"`
	MonthlyTaxes     decimal.Decimal `json:"monthlyTaxes"`
	MonthlyInsurance decimal.Decimal `json:"monthlyInsurance"`
}

// CostItem is one labeled fixed closing cost.
type CostItem struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// ClosingCostCatalog is the versioned fixed-cost policy passed into the engine.
type ClosingCostCatalog struct {
	Version               string          `json:"version,omitempty"`
	Items                 []CostItem      `json:"items"`
	CondoQuestionnaireFee decimal.Decimal `json:"condoQuestionnaireFee"`
}

// PrepaidItems are the per-scenario prepaid amounts collected at closing.
type PrepaidItems struct {
	InterimInterest    decimal.Decimal `json:"interimInterest"`
	HomeownersPremium  decimal.Decimal `json:"homeownersPremium"`
	PropertyTaxReserve decimal.Decimal `json:"propertyTaxReserve"`
}

// Total sums the prepaid items.
func (p PrepaidItems) Total() decimal.Decimal {
	return mathutil.Sum(p.InterimInterest, p.HomeownersPremium, p.PropertyTaxReserve)
}

// RateCreditOption is one note rate with its lender credit. A positive credit
// reduces cash to close; a negative credit is a point cost.
type RateCreditOption struct {
	AnnualRatePercent decimal.Decimal `json:"rate"`
	LenderCredit      decimal.Decimal `json:"credit"`
}

// Request is the full input for a scenario batch.
type Request struct {
	Program      programs.Program `json:"program"`
	Purpose      Purpose          `json:"purpose"`
	PropertyType PropertyType     `json:"propertyType"`
	// Price is the purchase price.
	Price decimal.Decimal `json:"price"`
	// LoanAmount is the stated base loan amount for refinances.
	LoanAmount decimal.Decimal `json:"loanAmount"`
	// AppraisedValue is the refinance property value used for LTV; zero means
	// unknown and LTV is taken as 100%.
	AppraisedValue      decimal.Decimal    `json:"appraisedValue"`
	ClosingDate         civil.Date         `json:"closingDate"`
	Borrower            BorrowerProfile    `json:"borrower"`
	Escrow              EscrowPolicy       `json:"escrow"`
	SellerConcession    decimal.Decimal    `json:"sellerConcession"`
	CondoFeeApplied     bool               `json:"condoFeeApplied"`
	CashOut             decimal.Decimal    `json:"cashOut"`
	DownPaymentPercents []decimal.Decimal  `json:"downPayments"`
	RateOptions         []RateCreditOption `json:"rates"`
	VA                  programs.VAOptions `json:"va"`
	ClosingCosts        ClosingCostCatalog `json:"closingCosts"`
}

// Result is the computed outcome for one (down payment, rate) pair. When
// Error is set only the pair identity fields are populated.
type Result struct {
	Label              string          `json:"label"`
	DownPaymentPercent decimal.Decimal `json:"downPaymentPercent"`
	AnnualRatePercent  decimal.Decimal `json:"rate"`
	Error              *Error          `json:"error,omitempty"`

	DownPaymentAmount        decimal.Decimal `json:"downPaymentAmount"`
	BaseLoanAmount           decimal.Decimal `json:"baseLoanAmount"`
	UpfrontFee               decimal.Decimal `json:"upfrontFee"`
	LoanAmount               decimal.Decimal `json:"loanAmount"`
	LTVPercent               decimal.Decimal `json:"ltvPercent"`
	MonthlyPrincipalInterest decimal.Decimal `json:"monthlyPrincipalInterest"`
	MonthlyMortgageInsurance decimal.Decimal `json:"monthlyMortgageInsurance"`
	MonthlyTaxes             decimal.Decimal `json:"monthlyTaxes"`
	MonthlyInsurance         decimal.Decimal `json:"monthlyInsurance"`
	MonthlyEscrow            decimal.Decimal `json:"monthlyEscrow"`
	TotalMonthlyPayment      decimal.Decimal `json:"totalMonthlyPayment"`
	ClosingCostsTotal        decimal.Decimal `json:"closingCostsTotal"`
	Prepaids                 PrepaidItems    `json:"prepaids"`
	PrepaidsTotal            decimal.Decimal `json:"prepaidsTotal"`
	SellerCreditApplied      decimal.Decimal `json:"sellerCreditApplied"`
	LenderCredit             decimal.Decimal `json:"lenderCredit"`
	CashOut                  decimal.Decimal `json:"cashOut"`
	CashToClose              decimal.Decimal `json:"cashToClose"`
	TotalInterest            decimal.Decimal `json:"totalInterest"`
	// MortgageInsuranceRemovalMonth is the first payment month without PMI,
	// 0 when insurance never stops or never applied.
	MortgageInsuranceRemovalMonth int `json:"mortgageInsuranceRemovalMonth,omitempty"`
}

// Valid reports whether the pair produced numbers.
func (r Result) Valid() bool {
	return r.Error == nil
}

// Batch is the ordered output for a request: down-payment-major, rate-minor.
type Batch struct {
	Program           programs.Program `json:"program"`
	Purpose           Purpose          `json:"purpose"`
	PropertyType      PropertyType     `json:"propertyType"`
	PropertyValue     decimal.Decimal  `json:"propertyValue"`
	ClosingDate       civil.Date       `json:"closingDate"`
	InterimDays       int              `json:"interimDays"`
	CatalogVersion    string           `json:"catalogVersion,omitempty"`
	ClosingCosts      []CostItem       `json:"closingCosts"`
	ClosingCostsTotal decimal.Decimal  `json:"closingCostsTotal"`
	Results           []Result         `json:"results"`
}

// Find returns the result with the given label.
func (b *Batch) Find(label string) (Result, bool) {
	for _, r := range b.Results {
		if r.Label == label {
			return r, true
		}
	}
	return Result{}, false
}

// PairLabel renders the display label of a pair, e.g. "10% @ 6.500%".
func PairLabel(downPaymentPercent, annualRatePercent decimal.Decimal) string {
	return fmt.Sprintf("%s%% @ %s%%", downPaymentPercent.String(), annualRatePercent.StringFixed(3))
}
