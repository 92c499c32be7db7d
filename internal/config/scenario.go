package config

import "github.com/shopspring/decimal"

// Scenario holds the inputs of one named loan scenario. Money and percent
// values decode straight into decimals from both YAML and JSON.
type Scenario struct {
	Name             string            `json:"name" yaml:"name"`
	Active           bool              `json:"active,omitempty" yaml:"active"`
	Program          string            `json:"program" yaml:"program"`
	Purpose          string            `json:"purpose,omitempty" yaml:"purpose,omitempty"`
	PropertyType     string            `json:"propertyType,omitempty" yaml:"propertyType,omitempty"`
	Price            decimal.Decimal   `json:"price" yaml:"price,omitempty"`
	LoanAmount       decimal.Decimal   `json:"loanAmount" yaml:"loanAmount,omitempty"`
	AppraisedValue   decimal.Decimal   `json:"appraisedValue" yaml:"appraisedValue,omitempty"`
	ClosingDate      string            `json:"closingDate,omitempty" yaml:"closingDate,omitempty"`
	Borrower         Borrower          `json:"borrower" yaml:"borrower"`
	Escrow           Escrow            `json:"escrow" yaml:"escrow"`
	SellerConcession decimal.Decimal   `json:"sellerConcession" yaml:"sellerConcession,omitempty"`
	CondoFee         bool              `json:"condoFee,omitempty" yaml:"condoFee,omitempty"`
	CashOut          decimal.Decimal   `json:"cashOut" yaml:"cashOut,omitempty"`
	DownPayments     []decimal.Decimal `json:"downPayments" yaml:"downPayments"`
	Rates            []RateOption      `json:"rates" yaml:"rates"`
	VA               VAOptions         `json:"va,omitempty" yaml:"va,omitempty"`
}

// Borrower describes the borrower attributes that affect pricing.
type Borrower struct {
	Name               string `json:"name,omitempty" yaml:"name,omitempty"`
	CreditScore        int    `json:"creditScore" yaml:"creditScore"`
	FirstTimeHomebuyer bool   `json:"firstTimeHomebuyer" yaml:"firstTimeHomebuyer"`
}

// Escrow holds the monthly escrow amounts and whether escrows are waived.
type Escrow struct {
	Waived           bool            `json:"waived,omitempty" yaml:"waived,omitempty"`
	MonthlyTaxes     decimal.Decimal `json:"monthlyTaxes" yaml:"monthlyTaxes"`
	MonthlyInsurance decimal.Decimal `json:"monthlyInsurance" yaml:"monthlyInsurance"`
}

// RateOption is one rate quote with its lender credit (negative for points).
type RateOption struct {
	Rate   decimal.Decimal `json:"rate" yaml:"rate"`
	Credit decimal.Decimal `json:"credit" yaml:"credit,omitempty"`
}

// VAOptions holds the VA funding fee inputs.
type VAOptions struct {
	ExemptFromFundingFee bool `json:"exemptFromFundingFee,omitempty" yaml:"exemptFromFundingFee,omitempty"`
	FirstUse             bool `json:"firstUse,omitempty" yaml:"firstUse,omitempty"`
}
