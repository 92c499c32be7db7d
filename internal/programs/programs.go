// Package programs holds the per-program eligibility and fee policy for
// Conventional, FHA, VA and USDA loans as a single lookup table.
package programs

import (
	"fmt"
	"strings"

	"github.com/iwvelando/loan-estimate/pkg/constants"
	"github.com/iwvelando/loan-estimate/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Program identifies a loan program.
type Program string

// Supported loan programs.
const (
	Conventional Program = "Conventional"
	FHA          Program = "FHA"
	VA           Program = "VA"
	USDA         Program = "USDA"
)

// All lists the supported programs in display order.
var All = []Program{Conventional, FHA, VA, USDA}

// String implements fmt.Stringer.
func (p Program) String() string {
	return string(p)
}

// ParseProgram resolves a program name case-insensitively.
func ParseProgram(name string) (Program, error) {
	trimmed := strings.TrimSpace(name)
	for _, p := range All {
		if strings.EqualFold(trimmed, string(p)) {
			return p, nil
		}
	}
	return "", &UnknownProgramError{Program: Program(name)}
}

// UnknownProgramError is returned for a program outside the supported set.
type UnknownProgramError struct {
	Program Program
}

func (e *UnknownProgramError) Error() string {
	return fmt.Sprintf("unrecognized loan program %q", string(e.Program))
}

// VAOptions carries the VA funding fee inputs.
type VAOptions struct {
	ExemptFromFundingFee bool `json:"exemptFromFundingFee" yaml:"exemptFromFundingFee"`
	FirstUseOfBenefit    bool `json:"firstUse" yaml:"firstUse"`
}

// Rules is the policy for one loan program. Percent values are expressed in
// percent units (3.5 means 3.5%).
type Rules interface {
	Program() Program
	// MinimumDownPayment is the lowest allowed down payment percent.
	MinimumDownPayment(firstTimeHomebuyer bool) decimal.Decimal
	// UpfrontFeePercent is the fee percent applied to the base loan amount.
	UpfrontFeePercent(downPaymentPercent decimal.Decimal, va VAOptions) decimal.Decimal
	// AnnualMortgageInsurancePercent is the annual MI/MIP/guarantee fee percent.
	AnnualMortgageInsurancePercent(ltvPercent decimal.Decimal, creditScore int) decimal.Decimal
	// MaxSellerConcessionPercent is the cap on seller concessions as a percent of price.
	MaxSellerConcessionPercent(downPaymentPercent decimal.Decimal) decimal.Decimal
}

var table = map[Program]Rules{
	Conventional: conventionalRules{},
	FHA:          fhaRules{},
	VA:           vaRules{},
	USDA:         usdaRules{},
}

// Lookup returns the rules for a program.
func Lookup(program Program) (Rules, error) {
	rules, ok := table[program]
	if !ok {
		return nil, &UnknownProgramError{Program: program}
	}
	return rules, nil
}

var monthsPerYear = decimal.NewFromInt(constants.MonthsPerYear)

// MinimumDownPayment returns the minimum down payment percent for a program.
func MinimumDownPayment(program Program, firstTimeHomebuyer bool) (decimal.Decimal, error) {
	rules, err := Lookup(program)
	if err != nil {
		return decimal.Zero, err
	}
	return rules.MinimumDownPayment(firstTimeHomebuyer), nil
}

// UpfrontFee returns the upfront fee (FHA UFMIP, VA funding fee, USDA guarantee
// fee) computed on the pre-fee base loan amount, rounded to cents.
func UpfrontFee(program Program, baseLoanAmount, downPaymentPercent decimal.Decimal, va VAOptions) (decimal.Decimal, error) {
	rules, err := Lookup(program)
	if err != nil {
		return decimal.Zero, err
	}
	return upfrontFee(rules, baseLoanAmount, downPaymentPercent, va), nil
}

// MonthlyMortgageInsurance returns the monthly insurance premium on the financed
// loan amount, rounded to cents.
func MonthlyMortgageInsurance(program Program, financedLoanAmount, ltvPercent decimal.Decimal, creditScore int) (decimal.Decimal, error) {
	rules, err := Lookup(program)
	if err != nil {
		return decimal.Zero, err
	}
	return monthlyMortgageInsurance(rules, financedLoanAmount, ltvPercent, creditScore), nil
}

// MaxSellerConcession returns the seller concession cap as a fraction of price
// (0.03 for 3%).
func MaxSellerConcession(program Program, downPaymentPercent decimal.Decimal) (decimal.Decimal, error) {
	rules, err := Lookup(program)
	if err != nil {
		return decimal.Zero, err
	}
	return mathutil.PercentToFraction(rules.MaxSellerConcessionPercent(downPaymentPercent)), nil
}

// Evaluator binds one program's rules so callers select the policy once per
// calculation.
type Evaluator struct {
	rules Rules
}

// NewEvaluator looks up the program and returns an evaluator for it.
func NewEvaluator(program Program) (*Evaluator, error) {
	rules, err := Lookup(program)
	if err != nil {
		return nil, err
	}
	return &Evaluator{rules: rules}, nil
}

// Program returns the bound program.
func (e *Evaluator) Program() Program {
	return e.rules.Program()
}

// MinimumDownPayment returns the minimum down payment percent.
func (e *Evaluator) MinimumDownPayment(firstTimeHomebuyer bool) decimal.Decimal {
	return e.rules.MinimumDownPayment(firstTimeHomebuyer)
}

// UpfrontFee returns the upfront fee on the base loan amount, rounded to cents.
func (e *Evaluator) UpfrontFee(baseLoanAmount, downPaymentPercent decimal.Decimal, va VAOptions) decimal.Decimal {
	return upfrontFee(e.rules, baseLoanAmount, downPaymentPercent, va)
}

// MonthlyMortgageInsurance returns the monthly premium, rounded to cents.
func (e *Evaluator) MonthlyMortgageInsurance(financedLoanAmount, ltvPercent decimal.Decimal, creditScore int) decimal.Decimal {
	return monthlyMortgageInsurance(e.rules, financedLoanAmount, ltvPercent, creditScore)
}

// MaxSellerConcession returns the seller concession cap as a fraction of price.
func (e *Evaluator) MaxSellerConcession(downPaymentPercent decimal.Decimal) decimal.Decimal {
	return mathutil.PercentToFraction(e.rules.MaxSellerConcessionPercent(downPaymentPercent))
}

func upfrontFee(rules Rules, baseLoanAmount, downPaymentPercent decimal.Decimal, va VAOptions) decimal.Decimal {
	return mathutil.Round(mathutil.ApplyPercentage(baseLoanAmount, rules.UpfrontFeePercent(downPaymentPercent, va)))
}

func monthlyMortgageInsurance(rules Rules, financedLoanAmount, ltvPercent decimal.Decimal, creditScore int) decimal.Decimal {
	annual := mathutil.ApplyPercentage(financedLoanAmount, rules.AnnualMortgageInsurancePercent(ltvPercent, creditScore))
	return mathutil.Round(annual.Div(monthsPerYear))
}
