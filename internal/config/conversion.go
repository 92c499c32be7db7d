package config

import (
	"fmt"

	"github.com/iwvelando/loan-estimate/internal/programs"
	"github.com/iwvelando/loan-estimate/internal/scenario"
	"github.com/iwvelando/loan-estimate/pkg/datetime"
	"github.com/shopspring/decimal"
)

func (s Scenario) resolve() (programs.Program, scenario.Purpose, scenario.PropertyType, error) {
	program, err := programs.ParseProgram(s.Program)
	if err != nil {
		return "", "", "", configurationError("program", err)
	}
	purpose, err := scenario.ParsePurpose(s.Purpose)
	if err != nil {
		return "", "", "", configurationError("purpose", err)
	}
	propertyType, err := scenario.ParsePropertyType(s.PropertyType)
	if err != nil {
		return "", "", "", configurationError("propertyType", err)
	}
	return program, purpose, propertyType, nil
}

// ToRequest converts a configured scenario into an engine request, taking the
// closing cost catalog and default closing date from common.
func (s Scenario) ToRequest(common Common) (scenario.Request, error) {
	program, purpose, propertyType, err := s.resolve()
	if err != nil {
		return scenario.Request{}, err
	}

	closingDate := s.ClosingDate
	if closingDate == "" {
		closingDate = common.ClosingDate
	}
	if closingDate == "" {
		return scenario.Request{}, &scenario.Error{
			Kind:    scenario.KindInvalidInput,
			Field:   "closingDate",
			Message: "closing date is required",
		}
	}
	date, err := datetime.ParseClosingDate(closingDate)
	if err != nil {
		return scenario.Request{}, &scenario.Error{
			Kind:    scenario.KindInvalidInput,
			Field:   "closingDate",
			Message: fmt.Sprintf("closing date %q is not a valid date", closingDate),
			Cause:   err,
		}
	}

	req := scenario.Request{
		Program:      program,
		Purpose:      purpose,
		PropertyType: propertyType,
		Price:        s.Price,
		LoanAmount:   s.LoanAmount,
		// Zero leaves the refinance LTV at 100%.
		AppraisedValue: s.AppraisedValue,
		ClosingDate:    date,
		Borrower: scenario.BorrowerProfile{
			Name:               s.Borrower.Name,
			CreditScore:        s.Borrower.CreditScore,
			FirstTimeHomebuyer: s.Borrower.FirstTimeHomebuyer,
		},
		Escrow: scenario.EscrowPolicy{
			Waived:           s.Escrow.Waived,
			MonthlyTaxes:     s.Escrow.MonthlyTaxes,
			MonthlyInsurance: s.Escrow.MonthlyInsurance,
		},
		SellerConcession: s.SellerConcession,
		CondoFeeApplied:  s.CondoFee,
		CashOut:          s.CashOut,
		VA: programs.VAOptions{
			ExemptFromFundingFee: s.VA.ExemptFromFundingFee,
			FirstUseOfBenefit:    s.VA.FirstUse,
		},
		ClosingCosts: common.Catalog(),
	}

	req.DownPaymentPercents = append([]decimal.Decimal(nil), s.DownPayments...)
	if len(req.DownPaymentPercents) == 0 && purpose.IsRefinance() {
		// A refinance has no down payment; price it as a single 0% option.
		req.DownPaymentPercents = []decimal.Decimal{decimal.Zero}
	}
	req.RateOptions = make([]scenario.RateCreditOption, len(s.Rates))
	for i, option := range s.Rates {
		req.RateOptions[i] = option.Option()
	}

	return req, nil
}

// Option converts the rate quote into an engine rate option.
func (o RateOption) Option() scenario.RateCreditOption {
	return scenario.RateCreditOption{
		AnnualRatePercent: o.Rate,
		LenderCredit:      o.Credit,
	}
}

func configurationError(field string, cause error) *scenario.Error {
	return &scenario.Error{
		Kind:    scenario.KindConfiguration,
		Field:   field,
		Message: "unsupported value",
		Cause:   cause,
	}
}
