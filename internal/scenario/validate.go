package scenario

import (
	"fmt"

	"github.com/iwvelando/loan-estimate/internal/programs"
	"github.com/shopspring/decimal"
)

var hundredPercent = decimal.NewFromInt(100)

// Validate rejects malformed requests before any computation. Down payments
// below the program minimum are not request errors; they are reported per pair.
func Validate(req Request) error {
	if _, err := programs.Lookup(req.Program); err != nil {
		return configurationError("program", err)
	}
	switch req.Purpose {
	case Purchase, RateTermRefinance, CashOutRefinance:
	default:
		return configurationError("purpose", fmt.Errorf("unrecognized loan purpose %q", string(req.Purpose)))
	}
	switch req.PropertyType {
	case Attached, Detached, Manufactured, Condo:
	default:
		return configurationError("propertyType", fmt.Errorf("unrecognized property type %q", string(req.PropertyType)))
	}

	if req.Price.IsNegative() {
		return invalidInput("price", "price must not be negative, got %s", req.Price)
	}
	if req.SellerConcession.IsNegative() {
		return invalidInput("sellerConcession", "seller concession must not be negative, got %s", req.SellerConcession)
	}
	if req.Purpose == Purchase {
		if !req.Price.IsPositive() {
			return invalidInput("price", "purchase price must be positive, got %s", req.Price)
		}
		if req.SellerConcession.GreaterThan(req.Price) {
			return invalidInput("sellerConcession", "seller concession %s exceeds price %s", req.SellerConcession, req.Price)
		}
	} else {
		if !req.LoanAmount.IsPositive() {
			return invalidInput("loanAmount", "refinance loan amount must be positive, got %s", req.LoanAmount)
		}
		if req.AppraisedValue.IsNegative() {
			return invalidInput("appraisedValue", "appraised value must not be negative, got %s", req.AppraisedValue)
		}
	}
	if len(req.DownPaymentPercents) == 0 {
		return invalidInput("downPayments", "at least one down payment option is required")
	}

	if req.CashOut.IsNegative() {
		return invalidInput("cashOut", "cash out must not be negative, got %s", req.CashOut)
	}
	if req.Borrower.CreditScore < 0 {
		return invalidInput("borrower.creditScore", "credit score must not be negative, got %d", req.Borrower.CreditScore)
	}
	if req.Escrow.MonthlyTaxes.IsNegative() {
		return invalidInput("escrow.monthlyTaxes", "monthly taxes must not be negative, got %s", req.Escrow.MonthlyTaxes)
	}
	if req.Escrow.MonthlyInsurance.IsNegative() {
		return invalidInput("escrow.monthlyInsurance", "monthly insurance must not be negative, got %s", req.Escrow.MonthlyInsurance)
	}
	if !req.ClosingDate.IsValid() {
		return invalidInput("closingDate", "closing date %q is not a valid date", req.ClosingDate.String())
	}

	for i, down := range req.DownPaymentPercents {
		if down.IsNegative() || down.GreaterThan(hundredPercent) {
			return invalidInput(fmt.Sprintf("downPayments[%d]", i), "down payment must be between 0 and 100 percent, got %s", down)
		}
	}

	if len(req.RateOptions) == 0 {
		return invalidInput("rates", "at least one rate option is required")
	}
	for i, option := range req.RateOptions {
		if option.AnnualRatePercent.IsNegative() {
			return invalidInput(fmt.Sprintf("rates[%d].rate", i), "interest rate must not be negative, got %s", option.AnnualRatePercent)
		}
	}

	for i, item := range req.ClosingCosts.Items {
		if item.Label == "" {
			return invalidInput(fmt.Sprintf("closingCosts[%d].label", i), "closing cost label is required")
		}
	}
	if req.ClosingCosts.CondoQuestionnaireFee.IsNegative() {
		return invalidInput("closingCosts.condoQuestionnaireFee", "condo questionnaire fee must not be negative, got %s",
			req.ClosingCosts.CondoQuestionnaireFee)
	}

	return nil
}
