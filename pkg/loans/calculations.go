// Package loans provides common loan processing utilities.
package loans

import (
	"fmt"

	"github.com/iwvelando/loan-estimate/pkg/constants"
	"github.com/iwvelando/loan-estimate/pkg/mathutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// powPlaces bounds the precision kept for (1+r)^n.
const powPlaces = 24

var (
	one            = decimal.NewFromInt(1)
	monthlyDivisor = decimal.NewFromInt(constants.PercentageMultiplier * constants.MonthsPerYear)
	dayBasis       = decimal.NewFromInt(constants.InterimInterestDayBasis)
)

// Payment holds the values for a given payment.
type Payment struct {
	Month              int             `json:"month"`
	Payment            decimal.Decimal `json:"payment"`
	Principal          decimal.Decimal `json:"principal"`
	Interest           decimal.Decimal `json:"interest"`
	MortgageInsurance  decimal.Decimal `json:"mortgageInsurance"`
	RemainingPrincipal decimal.Decimal `json:"remainingPrincipal"`
}

// PeriodicRate converts an annual percentage rate to the monthly rate fraction.
func PeriodicRate(annualInterestRate decimal.Decimal) decimal.Decimal {
	return annualInterestRate.Div(monthlyDivisor)
}

// CalculateMonthlyPayment calculates the monthly principal and interest for a
// fully amortizing loan using the standard amortization formula. The result is
// not rounded.
func CalculateMonthlyPayment(principal, annualInterestRate decimal.Decimal, termMonths int) decimal.Decimal {
	if termMonths <= 0 {
		return decimal.Zero
	}
	n := decimal.NewFromInt(int64(termMonths))
	r := PeriodicRate(annualInterestRate)
	if r.IsZero() {
		// For zero interest, simply divide the principal by term
		return principal.Div(n)
	}

	power := one.Add(r).Pow(n).Truncate(powPlaces)
	growth := power.Sub(one)
	if !growth.IsPositive() {
		// Rates too small to register at this precision amortize like zero.
		return principal.Div(n)
	}
	return principal.Mul(r).Mul(power).Div(growth)
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate decimal.Decimal) decimal.Decimal {
	return remainingPrincipal.Mul(PeriodicRate(annualInterestRate))
}

// CalculateInterimInterest calculates per-diem interest collected at closing on
// a 30/360 day basis for the given number of days.
func CalculateInterimInterest(loanAmount, annualInterestRate decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	daily := mathutil.PercentToFraction(annualInterestRate).Mul(loanAmount).Div(dayBasis)
	return daily.Mul(decimal.NewFromInt(int64(days)))
}

// LoanTerms describes the loan an amortization schedule is generated for.
type LoanTerms struct {
	Name                     string
	Principal                decimal.Decimal
	InterestRate             decimal.Decimal
	Term                     int // months
	MonthlyMortgageInsurance decimal.Decimal
	// MortgageInsuranceCutoff is the LTV percent against PropertyValue at or
	// below which mortgage insurance stops. Zero keeps it for the whole term.
	MortgageInsuranceCutoff decimal.Decimal
	PropertyValue           decimal.Decimal
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// GenerateSchedule creates a complete amortization schedule for a loan. Every
// value in the schedule is rounded to cents; the final payment absorbs the
// rounding remainder so the loan ends at exactly zero.
func (g *AmortizationScheduleGenerator) GenerateSchedule(loan LoanTerms) ([]Payment, error) {
	if loan.Term <= 0 {
		return nil, fmt.Errorf("loan %s: term must be positive, got %d", loan.Name, loan.Term)
	}
	if loan.Principal.IsNegative() {
		return nil, fmt.Errorf("loan %s: principal must not be negative, got %s", loan.Name, loan.Principal)
	}
	if loan.InterestRate.IsNegative() {
		return nil, fmt.Errorf("loan %s: interest rate must not be negative, got %s", loan.Name, loan.InterestRate)
	}

	monthlyPayment := mathutil.Round(CalculateMonthlyPayment(loan.Principal, loan.InterestRate, loan.Term))
	useCutoff := loan.MortgageInsuranceCutoff.IsPositive() && loan.PropertyValue.IsPositive()
	insuranceActive := loan.MonthlyMortgageInsurance.IsPositive()

	schedule := make([]Payment, 0, loan.Term)
	remaining := loan.Principal
	for month := 1; month <= loan.Term && remaining.IsPositive(); month++ {
		var current Payment
		current.Month = month
		current.Interest = mathutil.Round(CalculateInterestPayment(remaining, loan.InterestRate))
		current.Principal = monthlyPayment.Sub(current.Interest)
		if month == loan.Term || current.Principal.GreaterThanOrEqual(remaining) {
			current.Principal = remaining
		}
		remaining = remaining.Sub(current.Principal)
		current.RemainingPrincipal = remaining

		if insuranceActive {
			current.MortgageInsurance = loan.MonthlyMortgageInsurance
		}
		current.Payment = current.Principal.Add(current.Interest).Add(current.MortgageInsurance)
		schedule = append(schedule, current)

		if insuranceActive && useCutoff {
			ltv := mathutil.CalculatePercentage(remaining, loan.PropertyValue)
			if ltv.LessThanOrEqual(loan.MortgageInsuranceCutoff) {
				g.logger.Debug(fmt.Sprintf("month %d: mortgage insurance removed for loan %s at %s%% LTV",
					month, loan.Name, mathutil.RoundPercent(ltv)),
					zap.String("op", "loans.GenerateSchedule"),
				)
				insuranceActive = false
			}
		}
	}

	return schedule, nil
}

// TotalInterest sums the interest paid over a schedule.
func TotalInterest(schedule []Payment) decimal.Decimal {
	total := decimal.Zero
	for _, payment := range schedule {
		total = total.Add(payment.Interest)
	}
	return total
}

// MortgageInsuranceRemovalMonth returns the first month that no longer carries
// mortgage insurance after an insured month, or 0 if insurance never stops
// (or never applied).
func MortgageInsuranceRemovalMonth(schedule []Payment) int {
	insured := false
	for _, payment := range schedule {
		if payment.MortgageInsurance.IsPositive() {
			insured = true
			continue
		}
		if insured {
			return payment.Month
		}
	}
	return 0
}
