package scenario

import (
	"fmt"

	"github.com/iwvelando/loan-estimate/internal/programs"
	"github.com/iwvelando/loan-estimate/pkg/constants"
	"github.com/iwvelando/loan-estimate/pkg/datetime"
	"github.com/iwvelando/loan-estimate/pkg/loans"
	"github.com/iwvelando/loan-estimate/pkg/mathutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CondoQuestionnaireLabel is the closing cost label of the condo fee.
const CondoQuestionnaireLabel = "Condo Questionnaire"

var (
	homeownersPremiumMonths  = decimal.NewFromInt(constants.HomeownersPremiumMonths)
	propertyTaxReserveMonths = decimal.NewFromInt(constants.PropertyTaxReserveMonths)
	mortgageInsuranceCutoff  = decimal.NewFromInt(constants.DefaultMortgageInsuranceCutoff)
)

// Engine computes scenario results. It holds no per-request state, so one
// engine may serve concurrent requests.
type Engine struct {
	logger    *zap.Logger
	schedules *loans.AmortizationScheduleGenerator
}

// NewEngine creates a new engine instance
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		logger:    logger,
		schedules: loans.NewAmortizationScheduleGenerator(logger),
	}
}

// plan is the per-request state shared read-only by every pair.
type plan struct {
	req               Request
	rules             *programs.Evaluator
	interimDays       int
	propertyValue     decimal.Decimal
	closingCosts      []CostItem
	closingCostsTotal decimal.Decimal
}

func (e *Engine) newPlan(req Request) (*plan, error) {
	rules, err := programs.NewEvaluator(req.Program)
	if err != nil {
		return nil, configurationError("program", err)
	}

	p := &plan{
		req:         req,
		rules:       rules,
		interimDays: datetime.InterimDays(req.ClosingDate),
	}

	if req.Purpose == Purchase {
		p.propertyValue = req.Price
	} else {
		p.propertyValue = req.AppraisedValue
	}

	p.closingCosts = make([]CostItem, 0, len(req.ClosingCosts.Items)+1)
	p.closingCosts = append(p.closingCosts, req.ClosingCosts.Items...)
	if req.CondoFeeApplied && req.PropertyType == Condo {
		p.closingCosts = append(p.closingCosts, CostItem{
			Label:  CondoQuestionnaireLabel,
			Amount: req.ClosingCosts.CondoQuestionnaireFee,
		})
	}
	p.closingCostsTotal = decimal.Zero
	for _, item := range p.closingCosts {
		p.closingCostsTotal = p.closingCostsTotal.Add(item.Amount)
	}

	return p, nil
}

// Calculate validates the request and computes the single pair for the given
// down payment percent and rate option.
func (e *Engine) Calculate(req Request, downPaymentPercent decimal.Decimal, option RateCreditOption) (Result, error) {
	if err := Validate(req); err != nil {
		return Result{}, err
	}
	if downPaymentPercent.IsNegative() || downPaymentPercent.GreaterThan(hundredPercent) {
		return Result{}, invalidInput("downPaymentPercent", "down payment must be between 0 and 100 percent, got %s", downPaymentPercent)
	}
	if option.AnnualRatePercent.IsNegative() {
		return Result{}, invalidInput("rate", "interest rate must not be negative, got %s", option.AnnualRatePercent)
	}
	p, err := e.newPlan(req)
	if err != nil {
		return Result{}, err
	}
	return e.calculate(p, downPaymentPercent, option), nil
}

func (e *Engine) calculate(p *plan, downPaymentPercent decimal.Decimal, option RateCreditOption) Result {
	req := p.req
	result := Result{
		Label:              PairLabel(downPaymentPercent, option.AnnualRatePercent),
		DownPaymentPercent: downPaymentPercent,
		AnnualRatePercent:  option.AnnualRatePercent,
	}

	// The down payment minimum only constrains purchases.
	if req.Purpose == Purchase {
		minimum := p.rules.MinimumDownPayment(req.Borrower.FirstTimeHomebuyer)
		if downPaymentPercent.LessThan(minimum) {
			result.Error = belowMinimum(req.Program, downPaymentPercent, minimum)
			e.logger.Debug(fmt.Sprintf("%s: %s", result.Label, result.Error.Message),
				zap.String("op", "scenario.calculate"),
			)
			return result
		}
	}

	// Loan amounts and LTV.
	feeDownPaymentPercent := downPaymentPercent
	var ltv decimal.Decimal
	if req.Purpose == Purchase {
		result.DownPaymentAmount = mathutil.Round(mathutil.ApplyPercentage(req.Price, downPaymentPercent))
		result.BaseLoanAmount = req.Price.Sub(result.DownPaymentAmount)
		ltv = mathutil.CalculatePercentage(result.BaseLoanAmount, req.Price)
	} else {
		feeDownPaymentPercent = decimal.Zero
		result.DownPaymentAmount = decimal.Zero
		result.BaseLoanAmount = req.LoanAmount
		if p.propertyValue.IsPositive() {
			ltv = mathutil.CalculatePercentage(result.BaseLoanAmount, p.propertyValue)
		} else {
			ltv = hundredPercent
		}
	}
	result.LTVPercent = mathutil.RoundPercent(ltv)

	// The fee is computed on the pre-fee base and financed.
	result.UpfrontFee = p.rules.UpfrontFee(result.BaseLoanAmount, feeDownPaymentPercent, req.VA)
	result.LoanAmount = result.BaseLoanAmount.Add(result.UpfrontFee)

	// Monthly payment.
	result.MonthlyPrincipalInterest = mathutil.Round(loans.CalculateMonthlyPayment(
		result.LoanAmount, option.AnnualRatePercent, constants.LoanTermMonths))
	result.MonthlyMortgageInsurance = p.rules.MonthlyMortgageInsurance(result.LoanAmount, ltv, req.Borrower.CreditScore)
	if !req.Escrow.Waived {
		result.MonthlyTaxes = req.Escrow.MonthlyTaxes
		result.MonthlyInsurance = req.Escrow.MonthlyInsurance
	}
	result.MonthlyEscrow = result.MonthlyTaxes.Add(result.MonthlyInsurance)
	result.TotalMonthlyPayment = mathutil.Sum(
		result.MonthlyPrincipalInterest,
		result.MonthlyMortgageInsurance,
		result.MonthlyEscrow,
	)

	// Closing.
	result.ClosingCostsTotal = p.closingCostsTotal
	result.Prepaids = PrepaidItems{
		InterimInterest: mathutil.Round(loans.CalculateInterimInterest(
			result.LoanAmount, option.AnnualRatePercent, p.interimDays)),
		HomeownersPremium:  mathutil.Round(result.MonthlyInsurance.Mul(homeownersPremiumMonths)),
		PropertyTaxReserve: mathutil.Round(result.MonthlyTaxes.Mul(propertyTaxReserveMonths)),
	}
	result.PrepaidsTotal = result.Prepaids.Total()

	if req.Purpose == Purchase {
		maxCredit := req.Price.Mul(p.rules.MaxSellerConcession(downPaymentPercent))
		result.SellerCreditApplied = mathutil.Round(mathutil.Min(req.SellerConcession, maxCredit))
	}
	result.LenderCredit = option.LenderCredit
	if req.Purpose == CashOutRefinance {
		result.CashOut = req.CashOut
	}

	result.CashToClose = mathutil.Sum(
		result.DownPaymentAmount,
		result.ClosingCostsTotal,
		result.PrepaidsTotal,
		result.UpfrontFee,
	).Sub(result.SellerCreditApplied).Sub(result.LenderCredit).Sub(result.CashOut)

	e.applySchedule(p, &result, option)

	e.logger.Debug(fmt.Sprintf("%s: loan %s, payment %s, cash to close %s",
		result.Label, result.LoanAmount, result.TotalMonthlyPayment, result.CashToClose),
		zap.String("op", "scenario.calculate"),
	)
	return result
}

// scheduleTerms describes the pair's loan for amortization. Conventional PMI
// terminates at the automatic cutoff; FHA and USDA premiums run for the whole
// term.
func (p *plan) scheduleTerms(result Result, option RateCreditOption) loans.LoanTerms {
	terms := loans.LoanTerms{
		Name:                     result.Label,
		Principal:                result.LoanAmount,
		InterestRate:             option.AnnualRatePercent,
		Term:                     constants.LoanTermMonths,
		MonthlyMortgageInsurance: result.MonthlyMortgageInsurance,
	}
	if p.req.Program == programs.Conventional {
		terms.MortgageInsuranceCutoff = mortgageInsuranceCutoff
		terms.PropertyValue = p.propertyValue
	}
	return terms
}

// applySchedule fills the life-of-loan figures.
func (e *Engine) applySchedule(p *plan, result *Result, option RateCreditOption) {
	schedule, err := e.schedules.GenerateSchedule(p.scheduleTerms(*result, option))
	if err != nil {
		// Inputs are validated before this point.
		e.logger.Warn("failed to generate amortization schedule",
			zap.String("op", "scenario.applySchedule"),
			zap.String("pair", result.Label),
			zap.Error(err),
		)
		return
	}
	result.TotalInterest = loans.TotalInterest(schedule)
	result.MortgageInsuranceRemovalMonth = loans.MortgageInsuranceRemovalMonth(schedule)
}

// Schedule validates the request and returns the amortization schedule for
// one pair together with its result. A pair below the program minimum yields
// the error-tagged result and no schedule.
func (e *Engine) Schedule(req Request, downPaymentPercent decimal.Decimal, option RateCreditOption) (Result, []loans.Payment, error) {
	result, err := e.Calculate(req, downPaymentPercent, option)
	if err != nil {
		return Result{}, nil, err
	}
	if !result.Valid() {
		return result, nil, nil
	}

	p, err := e.newPlan(req)
	if err != nil {
		return Result{}, nil, err
	}
	schedule, err := e.schedules.GenerateSchedule(p.scheduleTerms(result, option))
	if err != nil {
		return Result{}, nil, fmt.Errorf("failed to generate schedule for %s: %w", result.Label, err)
	}
	return result, schedule, nil
}
