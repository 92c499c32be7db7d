package programs

import "github.com/shopspring/decimal"

func pct(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Canonical rate table. FHA annual MIP uses the 0.55%/0.50% LTV split and the
// VA funding fee is tiered by down payment band.
var (
	conventionalFirstTimeMinimum = pct("3")
	conventionalMinimum          = pct("5")
	conventionalPMIPercent       = pct("0.62")
	conventionalPMICreditFactor  = pct("0.85")
	conventionalPMILTVThreshold  = pct("80")
	conventionalPMICreditScore   = 740

	fhaMinimum            = pct("3.5")
	fhaUpfrontPercent     = pct("1.75")
	fhaHighLTVMIPPercent  = pct("0.55")
	fhaLowLTVMIPPercent   = pct("0.50")
	fhaHighLTVThreshold   = pct("90")
	fhaConcessionPercent  = pct("6")
	vaConcessionPercent   = pct("4")
	usdaUpfrontPercent    = pct("1.0")
	usdaAnnualFeePercent  = pct("0.35")
	usdaConcessionPercent = pct("6")

	vaFirstUseUnderFive       = pct("2.15")
	vaSubsequentUnderFive     = pct("3.3")
	vaFiveToTen               = pct("1.5")
	vaTenOrMore               = pct("1.25")
	downPaymentBandFive       = pct("5")
	downPaymentBandTen        = pct("10")
	downPaymentBandTwentyFive = pct("25")

	conventionalConcessionLow  = pct("3")
	conventionalConcessionMid  = pct("6")
	conventionalConcessionHigh = pct("9")
)

type conventionalRules struct{}

func (conventionalRules) Program() Program { return Conventional }

func (conventionalRules) MinimumDownPayment(firstTimeHomebuyer bool) decimal.Decimal {
	if firstTimeHomebuyer {
		return conventionalFirstTimeMinimum
	}
	return conventionalMinimum
}

func (conventionalRules) UpfrontFeePercent(decimal.Decimal, VAOptions) decimal.Decimal {
	return decimal.Zero
}

func (conventionalRules) AnnualMortgageInsurancePercent(ltvPercent decimal.Decimal, creditScore int) decimal.Decimal {
	if !ltvPercent.GreaterThan(conventionalPMILTVThreshold) {
		return decimal.Zero
	}
	if creditScore >= conventionalPMICreditScore {
		return conventionalPMIPercent.Mul(conventionalPMICreditFactor)
	}
	return conventionalPMIPercent
}

func (conventionalRules) MaxSellerConcessionPercent(downPaymentPercent decimal.Decimal) decimal.Decimal {
	switch {
	case downPaymentPercent.LessThan(downPaymentBandTen):
		return conventionalConcessionLow
	case downPaymentPercent.LessThanOrEqual(downPaymentBandTwentyFive):
		return conventionalConcessionMid
	default:
		return conventionalConcessionHigh
	}
}

type fhaRules struct{}

func (fhaRules) Program() Program { return FHA }

func (fhaRules) MinimumDownPayment(bool) decimal.Decimal { return fhaMinimum }

func (fhaRules) UpfrontFeePercent(decimal.Decimal, VAOptions) decimal.Decimal {
	return fhaUpfrontPercent
}

func (fhaRules) AnnualMortgageInsurancePercent(ltvPercent decimal.Decimal, _ int) decimal.Decimal {
	if ltvPercent.GreaterThanOrEqual(fhaHighLTVThreshold) {
		return fhaHighLTVMIPPercent
	}
	return fhaLowLTVMIPPercent
}

func (fhaRules) MaxSellerConcessionPercent(decimal.Decimal) decimal.Decimal {
	return fhaConcessionPercent
}

type vaRules struct{}

func (vaRules) Program() Program { return VA }

func (vaRules) MinimumDownPayment(bool) decimal.Decimal { return decimal.Zero }

func (vaRules) UpfrontFeePercent(downPaymentPercent decimal.Decimal, va VAOptions) decimal.Decimal {
	if va.ExemptFromFundingFee {
		return decimal.Zero
	}
	switch {
	case downPaymentPercent.LessThan(downPaymentBandFive):
		if va.FirstUseOfBenefit {
			return vaFirstUseUnderFive
		}
		return vaSubsequentUnderFive
	case downPaymentPercent.LessThan(downPaymentBandTen):
		return vaFiveToTen
	default:
		return vaTenOrMore
	}
}

// VA loans never carry monthly mortgage insurance.
func (vaRules) AnnualMortgageInsurancePercent(decimal.Decimal, int) decimal.Decimal {
	return decimal.Zero
}

func (vaRules) MaxSellerConcessionPercent(decimal.Decimal) decimal.Decimal {
	return vaConcessionPercent
}

type usdaRules struct{}

func (usdaRules) Program() Program { return USDA }

func (usdaRules) MinimumDownPayment(bool) decimal.Decimal { return decimal.Zero }

func (usdaRules) UpfrontFeePercent(decimal.Decimal, VAOptions) decimal.Decimal {
	return usdaUpfrontPercent
}

func (usdaRules) AnnualMortgageInsurancePercent(decimal.Decimal, int) decimal.Decimal {
	return usdaAnnualFeePercent
}

func (usdaRules) MaxSellerConcessionPercent(decimal.Decimal) decimal.Decimal {
	return usdaConcessionPercent
}
