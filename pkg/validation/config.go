// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/loan-estimate/pkg/constants"
)

// ValidateRates flags rate options that look like data entry mistakes.
func ValidateRates(scenarioName string, rates []float64) []string {
	var warnings []string

	if len(rates) == 0 {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' has no rate options", scenarioName))
	}

	for _, rate := range rates {
		if rate > constants.RateWarningThreshold {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' rate %g%% exceeds %g%% - check that the rate is an annual percentage",
				scenarioName, rate, constants.RateWarningThreshold))
		}
	}

	return warnings
}

// ValidateDownPayments flags down payment options below the program minimum.
// Those pairs are still computed but reported as errors.
func ValidateDownPayments(scenarioName, program string, minimum float64, downPayments []float64) []string {
	var warnings []string

	for _, down := range downPayments {
		if down < minimum {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' down payment %g%% is below the %s minimum of %g%% - the option will be reported as an error",
				scenarioName, down, program, minimum))
		}
	}

	return warnings
}

// ConfigValidator checks a loaded configuration for suspicious but legal values.
type ConfigValidator struct {
	Common    CommonConfig
	Scenarios []ScenarioConfig
}

type CommonConfig struct {
	ClosingCostLabels []string
}

type ScenarioConfig struct {
	Name               string
	Active             bool
	Program            string
	Refinance          bool
	PropertyType       string
	CondoFee           bool
	MinimumDownPayment float64
	DownPayments       []float64
	Rates              []float64
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	seen := make(map[string]bool, len(cv.Common.ClosingCostLabels))
	for _, label := range cv.Common.ClosingCostLabels {
		key := strings.ToLower(label)
		if seen[key] {
			warnings = append(warnings, fmt.Sprintf("Closing cost '%s' is listed more than once", label))
		}
		seen[key] = true
	}

	active := 0
	for _, scenario := range cv.Scenarios {
		if !scenario.Active {
			continue
		}
		active++

		if !scenario.Refinance {
			if len(scenario.DownPayments) == 0 {
				warnings = append(warnings, fmt.Sprintf("Scenario '%s' has no down payment options", scenario.Name))
			}
			warnings = append(warnings, ValidateDownPayments(scenario.Name, scenario.Program, scenario.MinimumDownPayment, scenario.DownPayments)...)
		}
		warnings = append(warnings, ValidateRates(scenario.Name, scenario.Rates)...)

		if scenario.CondoFee && !strings.EqualFold(scenario.PropertyType, "condo") {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' applies the condo questionnaire fee to a %s property - the fee will be ignored",
				scenario.Name, scenario.PropertyType))
		}

		if len(scenario.DownPayments) > constants.MaxScenarioOptions || len(scenario.Rates) > constants.MaxScenarioOptions {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' has more than %d options in a list", scenario.Name, constants.MaxScenarioOptions))
		}
	}

	if active == 0 {
		warnings = append(warnings, "No active scenarios - set 'active: true' on at least one scenario")
	}

	return warnings
}
