// Package constants provides shared constants for the loan-estimate application.
package constants

import "time"

// Date layouts accepted for the closing date. ClosingDateLayout is also the
// output layout.
const (
	ClosingDateLayout = "2006-01-02"

	// USClosingDateLayout is the MM/DD/YYYY form used on borrower worksheets.
	USClosingDateLayout = "01/02/2006"
)

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// LoanTermMonths is the fully amortizing term used for every scenario (30 years).
	LoanTermMonths = 360

	// InterimInterestDayBasis is the day-count basis for per-diem interest (30/360).
	InterimInterestDayBasis = 360

	// CentsPlaces is the number of decimal places kept for currency values.
	CentsPlaces = 2

	// PercentPlaces is the number of decimal places kept for ratio outputs such as LTV.
	PercentPlaces = 4

	// HomeownersPremiumMonths is the number of months of insurance prepaid at closing.
	HomeownersPremiumMonths = 12

	// PropertyTaxReserveMonths is the number of months of taxes reserved at closing.
	PropertyTaxReserveMonths = 6

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100
)

// Mortgage insurance cancellation
const (
	// DefaultMortgageInsuranceCutoff is the LTV (against original value) at which
	// conventional PMI is automatically terminated.
	DefaultMortgageInsuranceCutoff = 78
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultCatalogVersion labels the built-in closing cost catalog.
	DefaultCatalogVersion = "default"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultRequestTimeout bounds the handling time of a single API request
	DefaultRequestTimeout = 30 * time.Second
)

// Validation constants
const (
	// RateWarningThreshold is the annual rate (percent) above which a configuration warning is raised.
	RateWarningThreshold = 15.0

	// MaxScenarioOptions bounds each option list accepted by the API.
	MaxScenarioOptions = 25
)
