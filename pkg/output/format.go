// Package output provides utilities for formatting and displaying scenario results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/iwvelando/loan-estimate/internal/scenario"
	"github.com/iwvelando/loan-estimate/pkg/constants"
	"github.com/iwvelando/loan-estimate/pkg/format"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Estimate is a named batch ready for rendering.
type Estimate struct {
	Name  string          `json:"name"`
	Batch *scenario.Batch `json:"batch"`
}

// Write renders estimates in the given output format.
func Write(w io.Writer, outputFormat string, estimates []Estimate) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, estimates)
	case constants.OutputFormatCSV:
		return CsvFormat(w, estimates)
	case constants.OutputFormatJSON:
		return JSONFormat(w, estimates)
	}
	return fmt.Errorf("unsupported output format %q", outputFormat)
}

type row struct {
	label string
	cell  func(scenario.Result) string
}

func money(get func(scenario.Result) decimal.Decimal) func(scenario.Result) string {
	return func(r scenario.Result) string {
		return format.Currency(get(r))
	}
}

var (
	paymentRows = []row{
		{"Down Payment", money(func(r scenario.Result) decimal.Decimal { return r.DownPaymentAmount })},
		{"Base Loan Amount", money(func(r scenario.Result) decimal.Decimal { return r.BaseLoanAmount })},
		{"Upfront Fee", money(func(r scenario.Result) decimal.Decimal { return r.UpfrontFee })},
		{"Loan Amount", money(func(r scenario.Result) decimal.Decimal { return r.LoanAmount })},
		{"LTV", func(r scenario.Result) string { return format.Percent(r.LTVPercent) }},
		{"Principal & Interest", money(func(r scenario.Result) decimal.Decimal { return r.MonthlyPrincipalInterest })},
		{"Mortgage Insurance", money(func(r scenario.Result) decimal.Decimal { return r.MonthlyMortgageInsurance })},
		{"Taxes", money(func(r scenario.Result) decimal.Decimal { return r.MonthlyTaxes })},
		{"Insurance", money(func(r scenario.Result) decimal.Decimal { return r.MonthlyInsurance })},
		{"Total Payment", money(func(r scenario.Result) decimal.Decimal { return r.TotalMonthlyPayment })},
	}

	prepaidRows = []row{
		{"Interim Interest", money(func(r scenario.Result) decimal.Decimal { return r.Prepaids.InterimInterest })},
		{"Homeowners Premium", money(func(r scenario.Result) decimal.Decimal { return r.Prepaids.HomeownersPremium })},
		{"Property Tax Reserve", money(func(r scenario.Result) decimal.Decimal { return r.Prepaids.PropertyTaxReserve })},
		{"Prepaids Total", money(func(r scenario.Result) decimal.Decimal { return r.PrepaidsTotal })},
	}

	summaryRows = []row{
		{"Closing Costs", money(func(r scenario.Result) decimal.Decimal { return r.ClosingCostsTotal })},
		{"Prepaids", money(func(r scenario.Result) decimal.Decimal { return r.PrepaidsTotal })},
		{"Seller Credit", money(func(r scenario.Result) decimal.Decimal { return r.SellerCreditApplied.Neg() })},
		{"Lender Credit", money(func(r scenario.Result) decimal.Decimal { return r.LenderCredit.Neg() })},
		{"Cash Out", money(func(r scenario.Result) decimal.Decimal { return r.CashOut.Neg() })},
		{"Cash to Close", money(func(r scenario.Result) decimal.Decimal { return r.CashToClose })},
		{"Total Interest", money(func(r scenario.Result) decimal.Decimal { return r.TotalInterest })},
		{"PMI Removed", func(r scenario.Result) string {
			if r.MortgageInsuranceRemovalMonth == 0 {
				return "-"
			}
			return "month " + strconv.Itoa(r.MortgageInsuranceRemovalMonth)
		}},
	}
)

// PrettyFormat outputs a human-readable rather than machine-readable table
// with one column per option.
func PrettyFormat(w io.Writer, estimates []Estimate) error {
	p := message.NewPrinter(language.English)
	for i, estimate := range estimates {
		batch := estimate.Batch
		_, _ = p.Fprintf(w, "--- Results for scenario %s ---\n", estimate.Name)
		_, _ = p.Fprintf(w, "%s %s | %s | property value %s | closing %s (%d interim days)\n",
			batch.Program, batch.Purpose, batch.PropertyType, format.Currency(batch.PropertyValue),
			batch.ClosingDate, batch.InterimDays)
		if batch.CatalogVersion != "" {
			_, _ = p.Fprintf(w, "closing cost catalog %s\n", batch.CatalogVersion)
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		writeRow := func(label string, cell func(scenario.Result) string) {
			cells := make([]string, len(batch.Results))
			for j, result := range batch.Results {
				if result.Valid() {
					cells[j] = cell(result)
				} else {
					cells[j] = "-"
				}
			}
			_, _ = p.Fprintf(tw, "%s\t%s\t\n", label, strings.Join(cells, "\t"))
		}
		writeSection := func(title string) {
			_, _ = p.Fprintf(tw, "%s\t%s\t\n", strings.ToUpper(title), strings.Join(make([]string, len(batch.Results)), "\t"))
		}

		labels := make([]string, len(batch.Results))
		statuses := make([]string, len(batch.Results))
		for j, result := range batch.Results {
			labels[j] = result.Label
			statuses[j] = "ok"
			if !result.Valid() {
				statuses[j] = "error"
				if result.Error.RequiredMinimum != nil {
					statuses[j] = "min " + format.Percent(*result.Error.RequiredMinimum) + " down"
				}
			}
		}
		_, _ = p.Fprintf(tw, "Option\t%s\t\n", strings.Join(labels, "\t"))
		_, _ = p.Fprintf(tw, "Status\t%s\t\n", strings.Join(statuses, "\t"))

		writeSection("Monthly Payment")
		for _, r := range paymentRows {
			writeRow(r.label, r.cell)
		}

		writeSection("Closing Costs")
		for _, item := range batch.ClosingCosts {
			amount := format.Currency(item.Amount)
			writeRow(item.Label, func(scenario.Result) string { return amount })
		}
		writeRow("Closing Costs Total", money(func(r scenario.Result) decimal.Decimal { return r.ClosingCostsTotal }))

		writeSection("Pre-paid Items")
		for _, r := range prepaidRows {
			writeRow(r.label, r.cell)
		}

		writeSection("Transaction Summary")
		for _, r := range summaryRows {
			writeRow(r.label, r.cell)
		}

		if err := tw.Flush(); err != nil {
			return fmt.Errorf("failed to write results for %s: %w", estimate.Name, err)
		}
		if i < len(estimates)-1 {
			_, _ = fmt.Fprintf(w, "\n")
		}
	}
	return nil
}

var csvHeader = []string{
	"scenario", "option", "down payment percent", "rate", "error",
	"down payment", "base loan amount", "upfront fee", "loan amount", "ltv percent",
	"principal and interest", "mortgage insurance", "taxes", "insurance", "total payment",
	"closing costs", "interim interest", "homeowners premium", "property tax reserve", "prepaids",
	"seller credit", "lender credit", "cash out", "cash to close", "total interest", "pmi removal month",
}

// CsvFormat outputs in comma-separated value format, one row per option.
func CsvFormat(w io.Writer, estimates []Estimate) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, estimate := range estimates {
		for _, result := range estimate.Batch.Results {
			record := []string{
				estimate.Name,
				result.Label,
				result.DownPaymentPercent.String(),
				result.AnnualRatePercent.String(),
			}
			if !result.Valid() {
				record = append(record, result.Error.Message)
				for len(record) < len(csvHeader) {
					record = append(record, "")
				}
			} else {
				record = append(record, "")
				for _, value := range []decimal.Decimal{
					result.DownPaymentAmount, result.BaseLoanAmount, result.UpfrontFee, result.LoanAmount,
				} {
					record = append(record, value.StringFixed(2))
				}
				record = append(record, result.LTVPercent.String())
				for _, value := range []decimal.Decimal{
					result.MonthlyPrincipalInterest, result.MonthlyMortgageInsurance, result.MonthlyTaxes,
					result.MonthlyInsurance, result.TotalMonthlyPayment, result.ClosingCostsTotal,
					result.Prepaids.InterimInterest, result.Prepaids.HomeownersPremium,
					result.Prepaids.PropertyTaxReserve, result.PrepaidsTotal, result.SellerCreditApplied,
					result.LenderCredit, result.CashOut, result.CashToClose, result.TotalInterest,
				} {
					record = append(record, value.StringFixed(2))
				}
				record = append(record, strconv.Itoa(result.MortgageInsuranceRemovalMonth))
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// CsvString renders estimates as CSV into a string.
func CsvString(estimates []Estimate) (string, error) {
	var builder strings.Builder
	if err := CsvFormat(&builder, estimates); err != nil {
		return "", err
	}
	return builder.String(), nil
}

// JSONFormat outputs the estimates as indented JSON.
func JSONFormat(w io.Writer, estimates []Estimate) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(estimates)
}
