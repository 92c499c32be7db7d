package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/loan-estimate/pkg/constants"
	"github.com/shopspring/decimal"
)

const testConfigPath = "../../test/test_config.yaml"

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Test fixture",
			configPath: testConfigPath,
			wantError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationStructure(t *testing.T) {
	config, err := LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if config.Logging.Level != "info" || config.Logging.Format != "console" {
		t.Errorf("Logging = %+v", config.Logging)
	}
	if config.Output.Format != constants.OutputFormatPretty {
		t.Errorf("Output.Format = %q", config.Output.Format)
	}

	if config.Common.CatalogVersion != "test-2025" {
		t.Errorf("CatalogVersion = %q", config.Common.CatalogVersion)
	}
	if config.Common.ClosingDate != "2025-06-15" {
		t.Errorf("ClosingDate = %q", config.Common.ClosingDate)
	}
	if len(config.Common.ClosingCosts) != 2 {
		t.Fatalf("expected 2 closing costs, got %d", len(config.Common.ClosingCosts))
	}
	if config.Common.ClosingCosts[1].Label != "Title Insurance" || !config.Common.ClosingCosts[1].Amount.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("ClosingCosts[1] = %+v", config.Common.ClosingCosts[1])
	}
	if config.Common.CondoQuestionnaireFee == nil || !config.Common.CondoQuestionnaireFee.Equal(decimal.NewFromInt(300)) {
		t.Errorf("CondoQuestionnaireFee = %v, expected 300", config.Common.CondoQuestionnaireFee)
	}

	if len(config.Scenarios) != 4 {
		t.Fatalf("expected 4 scenarios, got %d", len(config.Scenarios))
	}

	conventional := config.Scenarios[0]
	if conventional.Name != "conventional purchase" || !conventional.Active {
		t.Errorf("Scenarios[0] = %s active=%v", conventional.Name, conventional.Active)
	}
	if conventional.Borrower.CreditScore != 700 || conventional.Borrower.FirstTimeHomebuyer {
		t.Errorf("Borrower = %+v", conventional.Borrower)
	}
	if len(conventional.DownPayments) != 3 || !conventional.DownPayments[2].Equal(decimal.NewFromInt(20)) {
		t.Errorf("DownPayments = %v", conventional.DownPayments)
	}
	if len(conventional.Rates) != 2 || conventional.Rates[1].Rate.String() != "6.875" || !conventional.Rates[1].Credit.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("Rates = %+v", conventional.Rates)
	}

	if !config.Scenarios[1].CondoFee || !config.Scenarios[1].SellerConcession.Equal(decimal.NewFromInt(25000)) {
		t.Errorf("Scenarios[1] = %+v", config.Scenarios[1])
	}
	if !config.Scenarios[2].CashOut.Equal(decimal.NewFromInt(50000)) || !config.Scenarios[2].AppraisedValue.Equal(decimal.NewFromInt(250000)) {
		t.Errorf("Scenarios[2] = %+v", config.Scenarios[2])
	}
	if config.Scenarios[3].Active || !config.Scenarios[3].VA.FirstUse {
		t.Errorf("Scenarios[3] = %+v", config.Scenarios[3])
	}

	if active := config.ActiveScenarios(); len(active) != 3 {
		t.Errorf("ActiveScenarios() returned %d, expected 3", len(active))
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	raw := `
common:
  closingDate: "07/01/2025"
scenarios:
  - name: reader
    active: true
    program: usda
    price: 250000
    downPayments: [0]
    rates:
      - rate: 6.25
`
	config, err := LoadConfigurationFromReader(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if len(config.Scenarios) != 1 || config.Scenarios[0].Program != "usda" {
		t.Fatalf("Scenarios = %+v", config.Scenarios)
	}

	if _, err := LoadConfigurationFromReader(strings.NewReader("scenarios: [unterminated")); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}

func TestLoadConfigurationTempFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte("output:\n  format: json\nscenarios: []\n")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	config, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if config.Output.Format != constants.OutputFormatJSON {
		t.Errorf("Output.Format = %q, expected json", config.Output.Format)
	}
}

func TestCatalogDefaults(t *testing.T) {
	catalog := Common{}.Catalog()

	if catalog.Version != constants.DefaultCatalogVersion {
		t.Errorf("Version = %q, expected %q", catalog.Version, constants.DefaultCatalogVersion)
	}
	if len(catalog.Items) != len(DefaultClosingCosts) {
		t.Fatalf("expected %d items, got %d", len(DefaultClosingCosts), len(catalog.Items))
	}
	total := decimal.Zero
	for _, item := range catalog.Items {
		total = total.Add(item.Amount)
	}
	if !total.Equal(decimal.RequireFromString("4333.06")) {
		t.Errorf("default catalog total = %s, expected 4333.06", total)
	}
	if !catalog.CondoQuestionnaireFee.Equal(decimal.NewFromInt(250)) {
		t.Errorf("CondoQuestionnaireFee = %s, expected 250", catalog.CondoQuestionnaireFee)
	}

	zero := decimal.Zero
	custom := Common{
		ClosingCosts:          []CostItem{{Label: "Appraisal Fee", Amount: decimal.NewFromInt(700)}},
		CondoQuestionnaireFee: &zero,
	}.Catalog()
	if custom.Version != "" {
		t.Errorf("custom catalog Version = %q, expected empty", custom.Version)
	}
	if len(custom.Items) != 1 || !custom.CondoQuestionnaireFee.IsZero() {
		t.Errorf("custom catalog = %+v", custom)
	}
}

func TestValidateConfiguration(t *testing.T) {
	config, err := LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	warnings := config.ValidateConfiguration()
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0], "below the Conventional minimum") {
		t.Errorf("unexpected warning: %s", warnings[0])
	}
}

func TestValidateConfigurationUnknownProgram(t *testing.T) {
	config := Configuration{
		Scenarios: []Scenario{
			{Name: "jumbo", Active: true, Program: "Jumbo", Rates: []RateOption{{Rate: decimal.NewFromInt(7)}}},
			{Name: "ok", Active: true, Program: "VA", DownPayments: []decimal.Decimal{decimal.Zero}, Rates: []RateOption{{Rate: decimal.NewFromInt(6)}}},
		},
	}

	warnings := config.ValidateConfiguration()
	if len(warnings) != 1 || !strings.Contains(warnings[0], "Scenario 'jumbo' cannot be computed") {
		t.Errorf("ValidateConfiguration() = %v", warnings)
	}
}

func TestExampleConfiguration(t *testing.T) {
	config, err := LoadConfiguration(filepath.Join("..", "..", constants.ExampleConfigFile))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if warnings := config.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("example configuration should be clean, got %v", warnings)
	}

	for _, s := range config.Scenarios {
		if _, err := s.ToRequest(config.Common); err != nil {
			t.Errorf("ToRequest(%s) error = %v", s.Name, err)
		}
	}

	catalog := config.Common.Catalog()
	total := decimal.Zero
	for _, item := range catalog.Items {
		total = total.Add(item.Amount)
	}
	if !total.Equal(decimal.RequireFromString("4333.06")) {
		t.Errorf("example catalog total = %s, expected 4333.06", total)
	}
}
