// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/iwvelando/loan-estimate/internal/programs"
	"github.com/iwvelando/loan-estimate/internal/scenario"
	"github.com/iwvelando/loan-estimate/pkg/constants"
	"github.com/iwvelando/loan-estimate/pkg/validation"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// DefaultCondoQuestionnaireFee applies when the configuration does not set one.
var DefaultCondoQuestionnaireFee = decimal.NewFromInt(250)

// DefaultClosingCosts is the fixed-cost catalog used when none is configured.
var DefaultClosingCosts = []CostItem{
	{Label: "Credit Report", Amount: decimal.NewFromInt(120)},
	{Label: "Underwriter Fee", Amount: decimal.NewFromInt(1250)},
	{Label: "Flood/Tax Cert", Amount: decimal.NewFromInt(76)},
	{Label: "Appraisal Fee", Amount: decimal.NewFromInt(625)},
	{Label: "Lenders Title Insurance", Amount: decimal.RequireFromString("985.20")},
	{Label: "Closing Attorney", Amount: decimal.NewFromInt(925)},
	{Label: "Recording Fee", Amount: decimal.RequireFromString("351.86")},
}

// Configuration holds all configuration for loan-estimate.
type Configuration struct {
	Common    Common
	Scenarios []Scenario
	Logging   LoggingConfig `yaml:"logging,omitempty"`
	Output    OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// Common holds the closing cost policy and defaults shared by all scenarios.
type Common struct {
	CatalogVersion        string           `json:"catalogVersion,omitempty" yaml:"catalogVersion,omitempty"`
	ClosingCosts          []CostItem       `json:"closingCosts,omitempty" yaml:"closingCosts,omitempty"`
	CondoQuestionnaireFee *decimal.Decimal `json:"condoQuestionnaireFee,omitempty" yaml:"condoQuestionnaireFee,omitempty"`
	ClosingDate           string           `json:"closingDate,omitempty" yaml:"closingDate,omitempty"`
}

// CostItem is one labeled fixed closing cost.
type CostItem struct {
	Label  string          `json:"label" yaml:"label"`
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	err := v.Unmarshal(&configuration, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		decimalHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

// decimalHook decodes YAML numbers and numeric strings into decimal.Decimal.
func decimalHook(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != decimalType {
		return data, nil
	}
	switch v := data.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case uint64:
		return decimal.NewFromUint64(v), nil
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	}
	return data, nil
}

// Catalog resolves the closing cost catalog handed to the engine.
func (c Common) Catalog() scenario.ClosingCostCatalog {
	items := c.ClosingCosts
	version := c.CatalogVersion
	if len(items) == 0 {
		items = DefaultClosingCosts
		if version == "" {
			version = constants.DefaultCatalogVersion
		}
	}

	fee := DefaultCondoQuestionnaireFee
	if c.CondoQuestionnaireFee != nil {
		fee = *c.CondoQuestionnaireFee
	}

	catalog := scenario.ClosingCostCatalog{
		Version:               version,
		Items:                 make([]scenario.CostItem, len(items)),
		CondoQuestionnaireFee: fee,
	}
	for i, item := range items {
		catalog.Items[i] = scenario.CostItem{
			Label:  item.Label,
			Amount: item.Amount,
		}
	}
	return catalog
}

// ActiveScenarios returns the scenarios flagged active, in configuration order.
func (c *Configuration) ActiveScenarios() []Scenario {
	var active []Scenario
	for _, s := range c.Scenarios {
		if s.Active {
			active = append(active, s)
		}
	}
	return active
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	catalog := c.Common.Catalog()
	labels := make([]string, len(catalog.Items))
	for i, item := range catalog.Items {
		labels[i] = item.Label
	}

	var warnings []string
	var scenarios []validation.ScenarioConfig
	for _, s := range c.Scenarios {
		program, purpose, propertyType, err := s.resolve()
		if err != nil {
			if s.Active {
				warnings = append(warnings, fmt.Sprintf("Scenario '%s' cannot be computed: %s", s.Name, err))
			}
			continue
		}

		minimum, _ := programs.MinimumDownPayment(program, s.Borrower.FirstTimeHomebuyer)
		downs := make([]float64, len(s.DownPayments))
		for i, down := range s.DownPayments {
			downs[i] = down.InexactFloat64()
		}
		rates := make([]float64, len(s.Rates))
		for i, option := range s.Rates {
			rates[i] = option.Rate.InexactFloat64()
		}

		scenarios = append(scenarios, validation.ScenarioConfig{
			Name:               s.Name,
			Active:             s.Active,
			Program:            program.String(),
			Refinance:          purpose.IsRefinance(),
			PropertyType:       strings.ToLower(string(propertyType)),
			CondoFee:           s.CondoFee,
			MinimumDownPayment: minimum.InexactFloat64(),
			DownPayments:       downs,
			Rates:              rates,
		})
	}

	validator := validation.ConfigValidator{
		Common:    validation.CommonConfig{ClosingCostLabels: labels},
		Scenarios: scenarios,
	}
	return append(warnings, validator.ValidateAll()...)
}
