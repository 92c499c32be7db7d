package testutil

import (
	"testing"

	"github.com/iwvelando/loan-estimate/internal/scenario"
	"github.com/iwvelando/loan-estimate/pkg/output"
	"github.com/shopspring/decimal"
)

func TestFindEstimate(t *testing.T) {
	estimates := []output.Estimate{
		{Name: "Scenario A", Batch: &scenario.Batch{CatalogVersion: "a"}},
		{Name: "Scenario B", Batch: &scenario.Batch{CatalogVersion: "b"}},
		{Name: "Another Scenario", Batch: &scenario.Batch{CatalogVersion: "c"}},
	}

	tests := []struct {
		name            string
		searchName      string
		expectFound     bool
		expectedVersion string
	}{
		{
			name:            "Find existing scenario A",
			searchName:      "Scenario A",
			expectFound:     true,
			expectedVersion: "a",
		},
		{
			name:            "Find scenario with longer name",
			searchName:      "Another Scenario",
			expectFound:     true,
			expectedVersion: "c",
		},
		{
			name:        "Search for non-existent scenario",
			searchName:  "Non-existent",
			expectFound: false,
		},
		{
			name:        "Case sensitive search",
			searchName:  "scenario a",
			expectFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := FindEstimate(estimates, tt.searchName)
			if !tt.expectFound {
				if found != nil {
					t.Errorf("FindEstimate(%q) = %+v, expected nil", tt.searchName, found)
				}
				return
			}
			if found == nil {
				t.Fatalf("FindEstimate(%q) returned nil", tt.searchName)
			}
			if found.Batch.CatalogVersion != tt.expectedVersion {
				t.Errorf("FindEstimate(%q) returned batch %q, expected %q", tt.searchName, found.Batch.CatalogVersion, tt.expectedVersion)
			}
		})
	}

	// The pointer refers into the slice.
	FindEstimate(estimates, "Scenario B").Name = "Renamed"
	if estimates[1].Name != "Renamed" {
		t.Error("FindEstimate should return a pointer into the slice")
	}
}

func TestRequireResult(t *testing.T) {
	batch := &scenario.Batch{Results: []scenario.Result{
		{Label: "10% @ 6.500%", CashToClose: decimal.RequireFromString("35000.5")},
	}}

	result := RequireResult(t, batch, "10% @ 6.500%")
	AssertMoney(t, "CashToClose", result.CashToClose, "35000.50")
}
