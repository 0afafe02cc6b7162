// Package pricing implements the quote pricing engine: a strongly-typed
// pricing table validated once at load time, and a pure quote computation
// over it. The engine performs no I/O; persistence, checkout, and live
// exchange rates belong to the callers.
package pricing

import (
	"encoding/json"
	"fmt"
	"os"
)

// SubscriptionTerm defines a contract term and its duration in months.
type SubscriptionTerm struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Months int    `json:"months"`
}

// CameraTier is one per-camera price band. MaxCameras is the inclusive
// upper bound of the band; 0 marks the open-ended last tier. Core is the
// per-camera monthly price for the standard scenario set, AllScenarios the
// price when the everything package applies.
type CameraTier struct {
	Name         string  `json:"name"`
	MaxCameras   int     `json:"maxCameras"`
	Core         float64 `json:"pricePerCamera"`
	AllScenarios float64 `json:"priceAllScenarios"`
}

// BasePackage is the fixed one-time component of every quote.
type BasePackage struct {
	Name            string  `json:"name"`
	OneTimeCost     float64 `json:"oneTimeCost"`
	IncludedCameras int     `json:"includedCameras"`
}

// Scenario is one entry of the feature-scenario catalog.
type Scenario struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Table is the validated pricing configuration the engine operates on.
// It is read-only at computation time.
type Table struct {
	Terms          []SubscriptionTerm `json:"subscriptionTerms"`
	Tiers          []CameraTier       `json:"cameraTiers"`
	Base           BasePackage        `json:"basePackage"`
	Scenarios      []Scenario         `json:"scenarios"`
	InfraPerCamera float64            `json:"infrastructureCostPerCamera"`
	MaxDiscount    float64            `json:"maxDiscountPercentage"`
	BaseCurrency   string             `json:"baseCurrency"`
	// Static fallback rates relative to BaseCurrency, used when no live
	// rate has been fetched.
	CurrencyRates map[string]float64 `json:"currencyRates"`
}

// LoadTable reads and validates a pricing table document.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pricing table: %w", err)
	}

	var table Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse pricing table: %w", err)
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}

	return &table, nil
}

// Validate checks the structural invariants the engine depends on. It runs
// once at load; ComputeQuote assumes a valid table.
func (t *Table) Validate() error {
	if len(t.Terms) == 0 {
		return fmt.Errorf("pricing table has no subscription terms")
	}
	seen := make(map[string]bool, len(t.Terms))
	for _, term := range t.Terms {
		if term.ID == "" {
			return fmt.Errorf("subscription term with empty id")
		}
		if seen[term.ID] {
			return fmt.Errorf("duplicate subscription term %q", term.ID)
		}
		seen[term.ID] = true
		if term.Months <= 0 {
			return fmt.Errorf("subscription term %q has non-positive duration", term.ID)
		}
	}

	if len(t.Tiers) == 0 {
		return fmt.Errorf("pricing table has no camera tiers")
	}
	// Tiers must be ascending, mutually exclusive, and cover every positive
	// camera count: each bound strictly above the previous one, and exactly
	// the last tier open-ended.
	for i, tier := range t.Tiers {
		last := i == len(t.Tiers)-1
		if last {
			if tier.MaxCameras != 0 {
				return fmt.Errorf("last camera tier %q must be open-ended", tier.Name)
			}
		} else {
			if tier.MaxCameras <= 0 {
				return fmt.Errorf("camera tier %q has no upper bound", tier.Name)
			}
			if i > 0 && tier.MaxCameras <= t.Tiers[i-1].MaxCameras {
				return fmt.Errorf("camera tier %q overlaps the previous tier", tier.Name)
			}
		}
		if tier.Core < 0 || tier.AllScenarios < 0 {
			return fmt.Errorf("camera tier %q has negative prices", tier.Name)
		}
	}

	if t.Base.OneTimeCost < 0 {
		return fmt.Errorf("base package has negative cost")
	}
	if t.Base.IncludedCameras < 0 {
		return fmt.Errorf("base package has negative included cameras")
	}
	if t.MaxDiscount < 0 || t.MaxDiscount > 100 {
		return fmt.Errorf("max discount %v out of range", t.MaxDiscount)
	}
	for code, rate := range t.CurrencyRates {
		if rate <= 0 {
			return fmt.Errorf("currency %q has non-positive rate", code)
		}
	}

	return nil
}

// Term resolves a subscription term by id.
func (t *Table) Term(id string) (SubscriptionTerm, bool) {
	for _, term := range t.Terms {
		if term.ID == id {
			return term, true
		}
	}
	return SubscriptionTerm{}, false
}

// HasScenario reports whether the catalog contains the scenario id.
func (t *Table) HasScenario(id string) bool {
	for _, s := range t.Scenarios {
		if s.ID == id {
			return true
		}
	}
	return false
}

// TierFor resolves the camera tier whose band contains the count. Bounds
// are inclusive: a tier with MaxCameras 20 covers counts up to and
// including 20, and 21 falls into the next tier. Assumes a validated table
// and a non-negative count.
func (t *Table) TierFor(cameras int) CameraTier {
	for _, tier := range t.Tiers {
		if tier.MaxCameras == 0 || cameras <= tier.MaxCameras {
			return tier
		}
	}
	return t.Tiers[len(t.Tiers)-1]
}
