package pricing

import (
	"sort"
	"time"

	"github.com/visionify/partner-api/pkg/errors"
)

// CustomPricing carries caller-supplied unit prices that replace the
// table-derived ones outright. No blending: when enabled, the table's
// per-camera and infrastructure prices are ignored.
type CustomPricing struct {
	Tier1          float64 `json:"tier1"`
	Tier2          float64 `json:"tier2"`
	Tier3          float64 `json:"tier3"`
	Infrastructure float64 `json:"infrastructure"`
}

// Input is everything a quote computation depends on. The engine reads
// nothing else: identity, persistence, and live exchange rates are resolved
// by the caller beforehand.
type Input struct {
	ClientName    string
	ClientCompany string
	ClientEmail   string
	ClientAddress string
	ClientCity    string
	Date          time.Time

	TotalCameras       int
	SubscriptionType   string
	DiscountPercentage float64
	SelectedScenarios  []string
	// EverythingPackage switches to the all-scenario price list. It is also
	// implied when every catalog scenario is selected.
	EverythingPackage bool

	IncludeInfrastructure bool
	UseCustomPricing      bool
	CustomPricing         CustomPricing

	// One-time additions beyond the base package.
	IncludeEdgeServer bool
	EdgeServerCost    float64
	ImplementationFee float64
	TravelFee         float64
	SpeakerCost       float64

	ShowSecondCurrency bool
	SecondCurrency     string
	// ExchangeRate of 0 means "look up the table's static rate".
	ExchangeRate  float64
	RateUpdatedAt time.Time
}

// SecondCurrencyDetails carries the converted figures when a secondary
// display currency was requested. Values are full-precision; rounding is a
// presentation concern.
type SecondCurrencyDetails struct {
	Code                      string    `json:"code"`
	Rate                      float64   `json:"rate"`
	UpdatedAt                 time.Time `json:"updatedAt"`
	OneTimeCost               float64   `json:"oneTimeCost"`
	MonthlyRecurring          float64   `json:"monthlyRecurring"`
	AnnualRecurring           float64   `json:"annualRecurring"`
	DiscountAmount            float64   `json:"discountAmount"`
	DiscountedAnnualRecurring float64   `json:"discountedAnnualRecurring"`
	TotalContractValue        float64   `json:"totalContractValue"`
}

// QuoteDetails is the computed quote. It is ephemeral: persisting it is the
// caller's concern.
type QuoteDetails struct {
	ClientName    string    `json:"clientName"`
	ClientCompany string    `json:"clientCompany"`
	ClientEmail   string    `json:"clientEmail,omitempty"`
	ClientAddress string    `json:"clientAddress,omitempty"`
	ClientCity    string    `json:"clientCity,omitempty"`
	Date          time.Time `json:"date"`

	SubscriptionType   string   `json:"subscriptionType"`
	SubscriptionName   string   `json:"subscriptionName"`
	TotalCameras       int      `json:"totalCameras"`
	SelectedScenarios  []string `json:"selectedScenarios"`
	EverythingPackage  bool     `json:"everythingPackage"`
	DiscountPercentage float64  `json:"discountPercentage"`

	BaseCost        float64 `json:"baseCost"`
	OneTimeBaseCost float64 `json:"oneTimeBaseCost"`
	PerCameraPrice  float64 `json:"perCameraPrice"`
	TierName        string  `json:"tierName"`

	AdditionalCameras    int     `json:"additionalCameras"`
	AdditionalCameraCost float64 `json:"additionalCameraCost"`
	InfrastructureCost   float64 `json:"infrastructureCost"`

	MonthlyRecurring          float64 `json:"monthlyRecurring"`
	AnnualRecurring           float64 `json:"annualRecurring"`
	DiscountAmount            float64 `json:"discountAmount"`
	DiscountedAnnualRecurring float64 `json:"discountedAnnualRecurring"`
	ContractLengthMonths      int     `json:"contractLengthMonths"`
	TotalContractValue        float64 `json:"totalContractValue"`

	SecondCurrency *SecondCurrencyDetails `json:"secondCurrency,omitempty"`
}

// ComputeQuote derives the full quote from a validated table and an input.
// Pure computation: same input, same output, no side effects.
func ComputeQuote(table *Table, input Input) (*QuoteDetails, error) {
	if input.TotalCameras < 0 {
		return nil, &errors.ErrValidation{Field: "totalCameras", Message: "must not be negative"}
	}
	if input.DiscountPercentage < 0 {
		return nil, &errors.ErrValidation{Field: "discountPercentage", Message: "must not be negative"}
	}

	term, ok := table.Term(input.SubscriptionType)
	if !ok {
		return nil, &errors.ErrConfiguration{Field: "subscriptionType", Value: input.SubscriptionType}
	}
	for _, id := range input.SelectedScenarios {
		if !table.HasScenario(id) {
			return nil, &errors.ErrConfiguration{Field: "scenario", Value: id}
		}
	}

	everything := input.EverythingPackage ||
		(len(table.Scenarios) > 0 && len(dedupe(input.SelectedScenarios)) == len(table.Scenarios))

	tier := table.TierFor(input.TotalCameras)
	unitPrice := tier.Core
	if everything {
		unitPrice = tier.AllScenarios
	}
	infraPerCamera := table.InfraPerCamera
	if input.UseCustomPricing {
		unitPrice = customUnitPrice(table, input)
		infraPerCamera = input.CustomPricing.Infrastructure
	}

	discount := input.DiscountPercentage
	if discount > table.MaxDiscount {
		discount = table.MaxDiscount
	}

	additionalCameras := input.TotalCameras - table.Base.IncludedCameras
	if additionalCameras < 0 {
		additionalCameras = 0
	}
	additionalCameraCost := float64(additionalCameras) * unitPrice

	var infrastructureCost float64
	if input.IncludeInfrastructure {
		infrastructureCost = float64(input.TotalCameras) * infraPerCamera
	}

	monthlyRecurring := additionalCameraCost + infrastructureCost
	annualRecurring := monthlyRecurring * 12
	discountAmount := annualRecurring * discount / 100
	discountedAnnual := annualRecurring - discountAmount

	oneTime := table.Base.OneTimeCost
	if input.IncludeEdgeServer {
		oneTime += input.EdgeServerCost
	}
	oneTime += input.ImplementationFee + input.TravelFee + input.SpeakerCost

	// The discounted monthly-equivalent rate is held constant over the full
	// term; one-time costs are added once, never prorated.
	totalContractValue := oneTime + (discountedAnnual/12)*float64(term.Months)

	details := &QuoteDetails{
		ClientName:    input.ClientName,
		ClientCompany: input.ClientCompany,
		ClientEmail:   input.ClientEmail,
		ClientAddress: input.ClientAddress,
		ClientCity:    input.ClientCity,
		Date:          input.Date,

		SubscriptionType:   term.ID,
		SubscriptionName:   term.Name,
		TotalCameras:       input.TotalCameras,
		SelectedScenarios:  dedupe(input.SelectedScenarios),
		EverythingPackage:  everything,
		DiscountPercentage: discount,

		BaseCost:        table.Base.OneTimeCost,
		OneTimeBaseCost: oneTime,
		PerCameraPrice:  unitPrice,
		TierName:        tier.Name,

		AdditionalCameras:    additionalCameras,
		AdditionalCameraCost: additionalCameraCost,
		InfrastructureCost:   infrastructureCost,

		MonthlyRecurring:          monthlyRecurring,
		AnnualRecurring:           annualRecurring,
		DiscountAmount:            discountAmount,
		DiscountedAnnualRecurring: discountedAnnual,
		ContractLengthMonths:      term.Months,
		TotalContractValue:        totalContractValue,
	}

	if input.ShowSecondCurrency {
		second, err := convertSecondCurrency(table, input, details)
		if err != nil {
			return nil, err
		}
		details.SecondCurrency = second
	}

	return details, nil
}

func convertSecondCurrency(table *Table, input Input, d *QuoteDetails) (*SecondCurrencyDetails, error) {
	rate := input.ExchangeRate
	updatedAt := input.RateUpdatedAt
	if rate == 0 {
		staticRate, ok := table.CurrencyRates[input.SecondCurrency]
		if !ok {
			return nil, &errors.ErrConfiguration{Field: "currency", Value: input.SecondCurrency}
		}
		rate = staticRate
	}
	if updatedAt.IsZero() {
		updatedAt = input.Date
	}

	return &SecondCurrencyDetails{
		Code:                      input.SecondCurrency,
		Rate:                      rate,
		UpdatedAt:                 updatedAt,
		OneTimeCost:               d.OneTimeBaseCost * rate,
		MonthlyRecurring:          d.MonthlyRecurring * rate,
		AnnualRecurring:           d.AnnualRecurring * rate,
		DiscountAmount:            d.DiscountAmount * rate,
		DiscountedAnnualRecurring: d.DiscountedAnnualRecurring * rate,
		TotalContractValue:        d.TotalContractValue * rate,
	}, nil
}

// customUnitPrice picks the caller override matching the tier the camera
// count falls into. Overrides mirror the three-tier table layout.
func customUnitPrice(table *Table, input Input) float64 {
	idx := 0
	for i, tier := range table.Tiers {
		if tier.MaxCameras == 0 || input.TotalCameras <= tier.MaxCameras {
			idx = i
			break
		}
		idx = i
	}
	switch idx {
	case 0:
		return input.CustomPricing.Tier1
	case 1:
		return input.CustomPricing.Tier2
	default:
		return input.CustomPricing.Tier3
	}
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
