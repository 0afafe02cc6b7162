package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/visionify/partner-api/internal/pricing"
)

func validTable() *pricing.Table {
	return &pricing.Table{
		Terms: []pricing.SubscriptionTerm{
			{ID: "monthly", Name: "Monthly", Months: 1},
			{ID: "yearly", Name: "Yearly", Months: 12},
			{ID: "threeYear", Name: "3 Year", Months: 36},
		},
		Tiers: []pricing.CameraTier{
			{Name: "1-20 cameras", MaxCameras: 20, Core: 40, AllScenarios: 50},
			{Name: "21-100 cameras", MaxCameras: 100, Core: 30, AllScenarios: 40},
			{Name: "101+ cameras", MaxCameras: 0, Core: 25, AllScenarios: 35},
		},
		Base: pricing.BasePackage{Name: "Starter Package", OneTimeCost: 5000, IncludedCameras: 0},
		Scenarios: []pricing.Scenario{
			{ID: "ppe-compliance", Name: "PPE Compliance"},
			{ID: "area-controls", Name: "Area Controls"},
			{ID: "smoke-and-fire", Name: "Smoke and Fire"},
		},
		InfraPerCamera: 10,
		MaxDiscount:    30,
		BaseCurrency:   "USD",
		CurrencyRates:  map[string]float64{"EUR": 0.92, "INR": 83.1},
	}
}

func TestTableValidate(t *testing.T) {
	rq := require.New(t)

	rq.NoError(validTable().Validate())

	testCases := []struct {
		name   string
		mutate func(*pricing.Table)
	}{
		{name: "no terms", mutate: func(tb *pricing.Table) { tb.Terms = nil }},
		{name: "duplicate term", mutate: func(tb *pricing.Table) { tb.Terms[1].ID = "monthly" }},
		{name: "zero months", mutate: func(tb *pricing.Table) { tb.Terms[0].Months = 0 }},
		{name: "no tiers", mutate: func(tb *pricing.Table) { tb.Tiers = nil }},
		{name: "last tier bounded", mutate: func(tb *pricing.Table) { tb.Tiers[2].MaxCameras = 500 }},
		{name: "tier overlap", mutate: func(tb *pricing.Table) { tb.Tiers[1].MaxCameras = 20 }},
		{name: "negative tier price", mutate: func(tb *pricing.Table) { tb.Tiers[0].Core = -1 }},
		{name: "negative base cost", mutate: func(tb *pricing.Table) { tb.Base.OneTimeCost = -1 }},
		{name: "discount over 100", mutate: func(tb *pricing.Table) { tb.MaxDiscount = 150 }},
		{name: "non-positive rate", mutate: func(tb *pricing.Table) { tb.CurrencyRates["EUR"] = 0 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tb := validTable()
			tc.mutate(tb)
			require.Error(t, tb.Validate())
		})
	}
}

func TestTierForInclusiveBounds(t *testing.T) {
	rq := require.New(t)
	tb := validTable()

	rq.Equal("1-20 cameras", tb.TierFor(0).Name)
	rq.Equal("1-20 cameras", tb.TierFor(20).Name)
	rq.Equal("21-100 cameras", tb.TierFor(21).Name)
	rq.Equal("21-100 cameras", tb.TierFor(100).Name)
	rq.Equal("101+ cameras", tb.TierFor(101).Name)
	rq.Equal("101+ cameras", tb.TierFor(100000).Name)
}

func TestTermAndScenarioLookup(t *testing.T) {
	rq := require.New(t)
	tb := validTable()

	term, ok := tb.Term("yearly")
	rq.True(ok)
	rq.Equal(12, term.Months)

	_, ok = tb.Term("weekly")
	rq.False(ok)

	rq.True(tb.HasScenario("ppe-compliance"))
	rq.False(tb.HasScenario("time-travel"))
}

func TestLoadTableDefaultConfig(t *testing.T) {
	rq := require.New(t)

	tb, err := pricing.LoadTable("../../config/pricing.json")
	rq.NoError(err)
	rq.Equal("USD", tb.BaseCurrency)
	rq.NotEmpty(tb.Scenarios)
	rq.Equal(0, tb.Tiers[len(tb.Tiers)-1].MaxCameras)
}

func TestLoadTableMissingFile(t *testing.T) {
	_, err := pricing.LoadTable("does-not-exist.json")
	require.Error(t, err)
}
