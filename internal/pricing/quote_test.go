package pricing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/visionify/partner-api/internal/pricing"
	apperrors "github.com/visionify/partner-api/pkg/errors"
)

func baseInput() pricing.Input {
	return pricing.Input{
		ClientName:       "Jordan Li",
		ClientCompany:    "Northside Logistics",
		Date:             time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		TotalCameras:     25,
		SubscriptionType: "yearly",
	}
}

func TestComputeQuoteMidTier(t *testing.T) {
	rq := require.New(t)

	quote, err := pricing.ComputeQuote(validTable(), baseInput())
	rq.NoError(err)

	rq.Equal("21-100 cameras", quote.TierName)
	rq.InDelta(30.0, quote.PerCameraPrice, 1e-9)
	rq.Equal(25, quote.AdditionalCameras)
	rq.InDelta(750.0, quote.MonthlyRecurring, 1e-9)
	rq.InDelta(9000.0, quote.AnnualRecurring, 1e-9)
	rq.InDelta(9000.0, quote.DiscountedAnnualRecurring, 1e-9)
	rq.Equal(12, quote.ContractLengthMonths)
	// One-time base plus twelve months at the discounted monthly rate.
	rq.InDelta(5000.0+9000.0, quote.TotalContractValue, 1e-9)
}

func TestComputeQuoteZeroCameras(t *testing.T) {
	rq := require.New(t)

	input := baseInput()
	input.TotalCameras = 0

	quote, err := pricing.ComputeQuote(validTable(), input)
	rq.NoError(err)
	rq.Equal(0, quote.AdditionalCameras)
	rq.Zero(quote.MonthlyRecurring)
	rq.Zero(quote.AnnualRecurring)
	rq.InDelta(5000.0, quote.TotalContractValue, 1e-9)
}

func TestComputeQuoteIncludedCameras(t *testing.T) {
	rq := require.New(t)

	tb := validTable()
	tb.Base.IncludedCameras = 10

	input := baseInput()
	input.TotalCameras = 8

	quote, err := pricing.ComputeQuote(tb, input)
	rq.NoError(err)
	rq.Equal(0, quote.AdditionalCameras)
	rq.Zero(quote.MonthlyRecurring)

	input.TotalCameras = 15
	quote, err = pricing.ComputeQuote(tb, input)
	rq.NoError(err)
	rq.Equal(5, quote.AdditionalCameras)
	rq.InDelta(5*40.0, quote.MonthlyRecurring, 1e-9)
}

func TestComputeQuoteValidation(t *testing.T) {
	rq := require.New(t)
	tb := validTable()

	input := baseInput()
	input.TotalCameras = -1
	_, err := pricing.ComputeQuote(tb, input)
	rq.Error(err)
	_, ok := err.(*apperrors.ErrValidation)
	rq.True(ok, "expected validation error, got %T", err)

	input = baseInput()
	input.DiscountPercentage = -5
	_, err = pricing.ComputeQuote(tb, input)
	_, ok = err.(*apperrors.ErrValidation)
	rq.True(ok, "expected validation error, got %T", err)

	input = baseInput()
	input.SubscriptionType = "weekly"
	_, err = pricing.ComputeQuote(tb, input)
	_, ok = err.(*apperrors.ErrConfiguration)
	rq.True(ok, "expected configuration error, got %T", err)

	input = baseInput()
	input.SelectedScenarios = []string{"ppe-compliance", "bogus"}
	_, err = pricing.ComputeQuote(tb, input)
	_, ok = err.(*apperrors.ErrConfiguration)
	rq.True(ok, "expected configuration error, got %T", err)
}

func TestComputeQuoteDiscountClampedToTableMax(t *testing.T) {
	rq := require.New(t)

	input := baseInput()
	input.DiscountPercentage = 50

	quote, err := pricing.ComputeQuote(validTable(), input)
	rq.NoError(err)
	rq.InDelta(30.0, quote.DiscountPercentage, 1e-9)
	rq.InDelta(9000.0*0.30, quote.DiscountAmount, 1e-9)
	rq.InDelta(9000.0*0.70, quote.DiscountedAnnualRecurring, 1e-9)
}

func TestComputeQuoteDiscountMonotonicity(t *testing.T) {
	rq := require.New(t)
	tb := validTable()

	prev := -1.0
	for _, pct := range []float64{0, 5, 10, 20, 30} {
		input := baseInput()
		input.DiscountPercentage = pct
		quote, err := pricing.ComputeQuote(tb, input)
		rq.NoError(err)
		if prev >= 0 {
			rq.LessOrEqual(quote.TotalContractValue, prev)
		}
		prev = quote.TotalContractValue
	}
}

func TestComputeQuoteEverythingPackage(t *testing.T) {
	rq := require.New(t)
	tb := validTable()

	input := baseInput()
	input.EverythingPackage = true
	quote, err := pricing.ComputeQuote(tb, input)
	rq.NoError(err)
	rq.True(quote.EverythingPackage)
	rq.InDelta(40.0, quote.PerCameraPrice, 1e-9)

	// Selecting every catalog scenario implies the everything package.
	input = baseInput()
	input.SelectedScenarios = []string{"ppe-compliance", "area-controls", "smoke-and-fire", "ppe-compliance"}
	quote, err = pricing.ComputeQuote(tb, input)
	rq.NoError(err)
	rq.True(quote.EverythingPackage)
	rq.InDelta(40.0, quote.PerCameraPrice, 1e-9)
	// Duplicates collapse in the output.
	rq.Len(quote.SelectedScenarios, 3)

	// A partial selection stays on the core price list.
	input = baseInput()
	input.SelectedScenarios = []string{"ppe-compliance"}
	quote, err = pricing.ComputeQuote(tb, input)
	rq.NoError(err)
	rq.False(quote.EverythingPackage)
	rq.InDelta(30.0, quote.PerCameraPrice, 1e-9)
}

func TestComputeQuoteInfrastructure(t *testing.T) {
	rq := require.New(t)

	input := baseInput()
	input.IncludeInfrastructure = true

	quote, err := pricing.ComputeQuote(validTable(), input)
	rq.NoError(err)
	rq.InDelta(25*10.0, quote.InfrastructureCost, 1e-9)
	rq.InDelta(750.0+250.0, quote.MonthlyRecurring, 1e-9)
}

func TestComputeQuoteCustomPricing(t *testing.T) {
	rq := require.New(t)

	input := baseInput()
	input.IncludeInfrastructure = true
	input.UseCustomPricing = true
	input.CustomPricing = pricing.CustomPricing{Tier1: 20, Tier2: 18, Tier3: 15, Infrastructure: 4}

	quote, err := pricing.ComputeQuote(validTable(), input)
	rq.NoError(err)
	// 25 cameras fall into the second tier, so the Tier2 override applies.
	rq.InDelta(18.0, quote.PerCameraPrice, 1e-9)
	rq.InDelta(25*18.0, quote.AdditionalCameraCost, 1e-9)
	rq.InDelta(25*4.0, quote.InfrastructureCost, 1e-9)
}

func TestComputeQuoteOneTimeAdditions(t *testing.T) {
	rq := require.New(t)

	input := baseInput()
	input.IncludeEdgeServer = true
	input.EdgeServerCost = 1500
	input.ImplementationFee = 800
	input.TravelFee = 200
	input.SpeakerCost = 120

	quote, err := pricing.ComputeQuote(validTable(), input)
	rq.NoError(err)
	rq.InDelta(5000+1500+800+200+120, quote.OneTimeBaseCost, 1e-9)
	// One-time costs are added once, never multiplied by the term.
	rq.InDelta(quote.OneTimeBaseCost+quote.DiscountedAnnualRecurring, quote.TotalContractValue, 1e-9)
}

func TestComputeQuoteSecondCurrency(t *testing.T) {
	rq := require.New(t)
	tb := validTable()

	// Static table rate when no live rate is supplied.
	input := baseInput()
	input.ShowSecondCurrency = true
	input.SecondCurrency = "INR"

	quote, err := pricing.ComputeQuote(tb, input)
	rq.NoError(err)
	rq.NotNil(quote.SecondCurrency)
	rq.InDelta(83.1, quote.SecondCurrency.Rate, 1e-9)
	rq.InDelta(quote.TotalContractValue*83.1, quote.SecondCurrency.TotalContractValue, 1e-9)
	rq.InDelta(quote.MonthlyRecurring*83.1, quote.SecondCurrency.MonthlyRecurring, 1e-9)

	// An explicit live rate wins over the table.
	input.ExchangeRate = 84.25
	input.RateUpdatedAt = time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	quote, err = pricing.ComputeQuote(tb, input)
	rq.NoError(err)
	rq.InDelta(84.25, quote.SecondCurrency.Rate, 1e-9)
	rq.Equal(input.RateUpdatedAt, quote.SecondCurrency.UpdatedAt)

	// Unknown currency with no explicit rate is a configuration error.
	input = baseInput()
	input.ShowSecondCurrency = true
	input.SecondCurrency = "XYZ"
	_, err = pricing.ComputeQuote(tb, input)
	rq.Error(err)
	_, ok := err.(*apperrors.ErrConfiguration)
	rq.True(ok, "expected configuration error, got %T", err)
}

func TestComputeQuoteDeterministic(t *testing.T) {
	rq := require.New(t)
	tb := validTable()
	input := baseInput()
	input.SelectedScenarios = []string{"smoke-and-fire", "ppe-compliance"}

	a, err := pricing.ComputeQuote(tb, input)
	rq.NoError(err)
	b, err := pricing.ComputeQuote(tb, input)
	rq.NoError(err)
	rq.Equal(a, b)
}
