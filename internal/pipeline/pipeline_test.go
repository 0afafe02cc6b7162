package pipeline_test

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/visionify/partner-api/internal/domain"
	"github.com/visionify/partner-api/internal/pipeline"
)

var (
	partnerA = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	partnerB = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

func resolver(id uuid.UUID) string {
	switch id {
	case partnerA:
		return "Acme Integrations"
	case partnerB:
		return "Borealis Security"
	default:
		return "Unknown partner"
	}
}

func sampleDeals() []domain.Deal {
	return []domain.Deal{
		{ID: uuid.New(), PartnerID: &partnerA, Status: domain.DealStatusNew, CustomerName: "Warehouse One", ContactName: "Dana Reeves", OpportunityAmount: 1000},
		{ID: uuid.New(), PartnerID: &partnerA, Status: domain.DealStatusWon, CustomerName: "Port Authority", ContactName: "Sam Okafor", OpportunityAmount: 5000},
		{ID: uuid.New(), PartnerID: &partnerB, Status: domain.DealStatusLost, CustomerName: "Mill Works", ContactName: "Rita Chen", OpportunityAmount: 2500},
		{ID: uuid.New(), PartnerID: nil, Status: domain.DealStatusFirstCall, CustomerName: "Grain Co", ContactName: "Lee Park", OpportunityAmount: 750},
		{ID: uuid.New(), PartnerID: &partnerB, Status: domain.DealStatusLater, CustomerName: "Harbor Foods", ContactName: "Ivan Petrov", OpportunityAmount: 1200},
	}
}

func TestFilterDealsStatusAllExcludesLost(t *testing.T) {
	rq := require.New(t)

	deals := sampleDeals()
	out := pipeline.FilterDeals(deals, pipeline.Filters{SelectedStatus: pipeline.StatusAll}, resolver, true)

	rq.Len(out, 4)
	for _, d := range out {
		rq.NotEqual(domain.DealStatusLost, d.Status)
	}

	// Lost deals appear only when asked for explicitly.
	lost := pipeline.FilterDeals(deals, pipeline.Filters{SelectedStatus: string(domain.DealStatusLost)}, resolver, true)
	rq.Len(lost, 1)
	rq.Equal("Mill Works", lost[0].CustomerName)
}

func TestFilterDealsPartnerDimension(t *testing.T) {
	rq := require.New(t)
	deals := sampleDeals()

	testCases := []struct {
		name       string
		selected   string
		privileged bool
		want       int
	}{
		{name: "all partners", selected: pipeline.PartnerAll, privileged: true, want: 4},
		{name: "specific partner", selected: partnerA.String(), privileged: true, want: 2},
		{name: "unassigned", selected: pipeline.PartnerUnassigned, privileged: true, want: 1},
		{name: "partner filter ignored for non-privileged", selected: partnerA.String(), privileged: false, want: 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := pipeline.FilterDeals(deals, pipeline.Filters{SelectedPartner: tc.selected}, resolver, tc.privileged)
			rq.Len(out, tc.want)
		})
	}
}

func TestFilterDealsSearch(t *testing.T) {
	rq := require.New(t)
	deals := sampleDeals()

	// Customer and contact names match for everyone, case-insensitively.
	out := pipeline.FilterDeals(deals, pipeline.Filters{SearchQuery: "  WAREHOUSE "}, resolver, false)
	rq.Len(out, 1)
	rq.Equal("Warehouse One", out[0].CustomerName)

	out = pipeline.FilterDeals(deals, pipeline.Filters{SearchQuery: "okafor"}, resolver, false)
	rq.Len(out, 1)

	// The resolved partner label only matches for privileged callers.
	out = pipeline.FilterDeals(deals, pipeline.Filters{SearchQuery: "acme"}, resolver, true)
	rq.Len(out, 2)

	out = pipeline.FilterDeals(deals, pipeline.Filters{SearchQuery: "acme"}, resolver, false)
	rq.Empty(out)
}

func TestFilterDealsPreservesOrderAndIsIdempotent(t *testing.T) {
	rq := require.New(t)
	deals := sampleDeals()
	filters := pipeline.Filters{SelectedStatus: pipeline.StatusAll}

	once := pipeline.FilterDeals(deals, filters, resolver, true)
	twice := pipeline.FilterDeals(once, filters, resolver, true)
	rq.Equal(once, twice)

	for i := 1; i < len(once); i++ {
		rq.True(indexOf(deals, once[i-1].ID) < indexOf(deals, once[i].ID))
	}
}

func indexOf(deals []domain.Deal, id uuid.UUID) int {
	for i, d := range deals {
		if d.ID == id {
			return i
		}
	}
	return -1
}

func TestComputeStatsBuckets(t *testing.T) {
	rq := require.New(t)

	stats := pipeline.ComputeStats(sampleDeals())

	rq.Equal(5, stats.Total)
	rq.Equal(1, stats.New.Count)
	rq.Equal(1, stats.FirstCall.Count)
	rq.Equal(1, stats.Won.Count)
	rq.Equal(1, stats.Lost.Count)
	rq.Equal(1, stats.Later.Count)
	rq.Equal(0, stats.MoreCalls.Count)
	rq.Equal(0, stats.Approved.Count)

	rq.InDelta(10450.0, stats.TotalAmount, 1e-9)
	// Pipeline value is everything except lost.
	rq.InDelta(stats.TotalAmount-stats.Lost.Amount, stats.TotalPipelineValue, 1e-9)

	bucketCounts := stats.New.Count + stats.FirstCall.Count + stats.MoreCalls.Count +
		stats.Approved.Count + stats.Won.Count + stats.Lost.Count + stats.Later.Count
	rq.Equal(stats.Total, bucketCounts)
}

func TestComputeStatsUnknownStatusOnlyInTotal(t *testing.T) {
	rq := require.New(t)

	deals := []domain.Deal{
		{Status: domain.DealStatusNew, OpportunityAmount: 100},
		{Status: domain.DealStatus("archived"), OpportunityAmount: 999},
	}

	stats := pipeline.ComputeStats(deals)

	rq.Equal(2, stats.Total)
	rq.Equal(1, stats.New.Count)
	rq.InDelta(100.0, stats.TotalAmount, 1e-9)
	rq.InDelta(100.0, stats.TotalPipelineValue, 1e-9)
}

func TestComputeStatsNaNAmountCountsAsZero(t *testing.T) {
	rq := require.New(t)

	deals := []domain.Deal{
		{Status: domain.DealStatusApproved, OpportunityAmount: math.NaN()},
		{Status: domain.DealStatusApproved, OpportunityAmount: 300},
	}

	stats := pipeline.ComputeStats(deals)

	rq.Equal(2, stats.Approved.Count)
	rq.InDelta(300.0, stats.Approved.Amount, 1e-9)
	rq.InDelta(300.0, stats.TotalAmount, 1e-9)
}

func TestComputeStatsEmpty(t *testing.T) {
	rq := require.New(t)

	stats := pipeline.ComputeStats(nil)
	rq.Equal(0, stats.Total)
	rq.Zero(stats.TotalAmount)
	rq.Zero(stats.TotalPipelineValue)
}
