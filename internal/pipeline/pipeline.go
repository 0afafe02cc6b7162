// Package pipeline implements the deal pipeline engine: filtering a deal
// list by free-text search, assigned partner, and status, and aggregating
// counts and opportunity amounts per status bucket. Both operations are pure
// functions over a snapshot; they read no ambient state and write nothing.
package pipeline

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/visionify/partner-api/internal/domain"
)

// Filter keywords for the partner and status dimensions.
const (
	PartnerAll        = "all"
	PartnerUnassigned = "unassigned"
	StatusAll         = "all"
)

// Filters is the filter set applied by FilterDeals. All dimensions are
// conjunctive; zero values ("" / "all") pass everything.
type Filters struct {
	SearchQuery     string
	SelectedPartner string // "all", "unassigned", or a partner id
	SelectedStatus  string // "all" or a concrete status value
}

// PartnerResolver maps a partner id to a display label. Unresolvable ids
// should return a placeholder, never fail.
type PartnerResolver func(id uuid.UUID) string

// FilterDeals returns the subset of deals matching every filter dimension,
// preserving input order.
//
// Search matches the customer name, the contact name, and (privileged
// callers only) the resolved partner label, case-insensitively. Partner
// filtering is likewise privileged-only; non-privileged callers are expected
// to have been pinned to their own deals before this runs.
//
// Status "all" deliberately excludes lost deals: the default view shows the
// active pipeline, and lost deals appear only when selected explicitly.
func FilterDeals(deals []domain.Deal, filters Filters, resolve PartnerResolver, privileged bool) []domain.Deal {
	out := make([]domain.Deal, 0, len(deals))

	query := strings.ToLower(strings.TrimSpace(filters.SearchQuery))

	for _, deal := range deals {
		if query != "" && !matchesSearch(deal, query, resolve, privileged) {
			continue
		}
		if privileged && !matchesPartner(deal, filters.SelectedPartner) {
			continue
		}
		if !matchesStatus(deal, filters.SelectedStatus) {
			continue
		}
		out = append(out, deal)
	}

	return out
}

func matchesSearch(deal domain.Deal, query string, resolve PartnerResolver, privileged bool) bool {
	if strings.Contains(strings.ToLower(deal.CustomerName), query) {
		return true
	}
	if strings.Contains(strings.ToLower(deal.ContactName), query) {
		return true
	}
	if privileged && deal.PartnerID != nil && resolve != nil {
		if strings.Contains(strings.ToLower(resolve(*deal.PartnerID)), query) {
			return true
		}
	}
	return false
}

func matchesPartner(deal domain.Deal, selected string) bool {
	switch selected {
	case "", PartnerAll:
		return true
	case PartnerUnassigned:
		return deal.PartnerID == nil
	default:
		return deal.PartnerID != nil && deal.PartnerID.String() == selected
	}
}

func matchesStatus(deal domain.Deal, selected string) bool {
	if selected == "" || selected == StatusAll {
		return deal.Status != domain.DealStatusLost
	}
	return deal.Status == domain.DealStatus(selected)
}

// StatusStat is the aggregate for one status bucket.
type StatusStat struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// Stats is the fixed-shape aggregate over a deal list.
//
// Total counts every deal in the input, while the per-status buckets only
// recognize the enumerated statuses. A deal carrying an out-of-enum status
// is therefore present in Total but invisible in every bucket; the stored
// data has behaved this way since the first schema and the books reconcile
// against it, so the mismatch is kept as is.
type Stats struct {
	New       StatusStat `json:"new"`
	FirstCall StatusStat `json:"1st_call"`
	MoreCalls StatusStat `json:"2plus_calls"`
	Approved  StatusStat `json:"approved"`
	Won       StatusStat `json:"won"`
	Lost      StatusStat `json:"lost"`
	Later     StatusStat `json:"later"`

	Total              int     `json:"total"`
	TotalAmount        float64 `json:"totalAmount"`
	TotalPipelineValue float64 `json:"totalPipelineValue"`
}

// ComputeStats aggregates counts and opportunity amounts per status bucket.
// TotalPipelineValue sums every bucket except lost; TotalAmount includes
// lost. Undefined or NaN amounts contribute 0 but the deal is still counted.
func ComputeStats(deals []domain.Deal) Stats {
	var stats Stats
	stats.Total = len(deals)

	for _, deal := range deals {
		amount := deal.OpportunityAmount
		if math.IsNaN(amount) {
			amount = 0
		}

		var bucket *StatusStat
		switch deal.Status {
		case domain.DealStatusNew:
			bucket = &stats.New
		case domain.DealStatusFirstCall:
			bucket = &stats.FirstCall
		case domain.DealStatusMoreCalls:
			bucket = &stats.MoreCalls
		case domain.DealStatusApproved:
			bucket = &stats.Approved
		case domain.DealStatusWon:
			bucket = &stats.Won
		case domain.DealStatusLost:
			bucket = &stats.Lost
		case domain.DealStatusLater:
			bucket = &stats.Later
		default:
			continue
		}

		bucket.Count++
		bucket.Amount += amount
		stats.TotalAmount += amount
		if deal.Status != domain.DealStatusLost {
			stats.TotalPipelineValue += amount
		}
	}

	return stats
}
