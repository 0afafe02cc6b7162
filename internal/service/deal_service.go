package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/visionify/partner-api/internal/domain"
	"github.com/visionify/partner-api/internal/pipeline"
	"github.com/visionify/partner-api/internal/repository"
)

type dealService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewDealService creates a new deal service
func NewDealService(repos *repository.Repositories, logger *zap.Logger) *dealService {
	return &dealService{
		repos:  repos,
		logger: logger,
	}
}

// DealListing is the combined result of a filtered pipeline view: the
// matching deals plus aggregates over both the full and the filtered set.
type DealListing struct {
	Deals         []domain.Deal
	AllStats      pipeline.Stats
	FilteredStats pipeline.Stats
	PartnerLabels map[uuid.UUID]string
}

// ListDeals loads the caller's visible deal set and runs it through the
// pipeline engine. Admins see every deal and may filter and search by
// partner; partners are pinned to their own deals before the engine runs,
// so the privileged flag stays false for them.
func (s *dealService) ListDeals(ctx context.Context, viewer *domain.User, filters pipeline.Filters) (*DealListing, error) {
	privileged := viewer.Role == domain.RoleAdmin

	var deals []domain.Deal
	var err error
	if privileged {
		deals, err = s.repos.Deal.List(ctx)
	} else {
		deals, err = s.repos.Deal.ListByPartnerID(ctx, viewer.ID)
	}
	if err != nil {
		return nil, err
	}

	labels, err := s.partnerLabels(ctx)
	if err != nil {
		return nil, err
	}
	resolve := func(id uuid.UUID) string {
		if label, ok := labels[id]; ok {
			return label
		}
		return "Unknown partner"
	}

	filtered := pipeline.FilterDeals(deals, filters, resolve, privileged)

	return &DealListing{
		Deals:         filtered,
		AllStats:      pipeline.ComputeStats(deals),
		FilteredStats: pipeline.ComputeStats(filtered),
		PartnerLabels: labels,
	}, nil
}

func (s *dealService) partnerLabels(ctx context.Context) (map[uuid.UUID]string, error) {
	partners, err := s.repos.User.ListPartners(ctx)
	if err != nil {
		return nil, err
	}

	labels := make(map[uuid.UUID]string, len(partners))
	for _, p := range partners {
		labels[p.ID] = p.PartnerLabel()
	}
	return labels, nil
}
