package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/visionify/partner-api/internal/domain"
	"github.com/visionify/partner-api/internal/pipeline"
	"github.com/visionify/partner-api/internal/repository"
	"github.com/visionify/partner-api/internal/service"
	"github.com/visionify/partner-api/pkg/errors"
)

type fakeDealRepo struct {
	deals []domain.Deal
}

func (f *fakeDealRepo) Create(_ context.Context, deal *domain.Deal) error {
	f.deals = append(f.deals, *deal)
	return nil
}

func (f *fakeDealRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Deal, error) {
	for i := range f.deals {
		if f.deals[i].ID == id {
			d := f.deals[i]
			return &d, nil
		}
	}
	return nil, &errors.ErrNotFound{Resource: "deal", ID: id.String()}
}

func (f *fakeDealRepo) List(_ context.Context) ([]domain.Deal, error) {
	return append([]domain.Deal(nil), f.deals...), nil
}

func (f *fakeDealRepo) ListByPartnerID(_ context.Context, partnerID uuid.UUID) ([]domain.Deal, error) {
	var out []domain.Deal
	for _, d := range f.deals {
		if d.PartnerID != nil && *d.PartnerID == partnerID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDealRepo) Update(_ context.Context, _ *domain.Deal) error { return nil }
func (f *fakeDealRepo) Delete(_ context.Context, _ uuid.UUID) error    { return nil }

type fakeUserRepo struct {
	users []*domain.User
}

func (f *fakeUserRepo) GetByAPIKey(_ context.Context, _ string) (*domain.User, error) {
	return nil, &errors.ErrUnauthorized{Message: "invalid API key"}
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, &errors.ErrNotFound{Resource: "user", ID: id.String()}
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, &errors.ErrNotFound{Resource: "user", ID: email}
}

func (f *fakeUserRepo) List(_ context.Context) ([]*domain.User, error) {
	return f.users, nil
}

func (f *fakeUserRepo) ListPartners(_ context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range f.users {
		if u.Role == domain.RolePartner {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	f.users = append(f.users, u)
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, _ *domain.User) error { return nil }

func fixtureRepos() (*repository.Repositories, uuid.UUID, uuid.UUID) {
	partnerA := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	partnerB := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	company := "Acme Integrations"

	users := &fakeUserRepo{users: []*domain.User{
		{ID: partnerA, Name: "Ann", CompanyName: &company, Role: domain.RolePartner},
		{ID: partnerB, Name: "Bob Partner", Role: domain.RolePartner},
	}}

	deals := &fakeDealRepo{deals: []domain.Deal{
		{ID: uuid.New(), PartnerID: &partnerA, Status: domain.DealStatusNew, CustomerName: "Warehouse One", ContactName: "Dana", OpportunityAmount: 1000},
		{ID: uuid.New(), PartnerID: &partnerA, Status: domain.DealStatusLost, CustomerName: "Old Mill", ContactName: "Eve", OpportunityAmount: 400},
		{ID: uuid.New(), PartnerID: &partnerB, Status: domain.DealStatusWon, CustomerName: "Port Authority", ContactName: "Sam", OpportunityAmount: 5000},
		{ID: uuid.New(), PartnerID: nil, Status: domain.DealStatusFirstCall, CustomerName: "Grain Co", ContactName: "Lee", OpportunityAmount: 750},
	}}

	return &repository.Repositories{User: users, Deal: deals}, partnerA, partnerB
}

func TestListDealsAdminSeesEverything(t *testing.T) {
	rq := require.New(t)

	repos, partnerA, _ := fixtureRepos()
	svc := service.NewDealService(repos, zap.NewNop())

	admin := &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}
	listing, err := svc.ListDeals(context.Background(), admin, pipeline.Filters{})
	rq.NoError(err)

	// Default view hides lost deals but the full aggregates keep them.
	rq.Len(listing.Deals, 3)
	rq.Equal(4, listing.AllStats.Total)
	rq.Equal(3, listing.FilteredStats.Total)
	rq.Equal(1, listing.AllStats.Lost.Count)
	rq.Equal(0, listing.FilteredStats.Lost.Count)

	// Company name wins over the personal name as the partner label.
	rq.Equal("Acme Integrations", listing.PartnerLabels[partnerA])
}

func TestListDealsAdminPartnerFilter(t *testing.T) {
	rq := require.New(t)

	repos, partnerA, _ := fixtureRepos()
	svc := service.NewDealService(repos, zap.NewNop())
	admin := &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}

	listing, err := svc.ListDeals(context.Background(), admin, pipeline.Filters{SelectedPartner: partnerA.String()})
	rq.NoError(err)
	rq.Len(listing.Deals, 1)
	rq.Equal("Warehouse One", listing.Deals[0].CustomerName)

	listing, err = svc.ListDeals(context.Background(), admin, pipeline.Filters{SelectedPartner: pipeline.PartnerUnassigned})
	rq.NoError(err)
	rq.Len(listing.Deals, 1)
	rq.Equal("Grain Co", listing.Deals[0].CustomerName)
}

func TestListDealsPartnerPinnedToOwnDeals(t *testing.T) {
	rq := require.New(t)

	repos, partnerA, partnerB := fixtureRepos()
	svc := service.NewDealService(repos, zap.NewNop())
	partner := &domain.User{ID: partnerA, Role: domain.RolePartner}

	// A partner asking for another partner's deals still only sees their own.
	listing, err := svc.ListDeals(context.Background(), partner, pipeline.Filters{SelectedPartner: partnerB.String()})
	rq.NoError(err)
	rq.Len(listing.Deals, 1)
	rq.Equal("Warehouse One", listing.Deals[0].CustomerName)
	rq.Equal(2, listing.AllStats.Total)

	// Searching by partner label finds nothing for non-privileged callers.
	listing, err = svc.ListDeals(context.Background(), partner, pipeline.Filters{SearchQuery: "acme"})
	rq.NoError(err)
	rq.Empty(listing.Deals)
}
