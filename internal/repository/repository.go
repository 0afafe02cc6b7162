package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/visionify/partner-api/internal/domain"
)

// UserRepository manages authenticated users (admins and partners)
type UserRepository interface {
	GetByAPIKey(ctx context.Context, apiKey string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	ListPartners(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
}

// ApplicationRepository manages partner onboarding applications
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.PartnerApplication) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PartnerApplication, error)
	List(ctx context.Context, status domain.ApplicationStatus) ([]*domain.PartnerApplication, error)
	Update(ctx context.Context, app *domain.PartnerApplication) error
}

// DealRepository manages registered deals
type DealRepository interface {
	Create(ctx context.Context, deal *domain.Deal) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deal, error)
	List(ctx context.Context) ([]domain.Deal, error)
	ListByPartnerID(ctx context.Context, partnerID uuid.UUID) ([]domain.Deal, error)
	Update(ctx context.Context, deal *domain.Deal) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CustomerRepository manages partner-owned customer records
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	ListByPartnerID(ctx context.Context, partnerID uuid.UUID) ([]*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// QuoteRepository manages persisted quote snapshots
type QuoteRepository interface {
	Create(ctx context.Context, quote *domain.Quote) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error)
	ListByCreator(ctx context.Context, userID uuid.UUID) ([]*domain.Quote, error)
	List(ctx context.Context) ([]*domain.Quote, error)
	SetPayment(ctx context.Context, id uuid.UUID, reference, status string) error
}

// IdempotencyKeyRepository manages stored idempotency keys. Keys are scoped
// per user; the same key from two users never collides.
type IdempotencyKeyRepository interface {
	Create(ctx context.Context, key *domain.IdempotencyKey) error
	GetByKey(ctx context.Context, userID uuid.UUID, key string) (*domain.IdempotencyKey, error)
}

// ResourceRepository manages learning materials
type ResourceRepository interface {
	Create(ctx context.Context, res *domain.LearningResource) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningResource, error)
	List(ctx context.Context, publishedOnly bool) ([]*domain.LearningResource, error)
	Update(ctx context.Context, res *domain.LearningResource) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repositories bundles every repository for dependency injection
type Repositories struct {
	User           UserRepository
	Application    ApplicationRepository
	Deal           DealRepository
	Customer       CustomerRepository
	Quote          QuoteRepository
	Resource       ResourceRepository
	IdempotencyKey IdempotencyKeyRepository
}
