package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated caller: an admin operator or a partner
type User struct {
	ID          uuid.UUID
	Email       string
	Name        string
	CompanyName *string
	Role        UserRole
	APIKeyHash  string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PartnerLabel returns the human-readable label used when resolving a
// partner id in deal listings and exports
func (u *User) PartnerLabel() string {
	if u.CompanyName != nil && *u.CompanyName != "" {
		return *u.CompanyName
	}
	return u.Name
}

// PartnerApplication represents a partner onboarding request
type PartnerApplication struct {
	ID           uuid.UUID
	CompanyName  string
	ContactName  string
	ContactEmail string
	ContactPhone *string
	Website      *string
	Country      *string
	Message      *string
	Status       ApplicationStatus
	ReviewNote   *string
	ReviewedBy   *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Deal represents a registered sales opportunity
type Deal struct {
	ID                 uuid.UUID
	PartnerID          *uuid.UUID // nil means unassigned
	CreatedBy          *uuid.UUID
	Status             DealStatus
	CustomerName       string
	ContactName        string
	ContactEmail       *string
	ContactPhone       *string
	CustomerAddress    *string
	CustomerCity       *string
	CustomerCountry    *string
	OpportunityAmount  float64
	CommissionRate     *float64
	CameraCount        *int
	InterestedUsecases []string
	Notes              *string
	ExpectedCloseDate  time.Time
	LastFollowupAt     *time.Time
	CreatedAt          time.Time
	UpdatedAt          *time.Time
}

// Customer represents a partner-owned customer record
type Customer struct {
	ID           uuid.UUID
	PartnerID    uuid.UUID
	Name         string
	ContactName  *string
	ContactEmail *string
	ContactPhone *string
	Address      *string
	City         *string
	Country      *string
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Quote represents a persisted snapshot of a computed quote. The monetary
// figures are stored exactly as the pricing engine produced them; a later
// pricing-table change never rewrites an existing quote.
type Quote struct {
	ID                 uuid.UUID
	CreatedBy          uuid.UUID
	ClientName         string
	ClientCompany      string
	ClientEmail        *string
	ClientAddress      *string
	ClientCity         *string
	SubscriptionType   string
	TotalCameras       int
	SelectedScenarios  []string
	DiscountPercentage float64
	QuoteDate          time.Time

	OneTimeBaseCost           float64
	AdditionalCameras         int
	AdditionalCameraCost      float64
	MonthlyRecurring          float64
	AnnualRecurring           float64
	DiscountAmount            float64
	DiscountedAnnualRecurring float64
	ContractLengthMonths      int
	TotalContractValue        float64

	SecondCurrencyCode *string
	ExchangeRate       *float64
	RateUpdatedAt      *time.Time

	PaymentReference *string
	PaymentStatus    *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IdempotencyKey records a processed quote mutation so a retried request
// carrying the same key returns the original outcome instead of running the
// operation again
type IdempotencyKey struct {
	Key         string
	UserID      uuid.UUID
	QuoteID     uuid.UUID
	RequestHash string
	CreatedAt   time.Time
}

// LearningResource represents a distributable learning material
type LearningResource struct {
	ID          uuid.UUID
	Title       string
	Type        string // video, pdf, link
	URL         string
	Description *string
	Tags        []string
	Published   bool
	CreatedBy   *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
