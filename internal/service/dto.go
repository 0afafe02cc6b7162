package service

import "time"

// RegisterDealRequest represents the deal registration payload
type RegisterDealRequest struct {
	CustomerName       string    `json:"customer_name" binding:"required"`
	ContactName        string    `json:"contact_name" binding:"required"`
	ContactEmail       *string   `json:"contact_email,omitempty"`
	ContactPhone       *string   `json:"contact_phone,omitempty"`
	CustomerAddress    *string   `json:"customer_address,omitempty"`
	CustomerCity       *string   `json:"customer_city,omitempty"`
	CustomerCountry    *string   `json:"customer_country,omitempty"`
	OpportunityAmount  float64   `json:"opportunity_amount" binding:"min=0"`
	CommissionRate     *float64  `json:"commission_rate,omitempty"`
	CameraCount        *int      `json:"camera_count,omitempty"`
	InterestedUsecases []string  `json:"interested_usecases,omitempty"`
	Notes              *string   `json:"notes,omitempty"`
	ExpectedCloseDate  time.Time `json:"expected_close_date" binding:"required"`
	PartnerID          *string   `json:"partner_id,omitempty"` // admin only
}

// UpdateDealRequest represents a partial deal update. Nil fields are left
// untouched.
type UpdateDealRequest struct {
	Status             *string    `json:"status,omitempty"`
	CustomerName       *string    `json:"customer_name,omitempty"`
	ContactName        *string    `json:"contact_name,omitempty"`
	ContactEmail       *string    `json:"contact_email,omitempty"`
	ContactPhone       *string    `json:"contact_phone,omitempty"`
	OpportunityAmount  *float64   `json:"opportunity_amount,omitempty"`
	CommissionRate     *float64   `json:"commission_rate,omitempty"`
	CameraCount        *int       `json:"camera_count,omitempty"`
	InterestedUsecases []string   `json:"interested_usecases,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	ExpectedCloseDate  *time.Time `json:"expected_close_date,omitempty"`
	LastFollowupAt     *time.Time `json:"last_followup_at,omitempty"`
	PartnerID          *string    `json:"partner_id,omitempty"` // admin only
}

// QuoteRequest represents the quote computation payload
type QuoteRequest struct {
	ClientName    string `json:"client_name" binding:"required"`
	ClientCompany string `json:"client_company" binding:"required"`
	ClientEmail   string `json:"client_email,omitempty"`
	ClientAddress string `json:"client_address,omitempty"`
	ClientCity    string `json:"client_city,omitempty"`

	TotalCameras       int      `json:"total_cameras"`
	SubscriptionType   string   `json:"subscription_type" binding:"required"`
	DiscountPercentage float64  `json:"discount_percentage"`
	SelectedScenarios  []string `json:"selected_scenarios,omitempty"`
	EverythingPackage  bool     `json:"everything_package"`

	IncludeInfrastructure bool `json:"include_infrastructure"`

	UseCustomPricing     bool    `json:"use_custom_pricing"`
	CustomTier1          float64 `json:"custom_tier1,omitempty"`
	CustomTier2          float64 `json:"custom_tier2,omitempty"`
	CustomTier3          float64 `json:"custom_tier3,omitempty"`
	CustomInfrastructure float64 `json:"custom_infrastructure,omitempty"`

	IncludeEdgeServer bool    `json:"include_edge_server"`
	EdgeServerCost    float64 `json:"edge_server_cost,omitempty"`
	ImplementationFee float64 `json:"implementation_fee,omitempty"`
	TravelFee         float64 `json:"travel_fee,omitempty"`
	SpeakerCost       float64 `json:"speaker_cost,omitempty"`

	ShowSecondCurrency bool    `json:"show_second_currency"`
	SecondCurrency     string  `json:"second_currency,omitempty"`
	ExchangeRate       float64 `json:"exchange_rate,omitempty"`
}

// ApplicationRequest represents a partner onboarding application payload
type ApplicationRequest struct {
	CompanyName  string  `json:"company_name" binding:"required"`
	ContactName  string  `json:"contact_name" binding:"required"`
	ContactEmail string  `json:"contact_email" binding:"required,email"`
	ContactPhone *string `json:"contact_phone,omitempty"`
	Website      *string `json:"website,omitempty"`
	Country      *string `json:"country,omitempty"`
	Message      *string `json:"message,omitempty"`
}

// CustomerRequest represents a customer create/update payload
type CustomerRequest struct {
	Name         string  `json:"name" binding:"required"`
	ContactName  *string `json:"contact_name,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`
	ContactPhone *string `json:"contact_phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	City         *string `json:"city,omitempty"`
	Country      *string `json:"country,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// ResourceRequest represents a learning resource create/update payload
type ResourceRequest struct {
	Title       string   `json:"title" binding:"required"`
	Type        string   `json:"type" binding:"required,oneof=video pdf link"`
	URL         string   `json:"url" binding:"required,url"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Published   bool     `json:"published"`
}
