package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/visionify/partner-api/internal/api/middleware"
	"github.com/visionify/partner-api/internal/domain"
	"github.com/visionify/partner-api/internal/pipeline"
	"github.com/visionify/partner-api/internal/repository"
	"github.com/visionify/partner-api/internal/service"
	"github.com/visionify/partner-api/pkg/errors"
)

// DealResponse represents the deal response
type DealResponse struct {
	ID                 string     `json:"id"`
	PartnerID          *string    `json:"partner_id,omitempty"`
	PartnerLabel       string     `json:"partner_label,omitempty"`
	Status             string     `json:"status"`
	CustomerName       string     `json:"customer_name"`
	ContactName        string     `json:"contact_name"`
	ContactEmail       *string    `json:"contact_email,omitempty"`
	ContactPhone       *string    `json:"contact_phone,omitempty"`
	CustomerAddress    *string    `json:"customer_address,omitempty"`
	CustomerCity       *string    `json:"customer_city,omitempty"`
	CustomerCountry    *string    `json:"customer_country,omitempty"`
	OpportunityAmount  float64    `json:"opportunity_amount"`
	CommissionRate     *float64   `json:"commission_rate,omitempty"`
	CameraCount        *int       `json:"camera_count,omitempty"`
	InterestedUsecases []string   `json:"interested_usecases,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	ExpectedCloseDate  string     `json:"expected_close_date"`
	LastFollowupAt     *time.Time `json:"last_followup_at,omitempty"`
	CreatedAt          string     `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
}

func toDealResponse(deal domain.Deal, labels map[uuid.UUID]string) DealResponse {
	resp := DealResponse{
		ID:                 deal.ID.String(),
		Status:             string(deal.Status),
		CustomerName:       deal.CustomerName,
		ContactName:        deal.ContactName,
		ContactEmail:       deal.ContactEmail,
		ContactPhone:       deal.ContactPhone,
		CustomerAddress:    deal.CustomerAddress,
		CustomerCity:       deal.CustomerCity,
		CustomerCountry:    deal.CustomerCountry,
		OpportunityAmount:  deal.OpportunityAmount,
		CommissionRate:     deal.CommissionRate,
		CameraCount:        deal.CameraCount,
		InterestedUsecases: deal.InterestedUsecases,
		Notes:              deal.Notes,
		ExpectedCloseDate:  deal.ExpectedCloseDate.Format(time.RFC3339),
		LastFollowupAt:     deal.LastFollowupAt,
		CreatedAt:          deal.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          deal.UpdatedAt,
	}
	if deal.PartnerID != nil {
		id := deal.PartnerID.String()
		resp.PartnerID = &id
		resp.PartnerLabel = labels[*deal.PartnerID]
	}
	return resp
}

func filtersFromQuery(c *gin.Context) pipeline.Filters {
	return pipeline.Filters{
		SearchQuery:     c.Query("search"),
		SelectedPartner: c.DefaultQuery("partner", pipeline.PartnerAll),
		SelectedStatus:  c.DefaultQuery("status", pipeline.StatusAll),
	}
}

// HandleListDeals handles GET /v1/deals
func HandleListDeals(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	dealService := service.NewDealService(repos, logger)
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		filters := filtersFromQuery(c)
		if filters.SelectedStatus != pipeline.StatusAll && !domain.DealStatus(filters.SelectedStatus).IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}

		listing, err := dealService.ListDeals(c.Request.Context(), user, filters)
		if err != nil {
			logger.Error("Failed to list deals", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		dealResponses := make([]DealResponse, len(listing.Deals))
		for i, deal := range listing.Deals {
			dealResponses[i] = toDealResponse(deal, listing.PartnerLabels)
		}

		c.JSON(http.StatusOK, gin.H{
			"deals": dealResponses,
			"stats": gin.H{
				"all":      listing.AllStats,
				"filtered": listing.FilteredStats,
			},
		})
	}
}

// HandleGetDeal handles GET /v1/deals/:id
func HandleGetDeal(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		deal, ok := loadOwnedDeal(c, repos, logger, user)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, toDealResponse(*deal, nil))
	}
}

// HandleRegisterDeal handles POST /v1/deals
func HandleRegisterDeal(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req service.RegisterDealRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		deal := &domain.Deal{
			Status:             domain.DealStatusNew,
			CustomerName:       req.CustomerName,
			ContactName:        req.ContactName,
			ContactEmail:       req.ContactEmail,
			ContactPhone:       req.ContactPhone,
			CustomerAddress:    req.CustomerAddress,
			CustomerCity:       req.CustomerCity,
			CustomerCountry:    req.CustomerCountry,
			OpportunityAmount:  req.OpportunityAmount,
			CommissionRate:     req.CommissionRate,
			CameraCount:        req.CameraCount,
			InterestedUsecases: req.InterestedUsecases,
			Notes:              req.Notes,
			ExpectedCloseDate:  req.ExpectedCloseDate,
			CreatedBy:          &user.ID,
		}

		// Partners register deals under themselves; admins may assign any
		// partner or leave the deal unassigned.
		if user.Role == domain.RoleAdmin {
			if req.PartnerID != nil {
				partnerID, err := uuid.Parse(*req.PartnerID)
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": "invalid partner ID"})
					return
				}
				deal.PartnerID = &partnerID
			}
		} else {
			deal.PartnerID = &user.ID
		}

		if err := repos.Deal.Create(c.Request.Context(), deal); err != nil {
			logger.Error("Failed to register deal", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusCreated, toDealResponse(*deal, nil))
	}
}

// HandleUpdateDeal handles PATCH /v1/deals/:id
func HandleUpdateDeal(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		deal, ok := loadOwnedDeal(c, repos, logger, user)
		if !ok {
			return
		}

		var req service.UpdateDealRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		if req.Status != nil {
			status := domain.DealStatus(*req.Status)
			if !status.IsValid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
				return
			}
			deal.Status = status
		}
		if req.CustomerName != nil {
			deal.CustomerName = *req.CustomerName
		}
		if req.ContactName != nil {
			deal.ContactName = *req.ContactName
		}
		if req.ContactEmail != nil {
			deal.ContactEmail = req.ContactEmail
		}
		if req.ContactPhone != nil {
			deal.ContactPhone = req.ContactPhone
		}
		if req.OpportunityAmount != nil {
			if *req.OpportunityAmount < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "opportunity amount must not be negative"})
				return
			}
			deal.OpportunityAmount = *req.OpportunityAmount
		}
		if req.CommissionRate != nil {
			deal.CommissionRate = req.CommissionRate
		}
		if req.CameraCount != nil {
			deal.CameraCount = req.CameraCount
		}
		if req.InterestedUsecases != nil {
			deal.InterestedUsecases = req.InterestedUsecases
		}
		if req.Notes != nil {
			deal.Notes = req.Notes
		}
		if req.ExpectedCloseDate != nil {
			deal.ExpectedCloseDate = *req.ExpectedCloseDate
		}
		if req.LastFollowupAt != nil {
			deal.LastFollowupAt = req.LastFollowupAt
		}
		if req.PartnerID != nil && user.Role == domain.RoleAdmin {
			if *req.PartnerID == "" {
				deal.PartnerID = nil
			} else {
				partnerID, err := uuid.Parse(*req.PartnerID)
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": "invalid partner ID"})
					return
				}
				deal.PartnerID = &partnerID
			}
		}

		if err := repos.Deal.Update(c.Request.Context(), deal); err != nil {
			logger.Error("Failed to update deal", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, toDealResponse(*deal, nil))
	}
}

// HandleDeleteDeal handles DELETE /v1/deals/:id
func HandleDeleteDeal(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		deal, ok := loadOwnedDeal(c, repos, logger, user)
		if !ok {
			return
		}

		if err := repos.Deal.Delete(c.Request.Context(), deal.ID); err != nil {
			logger.Error("Failed to delete deal", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// HandleExportDeals handles GET /v1/deals/export
func HandleExportDeals(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	dealService := service.NewDealService(repos, logger)
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		listing, err := dealService.ListDeals(c.Request.Context(), user, filtersFromQuery(c))
		if err != nil {
			logger.Error("Failed to export deals", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="deals.csv"`)

		resolve := func(id uuid.UUID) string { return listing.PartnerLabels[id] }
		if err := service.WriteDealsCSV(c.Writer, listing.Deals, resolve); err != nil {
			logger.Error("Failed to write deals CSV", zap.Error(err))
		}
	}
}

// loadOwnedDeal fetches the deal from the path id and enforces ownership:
// admins may touch any deal, partners only their own.
func loadOwnedDeal(c *gin.Context, repos *repository.Repositories, logger *zap.Logger, user *domain.User) (*domain.Deal, bool) {
	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deal ID"})
		return nil, false
	}

	deal, err := repos.Deal.GetByID(c.Request.Context(), dealID)
	if err != nil {
		if _, ok := err.(*errors.ErrNotFound); ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "deal not found"})
			return nil, false
		}
		logger.Error("Failed to get deal", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return nil, false
	}

	if user.Role != domain.RoleAdmin {
		if deal.PartnerID == nil || *deal.PartnerID != user.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return nil, false
		}
	}

	return deal, true
}
