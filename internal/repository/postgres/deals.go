package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/visionify/partner-api/internal/domain"
	"github.com/visionify/partner-api/pkg/errors"
)

type dealRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDealRepository creates a new deal repository
func NewDealRepository(db *sql.DB, logger *zap.Logger) *dealRepository {
	return &dealRepository{
		db:     db,
		logger: logger,
	}
}

const dealColumns = `id, partner_id, created_by, status, customer_name, contact_name,
	contact_email, contact_phone, customer_address, customer_city, customer_country,
	opportunity_amount, commission_rate, camera_count, interested_usecases, notes,
	expected_close_date, last_followup_at, created_at, updated_at`

func (r *dealRepository) Create(ctx context.Context, deal *domain.Deal) error {
	query := `
		INSERT INTO deals (` + dealColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	if deal.ID == uuid.Nil {
		deal.ID = uuid.New()
	}
	if deal.CreatedAt.IsZero() {
		deal.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		deal.ID,
		deal.PartnerID,
		deal.CreatedBy,
		deal.Status,
		deal.CustomerName,
		deal.ContactName,
		deal.ContactEmail,
		deal.ContactPhone,
		deal.CustomerAddress,
		deal.CustomerCity,
		deal.CustomerCountry,
		deal.OpportunityAmount,
		deal.CommissionRate,
		deal.CameraCount,
		pq.Array(deal.InterestedUsecases),
		deal.Notes,
		deal.ExpectedCloseDate,
		deal.LastFollowupAt,
		deal.CreatedAt,
		deal.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create deal", zap.Error(err))
		return err
	}

	return nil
}

func (r *dealRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE id = $1`

	deal, err := scanDeal(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "deal", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get deal by ID", zap.Error(err))
		return nil, err
	}

	return deal, nil
}

func (r *dealRepository) List(ctx context.Context) ([]domain.Deal, error) {
	return r.list(ctx, `SELECT `+dealColumns+` FROM deals ORDER BY created_at DESC`)
}

func (r *dealRepository) ListByPartnerID(ctx context.Context, partnerID uuid.UUID) ([]domain.Deal, error) {
	return r.list(ctx,
		`SELECT `+dealColumns+` FROM deals WHERE partner_id = $1 ORDER BY created_at DESC`,
		partnerID,
	)
}

func (r *dealRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Deal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list deals", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	deals := make([]domain.Deal, 0)
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			r.logger.Error("Failed to scan deal", zap.Error(err))
			return nil, err
		}
		deals = append(deals, *deal)
	}
	return deals, rows.Err()
}

func (r *dealRepository) Update(ctx context.Context, deal *domain.Deal) error {
	query := `
		UPDATE deals
		SET partner_id = $2, status = $3, customer_name = $4, contact_name = $5,
			contact_email = $6, contact_phone = $7, customer_address = $8,
			customer_city = $9, customer_country = $10, opportunity_amount = $11,
			commission_rate = $12, camera_count = $13, interested_usecases = $14,
			notes = $15, expected_close_date = $16, last_followup_at = $17, updated_at = $18
		WHERE id = $1
	`

	now := time.Now()
	deal.UpdatedAt = &now

	_, err := r.db.ExecContext(ctx, query,
		deal.ID,
		deal.PartnerID,
		deal.Status,
		deal.CustomerName,
		deal.ContactName,
		deal.ContactEmail,
		deal.ContactPhone,
		deal.CustomerAddress,
		deal.CustomerCity,
		deal.CustomerCountry,
		deal.OpportunityAmount,
		deal.CommissionRate,
		deal.CameraCount,
		pq.Array(deal.InterestedUsecases),
		deal.Notes,
		deal.ExpectedCloseDate,
		deal.LastFollowupAt,
		deal.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to update deal", zap.Error(err))
		return err
	}

	return nil
}

func (r *dealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM deals WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete deal", zap.Error(err))
		return err
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return &errors.ErrNotFound{Resource: "deal", ID: id.String()}
	}
	return nil
}

func scanDeal(row rowScanner) (*domain.Deal, error) {
	var deal domain.Deal
	var partnerID, createdBy uuid.NullUUID
	var contactEmail, contactPhone, address, city, country, notes sql.NullString
	var commissionRate sql.NullFloat64
	var cameraCount sql.NullInt64
	var lastFollowup, updatedAt sql.NullTime

	err := row.Scan(
		&deal.ID,
		&partnerID,
		&createdBy,
		&deal.Status,
		&deal.CustomerName,
		&deal.ContactName,
		&contactEmail,
		&contactPhone,
		&address,
		&city,
		&country,
		&deal.OpportunityAmount,
		&commissionRate,
		&cameraCount,
		pq.Array(&deal.InterestedUsecases),
		&notes,
		&deal.ExpectedCloseDate,
		&lastFollowup,
		&deal.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if partnerID.Valid {
		deal.PartnerID = &partnerID.UUID
	}
	if createdBy.Valid {
		deal.CreatedBy = &createdBy.UUID
	}
	if contactEmail.Valid {
		deal.ContactEmail = &contactEmail.String
	}
	if contactPhone.Valid {
		deal.ContactPhone = &contactPhone.String
	}
	if address.Valid {
		deal.CustomerAddress = &address.String
	}
	if city.Valid {
		deal.CustomerCity = &city.String
	}
	if country.Valid {
		deal.CustomerCountry = &country.String
	}
	if commissionRate.Valid {
		deal.CommissionRate = &commissionRate.Float64
	}
	if cameraCount.Valid {
		count := int(cameraCount.Int64)
		deal.CameraCount = &count
	}
	if notes.Valid {
		deal.Notes = &notes.String
	}
	if lastFollowup.Valid {
		deal.LastFollowupAt = &lastFollowup.Time
	}
	if updatedAt.Valid {
		deal.UpdatedAt = &updatedAt.Time
	}

	return &deal, nil
}
