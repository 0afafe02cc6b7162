package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/visionify/partner-api/internal/domain"
	"github.com/visionify/partner-api/pkg/errors"
)

type applicationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewApplicationRepository creates a new partner application repository
func NewApplicationRepository(db *sql.DB, logger *zap.Logger) *applicationRepository {
	return &applicationRepository{
		db:     db,
		logger: logger,
	}
}

const applicationColumns = `id, company_name, contact_name, contact_email, contact_phone,
	website, country, message, status, review_note, reviewed_by, created_at, updated_at`

func (r *applicationRepository) Create(ctx context.Context, app *domain.PartnerApplication) error {
	query := `
		INSERT INTO partner_applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	now := time.Now()
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	if app.UpdatedAt.IsZero() {
		app.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		app.ID,
		app.CompanyName,
		app.ContactName,
		app.ContactEmail,
		app.ContactPhone,
		app.Website,
		app.Country,
		app.Message,
		app.Status,
		app.ReviewNote,
		app.ReviewedBy,
		app.CreatedAt,
		app.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create partner application", zap.Error(err))
		return err
	}

	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PartnerApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM partner_applications WHERE id = $1`

	app, err := scanApplication(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "partner application", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get partner application", zap.Error(err))
		return nil, err
	}

	return app, nil
}

func (r *applicationRepository) List(ctx context.Context, status domain.ApplicationStatus) ([]*domain.PartnerApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM partner_applications ORDER BY created_at DESC`
	args := []interface{}{}
	if status != "" {
		query = `SELECT ` + applicationColumns + ` FROM partner_applications WHERE status = $1 ORDER BY created_at DESC`
		args = append(args, status)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list partner applications", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var apps []*domain.PartnerApplication
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			r.logger.Error("Failed to scan partner application", zap.Error(err))
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func (r *applicationRepository) Update(ctx context.Context, app *domain.PartnerApplication) error {
	query := `
		UPDATE partner_applications
		SET status = $2, review_note = $3, reviewed_by = $4, updated_at = $5
		WHERE id = $1
	`

	app.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		app.ID,
		app.Status,
		app.ReviewNote,
		app.ReviewedBy,
		app.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to update partner application", zap.Error(err))
		return err
	}

	return nil
}

func scanApplication(row rowScanner) (*domain.PartnerApplication, error) {
	var app domain.PartnerApplication
	var contactPhone, website, country, message, reviewNote sql.NullString
	var reviewedBy uuid.NullUUID

	err := row.Scan(
		&app.ID,
		&app.CompanyName,
		&app.ContactName,
		&app.ContactEmail,
		&contactPhone,
		&website,
		&country,
		&message,
		&app.Status,
		&reviewNote,
		&reviewedBy,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if contactPhone.Valid {
		app.ContactPhone = &contactPhone.String
	}
	if website.Valid {
		app.Website = &website.String
	}
	if country.Valid {
		app.Country = &country.String
	}
	if message.Valid {
		app.Message = &message.String
	}
	if reviewNote.Valid {
		app.ReviewNote = &reviewNote.String
	}
	if reviewedBy.Valid {
		app.ReviewedBy = &reviewedBy.UUID
	}

	return &app, nil
}
