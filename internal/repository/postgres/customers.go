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

type customerRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *sql.DB, logger *zap.Logger) *customerRepository {
	return &customerRepository{
		db:     db,
		logger: logger,
	}
}

const customerColumns = `id, partner_id, name, contact_name, contact_email, contact_phone,
	address, city, country, notes, created_at, updated_at`

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	now := time.Now()
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = now
	}
	if customer.UpdatedAt.IsZero() {
		customer.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		customer.ID,
		customer.PartnerID,
		customer.Name,
		customer.ContactName,
		customer.ContactEmail,
		customer.ContactPhone,
		customer.Address,
		customer.City,
		customer.Country,
		customer.Notes,
		customer.CreatedAt,
		customer.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create customer", zap.Error(err))
		return err
	}

	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "customer", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get customer by ID", zap.Error(err))
		return nil, err
	}

	return customer, nil
}

func (r *customerRepository) ListByPartnerID(ctx context.Context, partnerID uuid.UUID) ([]*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE partner_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, partnerID)
	if err != nil {
		r.logger.Error("Failed to list customers", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var customers []*domain.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			r.logger.Error("Failed to scan customer", zap.Error(err))
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, contact_name = $3, contact_email = $4, contact_phone = $5,
			address = $6, city = $7, country = $8, notes = $9, updated_at = $10
		WHERE id = $1
	`

	customer.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		customer.ID,
		customer.Name,
		customer.ContactName,
		customer.ContactEmail,
		customer.ContactPhone,
		customer.Address,
		customer.City,
		customer.Country,
		customer.Notes,
		customer.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to update customer", zap.Error(err))
		return err
	}

	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete customer", zap.Error(err))
		return err
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return &errors.ErrNotFound{Resource: "customer", ID: id.String()}
	}
	return nil
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var customer domain.Customer
	var contactName, contactEmail, contactPhone, address, city, country, notes sql.NullString

	err := row.Scan(
		&customer.ID,
		&customer.PartnerID,
		&customer.Name,
		&contactName,
		&contactEmail,
		&contactPhone,
		&address,
		&city,
		&country,
		&notes,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if contactName.Valid {
		customer.ContactName = &contactName.String
	}
	if contactEmail.Valid {
		customer.ContactEmail = &contactEmail.String
	}
	if contactPhone.Valid {
		customer.ContactPhone = &contactPhone.String
	}
	if address.Valid {
		customer.Address = &address.String
	}
	if city.Valid {
		customer.City = &city.String
	}
	if country.Valid {
		customer.Country = &country.String
	}
	if notes.Valid {
		customer.Notes = &notes.String
	}

	return &customer, nil
}
