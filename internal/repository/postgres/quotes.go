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

type quoteRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *sql.DB, logger *zap.Logger) *quoteRepository {
	return &quoteRepository{
		db:     db,
		logger: logger,
	}
}

const quoteColumns = `id, created_by, client_name, client_company, client_email, client_address,
	client_city, subscription_type, total_cameras, selected_scenarios, discount_percentage,
	quote_date, one_time_base_cost, additional_cameras, additional_camera_cost,
	monthly_recurring, annual_recurring, discount_amount, discounted_annual_recurring,
	contract_length_months, total_contract_value, second_currency_code, exchange_rate,
	rate_updated_at, payment_reference, payment_status, created_at, updated_at`

func (r *quoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	query := `
		INSERT INTO quotes (` + quoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)
	`

	now := time.Now()
	if quote.ID == uuid.Nil {
		quote.ID = uuid.New()
	}
	if quote.CreatedAt.IsZero() {
		quote.CreatedAt = now
	}
	if quote.UpdatedAt.IsZero() {
		quote.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		quote.ID,
		quote.CreatedBy,
		quote.ClientName,
		quote.ClientCompany,
		quote.ClientEmail,
		quote.ClientAddress,
		quote.ClientCity,
		quote.SubscriptionType,
		quote.TotalCameras,
		pq.Array(quote.SelectedScenarios),
		quote.DiscountPercentage,
		quote.QuoteDate,
		quote.OneTimeBaseCost,
		quote.AdditionalCameras,
		quote.AdditionalCameraCost,
		quote.MonthlyRecurring,
		quote.AnnualRecurring,
		quote.DiscountAmount,
		quote.DiscountedAnnualRecurring,
		quote.ContractLengthMonths,
		quote.TotalContractValue,
		quote.SecondCurrencyCode,
		quote.ExchangeRate,
		quote.RateUpdatedAt,
		quote.PaymentReference,
		quote.PaymentStatus,
		quote.CreatedAt,
		quote.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create quote", zap.Error(err))
		return err
	}

	return nil
}

func (r *quoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id = $1`

	quote, err := scanQuote(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "quote", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get quote by ID", zap.Error(err))
		return nil, err
	}

	return quote, nil
}

func (r *quoteRepository) ListByCreator(ctx context.Context, userID uuid.UUID) ([]*domain.Quote, error) {
	return r.list(ctx,
		`SELECT `+quoteColumns+` FROM quotes WHERE created_by = $1 ORDER BY created_at DESC`,
		userID,
	)
}

func (r *quoteRepository) List(ctx context.Context) ([]*domain.Quote, error) {
	return r.list(ctx, `SELECT `+quoteColumns+` FROM quotes ORDER BY created_at DESC`)
}

func (r *quoteRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Quote, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list quotes", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var quotes []*domain.Quote
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			r.logger.Error("Failed to scan quote", zap.Error(err))
			return nil, err
		}
		quotes = append(quotes, quote)
	}
	return quotes, rows.Err()
}

func (r *quoteRepository) SetPayment(ctx context.Context, id uuid.UUID, reference, status string) error {
	query := `
		UPDATE quotes
		SET payment_reference = $2, payment_status = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, reference, status, time.Now())
	if err != nil {
		r.logger.Error("Failed to set quote payment", zap.Error(err))
		return err
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return &errors.ErrNotFound{Resource: "quote", ID: id.String()}
	}
	return nil
}

func scanQuote(row rowScanner) (*domain.Quote, error) {
	var quote domain.Quote
	var clientEmail, clientAddress, clientCity sql.NullString
	var secondCurrency, paymentRef, paymentStatus sql.NullString
	var exchangeRate sql.NullFloat64
	var rateUpdatedAt sql.NullTime

	err := row.Scan(
		&quote.ID,
		&quote.CreatedBy,
		&quote.ClientName,
		&quote.ClientCompany,
		&clientEmail,
		&clientAddress,
		&clientCity,
		&quote.SubscriptionType,
		&quote.TotalCameras,
		pq.Array(&quote.SelectedScenarios),
		&quote.DiscountPercentage,
		&quote.QuoteDate,
		&quote.OneTimeBaseCost,
		&quote.AdditionalCameras,
		&quote.AdditionalCameraCost,
		&quote.MonthlyRecurring,
		&quote.AnnualRecurring,
		&quote.DiscountAmount,
		&quote.DiscountedAnnualRecurring,
		&quote.ContractLengthMonths,
		&quote.TotalContractValue,
		&secondCurrency,
		&exchangeRate,
		&rateUpdatedAt,
		&paymentRef,
		&paymentStatus,
		&quote.CreatedAt,
		&quote.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if clientEmail.Valid {
		quote.ClientEmail = &clientEmail.String
	}
	if clientAddress.Valid {
		quote.ClientAddress = &clientAddress.String
	}
	if clientCity.Valid {
		quote.ClientCity = &clientCity.String
	}
	if secondCurrency.Valid {
		quote.SecondCurrencyCode = &secondCurrency.String
	}
	if exchangeRate.Valid {
		quote.ExchangeRate = &exchangeRate.Float64
	}
	if rateUpdatedAt.Valid {
		quote.RateUpdatedAt = &rateUpdatedAt.Time
	}
	if paymentRef.Valid {
		quote.PaymentReference = &paymentRef.String
	}
	if paymentStatus.Valid {
		quote.PaymentStatus = &paymentStatus.String
	}

	return &quote, nil
}
