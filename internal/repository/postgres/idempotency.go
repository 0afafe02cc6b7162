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

type idempotencyKeyRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewIdempotencyKeyRepository creates a new idempotency key repository
func NewIdempotencyKeyRepository(db *sql.DB, logger *zap.Logger) *idempotencyKeyRepository {
	return &idempotencyKeyRepository{
		db:     db,
		logger: logger,
	}
}

func (r *idempotencyKeyRepository) Create(ctx context.Context, key *domain.IdempotencyKey) error {
	query := `
		INSERT INTO idempotency_keys (key, user_id, quote_id, request_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if key.CreatedAt.IsZero() {
		key.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		key.Key,
		key.UserID,
		key.QuoteID,
		key.RequestHash,
		key.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create idempotency key", zap.Error(err))
		return err
	}

	return nil
}

func (r *idempotencyKeyRepository) GetByKey(ctx context.Context, userID uuid.UUID, key string) (*domain.IdempotencyKey, error) {
	query := `
		SELECT key, user_id, quote_id, request_hash, created_at
		FROM idempotency_keys
		WHERE user_id = $1 AND key = $2
	`

	var stored domain.IdempotencyKey
	err := r.db.QueryRowContext(ctx, query, userID, key).Scan(
		&stored.Key,
		&stored.UserID,
		&stored.QuoteID,
		&stored.RequestHash,
		&stored.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "idempotency key", ID: key}
	}
	if err != nil {
		r.logger.Error("Failed to get idempotency key", zap.Error(err))
		return nil, err
	}

	return &stored, nil
}
