package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/visionify/partner-api/internal/domain"
	"github.com/visionify/partner-api/pkg/errors"
)

type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = `id, email, name, company_name, role, api_key_hash, is_active, created_at, updated_at`

func (r *userRepository) GetByAPIKey(ctx context.Context, apiKey string) (*domain.User, error) {
	// bcrypt hashes are salted, so there is no direct hash lookup: iterate
	// active users and verify the key against each stored hash.
	query := `SELECT ` + userColumns + ` FROM users WHERE is_active = true`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query users", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(user.APIKeyHash), []byte(apiKey)) == nil {
			return user, nil
		}
	}

	return nil, &errors.ErrUnauthorized{Message: "invalid API key"}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "user", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get user by ID", zap.Error(err))
		return nil, err
	}

	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "user", ID: email}
	}
	if err != nil {
		r.logger.Error("Failed to get user by email", zap.Error(err))
		return nil, err
	}

	return user, nil
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
}

func (r *userRepository) ListPartners(ctx context.Context) ([]*domain.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users WHERE role = 'partner' ORDER BY created_at`)
}

func (r *userRepository) list(ctx context.Context, query string) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list users", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			r.logger.Error("Failed to scan user", zap.Error(err))
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, name, company_name, role, api_key_hash, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	now := time.Now()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.CompanyName,
		user.Role,
		user.APIKeyHash,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create user", zap.Error(err))
		return err
	}

	return nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET email = $2, name = $3, company_name = $4, role = $5, api_key_hash = $6, is_active = $7, updated_at = $8
		WHERE id = $1
	`

	user.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.CompanyName,
		user.Role,
		user.APIKeyHash,
		user.IsActive,
		user.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to update user", zap.Error(err))
		return err
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var companyName sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&companyName,
		&user.Role,
		&user.APIKeyHash,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if companyName.Valid {
		user.CompanyName = &companyName.String
	}

	return &user, nil
}
