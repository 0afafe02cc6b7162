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

type resourceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewResourceRepository creates a new learning resource repository
func NewResourceRepository(db *sql.DB, logger *zap.Logger) *resourceRepository {
	return &resourceRepository{
		db:     db,
		logger: logger,
	}
}

const resourceColumns = `id, title, type, url, description, tags, published, created_by, created_at, updated_at`

func (r *resourceRepository) Create(ctx context.Context, res *domain.LearningResource) error {
	query := `
		INSERT INTO learning_resources (` + resourceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	now := time.Now()
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = now
	}
	if res.UpdatedAt.IsZero() {
		res.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		res.ID,
		res.Title,
		res.Type,
		res.URL,
		res.Description,
		pq.Array(res.Tags),
		res.Published,
		res.CreatedBy,
		res.CreatedAt,
		res.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create learning resource", zap.Error(err))
		return err
	}

	return nil
}

func (r *resourceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningResource, error) {
	query := `SELECT ` + resourceColumns + ` FROM learning_resources WHERE id = $1`

	res, err := scanResource(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "learning resource", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get learning resource", zap.Error(err))
		return nil, err
	}

	return res, nil
}

func (r *resourceRepository) List(ctx context.Context, publishedOnly bool) ([]*domain.LearningResource, error) {
	query := `SELECT ` + resourceColumns + ` FROM learning_resources ORDER BY created_at DESC`
	if publishedOnly {
		query = `SELECT ` + resourceColumns + ` FROM learning_resources WHERE published = true ORDER BY created_at DESC`
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list learning resources", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var resources []*domain.LearningResource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			r.logger.Error("Failed to scan learning resource", zap.Error(err))
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}

func (r *resourceRepository) Update(ctx context.Context, res *domain.LearningResource) error {
	query := `
		UPDATE learning_resources
		SET title = $2, type = $3, url = $4, description = $5, tags = $6, published = $7, updated_at = $8
		WHERE id = $1
	`

	res.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		res.ID,
		res.Title,
		res.Type,
		res.URL,
		res.Description,
		pq.Array(res.Tags),
		res.Published,
		res.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to update learning resource", zap.Error(err))
		return err
	}

	return nil
}

func (r *resourceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM learning_resources WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete learning resource", zap.Error(err))
		return err
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return &errors.ErrNotFound{Resource: "learning resource", ID: id.String()}
	}
	return nil
}

func scanResource(row rowScanner) (*domain.LearningResource, error) {
	var res domain.LearningResource
	var description sql.NullString
	var createdBy uuid.NullUUID

	err := row.Scan(
		&res.ID,
		&res.Title,
		&res.Type,
		&res.URL,
		&description,
		pq.Array(&res.Tags),
		&res.Published,
		&createdBy,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		res.Description = &description.String
	}
	if createdBy.Valid {
		res.CreatedBy = &createdBy.UUID
	}

	return &res, nil
}
