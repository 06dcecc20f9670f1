package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/bluewingapp/bluewing/internal/models"
)

type PostVariantRepository interface {
	Create(ctx context.Context, tx *sql.Tx, variant *models.PostVariant) (int64, error)
	ListByPostID(ctx context.Context, postID int64) ([]*models.PostVariant, error)
	RemoveByPostID(ctx context.Context, tx *sql.Tx, postID int64) error
}

type postVariantRepository struct {
	db *sql.DB
}

func NewPostVariantRepository(db *sql.DB) PostVariantRepository {
	return &postVariantRepository{db: db}
}

func (r *postVariantRepository) Create(ctx context.Context, tx *sql.Tx, variant *models.PostVariant) (int64, error) {
	query := `
		INSERT INTO post_variants (post_id, scope_type, scope_value, body_text)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, variant.PostID, variant.ScopeType, variant.ScopeValue, variant.BodyText).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, variant.PostID, variant.ScopeType, variant.ScopeValue, variant.BodyText).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postVariantRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.PostVariant, error) {
	query := `
		SELECT id, post_id, scope_type, scope_value, body_text, created_at
		FROM post_variants
		WHERE post_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var variants []*models.PostVariant
	for rows.Next() {
		var v models.PostVariant
		if err := rows.Scan(&v.ID, &v.PostID, &v.ScopeType, &v.ScopeValue, &v.BodyText, &v.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		variants = append(variants, &v)
	}
	return variants, rows.Err()
}

func (r *postVariantRepository) RemoveByPostID(ctx context.Context, tx *sql.Tx, postID int64) error {
	query := `DELETE FROM post_variants WHERE post_id = $1`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, postID)
	} else {
		_, err = r.db.ExecContext(ctx, query, postID)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
