package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/bluewingapp/bluewing/internal/models"
)

type PostTargetMediaRepository interface {
	Create(ctx context.Context, link *models.PostTargetMedia) (int64, error)
	ListByTargetID(ctx context.Context, targetID int64) ([]*models.PostTargetMedia, error)
}

type postTargetMediaRepository struct {
	db *sql.DB
}

func NewPostTargetMediaRepository(db *sql.DB) PostTargetMediaRepository {
	return &postTargetMediaRepository{db: db}
}

func (r *postTargetMediaRepository) Create(ctx context.Context, link *models.PostTargetMedia) (int64, error) {
	query := `
		INSERT INTO post_target_media (post_target_id, post_media_id, provider_media_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, link.PostTargetID, link.PostMediaID, link.ProviderMediaID).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postTargetMediaRepository) ListByTargetID(ctx context.Context, targetID int64) ([]*models.PostTargetMedia, error) {
	query := `
		SELECT id, post_target_id, post_media_id, provider_media_id, created_at
		FROM post_target_media
		WHERE post_target_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, targetID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var links []*models.PostTargetMedia
	for rows.Next() {
		var l models.PostTargetMedia
		if err := rows.Scan(&l.ID, &l.PostTargetID, &l.PostMediaID, &l.ProviderMediaID, &l.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		links = append(links, &l)
	}
	return links, rows.Err()
}
