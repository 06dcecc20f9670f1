package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/lib/pq"

	"github.com/bluewingapp/bluewing/internal/models"
)

type PostMediaRepository interface {
	Create(ctx context.Context, m *models.PostMedia) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.PostMedia, error)
	ListByIDs(ctx context.Context, ids []int64, userID int64) ([]*models.PostMedia, error)
	ListByPostID(ctx context.Context, postID int64) ([]*models.PostMedia, error)
	AttachToPost(ctx context.Context, tx *sql.Tx, mediaID, postID int64, altText string) error
	DetachFromPost(ctx context.Context, tx *sql.Tx, postID int64) error
	Remove(ctx context.Context, id int64) error
}

type postMediaRepository struct {
	db *sql.DB
}

func NewPostMediaRepository(db *sql.DB) PostMediaRepository {
	return &postMediaRepository{db: db}
}

const mediaColumns = `id, user_id, post_id, type, original_filename, mime_type, size_bytes, storage_disk, storage_path, alt_text, width, height, duration_seconds, created_at`

func scanMedia(row interface{ Scan(...any) error }) (*models.PostMedia, error) {
	var m models.PostMedia
	err := row.Scan(&m.ID, &m.UserID, &m.PostID, &m.Type, &m.OriginalFilename, &m.MimeType, &m.SizeBytes,
		&m.StorageDisk, &m.StoragePath, &m.AltText, &m.Width, &m.Height, &m.DurationSeconds, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *postMediaRepository) Create(ctx context.Context, m *models.PostMedia) (int64, error) {
	query := `
		INSERT INTO post_media (user_id, type, original_filename, mime_type, size_bytes, storage_disk, storage_path, alt_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		m.UserID, m.Type, m.OriginalFilename, m.MimeType, m.SizeBytes, m.StorageDisk, m.StoragePath, m.AltText,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postMediaRepository) GetByID(ctx context.Context, id int64) (*models.PostMedia, error) {
	query := `SELECT ` + mediaColumns + ` FROM post_media WHERE id = $1`

	m, err := scanMedia(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return m, nil
}

func (r *postMediaRepository) ListByIDs(ctx context.Context, ids []int64, userID int64) ([]*models.PostMedia, error) {
	query := `SELECT ` + mediaColumns + ` FROM post_media WHERE id = ANY($1) AND user_id = $2`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids), userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var items []*models.PostMedia
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *postMediaRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.PostMedia, error) {
	query := `SELECT ` + mediaColumns + ` FROM post_media WHERE post_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var items []*models.PostMedia
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *postMediaRepository) AttachToPost(ctx context.Context, tx *sql.Tx, mediaID, postID int64, altText string) error {
	query := `
		UPDATE post_media
		SET post_id = $1,
			alt_text = COALESCE(NULLIF($2, ''), alt_text)
		WHERE id = $3
	`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, postID, altText, mediaID)
	} else {
		_, err = r.db.ExecContext(ctx, query, postID, altText, mediaID)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postMediaRepository) DetachFromPost(ctx context.Context, tx *sql.Tx, postID int64) error {
	query := `UPDATE post_media SET post_id = NULL WHERE post_id = $1`

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

func (r *postMediaRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM post_media WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
