package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/bluewingapp/bluewing/internal/models"
)

type PostTargetRepository interface {
	Create(ctx context.Context, tx *sql.Tx, target *models.PostTarget) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.PostTarget, error)
	ListByPostID(ctx context.Context, postID int64) ([]*models.PostTarget, error)
	UpdateStatus(ctx context.Context, id int64, status models.PostTargetStatus) error
	MarkSent(ctx context.Context, id int64, sentAt time.Time) error
	MarkFailed(ctx context.Context, id int64, message string) error
	RemoveByPostID(ctx context.Context, tx *sql.Tx, postID int64) error
}

type postTargetRepository struct {
	db *sql.DB
}

func NewPostTargetRepository(db *sql.DB) PostTargetRepository {
	return &postTargetRepository{db: db}
}

const targetColumns = `id, post_id, social_account_id, status, sent_at, error_message, created_at, updated_at`

func scanTarget(row interface{ Scan(...any) error }) (*models.PostTarget, error) {
	var t models.PostTarget
	err := row.Scan(&t.ID, &t.PostID, &t.SocialAccountID, &t.Status, &t.SentAt, &t.ErrorMessage, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *postTargetRepository) Create(ctx context.Context, tx *sql.Tx, target *models.PostTarget) (int64, error) {
	query := `
		INSERT INTO post_targets (post_id, social_account_id, status)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, target.PostID, target.SocialAccountID, target.Status).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, target.PostID, target.SocialAccountID, target.Status).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postTargetRepository) GetByID(ctx context.Context, id int64) (*models.PostTarget, error) {
	query := `SELECT ` + targetColumns + ` FROM post_targets WHERE id = $1`

	target, err := scanTarget(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return target, nil
}

func (r *postTargetRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.PostTarget, error) {
	query := `SELECT ` + targetColumns + ` FROM post_targets WHERE post_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var targets []*models.PostTarget
	for rows.Next() {
		target, err := scanTarget(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		targets = append(targets, target)
	}
	return targets, rows.Err()
}

func (r *postTargetRepository) UpdateStatus(ctx context.Context, id int64, status models.PostTargetStatus) error {
	query := `
		UPDATE post_targets
		SET status = $1,
			updated_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postTargetRepository) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	query := `
		UPDATE post_targets
		SET status = $1,
			sent_at = $2,
			error_message = NULL,
			updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, models.TargetStatusSent, sentAt, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postTargetRepository) RemoveByPostID(ctx context.Context, tx *sql.Tx, postID int64) error {
	query := `DELETE FROM post_targets WHERE post_id = $1`

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

func (r *postTargetRepository) MarkFailed(ctx context.Context, id int64, message string) error {
	query := `
		UPDATE post_targets
		SET status = $1,
			error_message = $2,
			updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, models.TargetStatusFailed, message, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
