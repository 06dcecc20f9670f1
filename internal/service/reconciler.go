package service

import (
	"context"
	"time"

	"github.com/bluewingapp/bluewing/internal/models"
	"github.com/bluewingapp/bluewing/internal/repository"
)

// DerivePostStatus computes the post-level status implied by the current
// target statuses. The boolean is false while any target is still pending or
// queued, meaning no change should be applied yet. sentAt is meaningful only
// when the derived status is sent: it is the latest target sent time.
//
// Skipped targets are excluded from the all-sent check. A post whose targets
// all ended skipped delivered nothing and no further task will run for it,
// so it derives as failed rather than staying in publishing forever.
func DerivePostStatus(targets []*models.PostTarget) (models.PostStatus, time.Time, bool) {
	if len(targets) == 0 {
		return "", time.Time{}, false
	}

	var sent, failed int
	var maxSentAt time.Time

	for _, t := range targets {
		switch t.Status {
		case models.TargetStatusPending, models.TargetStatusQueued:
			return "", time.Time{}, false
		case models.TargetStatusSent:
			sent++
			if t.SentAt.Valid && t.SentAt.Time.After(maxSentAt) {
				maxSentAt = t.SentAt.Time
			}
		case models.TargetStatusFailed:
			failed++
		}
	}

	if failed == 0 && sent > 0 {
		return models.PostStatusSent, maxSentAt, true
	}

	return models.PostStatusFailed, time.Time{}, true
}

// PostReconciler recomputes a post's aggregate status from its targets.
// It re-reads target state on every call, so it stays correct under any
// completion order of sibling targets and repeated invocations converge on
// the same result.
type PostReconciler interface {
	Reconcile(ctx context.Context, postID int64) error
}

type postReconciler struct {
	pr repository.PostRepository
	tr repository.PostTargetRepository
}

func NewPostReconciler(pr repository.PostRepository, tr repository.PostTargetRepository) PostReconciler {
	return &postReconciler{pr: pr, tr: tr}
}

func (s *postReconciler) Reconcile(ctx context.Context, postID int64) error {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	// Sent, failed and cancelled posts only change through explicit
	// cancel or delete, never through late-arriving target outcomes.
	if post == nil || post.Status.Terminal() {
		return nil
	}

	targets, err := s.tr.ListByPostID(ctx, postID)
	if err != nil {
		return err
	}

	status, sentAt, ok := DerivePostStatus(targets)
	if !ok {
		return nil
	}

	if status == models.PostStatusSent {
		return s.pr.MarkSent(ctx, postID, sentAt)
	}
	return s.pr.UpdateStatus(ctx, postID, status)
}
