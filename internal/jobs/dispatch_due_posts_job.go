package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bluewingapp/bluewing/internal/models"
	"github.com/bluewingapp/bluewing/internal/repository"
)

// TargetEnqueuer pushes one publish task per post target onto the queue.
type TargetEnqueuer interface {
	EnqueuePublishTarget(ctx context.Context, targetID int64) error
}

type DispatchResult struct {
	PostsProcessed int
	JobsDispatched int
}

// DispatchDuePostsJob finds scheduled posts whose time has come, flips them
// and their targets to queued, and enqueues one publish task per target.
type DispatchDuePostsJob struct {
	pr repository.PostRepository
	tr repository.PostTargetRepository
	q  TargetEnqueuer
}

func NewDispatchDuePostsJob(pr repository.PostRepository, tr repository.PostTargetRepository, q TargetEnqueuer) *DispatchDuePostsJob {
	return &DispatchDuePostsJob{
		pr: pr,
		tr: tr,
		q:  q,
	}
}

func (j *DispatchDuePostsJob) Run(ctx context.Context) (DispatchResult, error) {
	var result DispatchResult

	posts, err := j.pr.ListDue(ctx, time.Now())
	if err != nil {
		return result, err
	}

	if len(posts) == 0 {
		slog.Info("No due posts found.")
		return result, nil
	}

	for _, post := range posts {
		// Targets are listed before any status change so a read failure
		// leaves the post scheduled for the next tick.
		targets, err := j.tr.ListByPostID(ctx, post.ID)
		if err != nil {
			slog.Info(err.Error())
			continue
		}

		var pending []int64
		for _, target := range targets {
			if target.Status == models.TargetStatusPending {
				pending = append(pending, target.ID)
			}
		}

		// Post and target transitions happen in one transaction; a failure
		// leaves the post scheduled so the next tick picks it up again.
		if err := j.pr.MarkQueued(ctx, post.ID, pending); err != nil {
			slog.Info(err.Error())
			continue
		}

		for _, targetID := range pending {
			if err := j.q.EnqueuePublishTarget(ctx, targetID); err != nil {
				slog.Info(err.Error())
				continue
			}
			result.JobsDispatched++
		}
		result.PostsProcessed++
	}

	slog.Info(fmt.Sprintf("Dispatched %d publish jobs for %d posts.", result.JobsDispatched, result.PostsProcessed))
	return result, nil
}

// Dispatch adapts Run to the niladic signature cron wants.
func (j *DispatchDuePostsJob) Dispatch() {
	if _, err := j.Run(context.Background()); err != nil {
		slog.Info(err.Error())
	}
}
