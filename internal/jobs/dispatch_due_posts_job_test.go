package jobs

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/bluewingapp/bluewing/internal/models"
)

type fakePostRepo struct {
	due       []*models.Post
	queued    map[int64][]int64
	queuedErr error
}

func (r *fakePostRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	return nil, nil
}

func (r *fakePostRepo) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	return 0, errors.New("not implemented")
}

func (r *fakePostRepo) Update(ctx context.Context, tx *sql.Tx, post *models.Post) error {
	return errors.New("not implemented")
}

func (r *fakePostRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.Post, error) {
	return nil, nil
}

func (r *fakePostRepo) ListDue(ctx context.Context, now time.Time) ([]*models.Post, error) {
	return r.due, nil
}

func (r *fakePostRepo) UpdateStatus(ctx context.Context, postID int64, status models.PostStatus) error {
	return errors.New("not implemented")
}

func (r *fakePostRepo) MarkQueued(ctx context.Context, postID int64, targetIDs []int64) error {
	if r.queuedErr != nil {
		return r.queuedErr
	}
	if r.queued == nil {
		r.queued = make(map[int64][]int64)
	}
	r.queued[postID] = targetIDs
	return nil
}

func (r *fakePostRepo) MarkSent(ctx context.Context, postID int64, sentAt time.Time) error {
	return nil
}

func (r *fakePostRepo) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	return false, nil
}

func (r *fakePostRepo) Remove(ctx context.Context, id int64) error {
	return nil
}

type fakeTargetRepo struct {
	byPost  map[int64][]*models.PostTarget
	listErr error
}

func (r *fakeTargetRepo) Create(ctx context.Context, tx *sql.Tx, target *models.PostTarget) (int64, error) {
	return 0, errors.New("not implemented")
}

func (r *fakeTargetRepo) GetByID(ctx context.Context, id int64) (*models.PostTarget, error) {
	return nil, nil
}

func (r *fakeTargetRepo) ListByPostID(ctx context.Context, postID int64) ([]*models.PostTarget, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.byPost[postID], nil
}

func (r *fakeTargetRepo) UpdateStatus(ctx context.Context, id int64, status models.PostTargetStatus) error {
	return nil
}

func (r *fakeTargetRepo) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	return nil
}

func (r *fakeTargetRepo) MarkFailed(ctx context.Context, id int64, message string) error {
	return nil
}

func (r *fakeTargetRepo) RemoveByPostID(ctx context.Context, tx *sql.Tx, postID int64) error {
	return errors.New("not implemented")
}

type fakeEnqueuer struct {
	enqueued []int64
	err      error
}

func (f *fakeEnqueuer) EnqueuePublishTarget(ctx context.Context, targetID int64) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, targetID)
	return nil
}

func scheduledPost(id int64) *models.Post {
	return &models.Post{ID: id, Status: models.PostStatusScheduled}
}

func TestDispatchDuePosts(t *testing.T) {
	t.Parallel()

	pr := &fakePostRepo{due: []*models.Post{scheduledPost(1), scheduledPost(2)}}
	tr := &fakeTargetRepo{byPost: map[int64][]*models.PostTarget{
		1: {
			{ID: 10, PostID: 1, Status: models.TargetStatusPending},
			{ID: 11, PostID: 1, Status: models.TargetStatusPending},
		},
		2: {
			{ID: 20, PostID: 2, Status: models.TargetStatusPending},
		},
	}}
	q := &fakeEnqueuer{}

	job := NewDispatchDuePostsJob(pr, tr, q)
	result, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned %v", err)
	}

	if result.PostsProcessed != 2 {
		t.Errorf("PostsProcessed = %d, want 2", result.PostsProcessed)
	}
	if result.JobsDispatched != 3 {
		t.Errorf("JobsDispatched = %d, want 3", result.JobsDispatched)
	}
	if len(q.enqueued) != 3 {
		t.Fatalf("enqueued %d tasks, want 3", len(q.enqueued))
	}

	if got := pr.queued[1]; len(got) != 2 || got[0] != 10 || got[1] != 11 {
		t.Errorf("post 1 queued targets = %v, want [10 11]", got)
	}
	if got := pr.queued[2]; len(got) != 1 || got[0] != 20 {
		t.Errorf("post 2 queued targets = %v, want [20]", got)
	}
}

func TestDispatchNoDuePosts(t *testing.T) {
	t.Parallel()

	job := NewDispatchDuePostsJob(&fakePostRepo{}, &fakeTargetRepo{}, &fakeEnqueuer{})
	result, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if result.PostsProcessed != 0 || result.JobsDispatched != 0 {
		t.Errorf("result = %+v, want zero", result)
	}
}

func TestDispatchSkipsNonPendingTargets(t *testing.T) {
	t.Parallel()

	pr := &fakePostRepo{due: []*models.Post{scheduledPost(1)}}
	tr := &fakeTargetRepo{byPost: map[int64][]*models.PostTarget{
		1: {
			{ID: 10, PostID: 1, Status: models.TargetStatusPending},
			{ID: 11, PostID: 1, Status: models.TargetStatusSent},
		},
	}}
	q := &fakeEnqueuer{}

	job := NewDispatchDuePostsJob(pr, tr, q)
	result, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned %v", err)
	}

	if result.JobsDispatched != 1 {
		t.Errorf("JobsDispatched = %d, want 1", result.JobsDispatched)
	}
	if len(q.enqueued) != 1 || q.enqueued[0] != 10 {
		t.Errorf("enqueued = %v, want [10]", q.enqueued)
	}
	if got := pr.queued[1]; len(got) != 1 || got[0] != 10 {
		t.Errorf("queued targets = %v, want only the pending one", got)
	}
}

// A failed target read must leave the post scheduled so the next tick can
// retry it.
func TestDispatchTargetListFailureLeavesPostUntouched(t *testing.T) {
	t.Parallel()

	pr := &fakePostRepo{due: []*models.Post{scheduledPost(1)}}
	tr := &fakeTargetRepo{listErr: errors.New("db down")}
	q := &fakeEnqueuer{}

	job := NewDispatchDuePostsJob(pr, tr, q)
	result, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned %v", err)
	}

	if result.PostsProcessed != 0 {
		t.Errorf("PostsProcessed = %d, want 0", result.PostsProcessed)
	}
	if len(pr.queued) != 0 {
		t.Error("post must not change when targets cannot be read")
	}
	if len(q.enqueued) != 0 {
		t.Errorf("enqueued = %v, want none", q.enqueued)
	}
}

// The post and target transitions ride one repository call; if it fails,
// nothing is enqueued and the post stays scheduled for the next tick
// instead of sitting queued with pending targets and no tasks.
func TestDispatchQueueTransitionFailureEnqueuesNothing(t *testing.T) {
	t.Parallel()

	pr := &fakePostRepo{
		due:       []*models.Post{scheduledPost(1)},
		queuedErr: errors.New("db down"),
	}
	tr := &fakeTargetRepo{byPost: map[int64][]*models.PostTarget{
		1: {{ID: 10, PostID: 1, Status: models.TargetStatusPending}},
	}}
	q := &fakeEnqueuer{}

	job := NewDispatchDuePostsJob(pr, tr, q)
	result, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned %v", err)
	}

	if result.PostsProcessed != 0 || result.JobsDispatched != 0 {
		t.Errorf("result = %+v, want zero", result)
	}
	if len(q.enqueued) != 0 {
		t.Errorf("enqueued = %v, want none", q.enqueued)
	}
}
