package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bluewingapp/bluewing/internal/models"
	"github.com/bluewingapp/bluewing/internal/transfer"
)

type stubPostRepo struct {
	post  *models.Post
	owned bool
}

func (r *stubPostRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	return r.post, nil
}

func (r *stubPostRepo) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	return 0, errors.New("not implemented")
}

func (r *stubPostRepo) Update(ctx context.Context, tx *sql.Tx, post *models.Post) error {
	return errors.New("not implemented")
}

func (r *stubPostRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.Post, error) {
	return nil, nil
}

func (r *stubPostRepo) ListDue(ctx context.Context, now time.Time) ([]*models.Post, error) {
	return nil, nil
}

func (r *stubPostRepo) UpdateStatus(ctx context.Context, postID int64, status models.PostStatus) error {
	return nil
}

func (r *stubPostRepo) MarkQueued(ctx context.Context, postID int64, targetIDs []int64) error {
	return nil
}

func (r *stubPostRepo) MarkSent(ctx context.Context, postID int64, sentAt time.Time) error {
	return nil
}

func (r *stubPostRepo) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	return r.owned, nil
}

func (r *stubPostRepo) Remove(ctx context.Context, id int64) error {
	return nil
}

type stubAccountRepo struct {
	accounts []*models.SocialAccount
}

func (r *stubAccountRepo) Create(ctx context.Context, tx *sql.Tx, sa *models.SocialAccount) (int64, error) {
	return 0, errors.New("not implemented")
}

func (r *stubAccountRepo) GetByID(ctx context.Context, id int64) (*models.SocialAccount, error) {
	return nil, nil
}

func (r *stubAccountRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	return nil, nil
}

func (r *stubAccountRepo) ListByIDs(ctx context.Context, ids []int64) ([]*models.SocialAccount, error) {
	return r.accounts, nil
}

func (r *stubAccountRepo) UpdateCredentials(ctx context.Context, id int64, credentialsEncrypted string) error {
	return nil
}

func (r *stubAccountRepo) CheckByUserID(ctx context.Context, accountID, userID int64) (bool, error) {
	return false, nil
}

func (r *stubAccountRepo) Remove(ctx context.Context, id int64) error {
	return nil
}

func editRequest() *transfer.PostCreation {
	return &transfer.PostCreation{
		BodyText:         "updated text",
		Status:           "draft",
		TargetAccountIDs: []int64{100},
	}
}

func TestUpdateRejectsInvalidRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pr      *stubPostRepo
		ac      *stubAccountRepo
		pc      *transfer.PostCreation
		wantErr string
	}{
		{
			name:    "nil request",
			pr:      &stubPostRepo{},
			ac:      &stubAccountRepo{},
			pc:      nil,
			wantErr: "post data is nil",
		},
		{
			name: "empty body text",
			pr:   &stubPostRepo{},
			ac:   &stubAccountRepo{},
			pc: &transfer.PostCreation{
				BodyText:         "   ",
				TargetAccountIDs: []int64{100},
			},
			wantErr: "post text cannot be empty",
		},
		{
			name: "no target accounts",
			pr:   &stubPostRepo{},
			ac:   &stubAccountRepo{},
			pc: &transfer.PostCreation{
				BodyText: "hello",
			},
			wantErr: "no social accounts selected",
		},
		{
			name: "bad scheduled time",
			pr:   &stubPostRepo{},
			ac:   &stubAccountRepo{},
			pc: &transfer.PostCreation{
				BodyText:         "hello",
				Status:           "scheduled",
				ScheduledFor:     "next tuesday",
				TargetAccountIDs: []int64{100},
			},
			wantErr: "invalid scheduled time format",
		},
		{
			name:    "post not owned",
			pr:      &stubPostRepo{owned: false},
			ac:      &stubAccountRepo{},
			pc:      editRequest(),
			wantErr: "post doesn't exist",
		},
		{
			name: "queued post is not editable",
			pr: &stubPostRepo{
				owned: true,
				post:  &models.Post{ID: 1, UserID: 1, Status: models.PostStatusQueued},
			},
			ac:      &stubAccountRepo{},
			pc:      editRequest(),
			wantErr: "only draft or scheduled posts can be edited",
		},
		{
			name: "sent post is not editable",
			pr: &stubPostRepo{
				owned: true,
				post:  &models.Post{ID: 1, UserID: 1, Status: models.PostStatusSent},
			},
			ac:      &stubAccountRepo{},
			pc:      editRequest(),
			wantErr: "only draft or scheduled posts can be edited",
		},
		{
			name: "target account owned by someone else",
			pr: &stubPostRepo{
				owned: true,
				post:  &models.Post{ID: 1, UserID: 1, Status: models.PostStatusDraft},
			},
			ac: &stubAccountRepo{accounts: []*models.SocialAccount{
				{ID: 100, UserID: 2, Provider: models.ProviderBluesky},
			}},
			pc:      editRequest(),
			wantErr: "you do not have permission",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewPostService(nil, tt.pr, nil, nil, tt.ac, nil, nil)

			err := s.Update(context.Background(), 1, 1, tt.pc)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestCreatePostRejectsInvalidRequests(t *testing.T) {
	t.Parallel()

	s := NewPostService(nil, &stubPostRepo{}, nil, nil, &stubAccountRepo{}, nil, nil)

	tests := []struct {
		name    string
		pc      *transfer.PostCreation
		wantErr string
	}{
		{
			name:    "nil request",
			pc:      nil,
			wantErr: "post data is nil",
		},
		{
			name: "missing accounts",
			pc: &transfer.PostCreation{
				BodyText:         "hello",
				TargetAccountIDs: []int64{100},
			},
			wantErr: "one or more selected accounts could not be found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := s.CreatePost(context.Background(), 1, tt.pc)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
