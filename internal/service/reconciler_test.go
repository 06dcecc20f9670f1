package service

import (
	"database/sql"
	"testing"
	"time"

	"github.com/bluewingapp/bluewing/internal/models"
)

func target(status models.PostTargetStatus) *models.PostTarget {
	return &models.PostTarget{Status: status}
}

func sentTarget(at time.Time) *models.PostTarget {
	return &models.PostTarget{
		Status: models.TargetStatusSent,
		SentAt: sql.NullTime{Time: at, Valid: true},
	}
}

func TestDerivePostStatus(t *testing.T) {
	t.Parallel()

	early := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	late := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		targets    []*models.PostTarget
		wantStatus models.PostStatus
		wantSentAt time.Time
		wantOK     bool
	}{
		{
			name:    "no targets means no change",
			targets: nil,
			wantOK:  false,
		},
		{
			name:    "pending target means no change",
			targets: []*models.PostTarget{sentTarget(early), target(models.TargetStatusPending)},
			wantOK:  false,
		},
		{
			name:    "queued target means no change",
			targets: []*models.PostTarget{target(models.TargetStatusFailed), target(models.TargetStatusQueued)},
			wantOK:  false,
		},
		{
			name:       "all sent",
			targets:    []*models.PostTarget{sentTarget(early), sentTarget(late)},
			wantStatus: models.PostStatusSent,
			wantSentAt: late,
			wantOK:     true,
		},
		{
			name:       "any failed wins over sent",
			targets:    []*models.PostTarget{sentTarget(early), target(models.TargetStatusFailed)},
			wantStatus: models.PostStatusFailed,
			wantOK:     true,
		},
		{
			name:       "all failed",
			targets:    []*models.PostTarget{target(models.TargetStatusFailed), target(models.TargetStatusFailed)},
			wantStatus: models.PostStatusFailed,
			wantOK:     true,
		},
		{
			name:       "skipped does not count as sent",
			targets:    []*models.PostTarget{sentTarget(late), target(models.TargetStatusSkipped)},
			wantStatus: models.PostStatusSent,
			wantSentAt: late,
			wantOK:     true,
		},
		{
			name:       "all skipped derives failed",
			targets:    []*models.PostTarget{target(models.TargetStatusSkipped), target(models.TargetStatusSkipped)},
			wantStatus: models.PostStatusFailed,
			wantOK:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			status, sentAt, ok := DerivePostStatus(tt.targets)
			if ok != tt.wantOK {
				t.Fatalf("DerivePostStatus ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if status != tt.wantStatus {
				t.Errorf("DerivePostStatus status = %s, want %s", status, tt.wantStatus)
			}
			if status == models.PostStatusSent && !sentAt.Equal(tt.wantSentAt) {
				t.Errorf("DerivePostStatus sentAt = %v, want %v", sentAt, tt.wantSentAt)
			}
		})
	}
}

// Deriving twice from the same target set must give the same answer.
// Reconciliation runs after every target completion and may run again on
// redelivered tasks.
func TestDerivePostStatusIdempotent(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	targets := []*models.PostTarget{sentTarget(at), target(models.TargetStatusFailed)}

	s1, t1, ok1 := DerivePostStatus(targets)
	s2, t2, ok2 := DerivePostStatus(targets)

	if s1 != s2 || !t1.Equal(t2) || ok1 != ok2 {
		t.Errorf("DerivePostStatus not stable: (%s, %v, %v) then (%s, %v, %v)", s1, t1, ok1, s2, t2, ok2)
	}
}
