package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/bluewingapp/bluewing/internal/models"
	"github.com/bluewingapp/bluewing/internal/provider"
	"github.com/bluewingapp/bluewing/internal/service"
	"github.com/bluewingapp/bluewing/pkg/utils"
)

// HandlePublishTargetTask publishes one post target to its provider.
//
// Database failures return an error so asynq retries the task. Provider
// rejections and unrecoverable target states mark the target failed and
// return nil; retrying would not change the outcome. Unreadable media items
// are skipped with a warning and the publish proceeds with whatever loaded.
// Delivery is at least once, so the handler bails out first when the target
// already reached a terminal state.
func (q *Queue) HandlePublishTargetTask(ctx context.Context, t *asynq.Task) error {
	var payload PublishTargetPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}

	target, err := q.tr.GetByID(ctx, payload.TargetID)
	if err != nil {
		return err
	}
	if target == nil {
		slog.Info("publish target no longer exists", "target_id", payload.TargetID)
		return nil
	}
	if target.Status.Terminal() {
		slog.Info("publish target already in terminal state", "target_id", target.ID, "status", target.Status)
		return nil
	}

	post, err := q.pr.GetByID(ctx, target.PostID)
	if err != nil {
		return err
	}
	if post == nil || post.Status.Terminal() {
		if err := q.tr.UpdateStatus(ctx, target.ID, models.TargetStatusSkipped); err != nil {
			return err
		}
		if post != nil {
			return q.reconciler.Reconcile(ctx, post.ID)
		}
		return nil
	}

	if post.Status != models.PostStatusPublishing {
		if err := q.pr.UpdateStatus(ctx, post.ID, models.PostStatusPublishing); err != nil {
			return err
		}
	}

	account, err := q.sa.GetByID(ctx, target.SocialAccountID)
	if err != nil {
		return err
	}
	if account == nil {
		return q.failTarget(ctx, target, "Social account no longer exists.")
	}

	variants, err := q.vr.ListByPostID(ctx, post.ID)
	if err != nil {
		return err
	}

	text, ok := service.ResolveTextForTarget(account, variants)
	if !ok || text == "" {
		return q.failTarget(ctx, target, "No text content resolved for this target")
	}

	media, err := q.buildMediaItems(ctx, post.ID)
	if err != nil {
		return err
	}

	client, err := q.registry.Get(account.Provider)
	if err != nil {
		return q.failTarget(ctx, target, err.Error())
	}

	credentials, err := q.decryptCredentials(account)
	if err != nil {
		return q.failTarget(ctx, target, "Could not decrypt account credentials.")
	}

	result := client.Publish(ctx, account.ExternalIdentifier, credentials, text, media)

	// Refreshed tokens must survive even a failed publish or the next
	// attempt would reuse the stale ones.
	if result.RefreshedCredentials != nil {
		if err := q.persistCredentials(ctx, account.ID, result.RefreshedCredentials); err != nil {
			slog.Info(err.Error())
		}
	}

	if !result.Success {
		return q.failTarget(ctx, target, result.ErrorMessage)
	}

	if err := q.tr.MarkSent(ctx, target.ID, time.Now()); err != nil {
		return err
	}

	for mediaID, providerMediaID := range result.ProviderMediaIDs {
		_, err := q.tm.Create(ctx, &models.PostTargetMedia{
			PostTargetID:    target.ID,
			PostMediaID:     mediaID,
			ProviderMediaID: providerMediaID,
		})
		if err != nil {
			slog.Info(err.Error())
		}
	}

	slog.Info("published post target", "target_id", target.ID, "provider", account.Provider, "external_post_id", result.ExternalPostID)

	return q.reconciler.Reconcile(ctx, post.ID)
}

func (q *Queue) failTarget(ctx context.Context, target *models.PostTarget, message string) error {
	if err := q.tr.MarkFailed(ctx, target.ID, message); err != nil {
		return err
	}
	return q.reconciler.Reconcile(ctx, target.PostID)
}

// buildMediaItems loads the post's attached media bytes from storage.
// A single unreadable item is skipped with a warning rather than sinking
// the whole publish.
func (q *Queue) buildMediaItems(ctx context.Context, postID int64) ([]provider.MediaItem, error) {
	records, err := q.pm.ListByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	var items []provider.MediaItem
	for _, m := range records {
		contents, err := q.storage.Download(ctx, m.StoragePath)
		if err != nil {
			slog.Warn("skipping unreadable media", "media_id", m.ID, "path", m.StoragePath, "error", err.Error())
			continue
		}

		item := provider.MediaItem{
			ID:        m.ID,
			Type:      m.Type,
			MimeType:  m.MimeType,
			Contents:  contents,
			SizeBytes: m.SizeBytes,
			Filename:  m.OriginalFilename,
		}
		if m.AltText.Valid {
			item.AltText = m.AltText.String
		}
		items = append(items, item)
	}
	return items, nil
}

func (q *Queue) decryptCredentials(account *models.SocialAccount) (map[string]string, error) {
	plaintext, err := utils.Decrypt(account.CredentialsEncrypted, []byte(q.secretKey))
	if err != nil {
		return nil, err
	}

	var credentials map[string]string
	if err := json.Unmarshal([]byte(plaintext), &credentials); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return credentials, nil
}

func (q *Queue) persistCredentials(ctx context.Context, accountID int64, credentials map[string]string) error {
	blob, err := json.Marshal(credentials)
	if err != nil {
		return err
	}

	encrypted, err := utils.Encrypt(blob, []byte(q.secretKey))
	if err != nil {
		return err
	}

	return q.sa.UpdateCredentials(ctx, accountID, encrypted)
}
