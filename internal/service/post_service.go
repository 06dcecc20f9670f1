package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bluewingapp/bluewing/internal/media"
	"github.com/bluewingapp/bluewing/internal/models"
	"github.com/bluewingapp/bluewing/internal/repository"
	"github.com/bluewingapp/bluewing/internal/transfer"
)

type PostService interface {
	CreatePost(ctx context.Context, userID int64, pc *transfer.PostCreation) (int64, error)
	Update(ctx context.Context, userID, postID int64, pc *transfer.PostCreation) error
	List(ctx context.Context, userID int64) ([]*models.Post, error)
	PostInfo(ctx context.Context, postID, userID int64) (*transfer.PostDetail, error)
	Remove(ctx context.Context, userID, postID int64) error
}

type postService struct {
	db        *sql.DB
	pr        repository.PostRepository
	tr        repository.PostTargetRepository
	vr        repository.PostVariantRepository
	ac        repository.SocialAccountRepository
	pm        repository.PostMediaRepository
	validator *media.Validator
}

func NewPostService(
	db *sql.DB,
	pr repository.PostRepository,
	tr repository.PostTargetRepository,
	vr repository.PostVariantRepository,
	ac repository.SocialAccountRepository,
	pm repository.PostMediaRepository,
	validator *media.Validator) PostService {
	return &postService{
		db:        db,
		pr:        pr,
		tr:        tr,
		vr:        vr,
		ac:        ac,
		pm:        pm,
		validator: validator,
	}
}

// CreatePost creates a post with its variants, targets, and attached media
// inside one transaction. Media is validated against the limits of every
// targeted provider before anything is written.
func (s *postService) CreatePost(ctx context.Context, userID int64, pc *transfer.PostCreation) (int64, error) {
	status, scheduledFor, err := resolveSchedule(pc)
	if err != nil {
		return 0, err
	}

	accounts, err := s.loadTargetAccounts(ctx, userID, pc.TargetAccountIDs)
	if err != nil {
		return 0, err
	}

	mediaRecords, err := s.loadAndValidateMedia(ctx, userID, pc.MediaIDs, accounts)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	defer tx.Rollback()

	postID, err := s.pr.Create(ctx, tx, &models.Post{
		UserID:       userID,
		ScheduledFor: scheduledFor,
		Status:       status,
	})
	if err != nil {
		return 0, err
	}

	if err := s.createVariants(ctx, tx, postID, pc); err != nil {
		return 0, err
	}

	for _, accountID := range pc.TargetAccountIDs {
		_, err := s.tr.Create(ctx, tx, &models.PostTarget{
			PostID:          postID,
			SocialAccountID: accountID,
			Status:          models.TargetStatusPending,
		})
		if err != nil {
			return 0, err
		}
	}

	for _, m := range mediaRecords {
		if err := s.pm.AttachToPost(ctx, tx, m.ID, postID, pc.AltTexts[m.ID]); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return postID, nil
}

// Update rewrites a draft or scheduled post from the same request shape as
// CreatePost: variants, targets, and media attachments are replaced wholesale
// inside one transaction. Posts already picked up for publishing cannot be
// edited.
func (s *postService) Update(ctx context.Context, userID, postID int64, pc *transfer.PostCreation) error {
	status, scheduledFor, err := resolveSchedule(pc)
	if err != nil {
		return err
	}

	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !isValid {
		err = errors.New("post doesn't exist")
		slog.Info(err.Error())
		return err
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		err = errors.New("post doesn't exist")
		slog.Info(err.Error())
		return err
	}
	if post.Status != models.PostStatusDraft && post.Status != models.PostStatusScheduled {
		err = errors.New("only draft or scheduled posts can be edited")
		slog.Info(err.Error())
		return err
	}

	accounts, err := s.loadTargetAccounts(ctx, userID, pc.TargetAccountIDs)
	if err != nil {
		return err
	}

	mediaRecords, err := s.loadAndValidateMedia(ctx, userID, pc.MediaIDs, accounts)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer tx.Rollback()

	post.Status = status
	post.ScheduledFor = scheduledFor
	if err := s.pr.Update(ctx, tx, post); err != nil {
		return err
	}

	if err := s.vr.RemoveByPostID(ctx, tx, postID); err != nil {
		return err
	}
	if err := s.createVariants(ctx, tx, postID, pc); err != nil {
		return err
	}

	if err := s.tr.RemoveByPostID(ctx, tx, postID); err != nil {
		return err
	}
	for _, accountID := range pc.TargetAccountIDs {
		_, err := s.tr.Create(ctx, tx, &models.PostTarget{
			PostID:          postID,
			SocialAccountID: accountID,
			Status:          models.TargetStatusPending,
		})
		if err != nil {
			return err
		}
	}

	if err := s.pm.DetachFromPost(ctx, tx, postID); err != nil {
		return err
	}
	for _, m := range mediaRecords {
		if err := s.pm.AttachToPost(ctx, tx, m.ID, postID, pc.AltTexts[m.ID]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}

// resolveSchedule validates the request shape shared by create and update and
// resolves the post status plus its scheduled time.
func resolveSchedule(pc *transfer.PostCreation) (models.PostStatus, sql.NullTime, error) {
	if pc == nil {
		err := errors.New("post data is nil")
		slog.Error(err.Error())
		return "", sql.NullTime{}, err
	}
	if strings.TrimSpace(pc.BodyText) == "" {
		err := errors.New("post text cannot be empty")
		slog.Info(err.Error())
		return "", sql.NullTime{}, err
	}
	if len(pc.TargetAccountIDs) == 0 {
		err := errors.New("no social accounts selected")
		slog.Info(err.Error())
		return "", sql.NullTime{}, err
	}

	if pc.Status == string(models.PostStatusScheduled) {
		parsed, err := time.Parse("2006-01-02T15:04", pc.ScheduledFor)
		if err != nil {
			err = fmt.Errorf("invalid scheduled time format: %w", err)
			slog.Info(err.Error())
			return "", sql.NullTime{}, err
		}
		return models.PostStatusScheduled, sql.NullTime{Time: parsed, Valid: true}, nil
	}

	return models.PostStatusDraft, sql.NullTime{}, nil
}

func (s *postService) loadTargetAccounts(ctx context.Context, userID int64, accountIDs []int64) ([]*models.SocialAccount, error) {
	accounts, err := s.ac.ListByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	if len(accounts) != len(accountIDs) {
		err = errors.New("one or more selected accounts could not be found")
		slog.Info(err.Error())
		return nil, err
	}
	for _, account := range accounts {
		if account.UserID != userID {
			err = errors.New("you do not have permission to publish to one of the selected accounts")
			slog.Info(err.Error())
			return nil, err
		}
	}
	return accounts, nil
}

func (s *postService) createVariants(ctx context.Context, tx *sql.Tx, postID int64, pc *transfer.PostCreation) error {
	_, err := s.vr.Create(ctx, tx, &models.PostVariant{
		PostID:    postID,
		ScopeType: models.ScopeDefault,
		BodyText:  pc.BodyText,
	})
	if err != nil {
		return err
	}

	for providerName, text := range pc.ProviderOverrides {
		if strings.TrimSpace(text) == "" {
			continue
		}
		if _, ok := models.ParseProvider(providerName); !ok {
			err := fmt.Errorf("unknown provider override: %s", providerName)
			slog.Info(err.Error())
			return err
		}
		_, err := s.vr.Create(ctx, tx, &models.PostVariant{
			PostID:     postID,
			ScopeType:  models.ScopeProvider,
			ScopeValue: sql.NullString{String: providerName, Valid: true},
			BodyText:   text,
		})
		if err != nil {
			return err
		}
	}

	for accountID, text := range pc.AccountOverrides {
		if strings.TrimSpace(text) == "" {
			continue
		}
		_, err := s.vr.Create(ctx, tx, &models.PostVariant{
			PostID:     postID,
			ScopeType:  models.ScopeSocialAccount,
			ScopeValue: sql.NullString{String: strconv.FormatInt(accountID, 10), Valid: true},
			BodyText:   text,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *postService) loadAndValidateMedia(ctx context.Context, userID int64, mediaIDs []int64, accounts []*models.SocialAccount) ([]*models.PostMedia, error) {
	if len(mediaIDs) == 0 {
		return nil, nil
	}

	records, err := s.pm.ListByIDs(ctx, mediaIDs, userID)
	if err != nil {
		return nil, err
	}
	if len(records) != len(mediaIDs) {
		err = errors.New("one or more media files could not be found or do not belong to you")
		slog.Info(err.Error())
		return nil, err
	}

	seen := make(map[models.Provider]bool)
	var providers []models.Provider
	for _, account := range accounts {
		if !seen[account.Provider] {
			seen[account.Provider] = true
			providers = append(providers, account.Provider)
		}
	}

	descriptors := make([]media.Descriptor, 0, len(records))
	for _, m := range records {
		descriptors = append(descriptors, media.Descriptor{
			Type:      m.Type,
			MimeType:  m.MimeType,
			SizeBytes: m.SizeBytes,
			Filename:  m.OriginalFilename,
		})
	}

	if errs := s.validator.Validate(descriptors, providers); len(errs) > 0 {
		err = errors.New(strings.Join(errs, " "))
		slog.Info(err.Error())
		return nil, err
	}

	return records, nil
}

func (s *postService) List(ctx context.Context, userID int64) ([]*models.Post, error) {
	posts, err := s.pr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing posts")
	}
	return posts, nil
}

func (s *postService) PostInfo(ctx context.Context, postID, userID int64) (*transfer.PostDetail, error) {
	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if !isValid {
		err = errors.New("post doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	targets, err := s.tr.ListByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	variants, err := s.vr.ListByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	mediaRecords, err := s.pm.ListByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &transfer.PostDetail{
		Post:     post,
		Targets:  targets,
		Variants: variants,
		Media:    mediaRecords,
	}, nil
}

func (s *postService) Remove(ctx context.Context, userID, postID int64) error {
	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !isValid {
		err = errors.New("post doesn't exist")
		slog.Info(err.Error())
		return err
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post != nil && (post.Status == models.PostStatusQueued || post.Status == models.PostStatusPublishing) {
		err = errors.New("cannot remove a post while it is being published")
		slog.Info(err.Error())
		return err
	}

	if err := s.pr.Remove(ctx, postID); err != nil {
		return fmt.Errorf("error removing post")
	}

	return nil
}
