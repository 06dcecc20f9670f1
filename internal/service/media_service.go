package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"

	"github.com/h2non/filetype"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/bluewingapp/bluewing/internal/media"
	"github.com/bluewingapp/bluewing/internal/models"
	"github.com/bluewingapp/bluewing/internal/repository"
)

const mediaStorageDisk = "r2"

type MediaService interface {
	Upload(ctx context.Context, userID int64, file *multipart.FileHeader, altText string) (*models.PostMedia, error)
	Remove(ctx context.Context, userID, mediaID int64) error
}

type mediaService struct {
	pm      repository.PostMediaRepository
	storage MediaStorage
}

func NewMediaService(pm repository.PostMediaRepository, storage MediaStorage) MediaService {
	return &mediaService{pm: pm, storage: storage}
}

// Upload stores the file in R2 and records it as unattached media. The kind
// is classified from sniffed content, falling back to the declared content
// type; anything that is not an image or video is rejected outright instead
// of being misclassified downstream.
func (s *mediaService) Upload(ctx context.Context, userID int64, file *multipart.FileHeader, altText string) (*models.PostMedia, error) {
	src, err := file.Open()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer src.Close()

	contents, err := io.ReadAll(src)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	mimeType := file.Header.Get("Content-Type")
	if kind, err := filetype.Match(contents); err == nil && kind != filetype.Unknown {
		mimeType = kind.MIME.Value
	}

	if !filetype.IsImage(contents) && !filetype.IsVideo(contents) {
		err = fmt.Errorf("unsupported file type: %s", mimeType)
		slog.Info(err.Error())
		return nil, err
	}

	mediaType := media.DetectMediaType(mimeType)

	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	key := fmt.Sprintf("media/%s%s", id, filepath.Ext(file.Filename))

	if err := s.storage.Upload(ctx, key, contents, mimeType); err != nil {
		return nil, err
	}

	record := &models.PostMedia{
		UserID:           userID,
		Type:             mediaType,
		OriginalFilename: file.Filename,
		MimeType:         mimeType,
		SizeBytes:        int64(len(contents)),
		StorageDisk:      mediaStorageDisk,
		StoragePath:      key,
	}
	if altText != "" {
		record.AltText.String = altText
		record.AltText.Valid = true
	}

	mediaID, err := s.pm.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	record.ID = mediaID

	return record, nil
}

func (s *mediaService) Remove(ctx context.Context, userID, mediaID int64) error {
	record, err := s.pm.GetByID(ctx, mediaID)
	if err != nil {
		return err
	}
	if record == nil || record.UserID != userID {
		err = errors.New("media doesn't exist")
		slog.Info(err.Error())
		return err
	}
	if record.PostID.Valid {
		err = errors.New("cannot delete media that is attached to a post")
		slog.Info(err.Error())
		return err
	}

	if err := s.storage.Delete(ctx, record.StoragePath); err != nil {
		slog.Info(err.Error())
	}

	return s.pm.Remove(ctx, mediaID)
}
