package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	config "github.com/bluewingapp/bluewing/configs"
	"github.com/bluewingapp/bluewing/internal/models"
	"github.com/bluewingapp/bluewing/internal/provider"
	"github.com/bluewingapp/bluewing/internal/repository"
	"github.com/bluewingapp/bluewing/internal/transfer"
	"github.com/bluewingapp/bluewing/pkg/utils"
)

type AccountService interface {
	Connect(ctx context.Context, userID int64, req *transfer.ConnectAccount) (int64, error)
	List(ctx context.Context, userID int64) ([]*models.SocialAccount, error)
	CredentialFields(providerName string) ([]provider.CredentialField, error)
	Remove(ctx context.Context, userID, accountID int64) error
}

type accountService struct {
	cfg      config.Config
	sa       repository.SocialAccountRepository
	registry *provider.Registry
}

func NewAccountService(cfg config.Config, sa repository.SocialAccountRepository, registry *provider.Registry) AccountService {
	return &accountService{
		cfg:      cfg,
		sa:       sa,
		registry: registry,
	}
}

// Connect validates the supplied credentials with the provider client and
// stores them encrypted.
func (s *accountService) Connect(ctx context.Context, userID int64, req *transfer.ConnectAccount) (int64, error) {
	if req == nil {
		return 0, errors.New("account connection data is nil")
	}

	providerName, ok := models.ParseProvider(req.Provider)
	if !ok {
		err := errors.New("unsupported provider: " + req.Provider)
		slog.Info(err.Error())
		return 0, err
	}

	if strings.TrimSpace(req.ExternalIdentifier) == "" {
		err := errors.New("external identifier cannot be empty")
		slog.Info(err.Error())
		return 0, err
	}

	client, err := s.registry.Get(providerName)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	if v := client.ValidateCredentials(req.Credentials); !v.Valid {
		err := errors.New(v.Message)
		slog.Info(err.Error())
		return 0, err
	}

	blob, err := json.Marshal(req.Credentials)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	encrypted, err := utils.Encrypt(blob, []byte(s.cfg.SecretKey))
	if err != nil {
		return 0, err
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.ExternalIdentifier
	}

	return s.sa.Create(ctx, nil, &models.SocialAccount{
		UserID:               userID,
		Provider:             providerName,
		DisplayName:          displayName,
		ExternalIdentifier:   req.ExternalIdentifier,
		CredentialsEncrypted: encrypted,
	})
}

func (s *accountService) List(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	return s.sa.ListByUserID(ctx, userID)
}

func (s *accountService) CredentialFields(providerName string) ([]provider.CredentialField, error) {
	p, ok := models.ParseProvider(providerName)
	if !ok {
		return nil, errors.New("unsupported provider: " + providerName)
	}

	client, err := s.registry.Get(p)
	if err != nil {
		return nil, err
	}

	return client.CredentialFields(), nil
}

func (s *accountService) Remove(ctx context.Context, userID, accountID int64) error {
	isValid, err := s.sa.CheckByUserID(ctx, accountID, userID)
	if err != nil {
		return err
	}
	if !isValid {
		err = errors.New("account doesn't exist")
		slog.Info(err.Error())
		return err
	}

	return s.sa.Remove(ctx, accountID)
}
