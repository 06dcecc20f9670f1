package queue

import (
	"github.com/bluewingapp/bluewing/internal/provider"
	"github.com/bluewingapp/bluewing/internal/repository"
	"github.com/bluewingapp/bluewing/internal/service"
)

// Queue holds everything the publish worker needs to take one post target
// from queued to a terminal state.
type Queue struct {
	pr         repository.PostRepository
	tr         repository.PostTargetRepository
	vr         repository.PostVariantRepository
	sa         repository.SocialAccountRepository
	pm         repository.PostMediaRepository
	tm         repository.PostTargetMediaRepository
	registry   *provider.Registry
	storage    service.MediaStorage
	reconciler service.PostReconciler
	secretKey  string
}

func NewQueue(
	pr repository.PostRepository,
	tr repository.PostTargetRepository,
	vr repository.PostVariantRepository,
	sa repository.SocialAccountRepository,
	pm repository.PostMediaRepository,
	tm repository.PostTargetMediaRepository,
	registry *provider.Registry,
	storage service.MediaStorage,
	reconciler service.PostReconciler,
	secretKey string,
) *Queue {
	return &Queue{
		pr:         pr,
		tr:         tr,
		vr:         vr,
		sa:         sa,
		pm:         pm,
		tm:         tm,
		registry:   registry,
		storage:    storage,
		reconciler: reconciler,
		secretKey:  secretKey,
	}
}
