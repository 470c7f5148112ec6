package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/cart"
	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/catalog"
	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/orders"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/auth"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/config"
	pkgerrors "github.com/DanyGuerra/business-manager-frontend-sub001/pkg/errors"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/logger"
)

// Identity is the signed-in user as far as the client cares: a stable id and
// a display name, both persisted across restarts.
type Identity struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

type catalogLoader interface {
	GetCatalog(ctx context.Context, businessID string) (*catalog.Snapshot, error)
}

type fetcher interface {
	Fetch(ctx context.Context) error
}

type channelManager interface {
	SetBusiness(ctx context.Context, businessID string)
	SetCredential(ctx context.Context, credential *auth.Credential)
	Close()
}

// Service owns the session lifecycle: credential rotation, business
// switching and the full reset both imply, and the persisted identity.
type Service struct {
	repo     *Repository
	creds    *CredentialStore
	store    *orders.Store
	composer *cart.Composer
	channel  channelManager
	fetch    fetcher
	catalog  catalogLoader
	jwtCfg   config.JWTConfig
	logg     *logger.Logger

	mu         sync.Mutex
	businessID string
	identity   Identity
}

// ServiceParams bundles the session service dependencies.
type ServiceParams struct {
	Repo      *Repository
	Creds     *CredentialStore
	Store     *orders.Store
	Composer  *cart.Composer
	Channel   channelManager
	Fetch     fetcher
	Catalog   catalogLoader
	JWTConfig config.JWTConfig
	Logger    *logger.Logger
}

// NewService builds a session service with the required stack.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("preferences repository required")
	}
	if params.Creds == nil {
		return nil, fmt.Errorf("credential store required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("order store required")
	}
	if params.Composer == nil {
		return nil, fmt.Errorf("cart composer required")
	}
	if params.Channel == nil {
		return nil, fmt.Errorf("channel manager required")
	}
	if params.Fetch == nil {
		return nil, fmt.Errorf("fetch coordinator required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog loader required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		repo:     params.Repo,
		creds:    params.Creds,
		store:    params.Store,
		composer: params.Composer,
		channel:  params.Channel,
		fetch:    params.Fetch,
		catalog:  params.Catalog,
		jwtCfg:   params.JWTConfig,
		logg:     params.Logger,
	}, nil
}

// Bootstrap restores the persisted business and identity. The credential is
// never persisted, so the store stays empty and the channel down until one
// arrives through the local API.
func (s *Service) Bootstrap(ctx context.Context) error {
	businessID, err := s.repo.Get(ctx, prefActiveBusiness)
	if err != nil {
		return err
	}
	rawIdentity, err := s.repo.Get(ctx, prefIdentity)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.businessID = businessID
	if rawIdentity != "" {
		if err := json.Unmarshal([]byte(rawIdentity), &s.identity); err != nil {
			s.logg.Warn(ctx, "stored identity is unreadable, discarding")
			s.identity = Identity{}
		}
	}
	s.mu.Unlock()

	if businessID != "" {
		s.store.Reset(businessID)
	}
	return nil
}

// BusinessID returns the active business, empty when none is selected.
func (s *Service) BusinessID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.businessID
}

// Identity returns the persisted user identity.
func (s *Service) Identity() Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// SetIdentity persists the signed-in user.
func (s *Service) SetIdentity(ctx context.Context, identity Identity) error {
	encoded, err := json.Marshal(identity)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding identity")
	}
	if err := s.repo.Set(ctx, prefIdentity, string(encoded)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting identity")
	}
	s.mu.Lock()
	s.identity = identity
	s.mu.Unlock()
	return nil
}

// SetCredential parses and installs a rotated bearer token, bouncing the
// realtime channel so the new credential is the one on the wire.
func (s *Service) SetCredential(ctx context.Context, token string) error {
	credential, err := auth.ParseCredential(s.jwtCfg, token)
	if err != nil {
		return err
	}
	s.creds.Set(credential)
	s.channel.SetCredential(ctx, credential)

	if businessID := s.BusinessID(); businessID != "" {
		s.loadCatalog(ctx, businessID)
		s.refreshOrders(ctx)
	}
	return nil
}

// SwitchBusiness makes another business active: the choice is persisted, the
// order store and cart are fully reset, the channel resubscribes, and a
// fresh catalog and first page are loaded. Nothing from the previous
// business carries over.
func (s *Service) SwitchBusiness(ctx context.Context, businessID string) error {
	businessID = strings.TrimSpace(businessID)
	if businessID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "business id is required")
	}
	if err := s.repo.Set(ctx, prefActiveBusiness, businessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting active business")
	}

	s.mu.Lock()
	s.businessID = businessID
	s.mu.Unlock()

	// The channel bounces before the store resets: a late event from the old
	// subscription then lands before the wipe, never after it.
	s.channel.SetBusiness(ctx, businessID)
	s.store.Reset(businessID)
	s.composer.SetSnapshot(nil)

	if s.creds.Current() != nil {
		s.loadCatalog(ctx, businessID)
		s.refreshOrders(ctx)
	}
	return nil
}

// Logout drops the credential, identity and all in-memory state. The active
// business choice stays persisted for the next sign-in.
func (s *Service) Logout(ctx context.Context) error {
	s.creds.Set(nil)
	s.channel.SetCredential(ctx, nil)
	s.composer.SetSnapshot(nil)

	s.mu.Lock()
	businessID := s.businessID
	s.identity = Identity{}
	s.mu.Unlock()

	s.store.Reset(businessID)
	if err := s.repo.Delete(ctx, prefIdentity); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing identity")
	}
	return nil
}

func (s *Service) loadCatalog(ctx context.Context, businessID string) {
	snapshot, err := s.catalog.GetCatalog(ctx, businessID)
	if err != nil {
		// The cart stays unusable until a later load succeeds; orders keep
		// flowing regardless.
		s.logg.Error(s.logg.WithBusinessID(ctx, businessID), "catalog load failed", err)
		return
	}
	s.composer.SetSnapshot(snapshot)
}

func (s *Service) refreshOrders(ctx context.Context) {
	if err := s.fetch.Fetch(ctx); err != nil {
		s.logg.Error(ctx, "initial order fetch failed", err)
	}
}
