package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/cart"
	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/catalog"
	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/orders"
	pkgauth "github.com/DanyGuerra/business-manager-frontend-sub001/pkg/auth"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/config"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/db"
	pkgerrors "github.com/DanyGuerra/business-manager-frontend-sub001/pkg/errors"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/logger"
)

type stubChannel struct {
	businesses  []string
	credentials []*pkgauth.Credential
	closed      bool
	onBusiness  func(businessID string)
}

func (s *stubChannel) SetBusiness(ctx context.Context, businessID string) {
	s.businesses = append(s.businesses, businessID)
	if s.onBusiness != nil {
		s.onBusiness(businessID)
	}
}

func (s *stubChannel) SetCredential(ctx context.Context, credential *pkgauth.Credential) {
	s.credentials = append(s.credentials, credential)
}

func (s *stubChannel) Close() { s.closed = true }

type stubFetcher struct {
	calls int
	err   error
}

func (s *stubFetcher) Fetch(ctx context.Context) error {
	s.calls++
	return s.err
}

type stubCatalog struct {
	calls    int
	snapshot *catalog.Snapshot
	err      error
}

func (s *stubCatalog) GetCatalog(ctx context.Context, businessID string) (*catalog.Snapshot, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.snapshot != nil {
		return s.snapshot, nil
	}
	return catalog.NewSnapshot(catalog.Payload{BusinessID: businessID}), nil
}

type sessionFixture struct {
	svc      *Service
	repo     *Repository
	store    *orders.Store
	composer *cart.Composer
	creds    *CredentialStore
	channel  *stubChannel
	fetch    *stubFetcher
	catalog  *stubCatalog
}

func setupSession(t *testing.T) *sessionFixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&db.ClientPreference{}))

	fixture := &sessionFixture{
		repo:     NewRepository(conn),
		store:    orders.NewStore("", 0, nil),
		composer: cart.NewComposer(nil),
		creds:    NewCredentialStore(),
		channel:  &stubChannel{},
		fetch:    &stubFetcher{},
		catalog:  &stubCatalog{},
	}

	fixture.svc, err = NewService(ServiceParams{
		Repo:      fixture.repo,
		Creds:     fixture.creds,
		Store:     fixture.store,
		Composer:  fixture.composer,
		Channel:   fixture.channel,
		Fetch:     fixture.fetch,
		Catalog:   fixture.catalog,
		JWTConfig: config.JWTConfig{},
		Logger:    logger.New(logger.Options{ServiceName: "test"}),
	})
	require.NoError(t, err)
	return fixture
}

func signedToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "backend",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestSwitchBusinessResetsEverything(t *testing.T) {
	t.Parallel()

	fixture := setupSession(t)
	ctx := context.Background()

	require.NoError(t, fixture.svc.SetCredential(ctx, signedToken(t)))
	require.NoError(t, fixture.svc.SwitchBusiness(ctx, "biz-1"))

	assert.Equal(t, "biz-1", fixture.svc.BusinessID())
	assert.Equal(t, "biz-1", fixture.store.BusinessID())
	assert.Equal(t, []string{"biz-1"}, fixture.channel.businesses)
	assert.Equal(t, 1, fixture.catalog.calls)
	assert.Equal(t, 1, fixture.fetch.calls)

	fixture.store.UpsertOne(orders.Order{ID: "a", BusinessID: "biz-1"})
	require.NoError(t, fixture.svc.SwitchBusiness(ctx, "biz-2"))

	assert.Empty(t, fixture.store.Snapshot().Orders, "orders from the old business never carry over")
	assert.Empty(t, fixture.composer.Groups())

	persisted, err := fixture.repo.Get(ctx, prefActiveBusiness)
	require.NoError(t, err)
	assert.Equal(t, "biz-2", persisted)
}

func TestSwitchBusinessWithoutCredentialSkipsLoads(t *testing.T) {
	t.Parallel()

	fixture := setupSession(t)

	require.NoError(t, fixture.svc.SwitchBusiness(context.Background(), "biz-1"))

	assert.Zero(t, fixture.catalog.calls)
	assert.Zero(t, fixture.fetch.calls)
	assert.Equal(t, []string{"biz-1"}, fixture.channel.businesses)
}

func TestSwitchBusinessRejectsBlankID(t *testing.T) {
	t.Parallel()

	fixture := setupSession(t)

	err := fixture.svc.SwitchBusiness(context.Background(), "   ")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSetCredentialInstallsAndPropagates(t *testing.T) {
	t.Parallel()

	fixture := setupSession(t)

	require.NoError(t, fixture.svc.SetCredential(context.Background(), signedToken(t)))

	credential := fixture.creds.Current()
	require.NotNil(t, credential)
	assert.Equal(t, "user-1", credential.Subject)
	require.Len(t, fixture.channel.credentials, 1)
	assert.Same(t, credential, fixture.channel.credentials[0])
}

func TestSetCredentialRejectsGarbage(t *testing.T) {
	t.Parallel()

	fixture := setupSession(t)

	err := fixture.svc.SetCredential(context.Background(), "not-a-token")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
	assert.Nil(t, fixture.creds.Current())
}

func TestBootstrapRestoresPersistedState(t *testing.T) {
	t.Parallel()

	fixture := setupSession(t)
	ctx := context.Background()
	require.NoError(t, fixture.repo.Set(ctx, prefActiveBusiness, "biz-9"))
	require.NoError(t, fixture.repo.Set(ctx, prefIdentity, `{"user_id":"u1","name":"Ana"}`))

	require.NoError(t, fixture.svc.Bootstrap(ctx))

	assert.Equal(t, "biz-9", fixture.svc.BusinessID())
	assert.Equal(t, Identity{UserID: "u1", Name: "Ana"}, fixture.svc.Identity())
	assert.Equal(t, "biz-9", fixture.store.BusinessID())
	assert.Nil(t, fixture.creds.Current(), "credentials are never persisted")
}

func TestBootstrapDiscardsCorruptIdentity(t *testing.T) {
	t.Parallel()

	fixture := setupSession(t)
	ctx := context.Background()
	require.NoError(t, fixture.repo.Set(ctx, prefIdentity, "{broken"))

	require.NoError(t, fixture.svc.Bootstrap(ctx))
	assert.Equal(t, Identity{}, fixture.svc.Identity())
}

func TestLogoutKeepsBusinessChoice(t *testing.T) {
	t.Parallel()

	fixture := setupSession(t)
	ctx := context.Background()
	require.NoError(t, fixture.svc.SetCredential(ctx, signedToken(t)))
	require.NoError(t, fixture.svc.SwitchBusiness(ctx, "biz-1"))
	require.NoError(t, fixture.svc.SetIdentity(ctx, Identity{UserID: "u1", Name: "Ana"}))
	fixture.store.UpsertOne(orders.Order{ID: "a", BusinessID: "biz-1"})

	require.NoError(t, fixture.svc.Logout(ctx))

	assert.Nil(t, fixture.creds.Current())
	assert.Equal(t, Identity{}, fixture.svc.Identity())
	assert.Empty(t, fixture.store.Snapshot().Orders)
	require.NotEmpty(t, fixture.channel.credentials)
	assert.Nil(t, fixture.channel.credentials[len(fixture.channel.credentials)-1])

	persisted, err := fixture.repo.Get(ctx, prefActiveBusiness)
	require.NoError(t, err)
	assert.Equal(t, "biz-1", persisted, "business choice survives sign-out")

	identity, err := fixture.repo.Get(ctx, prefIdentity)
	require.NoError(t, err)
	assert.Empty(t, identity)
}

func TestSetIdentityPersists(t *testing.T) {
	t.Parallel()

	fixture := setupSession(t)
	ctx := context.Background()

	require.NoError(t, fixture.svc.SetIdentity(ctx, Identity{UserID: "u1", Name: "Ana"}))

	raw, err := fixture.repo.Get(ctx, prefIdentity)
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_id":"u1","name":"Ana"}`, raw)
}

func TestRepositoryUpsertAndDelete(t *testing.T) {
	t.Parallel()

	fixture := setupSession(t)
	ctx := context.Background()

	require.NoError(t, fixture.repo.Set(ctx, "k", "v1"))
	require.NoError(t, fixture.repo.Set(ctx, "k", "v2"))

	got, err := fixture.repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)

	require.NoError(t, fixture.repo.Delete(ctx, "k"))
	require.NoError(t, fixture.repo.Delete(ctx, "k"))

	got, err = fixture.repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSwitchBusinessWipesEventsDeliveredDuringResubscribe(t *testing.T) {
	t.Parallel()

	fixture := setupSession(t)
	require.NoError(t, fixture.svc.SwitchBusiness(context.Background(), "biz-1"))
	fixture.store.UpsertOne(orders.Order{ID: "old-1", BusinessID: "biz-1"})

	// An old-business event that drains while the channel repoints must be
	// gone once the switch completes.
	fixture.channel.onBusiness = func(string) {
		fixture.store.UpsertOne(orders.Order{ID: "late-1", BusinessID: "biz-1"})
	}

	require.NoError(t, fixture.svc.SwitchBusiness(context.Background(), "biz-2"))

	state := fixture.store.Snapshot()
	assert.Equal(t, "biz-2", state.BusinessID)
	assert.Empty(t, state.Orders)
}
