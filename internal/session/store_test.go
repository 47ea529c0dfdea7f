package session_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/desk-console/internal/auth"
	"github.com/spec-kit/desk-console/internal/config"
	"github.com/spec-kit/desk-console/internal/credstore"
	"github.com/spec-kit/desk-console/internal/domain"
	"github.com/spec-kit/desk-console/internal/observability"
	"github.com/spec-kit/desk-console/internal/remote"
	"github.com/spec-kit/desk-console/internal/remote/remotetest"
	"github.com/spec-kit/desk-console/internal/session"
	apperrors "github.com/spec-kit/desk-console/pkg/util"
)

var operatorAccount = remotetest.Account{
	Email:      "ada@example.com",
	Password:   "operator-pass",
	Role:       domain.RoleOperator,
	SubjectID:  "user-ada",
	OperatorID: "op-ada",
}

type fixture struct {
	srv   *remotetest.Server
	creds *credstore.FileStore
	store *session.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv, err := remotetest.New(operatorAccount)
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	creds := credstore.NewFileStore(filepath.Join(t.TempDir(), "credential"))
	store := session.NewStore(creds, deskClient(srv, creds), zap.NewNop())
	return &fixture{srv: srv, creds: creds, store: store}
}

func deskClient(srv *remotetest.Server, creds credstore.Store) *remote.Client {
	return remote.NewClient(
		config.DeskConfig{BaseURL: srv.BaseURL(), RequestTimeoutSeconds: 5},
		func() string {
			token, err := creds.Load()
			if err != nil {
				return ""
			}
			return token
		},
		observability.NewMetrics(),
		zap.NewNop(),
	)
}

func TestInitializeWithoutCredential(t *testing.T) {
	f := newFixture(t)

	f.store.Initialize(context.Background())

	snap := f.store.Snapshot()
	assert.True(t, snap.Session.Absent())
	assert.False(t, snap.Loading)
	assert.Empty(t, f.store.Token())
	assert.Equal(t, 0, f.srv.ValidateCalls(), "no remote probe without a stored credential")
}

func TestInitializeWithValidCredential(t *testing.T) {
	f := newFixture(t)
	token := f.srv.IssueToken(operatorAccount, time.Hour)
	require.NoError(t, f.creds.Save(token))

	f.store.Initialize(context.Background())

	snap := f.store.Snapshot()
	require.False(t, snap.Session.Absent())
	assert.Equal(t, "user-ada", snap.Session.SubjectID)
	assert.Equal(t, domain.RoleOperator, snap.Session.Role)
	assert.Equal(t, "op-ada", snap.Session.OperatorID)
	assert.False(t, snap.Loading)
	assert.Equal(t, token, f.store.Token())
	assert.Equal(t, 1, f.srv.ValidateCalls(), "exactly one validation per restore")
}

func TestInitializeWithRejectedCredential(t *testing.T) {
	f := newFixture(t)
	tampered := f.srv.IssueToken(operatorAccount, time.Hour) + "x"
	require.NoError(t, f.creds.Save(tampered))

	f.store.Initialize(context.Background())

	snap := f.store.Snapshot()
	assert.True(t, snap.Session.Absent())
	assert.Empty(t, f.store.Token())

	// The rejected credential is purged, not retried on the next start.
	_, err := f.creds.Load()
	assert.ErrorIs(t, err, credstore.ErrNotFound)
}

func TestInitializeWithExpiredCredential(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.creds.Save(f.srv.IssueToken(operatorAccount, -time.Minute)))

	f.store.Initialize(context.Background())

	assert.True(t, f.store.Snapshot().Session.Absent())
	_, err := f.creds.Load()
	assert.ErrorIs(t, err, credstore.ErrNotFound)
}

func TestInitializeRunsOnce(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.creds.Save(f.srv.IssueToken(operatorAccount, time.Hour)))

	f.store.Initialize(context.Background())
	f.store.Initialize(context.Background())

	assert.Equal(t, 1, f.srv.ValidateCalls())
}

func TestLoginSuccess(t *testing.T) {
	f := newFixture(t)
	f.store.Initialize(context.Background())

	err := f.store.Login(context.Background(), operatorAccount.Email, operatorAccount.Password)
	require.NoError(t, err)

	snap := f.store.Snapshot()
	require.False(t, snap.Session.Absent())
	assert.Equal(t, domain.RoleOperator, snap.Session.Role)
	assert.False(t, snap.Loading)
	assert.NotEmpty(t, f.store.Token())

	// The credential survives a restart: a fresh store over the same
	// slot restores the session.
	restored := session.NewStore(f.creds, deskClient(f.srv, f.creds), zap.NewNop())
	restored.Initialize(context.Background())
	assert.Equal(t, snap.Session, restored.Snapshot().Session)
}

func TestLoginRejected(t *testing.T) {
	f := newFixture(t)
	f.store.Initialize(context.Background())

	err := f.store.Login(context.Background(), operatorAccount.Email, "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", apperrors.ToDomainError(err).Message)

	snap := f.store.Snapshot()
	assert.True(t, snap.Session.Absent())
	assert.False(t, snap.Loading)
	assert.Empty(t, f.store.Token())
	_, loadErr := f.creds.Load()
	assert.ErrorIs(t, loadErr, credstore.ErrNotFound)
}

func TestFailedLoginKeepsExistingSession(t *testing.T) {
	f := newFixture(t)
	f.store.Initialize(context.Background())
	require.NoError(t, f.store.Login(context.Background(), operatorAccount.Email, operatorAccount.Password))
	established := f.store.Snapshot().Session

	err := f.store.Login(context.Background(), operatorAccount.Email, "wrong")
	require.Error(t, err)

	assert.Equal(t, established, f.store.Snapshot().Session)
	token, loadErr := f.creds.Load()
	require.NoError(t, loadErr)
	assert.NotEmpty(t, token)
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	f.store.Initialize(context.Background())
	require.NoError(t, f.store.Login(context.Background(), operatorAccount.Email, operatorAccount.Password))

	f.store.Logout()

	snap := f.store.Snapshot()
	assert.True(t, snap.Session.Absent())
	assert.Empty(t, f.store.Token())
	_, err := f.creds.Load()
	assert.ErrorIs(t, err, credstore.ErrNotFound)

	// Idempotent.
	f.store.Logout()
	assert.True(t, f.store.Snapshot().Session.Absent())
}

func TestSubscribeLatestWins(t *testing.T) {
	f := newFixture(t)
	ch, cancel := f.store.Subscribe()
	defer cancel()

	require.NoError(t, f.store.Login(context.Background(), operatorAccount.Email, operatorAccount.Password))

	// Login publishes a loading snapshot then the settled one; a lagging
	// subscriber only ever sees the newest.
	snap := <-ch
	assert.False(t, snap.Loading)
	assert.False(t, snap.Session.Absent())

	before := snap.Seq
	f.store.Logout()
	snap = <-ch
	assert.Greater(t, snap.Seq, before)
	assert.True(t, snap.Session.Absent())
}

func TestSubscribeCancel(t *testing.T) {
	f := newFixture(t)
	ch, cancel := f.store.Subscribe()
	cancel()

	f.store.Logout()

	select {
	case snap := <-ch:
		t.Fatalf("snapshot %d delivered after cancel", snap.Seq)
	default:
	}
}

// blockingDesk lets a test hold a remote call open while other store
// operations run, to pin down supersede ordering.
type blockingDesk struct {
	started chan struct{}
	release chan struct{}
	token   string
}

func (d *blockingDesk) Login(ctx context.Context, email, password string) (string, error) {
	close(d.started)
	<-d.release
	return d.token, nil
}

func (d *blockingDesk) Validate(ctx context.Context, token string) error {
	close(d.started)
	<-d.release
	return nil
}

func mintToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		User: auth.UserClaim{ID: "user-ada", Role: "operator", OperatorID: "op-ada"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	})
	signed, err := token.SignedString([]byte("stub-secret"))
	require.NoError(t, err)
	return signed
}

func TestLogoutDiscardsLateInitialize(t *testing.T) {
	creds := credstore.NewFileStore(filepath.Join(t.TempDir(), "credential"))
	require.NoError(t, creds.Save(mintToken(t, time.Hour)))

	desk := &blockingDesk{started: make(chan struct{}), release: make(chan struct{})}
	store := session.NewStore(creds, desk, zap.NewNop())

	done := make(chan struct{})
	go func() {
		store.Initialize(context.Background())
		close(done)
	}()

	<-desk.started
	store.Logout()
	close(desk.release)
	<-done

	// The validation finished after the logout; its success must not
	// resurrect the session or restore the credential.
	snap := store.Snapshot()
	assert.True(t, snap.Session.Absent())
	assert.False(t, snap.Loading)
	assert.Empty(t, store.Token())
	_, err := creds.Load()
	assert.ErrorIs(t, err, credstore.ErrNotFound)
}

func TestLogoutDiscardsLateLogin(t *testing.T) {
	creds := credstore.NewFileStore(filepath.Join(t.TempDir(), "credential"))
	desk := &blockingDesk{
		started: make(chan struct{}),
		release: make(chan struct{}),
		token:   mintToken(t, time.Hour),
	}
	store := session.NewStore(creds, desk, zap.NewNop())

	done := make(chan struct{})
	go func() {
		_ = store.Login(context.Background(), "ada@example.com", "operator-pass")
		close(done)
	}()

	<-desk.started
	store.Logout()
	close(desk.release)
	<-done

	snap := store.Snapshot()
	assert.True(t, snap.Session.Absent())
	assert.Empty(t, store.Token())

	// The superseded login must not leave its credential on disk either.
	_, err := creds.Load()
	assert.ErrorIs(t, err, credstore.ErrNotFound)
}
