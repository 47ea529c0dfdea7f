package remote_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/desk-console/internal/config"
	"github.com/spec-kit/desk-console/internal/domain"
	"github.com/spec-kit/desk-console/internal/observability"
	"github.com/spec-kit/desk-console/internal/remote"
	"github.com/spec-kit/desk-console/internal/remote/remotetest"
	apperrors "github.com/spec-kit/desk-console/pkg/util"
)

var (
	adminAccount = remotetest.Account{
		Email:     "admin@example.com",
		Password:  "admin-pass",
		Role:      domain.RoleAdministrator,
		SubjectID: "user-admin",
	}
	operatorAccount = remotetest.Account{
		Email:      "ada@example.com",
		Password:   "operator-pass",
		Role:       domain.RoleOperator,
		SubjectID:  "user-ada",
		OperatorID: "op-ada",
	}
)

func newClient(t *testing.T, srv *remotetest.Server, token string) (*remote.Client, *observability.Metrics) {
	t.Helper()
	metrics := observability.NewMetrics()
	client := remote.NewClient(
		config.DeskConfig{BaseURL: srv.BaseURL(), RequestTimeoutSeconds: 5},
		func() string { return token },
		metrics,
		zap.NewNop(),
	)
	return client, metrics
}

func startDesk(t *testing.T, accounts ...remotetest.Account) *remotetest.Server {
	t.Helper()
	srv, err := remotetest.New(accounts...)
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	return srv
}

func TestLogin(t *testing.T) {
	srv := startDesk(t, adminAccount)
	client, _ := newClient(t, srv, "")

	t.Run("success returns a signed token", func(t *testing.T) {
		token, err := client.Login(context.Background(), adminAccount.Email, adminAccount.Password)
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("rejection carries the desk message verbatim", func(t *testing.T) {
		_, err := client.Login(context.Background(), adminAccount.Email, "wrong")
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "LOGIN_REJECTED"))
		assert.Equal(t, "Invalid credentials", apperrors.ToDomainError(err).Message)
	})

	t.Run("unknown account rejected the same way", func(t *testing.T) {
		_, err := client.Login(context.Background(), "nobody@example.com", "pw")
		require.Error(t, err)
		assert.Equal(t, "Invalid credentials", apperrors.ToDomainError(err).Message)
	})
}

func TestValidate(t *testing.T) {
	srv := startDesk(t, operatorAccount)
	client, _ := newClient(t, srv, "")

	t.Run("honored token passes", func(t *testing.T) {
		token := srv.IssueToken(operatorAccount, time.Hour)
		assert.NoError(t, client.Validate(context.Background(), token))
	})

	t.Run("tampered token invalidates", func(t *testing.T) {
		token := srv.IssueToken(operatorAccount, time.Hour) + "x"
		err := client.Validate(context.Background(), token)
		assert.True(t, apperrors.IsCode(err, "AUTH_INVALID"))
	})

	t.Run("unreachable desk invalidates", func(t *testing.T) {
		offline := remote.NewClient(
			config.DeskConfig{BaseURL: "http://127.0.0.1:1", RequestTimeoutSeconds: 1},
			nil, observability.NewMetrics(), zap.NewNop(),
		)
		err := offline.Validate(context.Background(), "whatever")
		assert.True(t, apperrors.IsCode(err, "AUTH_INVALID"))
	})
}

func TestListTickets(t *testing.T) {
	srv := startDesk(t, operatorAccount)
	srv.SeedTickets(
		domain.Ticket{ID: "t-1", Type: "Assistance", UserEmail: "a@example.com", Status: domain.TicketStatusOpen},
		domain.Ticket{ID: "t-2", Type: "Installation", UserEmail: "b@example.com", Status: domain.TicketStatusClosed},
	)

	t.Run("with bearer token", func(t *testing.T) {
		client, metrics := newClient(t, srv, srv.IssueToken(operatorAccount, time.Hour))

		tickets, err := client.ListTickets(context.Background())
		require.NoError(t, err)
		require.Len(t, tickets, 2)
		assert.Equal(t, "t-1", tickets[0].ID)
		assert.Equal(t, int64(1), metrics.RequestCount("/tickets", http.MethodGet, http.StatusOK))
	})

	t.Run("anonymous call maps to an auth-status fetch failure", func(t *testing.T) {
		client, _ := newClient(t, srv, "")

		_, err := client.ListTickets(context.Background())
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "FETCH_FAILED"))
		assert.True(t, apperrors.IsAuthStatus(err))
	})
}

func TestTicketRoundTrip(t *testing.T) {
	srv := startDesk(t, operatorAccount)
	authed, _ := newClient(t, srv, srv.IssueToken(operatorAccount, time.Hour))
	anon, _ := newClient(t, srv, "")

	created, err := anon.CreateTicket(context.Background(), remote.TicketDraft{
		Type:        "Configuration",
		UserEmail:   "mario@example.com",
		Description: "router setup",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, created.Status)

	fetched, err := authed.GetTicket(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "router setup", fetched.Description)

	updated, err := authed.UpdateTicket(context.Background(), created.ID, remote.TicketUpdate{
		Status:   domain.TicketStatusClosed,
		Response: "done, rebooted the router",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, updated.Status)
	assert.Equal(t, "done, rebooted the router", updated.Response)
}

func TestCreateTicketValidation(t *testing.T) {
	srv := startDesk(t)
	client, _ := newClient(t, srv, "")

	_, err := client.CreateTicket(context.Background(), remote.TicketDraft{Description: "no email"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_REJECTED"))
	assert.Equal(t, "type and userEmail are required", apperrors.ToDomainError(err).Message)
}

func TestOperatorEndpoints(t *testing.T) {
	srv := startDesk(t, adminAccount, operatorAccount)
	admin, _ := newClient(t, srv, srv.IssueToken(adminAccount, time.Hour))

	draft := remote.OperatorDraft{
		Name:     "Ada",
		LastName: "Rossi",
		ManageableRequestTypes: []domain.RequestType{
			domain.RequestTypeInstallation, domain.RequestTypeAssistance,
		},
		AvailabilityHours: domain.AvailabilityHours{Start: "09:00", End: "17:00"},
		Email:             "ada.rossi@example.com",
		Password:          "secret-1",
	}

	created, err := admin.CreateOperator(context.Background(), draft)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.UserID)

	t.Run("duplicate email surfaces first validation message", func(t *testing.T) {
		_, err := admin.CreateOperator(context.Background(), draft)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "VALIDATION_REJECTED"))
		assert.Equal(t, "email already registered", apperrors.ToDomainError(err).Message)
	})

	t.Run("update edits the profile", func(t *testing.T) {
		edited := draft
		edited.AvailabilityHours = domain.AvailabilityHours{Start: "10:00", End: "18:00"}
		got, err := admin.UpdateOperator(context.Background(), created.ID, edited)
		require.NoError(t, err)
		assert.Equal(t, "10:00", got.AvailabilityHours.Start)
	})

	t.Run("listing requires administrator role", func(t *testing.T) {
		operator, _ := newClient(t, srv, srv.IssueToken(operatorAccount, time.Hour))
		_, err := operator.ListOperators(context.Background())
		require.Error(t, err)
		assert.True(t, apperrors.IsAuthStatus(err))
	})
}

func TestResetPassword(t *testing.T) {
	srv := startDesk(t, adminAccount, operatorAccount)
	admin, _ := newClient(t, srv, srv.IssueToken(adminAccount, time.Hour))

	require.NoError(t, admin.ResetPassword(context.Background(), operatorAccount.SubjectID, "new-secret"))

	t.Run("short password rejected with message", func(t *testing.T) {
		err := admin.ResetPassword(context.Background(), operatorAccount.SubjectID, "abc")
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "VALIDATION_REJECTED"))
		assert.Equal(t, "password must be at least 6 characters", apperrors.ToDomainError(err).Message)
	})

	t.Run("new password is live for login", func(t *testing.T) {
		anon, _ := newClient(t, srv, "")
		_, err := anon.Login(context.Background(), operatorAccount.Email, "new-secret")
		assert.NoError(t, err)
	})
}
