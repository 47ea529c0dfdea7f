// Package remote is the HTTP client for the desk service. The desk is
// an opaque collaborator: the console depends on its endpoints and
// field names only.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/desk-console/internal/config"
	"github.com/spec-kit/desk-console/internal/domain"
	"github.com/spec-kit/desk-console/internal/observability"
	apperrors "github.com/spec-kit/desk-console/pkg/util"
)

// TokenSource supplies the current bearer credential for authenticated
// calls. It returns "" when the profile is anonymous; the client never
// attaches an Authorization header in that case.
type TokenSource func() string

// Client talks to the desk service.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewClient builds a desk client.
func NewClient(cfg config.DeskConfig, tokens TokenSource, metrics *observability.Metrics, logger *zap.Logger) *Client {
	if tokens == nil {
		tokens = func() string { return "" }
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.RequestTimeout()},
		tokens:  tokens,
		metrics: metrics,
		logger:  logger,
	}
}

// Login exchanges credentials for a signed token. Rejections surface
// the desk's own message, or a generic fallback when the body carries
// none.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, status, err := c.do(ctx, http.MethodPost, "/auth/login", "", LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		msg := decodeErrorMessage(body)
		if msg == "" {
			msg = "login failed"
		}
		return "", apperrors.NewLoginRejected(msg)
	}

	var resp LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Token == "" {
		return "", apperrors.NewLoginRejected("login failed")
	}
	return resp.Token, nil
}

// Validate probes GET /auth with a candidate credential. A 2xx answer
// means the desk still honors it; anything else invalidates it.
func (c *Client) Validate(ctx context.Context, token string) error {
	body, status, err := c.do(ctx, http.MethodGet, "/auth", token, nil)
	if err != nil {
		return apperrors.NewAuthInvalid("credential validation unreachable", err)
	}
	if status < 200 || status >= 300 {
		msg := decodeErrorMessage(body)
		if msg == "" {
			msg = "credential rejected"
		}
		return apperrors.NewAuthInvalid(msg, nil)
	}
	return nil
}

// ListTickets fetches all tickets visible to the session.
func (c *Client) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	if err := c.getJSON(ctx, "/tickets", &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// GetTicket fetches one ticket by id.
func (c *Client) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := c.getJSON(ctx, "/tickets/"+id, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// CreateTicket files an anonymous customer ticket. No credential is
// attached: this is the anonymous entry point.
func (c *Client) CreateTicket(ctx context.Context, draft TicketDraft) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := c.sendJSON(ctx, http.MethodPost, "/tickets", "", draft, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// UpdateTicket applies an operator's status/response update.
func (c *Client) UpdateTicket(ctx context.Context, id string, update TicketUpdate) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := c.sendJSON(ctx, http.MethodPut, "/tickets/"+id, c.tokens(), update, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ListOperators fetches all operator profiles.
func (c *Client) ListOperators(ctx context.Context) ([]domain.Operator, error) {
	var operators []domain.Operator
	if err := c.getJSON(ctx, "/operators", &operators); err != nil {
		return nil, err
	}
	return operators, nil
}

// CreateOperator registers a new operator and its linked user account.
func (c *Client) CreateOperator(ctx context.Context, draft OperatorDraft) (*domain.Operator, error) {
	var operator domain.Operator
	if err := c.sendJSON(ctx, http.MethodPost, "/operators", c.tokens(), draft, &operator); err != nil {
		return nil, err
	}
	return &operator, nil
}

// UpdateOperator edits an existing operator profile.
func (c *Client) UpdateOperator(ctx context.Context, id string, draft OperatorDraft) (*domain.Operator, error) {
	var operator domain.Operator
	if err := c.sendJSON(ctx, http.MethodPut, "/operators/"+id, c.tokens(), draft, &operator); err != nil {
		return nil, err
	}
	return &operator, nil
}

// ResetPassword sets a new password on an operator's user account.
func (c *Client) ResetPassword(ctx context.Context, userID, password string) error {
	payload := map[string]string{"password": password}
	return c.sendJSON(ctx, http.MethodPut, "/users/reset-password/"+userID, c.tokens(), payload, nil)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	body, status, err := c.do(ctx, http.MethodGet, path, c.tokens(), nil)
	if err != nil {
		return apperrors.NewFetchFailed(fmt.Sprintf("GET %s failed", path), 0, err)
	}
	if status < 200 || status >= 300 {
		return fetchError(path, status, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.NewFetchFailed(fmt.Sprintf("GET %s returned malformed payload", path), status, err)
	}
	return nil
}

func (c *Client) sendJSON(ctx context.Context, method, path, token string, payload, out any) error {
	body, status, err := c.do(ctx, method, path, token, payload)
	if err != nil {
		return apperrors.NewFetchFailed(fmt.Sprintf("%s %s failed", method, path), 0, err)
	}
	if status < 200 || status >= 300 {
		return writeError(path, status, body)
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return apperrors.NewFetchFailed(fmt.Sprintf("%s %s returned malformed payload", method, path), status, err)
		}
	}
	return nil
}

// do performs one round trip and returns the raw body and status.
func (c *Client) do(ctx context.Context, method, path, token string, payload any) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, err
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordError(path, method, "TRANSPORT")
		c.logger.Debug("desk request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordError(path, method, "TRANSPORT")
		return nil, 0, err
	}

	c.metrics.RecordRequest(path, method, resp.StatusCode, time.Since(start))
	c.logger.Debug("desk request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))
	return body, resp.StatusCode, nil
}

// fetchError maps a non-2xx read answer into the client taxonomy.
func fetchError(path string, status int, body []byte) error {
	msg := decodeErrorMessage(body)
	if msg == "" {
		msg = fmt.Sprintf("GET %s returned %d", path, status)
	}
	return apperrors.NewFetchFailed(msg, status, nil)
}

// writeError maps a non-2xx write answer: 4xx bodies with validation
// messages become VALIDATION_REJECTED, everything else FETCH_FAILED.
func writeError(path string, status int, body []byte) error {
	var parsed apiError
	_ = json.Unmarshal(body, &parsed)
	msg := parsed.firstMessage()

	if status == http.StatusBadRequest || status == http.StatusConflict || status == http.StatusUnprocessableEntity {
		if msg == "" {
			msg = "request rejected by the desk"
		}
		return apperrors.NewValidationRejected(msg, nil)
	}
	if msg == "" {
		msg = fmt.Sprintf("%s returned %d", path, status)
	}
	return apperrors.NewFetchFailed(msg, status, nil)
}

func decodeErrorMessage(body []byte) string {
	var parsed apiError
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	return parsed.firstMessage()
}
