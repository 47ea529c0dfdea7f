// Package remotetest runs an in-process desk service double for tests.
// It speaks the same endpoints and field names as the real desk and
// enforces bearer auth and roles so client, session, and gating tests
// exercise real round trips.
package remotetest

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/desk-console/internal/domain"
)

// Account seeds a login-capable desk account.
type Account struct {
	Email      string
	Password   string
	Role       domain.Role
	SubjectID  string
	OperatorID string

	passwordHash []byte
}

// Server is a fake desk service bound to a loopback port.
type Server struct {
	app      *fiber.App
	listener net.Listener
	secret   []byte
	tokenTTL time.Duration

	mu        sync.Mutex
	accounts  map[string]*Account
	tickets   []domain.Ticket
	operators []domain.Operator

	loginCalls    int
	validateCalls int
}

// New starts a fake desk on a random loopback port. Callers must Close it.
func New(accounts ...Account) (*Server, error) {
	srv := &Server{
		secret:   []byte("remotetest-secret"),
		tokenTTL: time.Hour,
		accounts: make(map[string]*Account),
	}
	for i := range accounts {
		account := accounts[i]
		hash, err := bcrypt.GenerateFromPassword([]byte(account.Password), bcrypt.MinCost)
		if err != nil {
			return nil, err
		}
		account.passwordHash = hash
		if account.SubjectID == "" {
			account.SubjectID = uuid.NewString()
		}
		srv.accounts[account.Email] = &account
	}

	srv.app = fiber.New(fiber.Config{DisableStartupMessage: true})
	srv.registerRoutes()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	srv.listener = listener
	go func() {
		_ = srv.app.Listener(listener)
	}()
	return srv, nil
}

// BaseURL returns the server's loopback address.
func (s *Server) BaseURL() string {
	return "http://" + s.listener.Addr().String()
}

// Close shuts the fake desk down.
func (s *Server) Close() {
	_ = s.app.Shutdown()
}

// IssueToken signs a credential for the account the way the desk would.
func (s *Server) IssueToken(account Account, ttl time.Duration) string {
	claims := jwt.MapClaims{
		"user": fiber.Map{
			"id":         account.SubjectID,
			"role":       string(account.Role),
			"operatorId": account.OperatorID,
		},
		"exp": time.Now().Add(ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, _ := token.SignedString(s.secret)
	return signed
}

// SeedTickets replaces the ticket fixture set.
func (s *Server) SeedTickets(tickets ...domain.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets = append([]domain.Ticket{}, tickets...)
}

// SeedOperators replaces the operator fixture set.
func (s *Server) SeedOperators(operators ...domain.Operator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.operators = append([]domain.Operator{}, operators...)
}

// LoginCalls reports how many times POST /auth/login was hit.
func (s *Server) LoginCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loginCalls
}

// ValidateCalls reports how many times GET /auth was hit.
func (s *Server) ValidateCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateCalls
}

func (s *Server) registerRoutes() {
	s.app.Post("/auth/login", s.handleLogin)
	s.app.Post("/tickets", s.handleCreateTicket)

	protected := s.app.Group("", s.requireAuth)
	protected.Get("/auth", s.handleWhoami)
	protected.Get("/tickets", s.handleListTickets)
	protected.Get("/tickets/:id", s.handleGetTicket)
	protected.Put("/tickets/:id", s.handleUpdateTicket)

	admin := protected.Group("", s.requireRole(domain.RoleAdministrator))
	admin.Get("/operators", s.handleListOperators)
	admin.Post("/operators", s.handleCreateOperator)
	admin.Put("/operators/:id", s.handleUpdateOperator)
	admin.Put("/users/reset-password/:userId", s.handleResetPassword)
}

const roleKey = "desk_role"

// requireAuth validates bearer tokens the way the desk does.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"msg": "missing authorization header"})
	}

	parsed, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"msg": "invalid token"})
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"msg": "invalid token"})
	}
	role := ""
	if user, ok := claims["user"].(map[string]any); ok {
		role, _ = user["role"].(string)
	}
	c.Locals(roleKey, role)
	return c.Next()
}

func (s *Server) requireRole(allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(roleKey).(string)
		if !domain.ParseRole(role).In(allowed...) {
			return c.Status(http.StatusForbidden).JSON(fiber.Map{"msg": "insufficient role"})
		}
		return c.Next()
	}
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	s.mu.Lock()
	s.loginCalls++
	s.mu.Unlock()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"msg": "invalid payload"})
	}

	account, ok := s.accounts[req.Email]
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"msg": "Invalid credentials"})
	}
	if err := bcrypt.CompareHashAndPassword(account.passwordHash, []byte(req.Password)); err != nil {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"msg": "Invalid credentials"})
	}

	return c.JSON(fiber.Map{"token": s.IssueToken(*account, s.tokenTTL)})
}

func (s *Server) handleWhoami(c *fiber.Ctx) error {
	s.mu.Lock()
	s.validateCalls++
	s.mu.Unlock()
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleListTickets(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(s.tickets)
}

func (s *Server) handleGetTicket(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tickets {
		if s.tickets[i].ID == c.Params("id") {
			return c.JSON(s.tickets[i])
		}
	}
	return c.Status(http.StatusNotFound).JSON(fiber.Map{"msg": "ticket not found"})
}

func (s *Server) handleCreateTicket(c *fiber.Ctx) error {
	var draft struct {
		Type        string `json:"type"`
		UserEmail   string `json:"userEmail"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&draft); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"msg": "invalid payload"})
	}
	if draft.UserEmail == "" || draft.Type == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"errors": []fiber.Map{{"msg": "type and userEmail are required"}},
		})
	}

	ticket := domain.Ticket{
		ID:          uuid.NewString(),
		Type:        draft.Type,
		UserEmail:   draft.UserEmail,
		Description: draft.Description,
		Status:      domain.TicketStatusOpen,
		CreatedAt:   time.Now().UTC(),
	}
	s.mu.Lock()
	s.tickets = append(s.tickets, ticket)
	s.mu.Unlock()
	return c.Status(http.StatusCreated).JSON(ticket)
}

func (s *Server) handleUpdateTicket(c *fiber.Ctx) error {
	var update struct {
		Status   string `json:"status"`
		Response string `json:"response"`
	}
	if err := c.BodyParser(&update); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"msg": "invalid payload"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tickets {
		if s.tickets[i].ID == c.Params("id") {
			s.tickets[i].Status = domain.TicketStatus(update.Status)
			s.tickets[i].Response = update.Response
			return c.JSON(s.tickets[i])
		}
	}
	return c.Status(http.StatusNotFound).JSON(fiber.Map{"msg": "ticket not found"})
}

func (s *Server) handleListOperators(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(s.operators)
}

func (s *Server) handleCreateOperator(c *fiber.Ctx) error {
	var draft struct {
		Name                   string                   `json:"name"`
		LastName               string                   `json:"lastName"`
		ManageableRequestTypes []domain.RequestType     `json:"manageableRequestTypes"`
		AvailabilityHours      domain.AvailabilityHours `json:"availabilityHours"`
		Email                  string                   `json:"email"`
	}
	if err := c.BodyParser(&draft); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"msg": "invalid payload"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.operators {
		if s.operators[i].UserEmail == draft.Email {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"errors": []fiber.Map{{"msg": "email already registered"}},
			})
		}
	}

	operator := domain.Operator{
		ID:                     uuid.NewString(),
		Name:                   draft.Name,
		LastName:               draft.LastName,
		UserEmail:              draft.Email,
		ManageableRequestTypes: draft.ManageableRequestTypes,
		AvailabilityHours:      draft.AvailabilityHours,
		UserID:                 uuid.NewString(),
	}
	s.operators = append(s.operators, operator)
	return c.Status(http.StatusCreated).JSON(operator)
}

func (s *Server) handleUpdateOperator(c *fiber.Ctx) error {
	var draft struct {
		Name                   string                   `json:"name"`
		LastName               string                   `json:"lastName"`
		ManageableRequestTypes []domain.RequestType     `json:"manageableRequestTypes"`
		AvailabilityHours      domain.AvailabilityHours `json:"availabilityHours"`
	}
	if err := c.BodyParser(&draft); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"msg": "invalid payload"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.operators {
		if s.operators[i].ID == c.Params("id") {
			s.operators[i].Name = draft.Name
			s.operators[i].LastName = draft.LastName
			s.operators[i].ManageableRequestTypes = draft.ManageableRequestTypes
			s.operators[i].AvailabilityHours = draft.AvailabilityHours
			return c.JSON(s.operators[i])
		}
	}
	return c.Status(http.StatusNotFound).JSON(fiber.Map{"msg": "operator not found"})
}

func (s *Server) handleResetPassword(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"msg": "invalid payload"})
	}
	if len(req.Password) < 6 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"errors": []fiber.Map{{"msg": "password must be at least 6 characters"}},
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.SubjectID == c.Params("userId") {
			hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
			if err != nil {
				return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"msg": "hash failed"})
			}
			account.passwordHash = hash
			return c.JSON(fiber.Map{"msg": "password updated"})
		}
	}
	return c.Status(http.StatusNotFound).JSON(fiber.Map{"msg": "user not found"})
}
