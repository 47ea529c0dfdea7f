package remote

import "github.com/spec-kit/desk-console/internal/domain"

// LoginRequest payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued credential.
type LoginResponse struct {
	Token string `json:"token"`
}

// TicketDraft is the anonymous customer submission.
type TicketDraft struct {
	Type        domain.RequestType `json:"type"`
	UserEmail   string             `json:"userEmail"`
	Description string             `json:"description"`
}

// TicketUpdate is the operator's triage update for PUT /tickets/:id.
type TicketUpdate struct {
	Status   domain.TicketStatus `json:"status"`
	Response string              `json:"response"`
}

// OperatorDraft creates or updates an operator profile. Email and
// Password feed the linked user account on create.
type OperatorDraft struct {
	Name                   string                   `json:"name"`
	LastName               string                   `json:"lastName"`
	ManageableRequestTypes []domain.RequestType     `json:"manageableRequestTypes"`
	AvailabilityHours      domain.AvailabilityHours `json:"availabilityHours"`
	Email                  string                   `json:"email,omitempty"`
	Password               string                   `json:"password,omitempty"`
}

// apiError is the desk's error body shape.
type apiError struct {
	Msg    string `json:"msg"`
	Errors []struct {
		Msg string `json:"msg"`
	} `json:"errors"`
}

// firstMessage picks the best human message out of an error body: the
// top-level msg, else the first structured validation message.
func (e apiError) firstMessage() string {
	if e.Msg != "" {
		return e.Msg
	}
	if len(e.Errors) > 0 {
		return e.Errors[0].Msg
	}
	return ""
}
