package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spec-kit/desk-console/internal/domain"
	"github.com/spec-kit/desk-console/internal/remote"
	"github.com/spec-kit/desk-console/internal/session"
)

// sessionMsg delivers a published session snapshot through the message
// loop.
type sessionMsg session.Snapshot

// statusTickMsg drives periodic re-derivation of operator badges.
type statusTickMsg time.Time

type ticketsLoadedMsg struct {
	tickets []domain.Ticket
	err     error
}

type ticketLoadedMsg struct {
	ticket *domain.Ticket
	err    error
}

type ticketSavedMsg struct {
	ticket *domain.Ticket
	err    error
}

type ticketFiledMsg struct {
	err error
}

type operatorsLoadedMsg struct {
	operators []domain.Operator
	err       error
}

type operatorSavedMsg struct {
	err error
}

type passwordResetMsg struct {
	err error
}

type loginDoneMsg struct {
	err error
}

// waitForSession blocks on the store subscription and forwards the next
// snapshot. Re-issued after every delivery so the loop keeps listening.
func waitForSession(ch <-chan session.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return sessionMsg(snap)
	}
}

func scheduleStatusTick() tea.Cmd {
	return tea.Tick(30*time.Second, func(t time.Time) tea.Msg {
		return statusTickMsg(t)
	})
}

func initializeSession(store *session.Store) tea.Cmd {
	return func() tea.Msg {
		store.Initialize(context.Background())
		return nil
	}
}

func loginCmd(store *session.Store, email, password string) tea.Cmd {
	return func() tea.Msg {
		return loginDoneMsg{err: store.Login(context.Background(), email, password)}
	}
}

func loadTickets(desk *remote.Client) tea.Cmd {
	return func() tea.Msg {
		tickets, err := desk.ListTickets(context.Background())
		return ticketsLoadedMsg{tickets: tickets, err: err}
	}
}

func loadTicket(desk *remote.Client, id string) tea.Cmd {
	return func() tea.Msg {
		ticket, err := desk.GetTicket(context.Background(), id)
		return ticketLoadedMsg{ticket: ticket, err: err}
	}
}

func saveTicket(desk *remote.Client, id string, update remote.TicketUpdate) tea.Cmd {
	return func() tea.Msg {
		ticket, err := desk.UpdateTicket(context.Background(), id, update)
		return ticketSavedMsg{ticket: ticket, err: err}
	}
}

func fileTicket(desk *remote.Client, draft remote.TicketDraft) tea.Cmd {
	return func() tea.Msg {
		_, err := desk.CreateTicket(context.Background(), draft)
		return ticketFiledMsg{err: err}
	}
}

func loadOperators(desk *remote.Client) tea.Cmd {
	return func() tea.Msg {
		operators, err := desk.ListOperators(context.Background())
		return operatorsLoadedMsg{operators: operators, err: err}
	}
}

func createOperator(desk *remote.Client, draft remote.OperatorDraft) tea.Cmd {
	return func() tea.Msg {
		_, err := desk.CreateOperator(context.Background(), draft)
		return operatorSavedMsg{err: err}
	}
}

func updateOperator(desk *remote.Client, id string, draft remote.OperatorDraft) tea.Cmd {
	return func() tea.Msg {
		_, err := desk.UpdateOperator(context.Background(), id, draft)
		return operatorSavedMsg{err: err}
	}
}

func resetPassword(desk *remote.Client, userID, password string) tea.Cmd {
	return func() tea.Msg {
		return passwordResetMsg{err: desk.ResetPassword(context.Background(), userID, password)}
	}
}
