// Package ui is the terminal shell of the desk console. Views are
// deliberately thin: they fetch through the remote client, gate through
// the access gate on every navigation, and push all real decisions into
// the session, filter, and derive packages.
package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/spec-kit/desk-console/internal/auth"
	"github.com/spec-kit/desk-console/internal/nav"
	"github.com/spec-kit/desk-console/internal/remote"
	"github.com/spec-kit/desk-console/internal/session"
)

// Deps bundles what the shell needs from the composition root.
type Deps struct {
	Sessions *session.Store
	Desk     *remote.Client
	Logger   *zap.Logger
}

// Model is the root bubbletea model: one route at a time, gated on
// every navigation and re-gated whenever the session changes.
type Model struct {
	keys     KeyMap
	sessions *session.Store
	desk     *remote.Client
	logger   *zap.Logger

	snap          session.Snapshot
	sessionCh     <-chan session.Snapshot
	sessionCancel func()

	route    nav.Route
	notFound bool
	width    int
	height   int

	login        loginView
	customer     customerView
	dashboard    dashboardView
	detail       detailView
	operators    operatorsView
	operatorForm operatorFormView
	resetPass    resetPassView
}

// New builds the shell. The session store must not be initialized yet;
// Init triggers it so the loading state is visible from the first
// frame.
func New(deps Deps) *Model {
	ch, cancel := deps.Sessions.Subscribe()
	m := &Model{
		keys:          DefaultKeyMap,
		sessions:      deps.Sessions,
		desk:          deps.Desk,
		logger:        deps.Logger,
		snap:          deps.Sessions.Snapshot(),
		sessionCh:     ch,
		sessionCancel: cancel,
		route:         nav.RouteCustomerForm,
	}
	m.customer = newCustomerView()
	m.login = newLoginView()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		initializeSession(m.sessions),
		waitForSession(m.sessionCh),
		scheduleStatusTick(),
	)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case sessionMsg:
		return m.onSession(session.Snapshot(msg))

	case statusTickMsg:
		// Re-derive operator badges on the next render.
		return m, scheduleStatusTick()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) && !m.typingActive() {
			m.sessionCancel()
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Logout) {
			m.sessions.Logout()
			return m, nil
		}
	}

	return m.routeUpdate(msg)
}

// onSession folds a published snapshot in and re-gates the current
// route: the session can change underneath a rendered view.
func (m *Model) onSession(snap session.Snapshot) (tea.Model, tea.Cmd) {
	previous := m.snap
	m.snap = snap

	cmds := []tea.Cmd{waitForSession(m.sessionCh)}

	// Entering a session from the login view goes to the dashboard.
	if m.route == nav.RouteLogin && !snap.Loading && !snap.Session.Absent() {
		cmds = append(cmds, m.navigate(nav.RouteDashboard))
		return m, tea.Batch(cmds...)
	}

	// Session collapsed while a protected route is up: redirect.
	if !snap.Loading && snap.Session.Absent() && !previous.Session.Absent() {
		if decision := m.gateFor(m.route); decision == auth.DecisionRedirectToLogin {
			cmds = append(cmds, m.navigate(nav.RouteLogin))
		}
	}
	return m, tea.Batch(cmds...)
}

// gateFor evaluates the access gate for a route with the latest
// published session.
func (m *Model) gateFor(route nav.Route) auth.Decision {
	entry, ok := nav.Lookup(route)
	if !ok {
		return auth.DecisionRender
	}
	if len(entry.Roles) == 0 {
		// Public destination; no gate.
		return auth.DecisionRender
	}
	return auth.Evaluate(m.snap.Session, m.snap.Loading, entry.Roles...)
}

// navigate switches routes, consulting the gate first. Renderable
// destinations return their load command.
func (m *Model) navigate(route nav.Route) tea.Cmd {
	if _, ok := nav.Lookup(route); !ok {
		m.notFound = true
		return nil
	}
	m.notFound = false

	switch m.gateFor(route) {
	case auth.DecisionRedirectToLogin:
		m.route = nav.RouteLogin
		m.login = newLoginView()
		return nil
	case auth.DecisionWait, auth.DecisionDeny:
		// Render the waiting or denial state in place; the view is
		// re-gated when the session resolves.
		m.route = route
		return nil
	}

	m.route = route
	return m.enterRoute(route)
}

// enterRoute resets the destination view and starts its data load.
func (m *Model) enterRoute(route nav.Route) tea.Cmd {
	switch route {
	case nav.RouteCustomerForm:
		m.customer = newCustomerView()
		return nil
	case nav.RouteLogin:
		m.login = newLoginView()
		return nil
	case nav.RouteDashboard:
		m.dashboard = newDashboardView(m.snap.Session)
		return loadTickets(m.desk)
	case nav.RouteTicketDetail:
		return loadTicket(m.desk, m.detail.ticketID)
	case nav.RouteOperators:
		m.operators = newOperatorsView()
		return loadOperators(m.desk)
	case nav.RouteOperatorNew:
		m.operatorForm = newOperatorFormView(nil)
		return nil
	case nav.RouteOperatorEdit:
		return nil
	case nav.RouteResetPassword:
		return nil
	default:
		return nil
	}
}

// routeUpdate hands a message to the active view.
func (m *Model) routeUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.route {
	case nav.RouteCustomerForm:
		return m.updateCustomer(msg)
	case nav.RouteLogin:
		return m.updateLogin(msg)
	case nav.RouteDashboard:
		return m.updateDashboard(msg)
	case nav.RouteTicketDetail:
		return m.updateDetail(msg)
	case nav.RouteOperators:
		return m.updateOperators(msg)
	case nav.RouteOperatorNew, nav.RouteOperatorEdit:
		return m.updateOperatorForm(msg)
	case nav.RouteResetPassword:
		return m.updateResetPass(msg)
	default:
		return m, nil
	}
}

// typingActive reports whether the active view currently routes
// printable keys into a text field, so global single-letter bindings
// stay out of the way.
func (m *Model) typingActive() bool {
	switch m.route {
	case nav.RouteLogin, nav.RouteCustomerForm, nav.RouteOperatorNew, nav.RouteOperatorEdit, nav.RouteResetPassword:
		return true
	case nav.RouteDashboard:
		return m.dashboard.searching
	case nav.RouteTicketDetail:
		return m.detail.editingResponse
	default:
		return false
	}
}

// View implements tea.Model. The gate runs again here: rendering is
// where "never show protected content" is ultimately enforced.
func (m *Model) View() string {
	if m.notFound {
		return contentStyle.Render(errorStyle.Render("404 - page not found"))
	}

	switch m.gateFor(m.route) {
	case auth.DecisionWait:
		return contentStyle.Render(mutedStyle.Render("Loading session..."))
	case auth.DecisionDeny:
		return m.chrome(errorStyle.Render("Access not authorized"))
	case auth.DecisionRedirectToLogin:
		// Session collapsed between update and render; show login.
		return m.chrome(m.viewLogin())
	}

	var body string
	switch m.route {
	case nav.RouteCustomerForm:
		body = m.viewCustomer()
	case nav.RouteLogin:
		body = m.viewLogin()
	case nav.RouteDashboard:
		body = m.viewDashboard()
	case nav.RouteTicketDetail:
		body = m.viewDetail()
	case nav.RouteOperators:
		body = m.viewOperators()
	case nav.RouteOperatorNew, nav.RouteOperatorEdit:
		body = m.viewOperatorForm()
	case nav.RouteResetPassword:
		body = m.viewResetPass()
	}
	return m.chrome(body)
}

// chrome wraps a view body with the brand bar and, for authenticated
// backoffice sessions, the sidebar built from the capability table.
func (m *Model) chrome(body string) string {
	header := titleStyle.Render("SERVICE DESK")
	if !m.snap.Session.Absent() {
		header += mutedStyle.Render("  " + string(m.snap.Session.Role) + "  (C-l logout, q quit)")
	} else {
		header += mutedStyle.Render("  (L login, q quit)")
	}

	entries := nav.Visible(m.snap.Session.Role)
	if len(entries) == 0 {
		return header + "\n\n" + contentStyle.Render(body)
	}

	var lines []string
	for _, entry := range entries {
		line := entry.Label
		if entry.Route == m.route {
			line = sidebarActiveStyle.Render(line)
		}
		lines = append(lines, line)
	}
	sidebar := sidebarStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return header + "\n\n" + lipgloss.JoinHorizontal(lipgloss.Top, sidebar, contentStyle.Render(body))
}
