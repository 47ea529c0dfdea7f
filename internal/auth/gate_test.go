package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/desk-console/internal/domain"
)

func TestEvaluate(t *testing.T) {
	operator := domain.Session{SubjectID: "u-1", Role: domain.RoleOperator, OperatorID: "op-1"}
	admin := domain.Session{SubjectID: "u-2", Role: domain.RoleAdministrator}

	cases := []struct {
		name     string
		session  domain.Session
		loading  bool
		required []domain.Role
		want     Decision
	}{
		{"loading holds even with a session", operator, true, []domain.Role{domain.RoleOperator}, DecisionWait},
		{"loading holds when anonymous", domain.Session{}, true, nil, DecisionWait},
		{"absent redirects", domain.Session{}, false, nil, DecisionRedirectToLogin},
		{"absent redirects on restricted route", domain.Session{}, false, []domain.Role{domain.RoleAdministrator}, DecisionRedirectToLogin},
		{"wrong role denies inline", operator, false, []domain.Role{domain.RoleAdministrator}, DecisionDeny},
		{"matching role renders", admin, false, []domain.Role{domain.RoleAdministrator}, DecisionRender},
		{"any of several roles renders", operator, false, []domain.Role{domain.RoleAdministrator, domain.RoleOperator}, DecisionRender},
		{"empty requirement renders any session", operator, false, nil, DecisionRender},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Evaluate(tc.session, tc.loading, tc.required...))
		})
	}
}

// Render is only ever reached with a session whose role is in the
// required set, for every combination of inputs.
func TestEvaluateRenderImpliesAuthorized(t *testing.T) {
	sessions := []domain.Session{
		{},
		{SubjectID: "u-1", Role: domain.RoleOperator, OperatorID: "op-1"},
		{SubjectID: "u-2", Role: domain.RoleAdministrator},
		{SubjectID: "u-3", Role: domain.RoleGuest},
	}
	requirements := [][]domain.Role{
		nil,
		{domain.RoleOperator},
		{domain.RoleAdministrator},
		{domain.RoleAdministrator, domain.RoleOperator},
	}

	for _, sess := range sessions {
		for _, required := range requirements {
			for _, loading := range []bool{true, false} {
				got := Evaluate(sess, loading, required...)
				if got != DecisionRender {
					continue
				}
				assert.False(t, loading)
				assert.False(t, sess.Absent())
				if len(required) > 0 {
					assert.True(t, sess.Role.In(required...))
				}
			}
		}
	}
}
