package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/task-tracker/internal/domain"
)

func principal(role domain.Role) *Principal {
	return &Principal{Subject: "someone", Role: role}
}

func TestPolicyEngine_FirstMatchWins(t *testing.T) {
	engine := NewPolicyEngine([]Rule{
		{Method: "POST", Pattern: "/projects", Access: Roles(domain.RoleAdmin, domain.RoleModerator)},
		{Method: "GET", Pattern: "/projects/**", Access: Authenticated()},
	})

	require.False(t, engine.Authorize(principal(domain.RoleUser), "POST", "/projects").Allowed)
	require.True(t, engine.Authorize(principal(domain.RoleAdmin), "POST", "/projects").Allowed)
	require.True(t, engine.Authorize(principal(domain.RoleUser), "GET", "/projects/7").Allowed)
}

func TestPolicyEngine_SpecificBeforeCatchAll(t *testing.T) {
	engine := NewPolicyEngine([]Rule{
		{Method: "POST", Pattern: "/projects/*/tasks", Access: Authenticated()},
		{Method: "POST", Pattern: "/projects/**", Access: Roles(domain.RoleAdmin)},
	})

	// the task route matches the specific rule, not the admin catch-all
	require.True(t, engine.Authorize(principal(domain.RoleUser), "POST", "/projects/1/tasks").Allowed)
	require.False(t, engine.Authorize(principal(domain.RoleUser), "POST", "/projects/1").Allowed)
}

func TestPolicyEngine_NoRoleInheritance(t *testing.T) {
	engine := NewPolicyEngine([]Rule{
		{Method: "GET", Pattern: "/reports", Access: Roles(domain.RoleModerator)},
	})

	// ADMIN is not listed, so ADMIN is denied; membership is exact
	require.False(t, engine.Authorize(principal(domain.RoleAdmin), "GET", "/reports").Allowed)
	require.True(t, engine.Authorize(principal(domain.RoleModerator), "GET", "/reports").Allowed)
}

func TestPolicyEngine_DefaultDeny(t *testing.T) {
	engine := NewPolicyEngine([]Rule{
		{Method: "GET", Pattern: "/projects", Access: Authenticated()},
	})

	decision := engine.Authorize(principal(domain.RoleAdmin), "GET", "/nowhere")
	require.False(t, decision.Allowed)
}

func TestPolicyEngine_PublicBypassesAuthentication(t *testing.T) {
	engine := NewPolicyEngine([]Rule{
		{Method: "POST", Pattern: "/login", Access: Public()},
	})

	require.True(t, engine.Authorize(nil, "POST", "/login").Allowed)
}

func TestPolicyEngine_AuthenticatedRejectsAnonymous(t *testing.T) {
	engine := NewPolicyEngine([]Rule{
		{Method: "GET", Pattern: "/projects", Access: Authenticated()},
	})

	require.False(t, engine.Authorize(nil, "GET", "/projects").Allowed)
	require.True(t, engine.Authorize(principal(domain.RoleUser), "GET", "/projects").Allowed)
}

func TestPolicyEngine_WildcardMatching(t *testing.T) {
	engine := NewPolicyEngine([]Rule{
		{Method: "GET", Pattern: "/projects/*/tasks", Access: Public()},
	})

	require.True(t, engine.Authorize(nil, "GET", "/projects/42/tasks").Allowed)
	// "*" is exactly one segment
	require.False(t, engine.Authorize(nil, "GET", "/projects/tasks").Allowed)
	require.False(t, engine.Authorize(nil, "GET", "/projects/1/2/tasks").Allowed)
}

func TestPolicyEngine_TrailingWildcardMatchesEmptySuffix(t *testing.T) {
	engine := NewPolicyEngine([]Rule{
		{Method: "GET", Pattern: "/users/**", Access: Public()},
	})

	require.True(t, engine.Authorize(nil, "GET", "/users").Allowed)
	require.True(t, engine.Authorize(nil, "GET", "/users/9").Allowed)
	require.True(t, engine.Authorize(nil, "GET", "/users/9/tokens").Allowed)
}

func TestPolicyEngine_MethodAny(t *testing.T) {
	engine := NewPolicyEngine([]Rule{
		{Method: MethodAny, Pattern: "/**", Access: Authenticated()},
	})

	for _, method := range []string{"GET", "POST", "PUT", "DELETE", "PATCH"} {
		require.True(t, engine.Authorize(principal(domain.RoleUser), method, "/anything/at/all").Allowed)
		require.False(t, engine.Authorize(nil, method, "/anything/at/all").Allowed)
	}
}

// Totality over the default rule table: every request resolves to exactly
// one decision, and unmatched requests resolve to Deny.
func TestDefaultRules_Totality(t *testing.T) {
	engine := NewPolicyEngine(DefaultRules())

	cases := []struct {
		method  string
		path    string
		p       *Principal
		allowed bool
	}{
		{"POST", "/login", nil, true},
		{"POST", "/register", nil, true},
		{"GET", "/ws", nil, true},
		{"GET", "/users", principal(domain.RoleModerator), true},
		{"GET", "/users", principal(domain.RoleUser), false},
		{"POST", "/users", principal(domain.RoleModerator), false},
		{"POST", "/users", principal(domain.RoleAdmin), true},
		{"DELETE", "/users/3", principal(domain.RoleAdmin), true},
		{"POST", "/projects", principal(domain.RoleUser), false},
		{"POST", "/projects", principal(domain.RoleModerator), true},
		{"POST", "/projects/1/tasks", principal(domain.RoleUser), true},
		{"GET", "/projects/1/tasks", principal(domain.RoleUser), true},
		{"DELETE", "/projects/1", principal(domain.RoleUser), false},
		{"DELETE", "/projects/1", principal(domain.RoleAdmin), true},
		{"GET", "/projects", principal(domain.RoleUser), true},
		{"GET", "/projects", nil, false},
		{"PUT", "/tasks/5", principal(domain.RoleUser), true},
		{"DELETE", "/tasks/5", nil, false},
		{"PATCH", "/unknown/route", principal(domain.RoleAdmin), true},
		{"PATCH", "/unknown/route", nil, false},
	}

	for _, tc := range cases {
		decision := engine.Authorize(tc.p, tc.method, tc.path)
		require.Equal(t, tc.allowed, decision.Allowed, "%s %s", tc.method, tc.path)
	}
}
