package auth

import "github.com/spec-kit/task-tracker/internal/domain"

// DefaultRules is the service's route policy. Order is load-bearing:
// matching is first-match-wins, so task routes under /projects precede
// the broader /projects rules.
func DefaultRules() []Rule {
	return []Rule{
		{Method: "POST", Pattern: "/login", Access: Public()},
		{Method: "POST", Pattern: "/register", Access: Public()},
		{Method: "GET", Pattern: "/healthz", Access: Public()},
		{Method: "GET", Pattern: "/readyz", Access: Public()},
		{Method: "GET", Pattern: "/ws/**", Access: Public()},

		// Users
		{Method: "GET", Pattern: "/users/**", Access: Roles(domain.RoleAdmin, domain.RoleModerator)},
		{Method: "POST", Pattern: "/users/**", Access: Roles(domain.RoleAdmin)},
		{Method: "PUT", Pattern: "/users/**", Access: Roles(domain.RoleAdmin)},
		{Method: "DELETE", Pattern: "/users/**", Access: Roles(domain.RoleAdmin)},

		// Tasks within projects, before the broader /projects rules
		{Method: "GET", Pattern: "/projects/*/tasks", Access: Authenticated()},
		{Method: "POST", Pattern: "/projects/*/tasks", Access: Authenticated()},

		// Projects
		{Method: "POST", Pattern: "/projects", Access: Roles(domain.RoleAdmin, domain.RoleModerator)},
		{Method: "DELETE", Pattern: "/projects/**", Access: Roles(domain.RoleAdmin, domain.RoleModerator)},
		{Method: "GET", Pattern: "/projects/**", Access: Authenticated()},

		// Direct task operations
		{Method: "GET", Pattern: "/tasks/**", Access: Authenticated()},
		{Method: "POST", Pattern: "/tasks/**", Access: Authenticated()},
		{Method: "PUT", Pattern: "/tasks/**", Access: Authenticated()},
		{Method: "DELETE", Pattern: "/tasks/**", Access: Authenticated()},

		// Everything else requires authentication
		{Method: MethodAny, Pattern: "/**", Access: Authenticated()},
	}
}
