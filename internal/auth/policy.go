package auth

import (
	"strings"

	"github.com/spec-kit/task-tracker/internal/domain"
)

// AccessLevel partitions rules into public, any-authenticated and
// explicit-role-set checks.
type AccessLevel int

const (
	AccessPublic AccessLevel = iota
	AccessAuthenticated
	AccessRoles
)

// Access describes who may pass a rule.
type Access struct {
	level AccessLevel
	roles map[domain.Role]struct{}
}

// Public grants the rule to everyone, anonymous included.
func Public() Access {
	return Access{level: AccessPublic}
}

// Authenticated grants the rule to any non-anonymous principal.
func Authenticated() Access {
	return Access{level: AccessAuthenticated}
}

// Roles grants the rule to principals whose role is in the listed set.
// Membership is exact: a role not listed does not satisfy the rule, no
// matter its seniority.
func Roles(roles ...domain.Role) Access {
	set := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return Access{level: AccessRoles, roles: set}
}

// MethodAny matches every HTTP method in a rule.
const MethodAny = "*"

// Rule binds one method and path pattern to an access requirement.
// Patterns are slash-separated; "*" matches exactly one segment and a
// trailing "**" matches any remaining suffix, including an empty one.
type Rule struct {
	Method  string
	Pattern string
	Access  Access
}

type compiledRule struct {
	method   string
	segments []string
	access   Access
}

// Decision is the outcome of an authorization check. Reason is for logs
// only and must never reach the caller.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// PolicyEngine evaluates requests against an ordered rule table.
// Evaluation is first-match-wins: more specific patterns must be declared
// before broader ones covering the same prefix. No rule matched means
// deny.
type PolicyEngine struct {
	rules []compiledRule
}

// NewPolicyEngine compiles the rule table, preserving declaration order.
func NewPolicyEngine(rules []Rule) *PolicyEngine {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		compiled = append(compiled, compiledRule{
			method:   strings.ToUpper(r.Method),
			segments: splitPath(r.Pattern),
			access:   r.Access,
		})
	}
	return &PolicyEngine{rules: compiled}
}

// Authorize resolves a request to exactly one Allow or Deny. principal may
// be nil for anonymous callers.
func (e *PolicyEngine) Authorize(principal *Principal, method, path string) Decision {
	method = strings.ToUpper(method)
	segments := splitPath(path)

	for _, rule := range e.rules {
		if rule.method != MethodAny && rule.method != method {
			continue
		}
		if !matchSegments(rule.segments, segments) {
			continue
		}
		return rule.access.check(principal)
	}
	return deny("no matching rule")
}

func (a Access) check(principal *Principal) Decision {
	switch a.level {
	case AccessPublic:
		return allow()
	case AccessAuthenticated:
		if principal == nil {
			return deny("authentication required")
		}
		return allow()
	default:
		if principal == nil {
			return deny("authentication required")
		}
		if _, ok := a.roles[principal.Role]; !ok {
			return deny("role not permitted")
		}
		return allow()
	}
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// matchSegments walks pattern and path segment by segment. "*" consumes
// one segment; a trailing "**" consumes the rest, zero segments included.
func matchSegments(pattern, path []string) bool {
	for i, seg := range pattern {
		if seg == "**" && i == len(pattern)-1 {
			return true
		}
		if i >= len(path) {
			return false
		}
		if seg != "*" && seg != path[i] {
			return false
		}
	}
	return len(pattern) == len(path)
}
