// Package authz holds the role/route permission table. The decision is a
// pure function of the resolved role names and the request line, so adding
// a role or a route is a configuration change, not a code path.
package authz

import "strings"

// Rule grants one role one method on one path prefix.
type Rule struct {
	Role       string
	Method     string
	PathPrefix string
}

type Policy struct {
	unrestricted map[string]struct{}
	rules        []Rule
}

// NewPolicy builds a policy from roles with unrestricted access and an
// explicit grant list for everyone else.
func NewPolicy(unrestricted []string, rules []Rule) *Policy {
	p := &Policy{unrestricted: make(map[string]struct{}, len(unrestricted)), rules: rules}
	for _, role := range unrestricted {
		p.unrestricted[role] = struct{}{}
	}
	return p
}

// Default is the catalog's shipped policy: Admin everywhere, Standard
// read-only on the browsing routes.
func Default() *Policy {
	return NewPolicy([]string{"Admin"}, []Rule{
		{Role: "Standard", Method: "GET", PathPrefix: "/super-heroes"},
		{Role: "Standard", Method: "GET", PathPrefix: "/super-powers"},
		{Role: "Standard", Method: "GET", PathPrefix: "/help-me"},
	})
}

// Allows reports whether any of the given role names permits the request.
// Unknown role names grant nothing.
func (p *Policy) Allows(roleNames []string, method string, path string) bool {
	for _, name := range roleNames {
		if _, ok := p.unrestricted[name]; ok {
			return true
		}
	}

	for _, rule := range p.rules {
		if rule.Method != method {
			continue
		}
		if !strings.HasPrefix(path, rule.PathPrefix) {
			continue
		}
		for _, name := range roleNames {
			if name == rule.Role {
				return true
			}
		}
	}

	return false
}
