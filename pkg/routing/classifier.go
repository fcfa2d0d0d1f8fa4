package routing

import (
	"sort"
	"strings"
)

// Classifier maps request paths onto route classes. Request logging uses
// the class to tag entries and to demote ops probes to debug level.
type Classifier struct {
	rules []AllowlistRule
}

func NewClassifier(rules []AllowlistRule) *Classifier {
	copied := make([]AllowlistRule, 0, len(rules))
	for _, rule := range rules {
		rule.Prefix = strings.TrimSpace(rule.Prefix)
		if rule.Prefix == "" {
			continue
		}
		copied = append(copied, rule)
	}

	// Longest prefix wins so /api/v1/health-like overlaps stay deterministic.
	sort.SliceStable(copied, func(i, j int) bool {
		return len(copied[i].Prefix) > len(copied[j].Prefix)
	})

	return &Classifier{
		rules: copied,
	}
}

func DefaultClassifier() *Classifier {
	rules := DefaultRules()
	if extra, err := LoadAllowlist(""); err == nil {
		rules = append(extra, rules...)
	}
	return NewClassifier(rules)
}

func (c *Classifier) ClassifyPath(path string) RouteClass {
	for _, rule := range c.rules {
		if HasPathPrefixOnBoundary(path, rule.Prefix) {
			return rule.Class
		}
	}
	return RouteClassUnknown
}

// HasPathPrefixOnBoundary reports whether path starts with prefix at a
// path-segment boundary, so "/api/v1" matches "/api/v1/events" but not
// "/api/v1beta".
func HasPathPrefixOnBoundary(path, prefix string) bool {
	if prefix == "" {
		return false
	}

	if prefix == "/" {
		return strings.HasPrefix(path, "/")
	}

	if !strings.HasPrefix(path, prefix) {
		return false
	}

	if len(path) == len(prefix) {
		return true
	}

	if strings.HasSuffix(prefix, "/") {
		return true
	}

	return path[len(prefix)] == '/'
}
