package confirm

import (
	"path"
	"strings"
	"sync"
)

// compiledRule is a rule normalized for matching: the pattern is split into
// segments and lowercased when matching is case-insensitive.
type compiledRule struct {
	segments      []string
	approved      bool
	caseSensitive bool
}

func compileRule(r Rule, caseSensitive bool) compiledRule {
	pattern := strings.TrimPrefix(r.Pattern, "./")
	if !caseSensitive {
		pattern = strings.ToLower(pattern)
	}
	return compiledRule{
		segments:      strings.Split(pattern, "/"),
		approved:      r.Approved,
		caseSensitive: caseSensitive,
	}
}

// match tests a slash-separated workspace-relative path against the rule.
// Patterns use glob syntax with ** matching any number of path segments.
func (r compiledRule) match(rel string) bool {
	if !r.caseSensitive {
		rel = strings.ToLower(rel)
	}
	return matchSegments(r.segments, strings.Split(rel, "/"))
}

func matchSegments(pattern, name []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			for i := 0; i <= len(name); i++ {
				if matchSegments(pattern[1:], name[i:]) {
					return true
				}
			}
			return false
		}
		if len(name) == 0 {
			return false
		}
		ok, err := path.Match(pattern[0], name[0])
		if err != nil || !ok {
			return false
		}
		pattern = pattern[1:]
		name = name[1:]
	}
	return len(name) == 0
}

// RuleCache memoizes compiled rules per workspace folder. It is an explicit
// instance handed to the Checker, not a package singleton, so independent
// checkers never share state.
type RuleCache struct {
	mu      sync.Mutex
	folders map[string][]compiledRule
}

// NewRuleCache creates an empty cache.
func NewRuleCache() *RuleCache {
	return &RuleCache{folders: make(map[string][]compiledRule)}
}

// compiled returns the compiled rule list for a workspace folder, compiling
// on first use. The hardcoded editor-settings rule is always checked first
// so later user rules can override it.
func (c *RuleCache) compiled(folder string, rules []Rule, caseSensitive bool) []compiledRule {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.folders[folder]; ok {
		return cached
	}
	compiled := make([]compiledRule, 0, len(rules)+1)
	compiled = append(compiled, compileRule(vscodeSettingsRule, caseSensitive))
	for _, r := range rules {
		compiled = append(compiled, compileRule(r, caseSensitive))
	}
	c.folders[folder] = compiled
	return compiled
}
