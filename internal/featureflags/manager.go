// Package featureflags gates optional capabilities from the FEATURE_FLAGS setting.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// PostEdit enables author edits of existing posts.
const PostEdit = "post_edit"

// rule is a parsed flag value: fully on, fully off, or a percentage rollout.
type rule struct {
	percent int
}

// Manager evaluates feature flags defined in a simple key=value list.
// Example: "post_edit=on,new_feed=25%,legacy_ui=off"
type Manager struct {
	rules map[string]rule
}

// NewManager creates a feature-flag manager from a comma-separated config string.
// Entries with an unrecognised value are dropped.
func NewManager(raw string) *Manager {
	rules := make(map[string]rule)

	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key, value = normalize(key), normalize(value)
		if key == "" {
			continue
		}
		if r, ok := parseRule(value); ok {
			rules[key] = r
		}
	}

	return &Manager{rules: rules}
}

func parseRule(value string) (rule, bool) {
	switch value {
	case "on", "true", "1":
		return rule{percent: 100}, true
	case "off", "false", "0":
		return rule{percent: 0}, true
	}
	pct, ok := strings.CutSuffix(value, "%")
	if !ok {
		return rule{}, false
	}
	n, err := strconv.Atoi(pct)
	if err != nil {
		return rule{}, false
	}
	return rule{percent: min(max(n, 0), 100)}, true
}

// Enabled returns whether a flag is enabled for a given user. Partial
// rollouts bucket users deterministically and never include anonymous callers.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}
	r, ok := m.rules[normalize(name)]
	if !ok {
		return false
	}
	switch {
	case r.percent >= 100:
		return true
	case r.percent <= 0, userID == 0:
		return false
	}
	return rolloutBucket(name, userID) < r.percent
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s:%d", normalize(name), userID)
	return int(h.Sum32() % 100)
}
