package recur

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/afero"
)

// Rule is one recurring alert definition.
type Rule struct {
	// Expr is the 5-field cron expression.
	Expr string `json:"expr"`
	// Type is the alert type label the expanded instances carry.
	Type string `json:"type"`
}

// Rules is the persisted token -> rule mapping. It survives daemon restarts
// so recurring alerts continue after their current instance is recovered or
// dropped at load.
type Rules struct {
	mu    sync.Mutex
	fs    afero.Fs
	path  string
	rules map[string]Rule
}

// LoadRules reads the rules file at path, creating an empty rule set when
// the file does not exist yet.
func LoadRules(fs afero.Fs, path string) (*Rules, error) {
	r := &Rules{
		fs:    fs,
		path:  path,
		rules: make(map[string]Rule),
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("read recurrence rules: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &r.rules); err != nil {
			return nil, fmt.Errorf("decode recurrence rules: %w", err)
		}
	}
	return r, nil
}

func (r *Rules) persistLocked() error {
	data, err := json.Marshal(r.rules)
	if err != nil {
		return fmt.Errorf("encode recurrence rules: %w", err)
	}
	if err := afero.WriteFile(r.fs, r.path, data, 0o600); err != nil {
		return fmt.Errorf("write recurrence rules: %w", err)
	}
	return nil
}

// Set records the rule for a token.
func (r *Rules) Set(token string, rule Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[token] = rule
	return r.persistLocked()
}

// Get returns the rule recorded for a token.
func (r *Rules) Get(token string) (Rule, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rule, ok := r.rules[token]
	return rule, ok
}

// Remove drops the rule for a token. Removing an unknown token is a no-op.
func (r *Rules) Remove(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rules[token]; !ok {
		return nil
	}
	delete(r.rules, token)
	return r.persistLocked()
}

// All returns a copy of every recorded rule.
func (r *Rules) All() map[string]Rule {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]Rule, len(r.rules))
	for k, v := range r.rules {
		out[k] = v
	}
	return out
}

// Clear drops every rule.
func (r *Rules) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = make(map[string]Rule)
	return r.persistLocked()
}
