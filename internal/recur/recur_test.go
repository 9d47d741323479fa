package recur

import (
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr bool
	}{
		{"* * * * *", false},
		{"0 9 * * 1-5", false},
		{"", true},
		{"* * * *", true},
		{"* * * * * *", true},
		{"61 * * * *", true},
	}
	for _, tc := range tests {
		err := Validate(tc.expr)
		if (err != nil) != tc.wantErr {
			t.Errorf("Validate(%q) error = %v, wantErr %v", tc.expr, err, tc.wantErr)
		}
	}
}

func TestNextStrictlyAfter(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	next, err := Next("0 9 * * *", start)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !next.After(start) {
		t.Fatalf("expected occurrence strictly after %v, got %v", start, next)
	}
	if next.Hour() != 9 || next.Minute() != 0 {
		t.Fatalf("expected 09:00 occurrence, got %v", next)
	}
}

func TestHasOccurrenceWithinYear(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !HasOccurrenceWithinYear("* * * * *", from) {
		t.Fatal("every-minute expression must occur within a year")
	}
	if HasOccurrenceWithinYear("bogus", from) {
		t.Fatal("invalid expression must report no occurrence")
	}
	// Feb 30 never exists.
	if HasOccurrenceWithinYear("0 0 30 2 *", from) {
		t.Fatal("impossible date must report no occurrence")
	}
}

func TestRulesRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()

	r, err := LoadRules(fs, "/data/recurrence.json")
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if err := r.Set("tok-1", Rule{Expr: "0 9 * * *", Type: "alarm"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := r.Set("tok-2", Rule{Expr: "*/5 * * * *", Type: "reminder"}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	r2, err := LoadRules(fs, "/data/recurrence.json")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if rule, ok := r2.Get("tok-1"); !ok || rule.Expr != "0 9 * * *" || rule.Type != "alarm" {
		t.Fatalf("expected tok-1 rule to survive reload, got %+v %v", rule, ok)
	}
	if len(r2.All()) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(r2.All()))
	}

	if err := r2.Remove("tok-1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := r2.Get("tok-1"); ok {
		t.Fatal("expected tok-1 removed")
	}
	if err := r2.Remove("tok-1"); err != nil {
		t.Fatal("removing twice must be a no-op")
	}

	if err := r2.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	r3, err := LoadRules(fs, "/data/recurrence.json")
	if err != nil {
		t.Fatalf("reload after clear: %v", err)
	}
	if len(r3.All()) != 0 {
		t.Fatal("expected no rules after clear")
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	r, err := LoadRules(fs, "/nope/rules.json")
	if err != nil {
		t.Fatalf("LoadRules on missing file: %v", err)
	}
	if len(r.All()) != 0 {
		t.Fatal("expected empty rule set")
	}
}
