package severity

import (
	"os"
	"path/filepath"
	"testing"
)

func defaultRules(t *testing.T) *RuleSet {
	t.Helper()
	rs, err := NewRuleSet([]Rule{
		{Pattern: "fire", Priority: Emergency},
		{Pattern: "flood", Priority: Emergency},
		{Pattern: "gas", Priority: Emergency},
		{Pattern: "leak", Priority: High},
		{Pattern: "no heat", Priority: High},
	})
	if err != nil {
		t.Fatalf("NewRuleSet: %v", err)
	}
	return rs
}

func TestMatchFirstRuleWins(t *testing.T) {
	rs := defaultRules(t)

	// Text matches both "fire" and "leak"; rule order decides.
	rule, ok := rs.Match("electrical fire caused a leak in the ceiling")
	if !ok {
		t.Fatal("expected a match")
	}
	if rule.Pattern != "fire" || rule.Priority != Emergency {
		t.Fatalf("got rule %+v, want fire/EMERGENCY", rule)
	}
}

func TestMatchWordBoundary(t *testing.T) {
	rs := defaultRules(t)

	if _, ok := rs.Match("the fireplace damper is stuck"); ok {
		t.Fatal("fireplace must not match the fire rule")
	}
	if rule, ok := rs.Match("small fire in the kitchen"); !ok || rule.Pattern != "fire" {
		t.Fatalf("expected fire match, got %+v ok=%v", rule, ok)
	}
}

func TestMatchCaseInsensitive(t *testing.T) {
	rs := defaultRules(t)

	rule, ok := rs.Match("GAS smell in hallway")
	if !ok || rule.Priority != Emergency {
		t.Fatalf("expected emergency gas match, got %+v ok=%v", rule, ok)
	}
}

func TestMatchMultiWordPattern(t *testing.T) {
	rs := defaultRules(t)

	rule, ok := rs.Match("tenant reports no heat since monday")
	if !ok || rule.Pattern != "no heat" {
		t.Fatalf("expected no-heat match, got %+v ok=%v", rule, ok)
	}
}

func TestMatchNoRuleApplies(t *testing.T) {
	rs := defaultRules(t)

	if _, ok := rs.Match("squeaky cabinet hinge"); ok {
		t.Fatal("expected no match")
	}
}

func TestNewRuleSetRejectsUnknownPriority(t *testing.T) {
	_, err := NewRuleSet([]Rule{{Pattern: "fire", Priority: "CRITICAL"}})
	if err == nil {
		t.Fatal("expected error for unknown priority")
	}
}

func TestRank(t *testing.T) {
	if Rank(Low) >= Rank(Medium) || Rank(Medium) >= Rank(High) || Rank(High) >= Rank(Emergency) {
		t.Fatal("priority ranks must be strictly increasing")
	}
	if Rank("BOGUS") >= Rank(Low) {
		t.Fatal("unknown priority must rank below LOW")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `rules:
  - pattern: sparks
    priority: EMERGENCY
  - pattern: drip
    priority: MEDIUM
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write rules file: %v", err)
	}

	rs, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if rs.Len() != 2 {
		t.Fatalf("got %d rules, want 2", rs.Len())
	}
	if rule, ok := rs.Match("sparks from the outlet"); !ok || rule.Priority != Emergency {
		t.Fatalf("expected sparks rule, got %+v ok=%v", rule, ok)
	}
}

func TestLoadFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("rules: []\n"), 0o600); err != nil {
		t.Fatalf("write rules file: %v", err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for empty rules file")
	}
}
