package models

import "testing"

func TestLevelOrdering(t *testing.T) {
	levels := Levels()
	for i := 1; i < len(levels); i++ {
		if !levels[i].AtLeast(levels[i-1]) {
			t.Fatalf("%s should rank at least %s", levels[i], levels[i-1])
		}
		if levels[i-1].AtLeast(levels[i]) {
			t.Fatalf("%s should rank below %s", levels[i-1], levels[i])
		}
	}
	if !LevelGold.AtLeast(LevelGold) {
		t.Fatal("a level must satisfy its own gate")
	}
}

func TestParseLevel(t *testing.T) {
	for _, l := range Levels() {
		parsed, ok := ParseLevel(string(l))
		if !ok || parsed != l {
			t.Fatalf("ParseLevel(%q) = %q, %v", l, parsed, ok)
		}
	}
	if _, ok := ParseLevel("diamond"); ok {
		t.Fatal("unknown level must not parse")
	}
	if _, ok := ParseLevel(""); ok {
		t.Fatal("empty level must not parse")
	}
}

func TestUnknownLevelNeverSatisfiesGate(t *testing.T) {
	unknown := Level("mythril")
	for _, l := range Levels() {
		if unknown.AtLeast(l) {
			t.Fatalf("unknown level must not satisfy %s gate", l)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	terminal := map[AssignmentStatus]bool{
		StatusTaken:     false,
		StatusSubmitted: false,
		StatusRevision:  false,
		StatusApproved:  true,
		StatusRejected:  true,
	}
	for status, want := range terminal {
		if status.Terminal() != want {
			t.Fatalf("%s.Terminal() = %v, want %v", status, status.Terminal(), want)
		}
	}
	for _, s := range NonTerminalStatuses() {
		if s.Terminal() {
			t.Fatalf("NonTerminalStatuses includes terminal %s", s)
		}
	}
}
