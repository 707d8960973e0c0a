package addon

import "testing"

func TestAddonTokenDependsOnlyOnSourceAndID(t *testing.T) {
	a := Addon{Source: "curse", ID: "20338", Name: "Molinari", Version: "1.0"}
	b := a
	b.Name = "Renamed"
	b.Description = "x"
	b.Version = "2.0"

	if a.Token() != b.Token() {
		t.Fatalf("token changed with unrelated fields: %q vs %q", a.Token(), b.Token())
	}

	if got := a.Token(); got != Token("curse:20338") {
		t.Fatalf("unexpected token: %q", got)
	}
}

func TestDefnTokenUsesAlias(t *testing.T) {
	d := Defn{Source: "wowi", Alias: "weakauras"}
	if got := d.Token(); got != Token("wowi:weakauras") {
		t.Fatalf("unexpected token: %q", got)
	}
}

func TestDefnOfKeepsTokenStable(t *testing.T) {
	a := Addon{Source: "curse", ID: "20338", Slug: "molinari"}
	if DefnOf(a).Token() != a.Token() {
		t.Fatalf("round-tripped defn token mismatch: %q vs %q", DefnOf(a).Token(), a.Token())
	}
}

func TestSame(t *testing.T) {
	tests := []struct {
		name string
		a, b Addon
		want bool
	}{
		{"identical", Addon{Source: "curse", ID: "1"}, Addon{Source: "curse", ID: "1"}, true},
		{"different version still same", Addon{Source: "curse", ID: "1", Version: "a"}, Addon{Source: "curse", ID: "1", Version: "b"}, true},
		{"different source", Addon{Source: "curse", ID: "1"}, Addon{Source: "wowi", ID: "1"}, false},
		{"different id", Addon{Source: "curse", ID: "1"}, Addon{Source: "curse", ID: "2"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Same(tt.a, tt.b); got != tt.want {
				t.Fatalf("Same() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStageProgression(t *testing.T) {
	stages := Stages()
	if len(stages) != 3 {
		t.Fatalf("expected 3 stages, got %d", len(stages))
	}

	if stages[0] != FirstStage {
		t.Fatalf("first stage mismatch: %v", stages[0])
	}

	count := 0
	for s, ok := FirstStage, true; ok; s, ok = s.Next() {
		count++
		if count > len(stages) {
			t.Fatalf("stage progression does not terminate at %v", s)
		}
	}

	last := stages[len(stages)-1]
	if _, ok := last.Next(); ok {
		t.Fatal("terminal stage has a successor")
	}
}
