package parser

import (
	"reflect"
	"testing"

	"github.com/quizdesk/client/internal/models"
)

func opts(pairs ...string) []models.ParsedOption {
	out := []models.ParsedOption{}
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, models.ParsedOption{Letter: pairs[i], Text: pairs[i+1]})
	}
	return out
}

func TestParse_InlineOptions(t *testing.T) {
	got := Parse("What is 2+2? A) 3 B) 4 C) 5")

	if got.Stem != "What is 2+2?" {
		t.Errorf("expected stem %q, got %q", "What is 2+2?", got.Stem)
	}
	want := opts("A", "3", "B", "4", "C", "5")
	if !reflect.DeepEqual(got.Options, want) {
		t.Errorf("expected options %+v, got %+v", want, got.Options)
	}
}

func TestParse_LineAnchoredOptions(t *testing.T) {
	input := "Which planet is largest?\nA. Mars\nB. Jupiter\nC. Venus\nD. Earth\nE. Mercury"
	got := Parse(input)

	if got.Stem != "Which planet is largest?" {
		t.Errorf("unexpected stem %q", got.Stem)
	}
	want := opts("A", "Mars", "B", "Jupiter", "C", "Venus", "D", "Earth", "E", "Mercury")
	if !reflect.DeepEqual(got.Options, want) {
		t.Errorf("expected options %+v, got %+v", want, got.Options)
	}
}

func TestParse_CountsAndOrder(t *testing.T) {
	letters := []string{"A", "B", "C", "D", "E"}
	texts := []string{"alpha", "beta", "gamma", "delta", "epsilon"}

	for n := 0; n <= 5; n++ {
		input := "Pick one:"
		for i := 0; i < n; i++ {
			input += " " + letters[i] + ") " + texts[i]
		}

		got := Parse(input)
		if len(got.Options) != n {
			t.Fatalf("n=%d: expected %d options, got %d", n, n, len(got.Options))
		}
		for i, o := range got.Options {
			if o.Letter != letters[i] || o.Text != texts[i] {
				t.Errorf("n=%d: option %d = %+v, want {%s %s}", n, i, o, letters[i], texts[i])
			}
		}
		if got.Stem != "Pick one:" {
			t.Errorf("n=%d: unexpected stem %q", n, got.Stem)
		}
	}
}

func TestParse_FirstOccurrenceOrder(t *testing.T) {
	got := Parse("Order? C) third A) first B) second")
	want := opts("C", "third", "A", "first", "B", "second")
	if !reflect.DeepEqual(got.Options, want) {
		t.Errorf("expected source order %+v, got %+v", want, got.Options)
	}
}

func TestParse_LowercaseMarkers(t *testing.T) {
	got := Parse("Capital of France? a) Paris b. Lyon")
	want := opts("A", "Paris", "B", "Lyon")
	if !reflect.DeepEqual(got.Options, want) {
		t.Errorf("expected %+v, got %+v", want, got.Options)
	}
}

func TestParse_NoMarkers(t *testing.T) {
	got := Parse("  Explain   photosynthesis.  ")
	if len(got.Options) != 0 {
		t.Fatalf("expected no options, got %+v", got.Options)
	}
	if got.Stem != "Explain photosynthesis." {
		t.Errorf("unexpected stem %q", got.Stem)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	got := Parse("")
	if got.Stem != "" {
		t.Errorf("expected empty stem, got %q", got.Stem)
	}
	if len(got.Options) != 0 {
		t.Errorf("expected no options, got %+v", got.Options)
	}
}

func TestParse_EmptyOptionText(t *testing.T) {
	got := Parse("Q? A) B) yes")
	want := opts("A", "", "B", "yes")
	if !reflect.DeepEqual(got.Options, want) {
		t.Errorf("expected %+v, got %+v", want, got.Options)
	}
}

func TestParse_DuplicateLetterFirstWins(t *testing.T) {
	got := Parse("Q? A) one A) two B) three")
	want := opts("A", "one A) two", "B", "three")
	if !reflect.DeepEqual(got.Options, want) {
		t.Errorf("expected %+v, got %+v", want, got.Options)
	}
}

func TestParse_MarkerRequiresBoundary(t *testing.T) {
	// "x)" is outside A-E, "BA)" has no whitespace before "A)", and "e.g."
	// has no whitespace after its ".".
	got := Parse("Consider f(x) e.g. BA) here A) yes B) no")
	want := opts("A", "yes", "B", "no")
	if !reflect.DeepEqual(got.Options, want) {
		t.Errorf("expected %+v, got %+v", want, got.Options)
	}
	if got.Stem != "Consider f(x) e.g. BA) here" {
		t.Errorf("unexpected stem %q", got.Stem)
	}
}

func TestParse_SentenceFinalLetterIsNotMarker(t *testing.T) {
	tests := []struct {
		in   string
		stem string
	}{
		{"Which vitamin is in oranges? Explain why it is vitamin C.", "Which vitamin is in oranges? Explain why it is vitamin C."},
		{"Grade the essay a.", "Grade the essay a."},
		{"Name the plan B.\n", "Name the plan B."},
	}

	for _, tt := range tests {
		got := Parse(tt.in)
		if len(got.Options) != 0 {
			t.Errorf("Parse(%q): expected no options, got %+v", tt.in, got.Options)
		}
		if got.Stem != tt.stem {
			t.Errorf("Parse(%q): unexpected stem %q", tt.in, got.Stem)
		}
	}
}

func TestParse_TrailingParenMarker(t *testing.T) {
	got := Parse("Q? A) yes B)")
	want := opts("A", "yes", "B", "")
	if !reflect.DeepEqual(got.Options, want) {
		t.Errorf("expected %+v, got %+v", want, got.Options)
	}
}

func TestParse_Deterministic(t *testing.T) {
	input := "Q? A) x\nB) y"
	first := Parse(input)
	for i := 0; i < 10; i++ {
		if got := Parse(input); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestParse_MultilineOptionText(t *testing.T) {
	got := Parse("Pick:\nA) first line\n   continues\nB) second")
	want := opts("A", "first line continues", "B", "second")
	if !reflect.DeepEqual(got.Options, want) {
		t.Errorf("expected %+v, got %+v", want, got.Options)
	}
}
