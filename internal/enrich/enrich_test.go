package enrich

import "testing"

func TestEnrich(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"mixed known and unknown", "Hello :wave: :unknown: :heart:", "Hello 👋 :unknown: ❤️"},
		{"empty", "", ""},
		{"no tokens", "plain text", "plain text"},
		{"adjacent tokens", ":smile::laugh:", "😊😂"},
		{"case sensitive", ":Wave: :WAVE:", ":Wave: :WAVE:"},
		{"lone colons", "a : b :: c", "a : b :: c"},
		{"unknown consumes its colons", ":x:wave:", ":x:wave:"},
		{"token inside word", "hi:wave:there", "hi👋there"},
		{"repeated", ":fire: :fire:", "🔥 🔥"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Enrich(tt.input); got != tt.want {
				t.Errorf("Enrich(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"smile", "wave", "heart", "laugh"} {
		if _, ok := Lookup(name); !ok {
			t.Errorf("Lookup(%q) missing", name)
		}
	}
	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup(nope) should fail")
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("Names() not sorted: %v", names)
		}
	}
}
