package security

import "testing"

func TestTitleSanitizer_PlainTextPassesThrough(t *testing.T) {
	s := NewTitleSanitizer()

	got := s.Sanitize("牛乳を買う")
	if got != "牛乳を買う" {
		t.Errorf("Sanitize = %q, want %q", got, "牛乳を買う")
	}
}

func TestTitleSanitizer_StripsAllHTML(t *testing.T) {
	s := NewTitleSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"script tag", `<script>alert("xss")</script>buy milk`, "buy milk"},
		{"bold tag", "<b>important</b> task", "important task"},
		{"img onerror", `<img src=x onerror=alert(1)>walk dog`, "walk dog"},
		{"only tags", "<div><span></span></div>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTitleSanitizer_TrimsWhitespace(t *testing.T) {
	s := NewTitleSanitizer()

	if got := s.Sanitize("   spaced out   "); got != "spaced out" {
		t.Errorf("Sanitize = %q, want %q", got, "spaced out")
	}
	if got := s.Sanitize("   "); got != "" {
		t.Errorf("Sanitize = %q, want empty string", got)
	}
}

func TestTitleSanitizer_Idempotent(t *testing.T) {
	s := NewTitleSanitizer()

	once := s.Sanitize("<em>todo</em> item")
	twice := s.Sanitize(once)
	if once != twice {
		t.Errorf("Sanitize is not idempotent: %q != %q", once, twice)
	}
}
