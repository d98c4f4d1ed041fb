package sanitize

import "testing"

func TestClean_StripsScripts(t *testing.T) {
	s := New()
	got := s.Clean(`<script>alert("x")</script><b>About Us</b>`)
	if got != "<b>About Us</b>" {
		t.Fatalf("Clean() = %q", got)
	}
}

func TestClean_KeepsBasicFormatting(t *testing.T) {
	s := New()
	got := s.Clean("<em>About</em> <strong>Our Team</strong>")
	if got != "<em>About</em> <strong>Our Team</strong>" {
		t.Fatalf("Clean() = %q", got)
	}
}

func TestClean_StripsEventHandlers(t *testing.T) {
	s := New()
	got := s.Clean(`<b onclick="steal()">About Us</b>`)
	if got != "<b>About Us</b>" {
		t.Fatalf("Clean() = %q", got)
	}
}

func TestCleanStrict_LeavesTextOnly(t *testing.T) {
	s := NewStrict()
	got := s.Clean("<b>About Us</b>")
	if got != "About Us" {
		t.Fatalf("Clean() = %q", got)
	}
}

func TestClean_NilSanitizerPassesThrough(t *testing.T) {
	var s *Sanitizer
	if got := s.Clean("<b>raw</b>"); got != "<b>raw</b>" {
		t.Fatalf("Clean() = %q", got)
	}
}
