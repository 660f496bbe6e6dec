package messaging

import "testing"

func TestSanitizePhone(t *testing.T) {
	if got := sanitizePhone(" +1 (555) 123-4567 "); got != "15551234567" {
		t.Fatalf("unexpected digits: %q", got)
	}
	if got := sanitizePhone(""); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestNormalizeE164(t *testing.T) {
	cases := map[string]string{
		"+1 (555) 123-4567": "+15551234567",
		"555.123.4567":      "+5551234567",
		"":                  "",
		"   ":               "",
		"abc":               "",
	}
	for in, want := range cases {
		if got := NormalizeE164(in); got != want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidPhone(t *testing.T) {
	valid := []string{"+15551234567", "555123456", "(555) 123-4567"}
	for _, v := range valid {
		if !ValidPhone(v) {
			t.Errorf("expected %q valid", v)
		}
	}
	invalid := []string{"", "12345", "ext. 42", "+1-555"}
	for _, v := range invalid {
		if ValidPhone(v) {
			t.Errorf("expected %q invalid", v)
		}
	}
}
