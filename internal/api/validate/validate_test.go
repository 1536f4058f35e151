package validate

import "testing"

func TestEmail(t *testing.T) {
	if err := Email("user@example.com"); err != nil {
		t.Fatalf("valid email rejected: %v", err)
	}
	for _, bad := range []string{"", "no-at-sign", "a@b", "spaces in@example.com"} {
		if err := Email(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestColor(t *testing.T) {
	for _, ok := range []string{"", "#fff", "#3174ad", "#ABCDEF"} {
		if err := Color(ok); err != nil {
			t.Fatalf("valid color %q rejected: %v", ok, err)
		}
	}
	for _, bad := range []string{"red", "#12", "#12345g", "3174ad"} {
		if err := Color(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestNonEmptyAndMaxLen(t *testing.T) {
	if err := NonEmpty("title", ""); err == nil {
		t.Fatal("expected error for empty value")
	}
	if err := NonEmpty("title", "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := MaxLen("title", "abcdef", 5); err == nil {
		t.Fatal("expected error for overlong value")
	}
	if err := MaxLen("title", "abc", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
