package domain

import (
	"regexp"
	"testing"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

func TestGenerateQuizCodeShape(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code := GenerateQuizCode()
		if !codePattern.MatchString(code) {
			t.Fatalf("unexpected code %q", code)
		}
		if !ValidQuizCode(code) {
			t.Fatalf("generated code %q rejected by ValidQuizCode", code)
		}
	}
}

func TestValidQuizCode(t *testing.T) {
	for _, code := range []string{"", "ABC12", "abc123", "ABC-12", "ABC1234"} {
		if ValidQuizCode(code) {
			t.Fatalf("expected %q to be invalid", code)
		}
	}
}
