package domain

import (
	"math/rand"
	"strings"
)

// QuizCodeLength is the number of symbols in a quiz code.
const QuizCodeLength = 6

const quizCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateQuizCode returns a random code drawn uniformly from A-Z0-9.
// Codes are not unique by construction; stores reject collisions with ErrDuplicateCode.
func GenerateQuizCode() string {
	var b strings.Builder
	b.Grow(QuizCodeLength)
	for i := 0; i < QuizCodeLength; i++ {
		b.WriteByte(quizCodeAlphabet[rand.Intn(len(quizCodeAlphabet))])
	}
	return b.String()
}

// ValidQuizCode reports whether s has the shape of a generated code.
func ValidQuizCode(s string) bool {
	if len(s) != QuizCodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune(quizCodeAlphabet, rune(s[i])) {
			return false
		}
	}
	return true
}
