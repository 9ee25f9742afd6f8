package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \t\n  ", ""},
		{"lowercase passthrough", "hello world", "hello world"},
		{"uppercase", "HELLO World", "hello world"},
		{"collapses whitespace", "  hello \t  world  ", "hello world"},
		{"vietnamese tone marks", "Xin Chào", "xin chao"},
		{"vietnamese full sentence", "Bạn tên là gì?", "ban ten la gi"},
		{"dj substitution", "đi đâu đó", "di dau do"},
		{"uppercase dj", "Đà Nẵng", "da nang"},
		{"punctuation to spaces", "what's your name?!", "what s your name"},
		{"punctuation only", "?!...,;:", ""},
		{"mixed accents and punctuation", "Chào bạn, khỏe không?", "chao ban khoe khong"},
		{"digits kept", "mở cửa lúc 8h30", "mo cua luc 8h30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"hello world",
		"Xin Chào, Chào Bạn!",
		"  What   IS your NAME??  ",
		"đồng ý nhé",
		"café ☕ crème brûlée",
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "normalize must be idempotent for %q", input)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", []string{}},
		{"simple", "what is your name", []string{"what", "is", "your", "name"}},
		{"drops single-rune tokens", "what is a name i know", []string{"what", "is", "name", "know"}},
		{"normalizes before splitting", "Xin CHÀO!", []string{"xin", "chao"}},
		{"punctuation only", "?!", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.input))
		})
	}
}

func TestSplitAliases(t *testing.T) {
	assert.Equal(t, []string{"xin chào", "chào bạn"}, splitAliases("xin chào, chào bạn"))
	assert.Equal(t, []string{"hello"}, splitAliases("hello"))
	assert.Equal(t, []string{"a", "b"}, splitAliases(" a ,, b , "))
	assert.Empty(t, splitAliases(" , "))
}
