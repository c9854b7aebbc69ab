package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSplitCommand is a unit test for the command-line tokenizer
func TestSplitCommand(t *testing.T) {
	tests := []struct {
		input   string
		wantCmd string
		wantArg string
	}{
		{"", "", ""},
		{"   ", "", ""},
		{"r", "r", ""},
		{"O 3", "o", "3"},
		{"d 12", "d", "12"},
		{"e 5 extra words ignored", "e", "5"},
	}

	for _, tt := range tests {
		cmd, arg := splitCommand(tt.input)
		assert.Equal(t, tt.wantCmd, cmd, "input %q", tt.input)
		assert.Equal(t, tt.wantArg, arg, "input %q", tt.input)
	}
}

func TestParseArgID(t *testing.T) {
	id, ok := parseArgID("42")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	_, ok = parseArgID("")
	assert.False(t, ok)
	_, ok = parseArgID("abc")
	assert.False(t, ok)
	_, ok = parseArgID("-1")
	assert.False(t, ok)
}
