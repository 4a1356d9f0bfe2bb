package prompter

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm(t *testing.T) {
	cases := map[string]bool{
		"y\n":     true,
		"YES\n":   true,
		"n\n":     false,
		"\n":      false,
		"y":       true,
		"maybe\n": false,
	}
	for input, want := range cases {
		var out bytes.Buffer
		got, err := New(strings.NewReader(input), &out).Confirm("Install 3 updates?")
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
		assert.Equal(t, "Install 3 updates? [y/N]: ", out.String())
	}
}

func TestConfirm_EmptyInput(t *testing.T) {
	_, err := New(strings.NewReader(""), io.Discard).Confirm("?")
	assert.ErrorIs(t, err, io.EOF)
}

func TestPrompt(t *testing.T) {
	got, err := New(strings.NewReader("  secret \n"), io.Discard).Prompt("token: ")
	require.NoError(t, err)
	assert.Equal(t, "secret", got)
}

func TestYes(t *testing.T) {
	ok, err := Yes{}.Confirm("anything")
	require.NoError(t, err)
	assert.True(t, ok)
}
