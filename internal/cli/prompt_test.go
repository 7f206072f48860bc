package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scripted(input string) (*prompter, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return newPrompter(strings.NewReader(input), out), out
}

func TestAskIntAcceptsDefault(t *testing.T) {
	p, _ := scripted("\n")
	n, err := p.askInt("Runs", 4, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestAskIntRejectsOutOfRangeUntilValid(t *testing.T) {
	p, out := scripted("abc\n99\n3\n")
	n, err := p.askInt("Runs", 4, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Contains(t, out.String(), "between 1 and 20")
}

func TestAskIntEOF(t *testing.T) {
	p, _ := scripted("")
	_, err := p.askInt("Runs", 4, 1, 20)
	assert.ErrorIs(t, err, io.EOF)
}

func TestAskChoiceReturnsSelectedID(t *testing.T) {
	p, out := scripted("2\n")
	options := map[string]string{
		"1080p_high": "1080p High",
		"1440p_high": "1440p High",
	}
	id, err := p.askChoice("Select a graphics preset", options, "Keep current settings")
	require.NoError(t, err)
	assert.Equal(t, "1440p_high", id)
	assert.Contains(t, out.String(), "0. Keep current settings")
	assert.Contains(t, out.String(), "1080p High (1080p_high)")
}

func TestAskChoiceZeroKeepsCurrent(t *testing.T) {
	p, _ := scripted("0\n")
	id, err := p.askChoice("Select a graphics preset", map[string]string{"a": "A"}, "Keep current settings")
	require.NoError(t, err)
	assert.Equal(t, "", id)
}

func TestAskChoiceWithoutZeroOptionRejectsZero(t *testing.T) {
	p, out := scripted("0\n1\n")
	id, err := p.askChoice("Select a game", map[string]string{"cs2": "cs2"}, "")
	require.NoError(t, err)
	assert.Equal(t, "cs2", id)
	assert.Contains(t, out.String(), "between 1 and 1")
}
