package console

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompt_SharesBufferedInput(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("first\r\nsecond\nthird"), &out)

	got, err := c.Prompt("a: ")
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	got, err = c.PromptSecret("b: ")
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	got, err = c.Prompt("c: ")
	require.NoError(t, err)
	assert.Equal(t, "third", got, "last line without newline is still returned")

	_, err = c.Prompt("d: ")
	assert.ErrorIs(t, err, io.EOF)

	assert.Equal(t, "a: b: c: d: ", out.String())
}

func TestRender_PlainWhenNotTerminal(t *testing.T) {
	c := New(strings.NewReader(""), &bytes.Buffer{})
	assert.Equal(t, "title", c.Heading("title"))
	assert.Equal(t, "oops", c.Warning("oops"))
	assert.Equal(t, "dim", c.Muted("dim"))
}

func TestPrintHelpers(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader(""), &out)
	c.Printf("%d-%s", 1, "x")
	c.Println("")
	c.Println("line")
	assert.Equal(t, "1-x\nline\n", out.String())
}
