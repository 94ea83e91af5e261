package shell

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReader(t *testing.T) {
	var out bytes.Buffer
	r := NewLineReader(strings.NewReader("ls\r\ncd docs\ntree"), &out)

	r.SetPrompt("a $ ")
	line, err := r.Readline()
	require.NoError(t, err)
	assert.Equal(t, "ls", line)

	r.SetPrompt("b $ ")
	line, err = r.Readline()
	require.NoError(t, err)
	assert.Equal(t, "cd docs", line)

	line, err = r.Readline()
	require.NoError(t, err)
	assert.Equal(t, "tree", line)

	_, err = r.Readline()
	assert.Equal(t, io.EOF, err)

	assert.Equal(t, "a $ b $ b $ b $ ", out.String())
}
