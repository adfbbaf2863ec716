package source

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromBytesStripsUTF8BOM(t *testing.T) {
	sf, err := FromBytes("a.js", []byte("\xEF\xBB\xBFlet a = 1;"))
	require.NoError(t, err)
	assert.Equal(t, "let a = 1;", sf.Content)
	assert.Equal(t, "a.js", sf.Name)
	assert.True(t, sf.IsFile())
}

func TestFromBytesDecodesUTF16(t *testing.T) {
	// "a+b" in UTF-16LE with BOM.
	data := []byte{0xFF, 0xFE, 'a', 0, '+', 0, 'b', 0}
	sf, err := FromBytes("", data)
	require.NoError(t, err)
	assert.Equal(t, "a+b", sf.Content)
	assert.Equal(t, "<eval>", sf.DisplayPath())
	assert.False(t, sf.IsFile())
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.js")
	require.NoError(t, os.WriteFile(path, []byte("x\ny"), 0o644))

	sf, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "script.js", sf.Name)
	assert.Equal(t, path, sf.DisplayPath())
	assert.Equal(t, []string{"x", "y"}, sf.Lines())
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.js"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.js")
	assert.True(t, os.IsNotExist(errorsCause(err)))
}

func TestReadAllNamesStdin(t *testing.T) {
	sf, err := ReadAll(strings.NewReader("a"))
	require.NoError(t, err)
	assert.Equal(t, "<stdin>", sf.Name)

	r := sf.Reader()
	ch, _, err := r.ReadRune()
	require.NoError(t, err)
	assert.Equal(t, 'a', ch)
	_, _, err = r.ReadRune()
	assert.Equal(t, io.EOF, err)
}

func errorsCause(err error) error {
	type causer interface{ Cause() error }
	for {
		c, ok := err.(causer)
		if !ok {
			return err
		}
		err = c.Cause()
	}
}
