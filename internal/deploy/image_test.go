package deploy

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTarBuildContext verifies that the build context archive contains
// the directory's files with slash-separated relative paths and that
// the .git directory is excluded.
func TestTarBuildContext(t *testing.T) {
	// Arrange: a small build context with a nested dir and a .git dir.
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM scratch\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "static"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "static", "app.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("ref"), 0o644))

	// Act
	r, err := tarBuildContext(dir)
	require.NoError(t, err)

	// Assert: walk the archive and collect entry names and contents.
	contents := map[string]string{}
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		var body bytes.Buffer
		_, err = io.Copy(&body, tr)
		require.NoError(t, err)
		contents[hdr.Name] = body.String()
	}

	assert.Equal(t, "FROM scratch\n", contents["Dockerfile"])
	assert.Equal(t, "body{}", contents["static/app.css"])
	assert.Contains(t, contents, "static/")
	for name := range contents {
		assert.False(t, strings.HasPrefix(name, ".git"),
			"archive should not contain %q", name)
	}
}

// TestTarBuildContext_NotADirectory verifies the guard against a file
// path being passed as the context.
func TestTarBuildContext_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "Dockerfile")
	require.NoError(t, os.WriteFile(file, []byte("FROM scratch\n"), 0o644))

	_, err := tarBuildContext(file)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

// TestRelayBuildOutput verifies that progress lines are forwarded and
// an error line terminates the relay with the daemon's message.
func TestRelayBuildOutput(t *testing.T) {
	body := strings.NewReader(
		`{"stream":"Step 1/2 : FROM scratch\n"}` + "\n" +
			`{"stream":" ---> done\n"}` + "\n")
	var out bytes.Buffer

	err := relayBuildOutput(body, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Step 1/2 : FROM scratch")

	// A failing build surfaces the daemon's error text.
	body = strings.NewReader(`{"errorDetail":{},"error":"The command exited with code 1"}` + "\n")
	err = relayBuildOutput(body, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited with code 1")
}
