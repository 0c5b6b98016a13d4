package deploy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/data-tamer2410/sky-view/internal/model"
)

// writeManifest writes manifest content to a temp file and returns its path.
func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deploy.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoadManifest_FullFile verifies parsing of a complete manifest,
// including JSONC comments and trailing commas.
func TestLoadManifest_FullFile(t *testing.T) {
	path := writeManifest(t, `{
	// Image settings.
	"image": "registry.example.com/sky-view",
	"tag": "v2",
	"dockerfile": "build/Dockerfile",
	"context": "..",
	/* Runtime settings. */
	"containerName": "skyview-prod",
	"port": 9000,
	"env": {
		"WEATHER_API_KEY": "secret",
	},
	"labels": {
		"team": "weather",
	},
}`)

	m, err := LoadManifest(path)

	require.NoError(t, err)
	assert.Equal(t, "registry.example.com/sky-view", m.Image)
	assert.Equal(t, "v2", m.Tag)
	assert.Equal(t, "build/Dockerfile", m.Dockerfile)
	assert.Equal(t, "..", m.Context)
	assert.Equal(t, "skyview-prod", m.ContainerName)
	assert.Equal(t, 9000, m.Port)
	assert.Equal(t, "secret", m.Env["WEATHER_API_KEY"])
	assert.Equal(t, "weather", m.Labels["team"])
	assert.Equal(t, "registry.example.com/sky-view:v2", m.Ref())
}

// TestLoadManifest_Defaults verifies that an empty manifest gets the
// full default set.
func TestLoadManifest_Defaults(t *testing.T) {
	path := writeManifest(t, `{}`)

	m, err := LoadManifest(path)

	require.NoError(t, err)
	assert.Equal(t, DefaultImage, m.Image)
	assert.Equal(t, DefaultTag, m.Tag)
	assert.Equal(t, DefaultDockerfile, m.Dockerfile)
	assert.Equal(t, DefaultContext, m.Context)
	assert.Equal(t, DefaultContainerName, m.ContainerName)
	assert.Equal(t, DefaultPort, m.Port)
	assert.Equal(t, "sky-view:latest", m.Ref())
}

// TestLoadManifest_Missing verifies the config exit code when the
// manifest file does not exist.
func TestLoadManifest_Missing(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "nope.jsonc"))

	require.Error(t, err)
	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr), "expected a CLIError")
	assert.Equal(t, model.ExitConfigError, cliErr.Code)
}

// TestLoadManifest_Malformed verifies the config exit code for a file
// that is not valid JSONC.
func TestLoadManifest_Malformed(t *testing.T) {
	path := writeManifest(t, `{"image": `)

	_, err := LoadManifest(path)

	require.Error(t, err)
	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr), "expected a CLIError")
	assert.Equal(t, model.ExitConfigError, cliErr.Code)
}

// TestLoadManifest_BadPort verifies port range validation.
func TestLoadManifest_BadPort(t *testing.T) {
	path := writeManifest(t, `{"port": 70000}`)

	_, err := LoadManifest(path)

	require.Error(t, err)
	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr), "expected a CLIError")
	assert.Equal(t, model.ExitConfigError, cliErr.Code)
	assert.Contains(t, cliErr.Message, "invalid port")
}
