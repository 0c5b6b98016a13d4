package deploy

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/data-tamer2410/sky-view/internal/model"
)

// Manifest defaults applied by LoadManifest when the corresponding
// field is absent from deploy.jsonc.
const (
	// DefaultImage is the image repository used when the manifest does
	// not name one.
	DefaultImage = "sky-view"

	// DefaultTag is the image tag used when the manifest does not name one.
	DefaultTag = "latest"

	// DefaultDockerfile is the Dockerfile path relative to the build
	// context.
	DefaultDockerfile = "Dockerfile"

	// DefaultContext is the build context directory relative to the
	// manifest file's location.
	DefaultContext = "."

	// DefaultContainerName is the container name used for run/stop/status
	// when the manifest does not name one.
	DefaultContainerName = "skyview"

	// DefaultPort is the port the service listens on inside the
	// container and the host port it is published to.
	DefaultPort = 8501
)

// Manifest describes how the forecast service is packaged and run.
// It is loaded from a deploy.jsonc file; the JSONC format allows the
// manifest to carry comments, which deployment files in practice do.
//
// Unknown fields are silently ignored so the manifest can carry
// annotations for other tooling.
type Manifest struct {
	// Image is the image repository name (without tag).
	Image string `json:"image,omitempty"`

	// Tag is the image tag.
	Tag string `json:"tag,omitempty"`

	// Dockerfile is the Dockerfile path relative to the build context.
	Dockerfile string `json:"dockerfile,omitempty"`

	// Context is the build context directory, relative to the manifest
	// file unless absolute.
	Context string `json:"context,omitempty"`

	// ContainerName is the name given to the running container.
	ContainerName string `json:"containerName,omitempty"`

	// Port is both the container listen port and the published host
	// port. The service binds one fixed port, so they are never mapped
	// to different numbers.
	Port int `json:"port,omitempty"`

	// Env sets additional environment variables inside the container,
	// e.g. WEATHER_API_KEY.
	Env map[string]string `json:"env,omitempty"`

	// Labels adds extra Docker labels beyond the management labels this
	// tool always applies.
	Labels map[string]string `json:"labels,omitempty"`
}

// LoadManifest reads a deploy.jsonc file, strips JSONC comments, parses
// it, and applies defaults to absent fields.
//
// Returns a CLIError with ExitConfigError if the file does not exist or
// does not parse.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(
				model.ExitConfigError,
				fmt.Sprintf("deploy manifest not found: %s", path),
				err,
			)
		}
		return nil, fmt.Errorf("failed to read deploy manifest: %w", err)
	}

	// Strip // and /* */ comments and trailing commas before handing the
	// bytes to encoding/json.
	cleanJSON := jsonc.ToJSON(data)

	var m Manifest
	if err := json.Unmarshal(cleanJSON, &m); err != nil {
		return nil, model.WrapCLIError(
			model.ExitConfigError,
			fmt.Sprintf("failed to parse deploy manifest at %s", path),
			err,
		)
	}

	m.applyDefaults()

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// applyDefaults fills absent fields with the package defaults.
func (m *Manifest) applyDefaults() {
	if m.Image == "" {
		m.Image = DefaultImage
	}
	if m.Tag == "" {
		m.Tag = DefaultTag
	}
	if m.Dockerfile == "" {
		m.Dockerfile = DefaultDockerfile
	}
	if m.Context == "" {
		m.Context = DefaultContext
	}
	if m.ContainerName == "" {
		m.ContainerName = DefaultContainerName
	}
	if m.Port == 0 {
		m.Port = DefaultPort
	}
}

// Validate checks the manifest for values that cannot produce a working
// deployment. Returns a CLIError with ExitConfigError on the first
// problem found.
func (m *Manifest) Validate() error {
	if m.Port < 1 || m.Port > 65535 {
		return model.NewCLIError(
			model.ExitConfigError,
			fmt.Sprintf("invalid port %d in deploy manifest (must be 1-65535)", m.Port),
		)
	}
	return nil
}

// Ref returns the full image reference, e.g. "sky-view:latest".
func (m *Manifest) Ref() string {
	return m.Image + ":" + m.Tag
}
