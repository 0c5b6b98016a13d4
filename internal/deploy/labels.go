package deploy

import (
	"fmt"
	"strconv"
	"time"
)

// Label key constants define the Docker label keys this tool writes to
// every container it creates. Labels are the sole persistence mechanism;
// run state is always reconstructed from the Docker daemon.
//
// All keys share the "skyview." prefix to avoid collisions with labels
// set by other tools.
const (
	// LabelPrefix is the common prefix for all labels this tool manages.
	LabelPrefix = "skyview."

	// LabelManagedBy identifies containers created by this tool. It is
	// the label used for filtering when listing containers.
	// Key: "skyview.managed-by", Value: always "skyview".
	LabelManagedBy = LabelPrefix + "managed-by"

	// LabelName stores the deployment name from the manifest.
	// Key: "skyview.name".
	LabelName = LabelPrefix + "name"

	// LabelPort stores the published host port.
	// Key: "skyview.port".
	LabelPort = LabelPrefix + "port"

	// LabelCreatedAt stores the RFC3339 timestamp of container creation.
	// Key: "skyview.created-at".
	LabelCreatedAt = LabelPrefix + "created-at"
)

// ManagedByValue is the constant value for the LabelManagedBy label.
const ManagedByValue = "skyview"

// BuildLabels constructs the Docker label map applied to a container
// created from the manifest. Extra labels from the manifest are merged
// in first so they can never shadow the management labels.
func BuildLabels(m *Manifest, createdAt time.Time) map[string]string {
	labels := make(map[string]string, len(m.Labels)+4)
	for k, v := range m.Labels {
		labels[k] = v
	}
	labels[LabelManagedBy] = ManagedByValue
	labels[LabelName] = m.ContainerName
	labels[LabelPort] = strconv.Itoa(m.Port)
	// UTC keeps timestamps consistent regardless of the host timezone.
	labels[LabelCreatedAt] = createdAt.UTC().Format(time.RFC3339)
	return labels
}

// ParseLabels extracts the deployment metadata this tool wrote into a
// container's labels. It is the inverse of BuildLabels.
func ParseLabels(labels map[string]string) (name string, port int, createdAt time.Time, err error) {
	if labels[LabelManagedBy] != ManagedByValue {
		return "", 0, time.Time{}, fmt.Errorf(
			"label %s has unexpected value %q (expected %q)",
			LabelManagedBy, labels[LabelManagedBy], ManagedByValue,
		)
	}

	name = labels[LabelName]

	if v, ok := labels[LabelPort]; ok {
		port, err = strconv.Atoi(v)
		if err != nil {
			return "", 0, time.Time{}, fmt.Errorf("invalid label %s=%q: %w", LabelPort, v, err)
		}
	}

	if v, ok := labels[LabelCreatedAt]; ok {
		createdAt, err = time.Parse(time.RFC3339, v)
		if err != nil {
			return "", 0, time.Time{}, fmt.Errorf("invalid label %s=%q: %w", LabelCreatedAt, v, err)
		}
	}

	return name, port, createdAt, nil
}
