package deploy

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/go-connections/nat"

	"github.com/data-tamer2410/sky-view/internal/model"
)

// RunContainer creates and starts the service container described by
// the manifest. The manifest port is published on the host, so the
// dashboard is reachable at http://localhost:<port> once the container
// is up. Returns the new container's ID.
//
// A daemon refusal because the host port is taken maps to
// ExitPortConflict; other daemon failures map to ExitDockerNotRunning.
func RunContainer(ctx context.Context, cli *Client, m *Manifest) (string, error) {
	port := nat.Port(fmt.Sprintf("%d/tcp", m.Port))

	env := make([]string, 0, len(m.Env)+1)
	for k, v := range m.Env {
		env = append(env, k+"="+v)
	}
	// The service reads its listen port from the environment, keeping
	// the container port and the bound port in lockstep with the manifest.
	env = append(env, "SKYVIEW_PORT="+strconv.Itoa(m.Port))

	cfg := container.Config{
		Image:  m.Ref(),
		Env:    env,
		Labels: BuildLabels(m, time.Now()),
		ExposedPorts: nat.PortSet{
			port: struct{}{},
		},
	}
	hostCfg := container.HostConfig{
		PortBindings: nat.PortMap{
			port: []nat.PortBinding{
				{HostPort: strconv.Itoa(m.Port)},
			},
		},
		RestartPolicy: container.RestartPolicy{
			// Survive daemon restarts but stay down when stopped
			// explicitly via the stop command.
			Name: container.RestartPolicyUnlessStopped,
		},
	}

	created, err := cli.Inner().ContainerCreate(ctx, &cfg, &hostCfg, nil, nil, m.ContainerName)
	if err != nil {
		return "", wrapRunError(m, err)
	}

	if err := cli.Inner().ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return "", wrapRunError(m, err)
	}

	return created.ID, nil
}

// wrapRunError classifies a container create/start failure. Bind
// conflicts get their own exit code so scripts can distinguish "another
// process owns the port" from "Docker is broken".
func wrapRunError(m *Manifest, err error) error {
	if strings.Contains(err.Error(), "port is already allocated") ||
		strings.Contains(err.Error(), "address already in use") {
		return model.WrapCLIError(
			model.ExitPortConflict,
			fmt.Sprintf("host port %d is already in use", m.Port),
			err,
		)
	}
	return model.WrapCLIError(
		model.ExitDockerNotRunning,
		fmt.Sprintf("failed to run container %q", m.ContainerName),
		err,
	)
}

// StopContainer stops a running container by ID or name. Docker sends
// SIGTERM first and escalates to SIGKILL after its default timeout.
func StopContainer(ctx context.Context, cli *Client, containerID string) error {
	if err := cli.Inner().ContainerStop(ctx, containerID, container.StopOptions{}); err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to stop container %q", containerID),
			err,
		)
	}
	return nil
}

// RemoveContainer removes a container by ID or name. With force, a
// running container is killed first.
func RemoveContainer(ctx context.Context, cli *Client, containerID string, force bool) error {
	err := cli.Inner().ContainerRemove(ctx, containerID, container.RemoveOptions{
		Force: force,
	})
	if err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to remove container %q", containerID),
			err,
		)
	}
	return nil
}

// ListDeployments queries the daemon for all containers carrying the
// "skyview.managed-by=skyview" label, including stopped ones. Filtering
// happens server-side via a label filter, which is cheaper than listing
// everything and filtering in Go.
func ListDeployments(ctx context.Context, cli *Client) ([]model.DeploymentInfo, error) {
	filterArgs := filters.NewArgs(
		filters.Arg("label", LabelManagedBy+"="+ManagedByValue),
	)

	containers, err := cli.Inner().ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			"failed to list Docker containers",
			err,
		)
	}

	result := make([]model.DeploymentInfo, 0, len(containers))
	for _, c := range containers {
		result = append(result, containerToInfo(c))
	}

	return result, nil
}

// containerToInfo converts a Docker API container summary to the domain
// DeploymentInfo. Pure mapping, no side effects.
func containerToInfo(c types.Container) model.DeploymentInfo {
	// Docker returns names with a leading "/" that is an API artifact,
	// not meaningful to users.
	name := ""
	if len(c.Names) > 0 {
		name = strings.TrimPrefix(c.Names[0], "/")
	}

	info := model.DeploymentInfo{
		ContainerID:   c.ID,
		ContainerName: name,
		Image:         c.Image,
		Status:        c.State,
		CreatedAt:     time.Unix(c.Created, 0).UTC(),
	}

	// Labels carry the published port and a precise creation timestamp.
	// Fall back to the API values when the labels do not parse, so a
	// hand-edited container still shows up in status output.
	if _, port, createdAt, err := ParseLabels(c.Labels); err == nil {
		info.HostPort = port
		if !createdAt.IsZero() {
			info.CreatedAt = createdAt
		}
	}

	return info
}
