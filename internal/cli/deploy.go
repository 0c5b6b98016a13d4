// Package cli — deploy.go implements the "skyview deploy" commands.
//
// The deploy commands package the dashboard into a Docker image and
// manage its container: build, run, stop, and status. All state lives
// in Docker labels, so status is always reconstructed from the daemon.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/data-tamer2410/sky-view/internal/deploy"
	"github.com/data-tamer2410/sky-view/internal/model"
	"github.com/data-tamer2410/sky-view/internal/port"
)

// deployFlags holds the flag values shared by the deploy subcommands.
type deployFlags struct {
	// manifest overrides the deploy.jsonc path from the config file.
	manifest string
}

// NewDeployCommand creates the "deploy" command group with its build,
// run, stop, and status subcommands.
func NewDeployCommand() *cobra.Command {
	flags := &deployFlags{}

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Build and run the dashboard as a Docker container",
		Long: `Package the dashboard into a Docker image and manage its container.

The deploy.jsonc manifest describes the image name, Dockerfile, build
context, container name, and published port.

Examples:
  skyview deploy build
  skyview deploy run
  skyview deploy status --json
  skyview deploy stop`,
	}

	cmd.PersistentFlags().StringVar(&flags.manifest, "manifest", "",
		"Path to deploy.jsonc (default: manifestPath from config)")

	cmd.AddCommand(newDeployBuildCommand(flags))
	cmd.AddCommand(newDeployRunCommand(flags))
	cmd.AddCommand(newDeployStopCommand(flags))
	cmd.AddCommand(newDeployStatusCommand())

	return cmd
}

// loadDeployManifest resolves the manifest path (flag, then config) and
// loads it.
func loadDeployManifest(flags *deployFlags) (*deploy.Manifest, error) {
	path := flags.manifest
	if path == "" {
		cfg, err := loadCLIConfig()
		if err != nil {
			return nil, err
		}
		path = cfg.ManifestPath
	}
	return deploy.LoadManifest(path)
}

// connectDocker creates a Docker client and verifies the daemon is up.
// Callers must Close the returned client.
func connectDocker(ctx context.Context) (*deploy.Client, error) {
	cli, err := deploy.NewClient()
	if err != nil {
		return nil, err
	}
	if err := cli.Ping(ctx); err != nil {
		cli.Close()
		return nil, err
	}
	VerboseLog("Connected to Docker daemon")
	return cli, nil
}

// newDeployBuildCommand creates the "deploy build" subcommand.
func newDeployBuildCommand(flags *deployFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the dashboard image",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadDeployManifest(flags)
			if err != nil {
				return err
			}

			cli, err := connectDocker(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cli.Close() }()

			if err := deploy.BuildImage(cmd.Context(), cli, m, os.Stdout); err != nil {
				return err
			}

			if IsJSONOutput() {
				data, _ := json.MarshalIndent(map[string]string{"image": m.Ref()}, "", "  ")
				fmt.Println(string(data))
				return nil
			}
			fmt.Printf("Built image %s\n", m.Ref())
			return nil
		},
	}
}

// newDeployRunCommand creates the "deploy run" subcommand.
func newDeployRunCommand(flags *deployFlags) *cobra.Command {
	var build bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the dashboard container",
		Long: `Create and start the dashboard container from the manifest image,
publishing the manifest port on the host.

With --build, the image is rebuilt first.`,
		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadDeployManifest(flags)
			if err != nil {
				return err
			}

			// Pre-flight the host port so a conflict fails before any
			// image or container work happens.
			if err := port.NewScanner().Check(m.Port); err != nil {
				return model.WrapCLIError(
					model.ExitPortConflict,
					fmt.Sprintf("cannot publish port %d", m.Port),
					err,
				)
			}

			cli, err := connectDocker(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cli.Close() }()

			if build {
				if err := deploy.BuildImage(cmd.Context(), cli, m, os.Stdout); err != nil {
					return err
				}
			}

			id, err := deploy.RunContainer(cmd.Context(), cli, m)
			if err != nil {
				return err
			}

			if IsJSONOutput() {
				result := map[string]any{
					"containerId":   id,
					"containerName": m.ContainerName,
					"port":          m.Port,
				}
				data, _ := json.MarshalIndent(result, "", "  ")
				fmt.Println(string(data))
				return nil
			}
			fmt.Printf("Started container %s on http://localhost:%d\n", m.ContainerName, m.Port)
			return nil
		},
	}

	cmd.Flags().BoolVar(&build, "build", false, "Rebuild the image before starting")

	return cmd
}

// newDeployStopCommand creates the "deploy stop" subcommand.
func newDeployStopCommand(flags *deployFlags) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the dashboard container",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadDeployManifest(flags)
			if err != nil {
				return err
			}

			cli, err := connectDocker(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cli.Close() }()

			if err := deploy.StopContainer(cmd.Context(), cli, m.ContainerName); err != nil {
				return err
			}
			if remove {
				if err := deploy.RemoveContainer(cmd.Context(), cli, m.ContainerName, false); err != nil {
					return err
				}
			}

			if !IsJSONOutput() {
				fmt.Printf("Stopped container %s\n", m.ContainerName)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&remove, "rm", false, "Remove the container after stopping it")

	return cmd
}

// newDeployStatusCommand creates the "deploy status" subcommand.
func newDeployStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show managed dashboard containers",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := connectDocker(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cli.Close() }()

			deployments, err := deploy.ListDeployments(cmd.Context(), cli)
			if err != nil {
				return err
			}

			printStatus(deployments)
			return nil
		},
	}
}

// printStatus outputs the deployment list in text or JSON format.
func printStatus(deployments []model.DeploymentInfo) {
	if IsJSONOutput() {
		// Empty slice instead of nil so JSON shows [] rather than null.
		if deployments == nil {
			deployments = []model.DeploymentInfo{}
		}
		data, _ := json.MarshalIndent(deployments, "", "  ")
		fmt.Println(string(data))
		return
	}

	if len(deployments) == 0 {
		fmt.Println("No managed containers found.")
		return
	}

	fmt.Printf("%-15s %-25s %-10s %-6s %s\n",
		"NAME", "IMAGE", "STATUS", "PORT", "CREATED")
	for _, d := range deployments {
		port := "-"
		if d.HostPort != 0 {
			port = fmt.Sprintf("%d", d.HostPort)
		}
		fmt.Printf("%-15s %-25s %-10s %-6s %s\n",
			d.ContainerName,
			d.Image,
			d.Status,
			port,
			d.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
}
