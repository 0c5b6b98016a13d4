package deploy

import (
	"archive/tar"
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/docker/docker/api/types/build"

	"github.com/data-tamer2410/sky-view/internal/model"
)

// BuildImage assembles the service image from the manifest's build
// context and Dockerfile. Build progress lines from the daemon are
// relayed to out; pass io.Discard to suppress them.
//
// Returns a CLIError with ExitDockerNotRunning if the daemon rejects
// the build request, or ExitGeneralError if the build itself fails.
func BuildImage(ctx context.Context, cli *Client, m *Manifest, out io.Writer) error {
	contextTar, err := tarBuildContext(m.Context)
	if err != nil {
		return fmt.Errorf("failed to package build context %q: %w", m.Context, err)
	}

	resp, err := cli.Inner().ImageBuild(ctx, contextTar, build.ImageBuildOptions{
		Tags:       []string{m.Ref()},
		Dockerfile: m.Dockerfile,
		// Remove intermediate containers after a successful build so
		// repeated builds do not accumulate leftovers.
		Remove: true,
		Labels: map[string]string{
			LabelManagedBy: ManagedByValue,
		},
	})
	if err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to build image %q", m.Ref()),
			err,
		)
	}
	defer resp.Body.Close()

	return relayBuildOutput(resp.Body, out)
}

// buildMessage is one line of the Docker build output stream. The
// daemon emits newline-delimited JSON objects carrying either progress
// text or an error.
type buildMessage struct {
	Stream string `json:"stream"`
	Error  string `json:"error"`
}

// relayBuildOutput streams the daemon's build log to out and surfaces
// the first build error as a CLIError. The stream must be consumed to
// completion even on error, otherwise the daemon may abort the build.
func relayBuildOutput(body io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(body)
	// Build output lines can exceed the default scanner buffer when a
	// RUN step prints long lines.
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		var msg buildMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			// Non-JSON lines are relayed verbatim.
			fmt.Fprintln(out, scanner.Text())
			continue
		}
		if msg.Error != "" {
			return model.NewCLIError(
				model.ExitGeneralError,
				fmt.Sprintf("image build failed: %s", strings.TrimSpace(msg.Error)),
			)
		}
		if msg.Stream != "" {
			io.WriteString(out, msg.Stream)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read build output: %w", err)
	}
	return nil
}

// tarBuildContext packages a directory into an in-memory tar archive
// suitable as a Docker build context. Paths inside the archive are
// relative to the context root with forward slashes. The .git directory
// is skipped; it is never needed to build the image and can be large.
func tarBuildContext(dir string) (io.Reader, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("build context %q is not a directory", dir)
	}

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}
		// Symlinks and other irregular entries are skipped rather than
		// dereferenced, matching what a .dockerignore-less CLI build sends.
		if !fi.Mode().IsRegular() && !fi.IsDir() {
			return nil
		}

		hdr, err := tar.FileInfoHeader(fi, "")
		if err != nil {
			return err
		}
		hdr.Name = rel
		if fi.IsDir() {
			hdr.Name += "/"
		}

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := tw.Close(); err != nil {
		return nil, err
	}
	return &buf, nil
}
