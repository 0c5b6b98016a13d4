// Package deploy packages the forecast service into a container image
// and manages its lifecycle on a Docker host.
//
// It covers:
//   - Docker client initialization with automatic socket detection
//     (Linux, macOS, Windows)
//   - the deploy.jsonc manifest describing the image and its runtime
//     settings
//   - image assembly from a build context directory
//   - container run, stop, remove and status, with label-based
//     discovery so no external state file is needed
//
// The package uses github.com/docker/docker/client as the underlying
// Docker SDK, with version negotiation enabled for broad compatibility.
package deploy
