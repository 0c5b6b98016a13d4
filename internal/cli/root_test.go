package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/data-tamer2410/sky-view/internal/model"
	"github.com/data-tamer2410/sky-view/internal/weatherapi"
)

// TestNewRootCommand_Subcommands verifies that all top-level commands
// are registered under the expected names.
func TestNewRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"serve", "forecast", "locations", "deploy"} {
		assert.True(t, names[want], "expected subcommand %q to be registered", want)
	}
}

// TestNewRootCommand_PersistentFlags verifies the global flags exist so
// every subcommand inherits them.
func TestNewRootCommand_PersistentFlags(t *testing.T) {
	root := NewRootCommand()

	assert.NotNil(t, root.PersistentFlags().Lookup("json"))
	assert.NotNil(t, root.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

// TestForecastError verifies the error-to-exit-code mapping for the
// one-shot forecast command.
func TestForecastError(t *testing.T) {
	// An unknown location gets the dedicated exit code.
	notFound := fmt.Errorf("lookup: %w", weatherapi.ErrLocationNotFound)
	err := forecastError("Atlantis", notFound)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitLocationNotFound, cliErr.Code)
	assert.Contains(t, cliErr.Message, "Atlantis")

	// Anything else is an upstream failure.
	err = forecastError("Sydney", errors.New("connection refused"))
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitUpstreamUnavailable, cliErr.Code)
}
