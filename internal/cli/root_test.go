package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holger24/AFD-sub001/internal/errors"
)

func TestBootstrapFailureCarriesExitCodeOne(t *testing.T) {
	err := bootstrapFailure(errors.New(errors.ErrMSA, "Status area missing", ""))
	require.Error(t, err)

	code, ok := errors.GetExitCode(err)
	assert.True(t, ok)
	assert.Equal(t, 1, code)
}

func TestRootCommandRunsTheConsole(t *testing.T) {
	require.NotNil(t, rootCmd.RunE)

	flags := []string{"config", "work-dir", "color", "rows", "style"}
	for _, name := range flags {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "missing flag --%s", name)
	}
}
