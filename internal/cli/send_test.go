package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/holger24/AFD-sub001/internal/dispatch"
	"github.com/holger24/AFD-sub001/internal/errors"
)

func TestSendActionsCoverTheHeadlessSet(t *testing.T) {
	want := map[string]dispatch.Action{
		"retry":   dispatch.ActionRetry,
		"switch":  dispatch.ActionSwitch,
		"enable":  dispatch.ActionEnable,
		"disable": dispatch.ActionDisable,
		"ping":    dispatch.ActionPing,
	}
	assert.Equal(t, want, sendActions)
}

func TestSendCommandRejectsUnknownActions(t *testing.T) {
	err := sendCommand("explode", []string{"berlin"})
	assert.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestRootCommandWiring(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "send", "doctor", "init", "version", "completion"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}
