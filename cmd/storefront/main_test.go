package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"catalog"})

	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 15)
	assert.Equal(t, []string{"ID", "NAME", "PRICE"}, strings.Fields(lines[0]))
	assert.Contains(t, lines[1], "Chicken Laps")
	assert.Contains(t, lines[1], "₦2.99/kg")
	assert.Contains(t, lines[14], "Croaker")
}

func TestMigrateCommand_MemoryBackendIsNoop(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("LOG_LEVEL", "error")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"migrate"})

	assert.NoError(t, cmd.Execute())
}

func TestServeCommand_InvalidConfig(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "floppy")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"serve"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_BACKEND")
}

func TestUnknownCommand(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"teleport"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	assert.Error(t, cmd.Execute())
}
