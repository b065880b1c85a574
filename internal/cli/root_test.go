package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worshipflow/planner-core/internal/core/domain"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand("1.0.0")
	require.NotNil(t, cmd)
	assert.Equal(t, "planner-core", cmd.Use)
	assert.Equal(t, "1.0.0", cmd.Version)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand("test")
	commands := []string{"serve", "migrate", "recover", "calendar"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand("test")

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"database-url", "redis-url", "calendar-file"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "flag %s", name)
	}
}

func TestFlagDefaultsFromEnvironment(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://cache:6379/2")
	t.Setenv("PLANNER_ADDR", "127.0.0.1:9090")

	cmd := NewRootCommand("test")
	assert.Equal(t, "redis://cache:6379/2", cmd.PersistentFlags().Lookup("redis-url").DefValue)

	serveCmd, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", serveCmd.Flags().Lookup("addr").DefValue)
}

func TestRecoverCommandFlags(t *testing.T) {
	cmd := NewRootCommand("test")
	recoverCmd, _, err := cmd.Find([]string{"recover"})
	require.NoError(t, err)

	historyFlag := recoverCmd.Flags().Lookup("history")
	require.NotNil(t, historyFlag)
	assert.Equal(t, "0", historyFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "calendar", "12/25/24", "--format", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestCalendarCommand_Text(t *testing.T) {
	out, err := execute(t, "calendar", "12/25/24")
	require.NoError(t, err)
	assert.Equal(t, "12/25/24: Christmas (white), Christmas Day\n", out)
}

func TestCalendarCommand_JSON(t *testing.T) {
	out, err := execute(t, "calendar", "07/13/25", "--format", "json")
	require.NoError(t, err)

	var info domain.LiturgicalContext
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "pentecost", info.SeasonID)
	assert.Equal(t, "green", info.Color)
}

func TestCalendarCommand_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar.yaml")
	content := "seasons:\n  - {id: kingdomtide, name: Kingdomtide, color: red, start: 2025-08-31, end: 2025-11-22}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	out, err := execute(t, "calendar", "9/14/25", "--calendar-file", path)
	require.NoError(t, err)
	assert.Equal(t, "9/14/25: Kingdomtide (red)\n", out)
}

func TestCalendarCommand_InvalidDate(t *testing.T) {
	_, err := execute(t, "calendar", "2025-07-13")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCalendarCommand_RequiresDate(t *testing.T) {
	_, err := execute(t, "calendar")
	assert.Error(t, err)
}
