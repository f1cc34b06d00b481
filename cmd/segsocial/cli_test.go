package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	segsocial "github.com/wachinalpha/Bot-seguridad-social"
	main "github.com/wachinalpha/Bot-seguridad-social/cmd/segsocial"
)

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	// Use kong.Exit to prevent os.Exit from being called during tests
	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	// Parse --help (Kong writes help to stdout)
	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()

	expectedCommands := []string{"ingest", "ask", "docs", "remove", "invalidate", "stats"}
	for _, cmd := range expectedCommands {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestCLI_Defaults(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli, kong.Exit(func(int) {}))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"ask", "¿Cuántos años de aportes necesito?"})
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-flash", cli.Model)
	assert.Equal(t, 60*time.Minute, cli.CacheTTL)
	assert.Equal(t, 3, cli.TopK)
	assert.Equal(t, "ley_24714", cli.Anchor)
	assert.Equal(t, "¿Cuántos años de aportes necesito?", cli.Ask.Question)
}

func TestCLI_FlagOverrides(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli, kong.Exit(func(int) {}))
	require.NoError(t, err)

	_, err = parser.Parse([]string{
		"--model", "gemini-2.5-pro",
		"--cache-ttl", "30m",
		"--top-k", "5",
		"ask", "--doc", "ley_24241", "¿Qué es el SIPA?",
	})
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-pro", cli.Model)
	assert.Equal(t, 30*time.Minute, cli.CacheTTL)
	assert.Equal(t, 5, cli.TopK)
	assert.Equal(t, "ley_24241", cli.Ask.Doc)
}

func TestMain_Run_HelpShowsKongOutput(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DataDir = t.TempDir()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	// --help should return nil (success) and show commands
	err := m.Run(context.Background(), []string{"--help"}, stdout, stderr)
	require.NoError(t, err)

	helpOutput := stdout.String()
	expectedCommands := []string{"ingest", "ask", "docs", "remove", "invalidate", "stats"}
	for _, cmd := range expectedCommands {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}

	assert.Contains(t, helpOutput, "Usage:", "Help should have Kong-style Usage prefix")
	assert.Contains(t, helpOutput, "Flags:", "Help should have Kong-style Flags section")
}

func TestMain_Run_NoArgsReturnsError(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DataDir = t.TempDir()

	err := m.Run(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestMain_Run_GlobalFlagBeforeCommand(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DataDir = t.TempDir()

	// Kong accepts root flags ahead of the command, so wiring must key
	// off the parsed command rather than the first argument.
	stderr := &bytes.Buffer{}
	err := m.Run(context.Background(),
		[]string{"--top-k", "5", "remove", "ley_99999", "--force"},
		&bytes.Buffer{}, stderr)
	require.Error(t, err)
	assert.Equal(t, segsocial.ENOTFOUND, segsocial.ErrorCode(err))
	assert.Contains(t, stderr.String(), "not found")
}

func TestMain_Run_StatsOnEmptyCorpus(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DataDir = t.TempDir()

	stdout := &bytes.Buffer{}
	err := m.Run(context.Background(), []string{"stats"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Documents:       0")
}
