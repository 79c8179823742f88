package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompletionCommandRegistered(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "completion" {
			found = true
			break
		}
	}
	assert.True(t, found, "completion subcommand must be registered on root command")
}

func TestCompletionCommandProperties(t *testing.T) {
	assert.Equal(t, "completion [bash|zsh|fish|powershell]", completionCmd.Use)
	assert.Equal(t, "Generate shell completion scripts", completionCmd.Short)
	assert.NotEmpty(t, completionCmd.Long)
}

func TestCompletionCommandValidArgs(t *testing.T) {
	expected := []string{"bash", "zsh", "fish", "powershell"}
	assert.Equal(t, expected, completionCmd.ValidArgs)
}

func TestCompletionShellScripts(t *testing.T) {
	shells := []struct {
		name     string
		contains string
	}{
		{name: "bash", contains: "bash"},
		{name: "zsh", contains: "zsh"},
		{name: "fish", contains: "tideline"},
		{name: "powershell", contains: "tideline"},
	}

	for _, tt := range shells {
		t.Run(tt.name, func(t *testing.T) {
			rootCmd.SetArgs([]string{"completion", tt.name})
			defer rootCmd.SetArgs(nil)

			buf := new(bytes.Buffer)
			rootCmd.SetOut(buf)
			defer rootCmd.SetOut(nil)

			code := Execute()
			assert.Equal(t, 0, code)

			output := buf.String()
			assert.NotEmpty(t, output, "completion script for %s must not be empty", tt.name)
			assert.Contains(t, output, tt.contains,
				"completion script for %s must contain %q", tt.name, tt.contains)
		})
	}
}

func TestCompletionNoArgsShowsHelp(t *testing.T) {
	rootCmd.SetArgs([]string{"completion"})
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	code := Execute()
	assert.Equal(t, 0, code)

	output := buf.String()
	assert.Contains(t, output, "source <(tideline completion bash)")
	assert.Contains(t, output, `"${fpath[1]}/_tideline"`)
	assert.Contains(t, output, "~/.config/fish/completions/tideline.fish")
	assert.Contains(t, output, "Out-String | Invoke-Expression")
}

func TestCompletionInvalidShellReturnsError(t *testing.T) {
	rootCmd.SetArgs([]string{"completion", "invalid"})
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	defer rootCmd.SetOut(nil)
	defer rootCmd.SetErr(nil)

	code := Execute()
	assert.Equal(t, 1, code)
}

func TestCompletionTooManyArgsReturnsError(t *testing.T) {
	rootCmd.SetArgs([]string{"completion", "bash", "extra"})
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	defer rootCmd.SetOut(nil)
	defer rootCmd.SetErr(nil)

	code := Execute()
	assert.Equal(t, 1, code)
}

func TestCompletionHelpContainsInstallInstructions(t *testing.T) {
	long := completionCmd.Long

	instructions := []string{
		"tideline completion bash",
		"/etc/bash_completion.d/tideline",
		"tideline completion zsh",
		`"${fpath[1]}/_tideline"`,
		"tideline completion fish",
		"~/.config/fish/completions/tideline.fish",
		"tideline completion powershell",
		"Out-String | Invoke-Expression",
	}

	for _, inst := range instructions {
		assert.Contains(t, long, inst,
			"Long help must contain installation instruction: %s", inst)
	}
}

func TestSubcommandNamesComplete(t *testing.T) {
	// Cobra handles subcommand completion automatically once a command is
	// registered; this just verifies every top-level command we ship is.
	expectedSubcommands := []string{"extract", "map", "search", "comment", "config", "version", "completion"}
	for _, name := range expectedSubcommands {
		t.Run(name, func(t *testing.T) {
			found := false
			for _, cmd := range rootCmd.Commands() {
				if cmd.Name() == name {
					found = true
					break
				}
			}
			assert.True(t, found, "subcommand %q must be registered for tab completion", name)
		})
	}
}
