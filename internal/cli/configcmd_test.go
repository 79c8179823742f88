package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigShowCommand(t *testing.T) {
	resetAdapter(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	rootCmd.SetArgs([]string{"config", "show"})
	require.Equal(t, 0, Execute())
	require.Contains(t, buf.String(), "db_path")
	require.Contains(t, buf.String(), "# flag")
}
