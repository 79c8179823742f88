package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tideline/tideline/internal/model"
)

func TestCommentLifecycle(t *testing.T) {
	resetAdapter(t)

	a, err := Adapter()
	require.NoError(t, err)
	require.NoError(t, a.Store().CreateUpload(context.Background(), model.Upload{ID: "u1", Platform: "android", GivenName: "android"}))
	require.NoError(t, a.Store().InsertEvents(context.Background(), []model.Event{{ID: "e1", UploadID: "u1"}}))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	rootCmd.SetArgs([]string{"comment", "add", "e1", "investigator", "worth a second look"})
	require.Equal(t, 0, Execute())
	require.Contains(t, buf.String(), "comment")

	buf.Reset()
	rootCmd.SetArgs([]string{"comment", "list", "e1"})
	require.Equal(t, 0, Execute())
	require.Contains(t, buf.String(), "worth a second look")
}
