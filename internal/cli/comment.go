package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tideline/tideline/internal/query"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Manage investigator comments on events",
}

var commentAddCmd = &cobra.Command{
	Use:   "add <event-id> <author> <body>",
	Short: "Add a comment to an event",
	Args:  cobra.ExactArgs(3),
	RunE:  runCommentAdd,
}

var commentListCmd = &cobra.Command{
	Use:   "list <event-id>",
	Short: "List comments on an event",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommentList,
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete <comment-id>",
	Short: "Delete a comment",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommentDelete,
}

func init() {
	commentCmd.AddCommand(commentAddCmd, commentListCmd, commentDeleteCmd)
	rootCmd.AddCommand(commentCmd)
}

func runCommentAdd(cmd *cobra.Command, args []string) error {
	a, err := Adapter()
	if err != nil {
		return err
	}
	c, err := query.AddComment(cmd.Context(), a.Store(), args[0], args[1], args[2])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "comment %s added\n", c.ID)
	return nil
}

func runCommentList(cmd *cobra.Command, args []string) error {
	a, err := Adapter()
	if err != nil {
		return err
	}
	comments, err := query.CommentsForEvent(cmd.Context(), a.Store(), args[0])
	if err != nil {
		return err
	}
	for _, c := range comments {
		fmt.Fprintf(cmd.OutOrStdout(), "%s [%s] %s: %s\n", c.ID, c.Author, c.EventID, c.Body)
	}
	return nil
}

func runCommentDelete(cmd *cobra.Command, args []string) error {
	a, err := Adapter()
	if err != nil {
		return err
	}
	return query.DeleteComment(cmd.Context(), a.Store(), args[0])
}
