package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/h2non/filetype"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tansive/megaplan/pkg/megaplan"
)

func parseSubject(kind, id string) (megaplan.SubjectType, int64, error) {
	subjectType := megaplan.SubjectType(kind)
	if subjectType != megaplan.SubjectTask && subjectType != megaplan.SubjectProject {
		return "", 0, fmt.Errorf("invalid subject %q: expected task or project", kind)
	}
	subjectID, err := parseID(id)
	if err != nil {
		return "", 0, err
	}
	return subjectType, subjectID, nil
}

var commentsCmd = &cobra.Command{
	Use:   "comments task|project ID [flags]",
	Short: "List comments of a task or project",
	Long: `List comments of a task or project.

Examples:
  megaplan comments task 1000042
  megaplan comments project 1000001 --order desc`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		subjectType, subjectID, err := parseSubject(args[0], args[1])
		if err != nil {
			return err
		}
		order, _ := cmd.Flags().GetString("order")

		var comments []megaplan.Comment
		err = run(func(ctx context.Context, c *apiClient) (err error) {
			comments, err = c.Comments(ctx, subjectType, subjectID, megaplan.Order(order))
			return err
		})
		if err != nil {
			return err
		}
		rows := make([]row, 0, len(comments))
		for _, cm := range comments {
			rows = append(rows, row{ID: cm.ID, Name: cm.Text, Detail: details(refName(cm.Author), cm.TimeCreated)})
		}
		return printList(cmd.OutOrStdout(), "comments", comments, rows)
	},
}

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Manage comments",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// readAttachment loads a file as a comment attachment. A name without an
// extension gets the one of the detected content type.
func readAttachment(path string) (megaplan.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return megaplan.Attachment{}, fmt.Errorf("unable to read attachment: %w", err)
	}
	name := filepath.Base(path)
	kind, err := filetype.Match(data)
	if err == nil && kind != filetype.Unknown {
		log.Debug().Str("file", name).Str("mime", kind.MIME.Value).Msg("attachment type")
		if filepath.Ext(name) == "" {
			name += "." + kind.Extension
		}
	}
	return megaplan.NewAttachment(name, data), nil
}

var commentAddCmd = &cobra.Command{
	Use:   "add task|project ID [flags]",
	Short: "Comment a task or project",
	Long: `Add a comment to a task or project, optionally with spent work and files.

Examples:
  megaplan comment add task 1000042 --text "Draft is ready" --attach draft.pdf
  megaplan comment add project 1000001 --text "Review" --work 90 --work-date 2024-05-30
  megaplan comment add task 1000042 -f comment.yaml`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		subjectType, subjectID, err := parseSubject(args[0], args[1])
		if err != nil {
			return err
		}

		var m megaplan.CommentModel
		if file, _ := cmd.Flags().GetString("file"); file != "" {
			if m, err = loadModel[megaplan.CommentModel](file); err != nil {
				return err
			}
		} else {
			m.Text, _ = cmd.Flags().GetString("text")
			m.Work, _ = cmd.Flags().GetInt("work")
			m.WorkDate, _ = cmd.Flags().GetString("work-date")
		}
		attach, _ := cmd.Flags().GetStringArray("attach")
		for _, path := range attach {
			a, err := readAttachment(path)
			if err != nil {
				return err
			}
			m.Attaches = append(m.Attaches, a)
		}

		var comment *megaplan.Comment
		err = run(func(ctx context.Context, c *apiClient) (err error) {
			comment, err = c.CommentCreate(ctx, subjectType, subjectID, m)
			return err
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), comment)
		}
		return printDone(cmd.OutOrStdout(), fmt.Sprintf("Comment %d added", comment.ID))
	},
}

func init() {
	commentsCmd.Flags().String("order", "", "Sort direction: asc or desc")

	commentAddCmd.Flags().StringP("file", "f", "", "YAML file with the comment")
	commentAddCmd.Flags().String("text", "", "Text of the comment")
	commentAddCmd.Flags().Int("work", 0, "Spent work in minutes")
	commentAddCmd.Flags().String("work-date", "", "Date of the spent work")
	commentAddCmd.Flags().StringArray("attach", nil, "File to attach, repeatable")

	commentCmd.AddCommand(commentAddCmd)
	rootCmd.AddCommand(commentsCmd, commentCmd)
}
