package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tansive/megaplan/pkg/megaplan"
)

var projectsCmd = &cobra.Command{
	Use:   "projects [flags]",
	Short: "List projects",
	Long: `List projects of the current user.

Examples:
  megaplan projects --status actual
  megaplan projects --folder owner -j`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var projects []megaplan.Project
		err := run(func(ctx context.Context, c *apiClient) (err error) {
			projects, err = c.Projects(ctx, listFilter(cmd))
			return err
		})
		if err != nil {
			return err
		}
		return printList(cmd.OutOrStdout(), "projects", projects, projectRows(projects))
	},
}

var projectCmd = &cobra.Command{
	Use:   "project PROJECT_ID",
	Short: "Show and change a project",
	Long: `Show the card of a project, or create, edit and move projects with the subcommands.

Examples:
  megaplan project 1000001
  megaplan project create --name "Website" --responsible 1000005
  megaplan project action 1000001 act_pause`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		var card *megaplan.ProjectCard
		err = run(func(ctx context.Context, c *apiClient) (err error) {
			card, err = c.ProjectCard(ctx, id)
			return err
		})
		if err != nil {
			return err
		}
		return printValue(cmd.OutOrStdout(), "", card)
	},
}

func projectModelFromFlags(cmd *cobra.Command) megaplan.ProjectModel {
	f := cmd.Flags()
	var m megaplan.ProjectModel
	m.Name, _ = f.GetString("name")
	m.Deadline, _ = f.GetString("deadline")
	m.DeadlineType, _ = f.GetString("deadline-type")
	m.Owner, _ = f.GetInt64("owner")
	m.Responsible, _ = f.GetInt64("responsible")
	m.Executors, _ = f.GetInt64Slice("executor")
	m.Auditors, _ = f.GetInt64Slice("auditor")
	m.Severity, _ = f.GetInt64("severity")
	m.Customer, _ = f.GetInt64("customer")
	m.Statement, _ = f.GetString("statement")
	m.SuperProject, _ = f.GetInt64("super-project")
	return m
}

var projectCreateCmd = &cobra.Command{
	Use:   "create [flags]",
	Short: "Create projects",
	Long: `Create a project from flags, or one project per document of a YAML file.

Examples:
  megaplan project create --name "Website" --responsible 1000005
  megaplan project create -f projects.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		models, err := modelSource(cmd, func() megaplan.ProjectModel { return projectModelFromFlags(cmd) })
		if err != nil {
			return err
		}
		var created []*megaplan.Created
		err = run(func(ctx context.Context, c *apiClient) error {
			for _, m := range models {
				ref, err := c.ProjectCreate(ctx, m)
				if err != nil {
					return err
				}
				created = append(created, ref)
			}
			return nil
		})
		if len(created) > 0 {
			rows := make([]row, 0, len(created))
			for _, ref := range created {
				rows = append(rows, row{ID: ref.ID, Name: ref.Name})
			}
			if perr := printList(cmd.OutOrStdout(), "created", created, rows); perr != nil {
				return perr
			}
		}
		return err
	},
}

var projectEditCmd = &cobra.Command{
	Use:   "edit PROJECT_ID [flags]",
	Short: "Edit a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		m := projectModelFromFlags(cmd)
		if file, _ := cmd.Flags().GetString("file"); file != "" {
			if m, err = loadModel[megaplan.ProjectModel](file); err != nil {
				return err
			}
		}
		err = run(func(ctx context.Context, c *apiClient) error {
			return c.ProjectEdit(ctx, id, m)
		})
		if err != nil {
			return err
		}
		return printDone(cmd.OutOrStdout(), fmt.Sprintf("Project %d updated", id))
	},
}

var projectActionCmd = &cobra.Command{
	Use:   "action PROJECT_ID ACTION",
	Short: "Apply an action to a project",
	Long:  `Apply an action to a project. Actions: ` + strings.Join(megaplan.Actions(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		action := actionArg(args[1])
		err = run(func(ctx context.Context, c *apiClient) error {
			return c.ProjectAction(ctx, id, action)
		})
		if err != nil {
			return err
		}
		return printDone(cmd.OutOrStdout(), fmt.Sprintf("Project %d: %s", id, action))
	},
}

var projectActionsCmd = &cobra.Command{
	Use:   "actions PROJECT_ID",
	Short: "List the actions available on a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		var actions []megaplan.Action
		err = run(func(ctx context.Context, c *apiClient) (err error) {
			actions, err = c.ProjectAvailableActions(ctx, id)
			return err
		})
		if err != nil {
			return err
		}
		return printList(cmd.OutOrStdout(), "actions", actions, actionRows(actions))
	},
}

var projectFavoriteCmd = &cobra.Command{
	Use:   "favorite PROJECT_ID",
	Short: "Mark a project as favorite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		remove, _ := cmd.Flags().GetBool("remove")
		err = run(func(ctx context.Context, c *apiClient) error {
			return c.ProjectMarkAsFavorite(ctx, id, !remove)
		})
		if err != nil {
			return err
		}
		if remove {
			return printDone(cmd.OutOrStdout(), fmt.Sprintf("Project %d removed from favorites", id))
		}
		return printDone(cmd.OutOrStdout(), fmt.Sprintf("Project %d added to favorites", id))
	},
}

func init() {
	listFilterFlags(projectsCmd)

	for _, c := range []*cobra.Command{projectCreateCmd, projectEditCmd} {
		workFlags(c)
		c.Flags().Int64("super-project", 0, "Parent project id")
	}
	projectFavoriteCmd.Flags().Bool("remove", false, "Remove from favorites")

	projectCmd.AddCommand(projectCreateCmd, projectEditCmd, projectActionCmd, projectActionsCmd, projectFavoriteCmd)
	rootCmd.AddCommand(projectsCmd, projectCmd)
}
