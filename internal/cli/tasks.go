package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tansive/megaplan/pkg/megaplan"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks [flags]",
	Short: "List tasks",
	Long: `List tasks of the current user.

Examples:
  # Overdue tasks the user is responsible for
  megaplan tasks --folder responsible --status overdue

  # Search favorites
  megaplan tasks --favorites --search report -j`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var tasks []megaplan.Task
		err := run(func(ctx context.Context, c *apiClient) (err error) {
			tasks, err = c.Tasks(ctx, listFilter(cmd))
			return err
		})
		if err != nil {
			return err
		}
		return printList(cmd.OutOrStdout(), "tasks", tasks, taskRows(tasks))
	},
}

var taskCmd = &cobra.Command{
	Use:   "task TASK_ID",
	Short: "Show and change a task",
	Long: `Show the card of a task, or create, edit and move tasks with the subcommands.

Examples:
  megaplan task 1000042
  megaplan task create --name "Annual report" --responsible 1000005
  megaplan task action 1000042 act_done`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		var card *megaplan.TaskCard
		err = run(func(ctx context.Context, c *apiClient) (err error) {
			card, err = c.TaskCard(ctx, id)
			return err
		})
		if err != nil {
			return err
		}
		return printValue(cmd.OutOrStdout(), "", card)
	},
}

func taskModelFromFlags(cmd *cobra.Command) megaplan.TaskModel {
	f := cmd.Flags()
	var m megaplan.TaskModel
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
	m.SuperTask, _ = f.GetString("super-task")
	m.IsGroup, _ = f.GetBool("group")
	return m
}

var taskCreateCmd = &cobra.Command{
	Use:   "create [flags]",
	Short: "Create tasks",
	Long: `Create a task from flags, or one task per document of a YAML file.

Examples:
  megaplan task create --name "Annual report" --responsible 1000005 --super-task p1000001
  megaplan task create -f tasks.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		models, err := modelSource(cmd, func() megaplan.TaskModel { return taskModelFromFlags(cmd) })
		if err != nil {
			return err
		}
		var created []*megaplan.Created
		err = run(func(ctx context.Context, c *apiClient) error {
			for _, m := range models {
				ref, err := c.TaskCreate(ctx, m)
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

var taskEditCmd = &cobra.Command{
	Use:   "edit TASK_ID [flags]",
	Short: "Edit a task",
	Long: `Change the fields of a task given as flags or as a single YAML document.

Examples:
  megaplan task edit 1000042 --deadline "2024-05-31 18:00"
  megaplan task edit 1000042 -f task.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		m := taskModelFromFlags(cmd)
		if file, _ := cmd.Flags().GetString("file"); file != "" {
			if m, err = loadModel[megaplan.TaskModel](file); err != nil {
				return err
			}
		}
		err = run(func(ctx context.Context, c *apiClient) error {
			return c.TaskEdit(ctx, id, m)
		})
		if err != nil {
			return err
		}
		return printDone(cmd.OutOrStdout(), fmt.Sprintf("Task %d updated", id))
	},
}

var taskActionCmd = &cobra.Command{
	Use:   "action TASK_ID ACTION",
	Short: "Apply an action to a task",
	Long: `Apply an action to a task. Actions: ` + strings.Join(megaplan.Actions(), ", ") + `

Example:
  megaplan task action 1000042 act_done`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		action := actionArg(args[1])
		err = run(func(ctx context.Context, c *apiClient) error {
			return c.TaskAction(ctx, id, action)
		})
		if err != nil {
			return err
		}
		return printDone(cmd.OutOrStdout(), fmt.Sprintf("Task %d: %s", id, action))
	},
}

var taskActionsCmd = &cobra.Command{
	Use:   "actions TASK_ID",
	Short: "List the actions available on a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		var actions []megaplan.Action
		err = run(func(ctx context.Context, c *apiClient) (err error) {
			actions, err = c.TaskAvailableActions(ctx, id)
			return err
		})
		if err != nil {
			return err
		}
		return printList(cmd.OutOrStdout(), "actions", actions, actionRows(actions))
	},
}

var taskFavoriteCmd = &cobra.Command{
	Use:   "favorite TASK_ID",
	Short: "Mark a task as favorite",
	Long: `Mark a task as favorite, or unmark it with --remove.

Examples:
  megaplan task favorite 1000042
  megaplan task favorite 1000042 --remove`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		remove, _ := cmd.Flags().GetBool("remove")
		err = run(func(ctx context.Context, c *apiClient) error {
			return c.TaskMarkAsFavorite(ctx, id, !remove)
		})
		if err != nil {
			return err
		}
		if remove {
			return printDone(cmd.OutOrStdout(), fmt.Sprintf("Task %d removed from favorites", id))
		}
		return printDone(cmd.OutOrStdout(), fmt.Sprintf("Task %d added to favorites", id))
	},
}

var severitiesCmd = &cobra.Command{
	Use:   "severities",
	Short: "List task severities",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var severities []megaplan.Severity
		err := run(func(ctx context.Context, c *apiClient) (err error) {
			severities, err = c.Severities(ctx)
			return err
		})
		if err != nil {
			return err
		}
		return printList(cmd.OutOrStdout(), "severities", severities, refRows(severities))
	},
}

func init() {
	listFilterFlags(tasksCmd)

	for _, c := range []*cobra.Command{taskCreateCmd, taskEditCmd} {
		workFlags(c)
		c.Flags().String("super-task", "", "Parent task id, or p<id> for a project")
		c.Flags().Bool("group", false, "Create a group task")
	}
	taskFavoriteCmd.Flags().Bool("remove", false, "Remove from favorites")

	taskCmd.AddCommand(taskCreateCmd, taskEditCmd, taskActionCmd, taskActionsCmd, taskFavoriteCmd)
	rootCmd.AddCommand(tasksCmd, taskCmd, severitiesCmd)
}
