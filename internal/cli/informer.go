package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tansive/megaplan/pkg/megaplan"
)

// groupedView is the JSON shape of commands that return tasks and projects together
type groupedView struct {
	Tasks    []megaplan.Task    `json:"Tasks"`
	Projects []megaplan.Project `json:"Projects"`
}

func printGrouped(cmd *cobra.Command, title string, tasks []megaplan.Task, projects []megaplan.Project) error {
	w := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(w, groupedView{Tasks: tasks, Projects: projects})
	}
	fmt.Fprintf(w, "%s\n", strings.ToUpper(title))
	if err := printList(w, "tasks", tasks, taskRows(tasks)); err != nil {
		return err
	}
	return printList(w, "projects", projects, projectRows(projects))
}

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "List favorite tasks and projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var favorites *megaplan.Favorites
		err := run(func(ctx context.Context, c *apiClient) (err error) {
			favorites, err = c.Favorites(ctx)
			return err
		})
		if err != nil {
			return err
		}
		return printGrouped(cmd, "favorites", favorites.Tasks, favorites.Projects)
	},
}

var approvalsCmd = &cobra.Command{
	Use:   "approvals",
	Short: "List tasks and projects waiting for approval",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var approvals *megaplan.Approvals
		err := run(func(ctx context.Context, c *apiClient) (err error) {
			approvals, err = c.Approvals(ctx)
			return err
		})
		if err != nil {
			return err
		}
		return printGrouped(cmd, "approvals", approvals.Tasks, approvals.Projects)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search employees, tasks and projects",
	Long: `Search employees, tasks and projects.

Example:
  megaplan search "annual report"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var result *megaplan.SearchResult
		err := run(func(ctx context.Context, c *apiClient) (err error) {
			result, err = c.Search(ctx, strings.Join(args, " "))
			return err
		})
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, result)
		}
		rows := make([]row, 0, len(result.Employees))
		for _, e := range result.Employees {
			rows = append(rows, row{ID: e.ID, Name: e.Name, Detail: refName(e.Position)})
		}
		if err := printList(w, "employees", result.Employees, rows); err != nil {
			return err
		}
		if err := printList(w, "tasks", result.Tasks, taskRows(result.Tasks)); err != nil {
			return err
		}
		return printList(w, "projects", result.Projects, projectRows(result.Projects))
	},
}

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List active notifications",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var notifications []megaplan.Notification
		err := run(func(ctx context.Context, c *apiClient) (err error) {
			notifications, err = c.Notifications(ctx)
			return err
		})
		if err != nil {
			return err
		}
		rows := make([]row, 0, len(notifications))
		for _, n := range notifications {
			subject := fmt.Sprintf("%s %d %s", n.Subject.Type, n.Subject.ID, n.Subject.Name)
			rows = append(rows, row{ID: n.ID, Name: n.Text(), Detail: details(subject, n.TimeCreated)})
		}
		return printList(cmd.OutOrStdout(), "notifications", notifications, rows)
	},
}

var notificationReadCmd = &cobra.Command{
	Use:   "read NOTIFICATION_ID",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		err = run(func(ctx context.Context, c *apiClient) error {
			return c.NotificationDeactivate(ctx, id)
		})
		if err != nil {
			return err
		}
		return printDone(cmd.OutOrStdout(), fmt.Sprintf("Notification %d marked as read", id))
	},
}

func favoriteCommand(use, short string, add bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " task|project ID",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			subjectType, subjectID, err := parseSubject(args[0], args[1])
			if err != nil {
				return err
			}
			err = run(func(ctx context.Context, c *apiClient) error {
				if add {
					return c.FavoriteAdd(ctx, subjectType, subjectID)
				}
				return c.FavoriteRemove(ctx, subjectType, subjectID)
			})
			if err != nil {
				return err
			}
			if add {
				return printDone(cmd.OutOrStdout(), fmt.Sprintf("%s %d added to favorites", subjectType, subjectID))
			}
			return printDone(cmd.OutOrStdout(), fmt.Sprintf("%s %d removed from favorites", subjectType, subjectID))
		},
	}
}

func init() {
	favoritesCmd.AddCommand(
		favoriteCommand("add", "Add a task or project to favorites", true),
		favoriteCommand("remove", "Remove a task or project from favorites", false),
	)
	notificationsCmd.AddCommand(notificationReadCmd)
	rootCmd.AddCommand(favoritesCmd, approvalsCmd, searchCmd, notificationsCmd)
}
