package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tansive/megaplan/pkg/megaplan"
)

// parseID parses a positional object id
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: expected a positive number", arg)
	}
	return id, nil
}

// loadModel reads exactly one model from a YAML file
func loadModel[T any](filename string) (T, error) {
	var zero T
	models, err := ParseMultiYAML[T](filename)
	if err != nil {
		return zero, err
	}
	if len(models) != 1 {
		return zero, fmt.Errorf("%s: expected exactly one document, found %d", filename, len(models))
	}
	return models[0], nil
}

// modelSource returns the models to send: every document of --file, or the
// one built from flags.
func modelSource[T any](cmd *cobra.Command, fromFlags func() T) ([]T, error) {
	file, _ := cmd.Flags().GetString("file")
	if file == "" {
		return []T{fromFlags()}, nil
	}
	models, err := ParseMultiYAML[T](file)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("%s: no documents found", file)
	}
	return models, nil
}

func refName(r *megaplan.Ref) string {
	if r == nil {
		return ""
	}
	return r.Name
}

func taskRows(tasks []megaplan.Task) []row {
	rows := make([]row, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, row{ID: t.ID, Name: t.Name, Detail: details(t.Status, refName(t.Responsible), t.Deadline)})
	}
	return rows
}

func projectRows(projects []megaplan.Project) []row {
	rows := make([]row, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, row{ID: p.ID, Name: p.Name, Detail: details(p.Status, refName(p.Responsible), p.Deadline)})
	}
	return rows
}

func refRows(refs []megaplan.Ref) []row {
	rows := make([]row, 0, len(refs))
	for _, r := range refs {
		rows = append(rows, row{ID: r.ID, Name: r.Name})
	}
	return rows
}

func actionRows[T ~string](actions []T) []row {
	rows := make([]row, 0, len(actions))
	for _, a := range actions {
		rows = append(rows, row{Name: string(a)})
	}
	return rows
}

// details joins the non-empty parts with ", "
func details(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

// listFilterFlags registers the task and project list filters on cmd
func listFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("folder", "", "Folder: "+strings.Join(megaplan.Folders(), ", "))
	cmd.Flags().String("status", "", "Status: "+strings.Join(megaplan.Statuses(), ", "))
	cmd.Flags().Bool("favorites", false, "Only favorites")
	cmd.Flags().String("search", "", "Search string")
}

func listFilter(cmd *cobra.Command) megaplan.ListFilter {
	folder, _ := cmd.Flags().GetString("folder")
	status, _ := cmd.Flags().GetString("status")
	favorites, _ := cmd.Flags().GetBool("favorites")
	search, _ := cmd.Flags().GetString("search")
	return megaplan.ListFilter{
		Folder:        megaplan.Folder(folder),
		Status:        megaplan.Status(status),
		FavoritesOnly: favorites,
		Search:        search,
	}
}

// workFlags registers the fields shared by task and project models
func workFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "YAML file with one or more models, - for stdin")
	cmd.Flags().String("name", "", "Name")
	cmd.Flags().String("deadline", "", "Deadline, e.g. 2024-05-31 18:00")
	cmd.Flags().String("deadline-type", "", "Deadline type: soft or hard")
	cmd.Flags().Int64("owner", 0, "Owner id (edit only)")
	cmd.Flags().Int64("responsible", 0, "Responsible employee id")
	cmd.Flags().Int64Slice("executor", nil, "Executor employee id, repeatable")
	cmd.Flags().Int64Slice("auditor", nil, "Auditor employee id, repeatable")
	cmd.Flags().Int64("severity", 0, "Severity id")
	cmd.Flags().Int64("customer", 0, "Customer id")
	cmd.Flags().String("statement", "", "Statement")
}

func actionArg(arg string) megaplan.Action {
	return megaplan.Action(strings.TrimSpace(arg))
}
