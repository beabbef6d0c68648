package megaplan

import (
	"context"
	"net/url"

	"github.com/tansive/megaplan/internal/common/formparams"
)

// fetch sends a request and decodes the value at path into v.
func (c *Client) fetch(ctx context.Context, uri string, form url.Values, path string, v any) error {
	r, err := c.Call(ctx, uri, form)
	if err != nil {
		return err
	}
	return r.Decode(path, v)
}

// Tasks lists tasks.
func (c *Client) Tasks(ctx context.Context, filter ListFilter) ([]Task, error) {
	filter = filter.withDefaults()
	if err := validateStruct(filter); err != nil {
		return nil, err
	}
	var tasks []Task
	if err := c.fetch(ctx, taskPrefix+"list.api?"+filter.query(), nil, "data.tasks", &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// TaskCard returns the full description of a task.
func (c *Client) TaskCard(ctx context.Context, id int64) (*TaskCard, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	card := &TaskCard{}
	if err := c.fetch(ctx, taskPrefix+"card.api?"+formparams.QueryString("Id", formparams.Int64(id)), nil, "data.task", card); err != nil {
		return nil, err
	}
	return card, nil
}

// TaskCreate creates a task and returns its id and name.
func (c *Client) TaskCreate(ctx context.Context, m TaskModel) (*Created, error) {
	form, err := m.values()
	if err != nil {
		return nil, err
	}
	if len(form) == 0 {
		return nil, ErrParameter.Msg("task model is empty")
	}
	created := &Created{}
	if err := c.fetch(ctx, taskPrefix+"create.api", form, "data.task", created); err != nil {
		return nil, err
	}
	return created, nil
}

// TaskEdit changes the non-zero fields of m on task id.
func (c *Client) TaskEdit(ctx context.Context, id int64, m TaskModel) error {
	if err := validateID(id); err != nil {
		return err
	}
	form, err := m.values()
	if err != nil {
		return err
	}
	_, err = c.Call(ctx, taskPrefix+"edit.api", formparams.Merge(form, idValues(id)))
	return err
}

// TaskAction applies a state transition to a task.
func (c *Client) TaskAction(ctx context.Context, id int64, action Action) error {
	return c.action(ctx, taskPrefix, id, action)
}

// TaskAvailableActions lists the transitions the user may apply to a task.
func (c *Client) TaskAvailableActions(ctx context.Context, id int64) ([]Action, error) {
	return c.availableActions(ctx, taskPrefix, id)
}

// TaskMarkAsFavorite adds the task to favorites, or removes it when favorite
// is false.
func (c *Client) TaskMarkAsFavorite(ctx context.Context, id int64, favorite bool) error {
	return c.markAsFavorite(ctx, SubjectTask, id, favorite)
}

// Severities lists the task importance levels.
func (c *Client) Severities(ctx context.Context) ([]Severity, error) {
	var severities []Severity
	if err := c.fetch(ctx, severityPrefix+"list.api", nil, "data.severities", &severities); err != nil {
		return nil, err
	}
	return severities, nil
}

func (c *Client) action(ctx context.Context, prefix string, id int64, action Action) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := validateVar("Action", action, "action"); err != nil {
		return err
	}
	form := idValues(id)
	form.Set("Action", string(action))
	_, err := c.Call(ctx, prefix+"action.api", form)
	return err
}

func (c *Client) availableActions(ctx context.Context, prefix string, id int64) ([]Action, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	var actions []Action
	if err := c.fetch(ctx, prefix+"availableActions.api?"+formparams.QueryString("Id", formparams.Int64(id)), nil, "data.actions", &actions); err != nil {
		return nil, err
	}
	return actions, nil
}
