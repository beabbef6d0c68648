package megaplan

import (
	"context"

	"github.com/tansive/megaplan/internal/common/formparams"
)

// Projects lists projects.
func (c *Client) Projects(ctx context.Context, filter ListFilter) ([]Project, error) {
	filter = filter.withDefaults()
	if err := validateStruct(filter); err != nil {
		return nil, err
	}
	var projects []Project
	if err := c.fetch(ctx, projectPrefix+"list.api?"+filter.query(), nil, "data.projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ProjectCard returns the full description of a project.
func (c *Client) ProjectCard(ctx context.Context, id int64) (*ProjectCard, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	card := &ProjectCard{}
	if err := c.fetch(ctx, projectPrefix+"card.api?"+formparams.QueryString("Id", formparams.Int64(id)), nil, "data.project", card); err != nil {
		return nil, err
	}
	return card, nil
}

// ProjectCreate creates a project. Users without the right to create projects
// get a 403 *HTTPStatusError.
func (c *Client) ProjectCreate(ctx context.Context, m ProjectModel) (*Created, error) {
	form, err := m.values()
	if err != nil {
		return nil, err
	}
	if len(form) == 0 {
		return nil, ErrParameter.Msg("project model is empty")
	}
	created := &Created{}
	if err := c.fetch(ctx, projectPrefix+"create.api", form, "data.project", created); err != nil {
		return nil, err
	}
	return created, nil
}

// ProjectEdit changes the non-zero fields of m on project id.
func (c *Client) ProjectEdit(ctx context.Context, id int64, m ProjectModel) error {
	if err := validateID(id); err != nil {
		return err
	}
	form, err := m.values()
	if err != nil {
		return err
	}
	_, err = c.Call(ctx, projectPrefix+"edit.api", formparams.Merge(form, idValues(id)))
	return err
}

// ProjectAction applies a state transition to a project.
func (c *Client) ProjectAction(ctx context.Context, id int64, action Action) error {
	return c.action(ctx, projectPrefix, id, action)
}

// ProjectAvailableActions lists the transitions the user may apply to a project.
func (c *Client) ProjectAvailableActions(ctx context.Context, id int64) ([]Action, error) {
	return c.availableActions(ctx, projectPrefix, id)
}

// ProjectMarkAsFavorite adds the project to favorites, or removes it.
func (c *Client) ProjectMarkAsFavorite(ctx context.Context, id int64, favorite bool) error {
	return c.markAsFavorite(ctx, SubjectProject, id, favorite)
}
