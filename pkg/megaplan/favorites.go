package megaplan

import "context"

// Favorites returns the tasks and projects the user marked as favorite.
func (c *Client) Favorites(ctx context.Context) (*Favorites, error) {
	favorites := &Favorites{}
	if err := c.fetch(ctx, favoritePrefix+"list.api", nil, "data", favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}

// FavoriteAdd marks a task or project as favorite.
func (c *Client) FavoriteAdd(ctx context.Context, subjectType SubjectType, subjectID int64) error {
	return c.favorite(ctx, "add.api", subjectType, subjectID)
}

// FavoriteRemove unmarks a task or project.
func (c *Client) FavoriteRemove(ctx context.Context, subjectType SubjectType, subjectID int64) error {
	return c.favorite(ctx, "remove.api", subjectType, subjectID)
}

func (c *Client) favorite(ctx context.Context, endpoint string, subjectType SubjectType, subjectID int64) error {
	if err := validateSubject(subjectType, subjectID); err != nil {
		return err
	}
	_, err := c.Call(ctx, favoritePrefix+endpoint, subjectValues(subjectType, subjectID))
	return err
}

func (c *Client) markAsFavorite(ctx context.Context, subjectType SubjectType, id int64, favorite bool) error {
	if favorite {
		return c.FavoriteAdd(ctx, subjectType, id)
	}
	return c.FavoriteRemove(ctx, subjectType, id)
}
