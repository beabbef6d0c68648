package megaplan

import (
	"context"

	"github.com/tansive/megaplan/internal/common/formparams"
)

// Comments lists the comments on a task or project, ordered by date.
// An empty order means ascending.
func (c *Client) Comments(ctx context.Context, subjectType SubjectType, subjectID int64, order Order) ([]Comment, error) {
	if order == "" {
		order = OrderAsc
	}
	if err := validateSubject(subjectType, subjectID); err != nil {
		return nil, err
	}
	if err := validateVar("Order", order, "order"); err != nil {
		return nil, err
	}
	uri := commentPrefix + "list.api?" + formparams.QueryString(
		"SubjectType", string(subjectType),
		"SubjectId", formparams.Int64(subjectID),
		"Order", string(order),
	)
	var comments []Comment
	if err := c.fetch(ctx, uri, nil, "data.comments", &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CommentCreate adds a comment to a task or project.
func (c *Client) CommentCreate(ctx context.Context, subjectType SubjectType, subjectID int64, m CommentModel) (*Comment, error) {
	if err := validateSubject(subjectType, subjectID); err != nil {
		return nil, err
	}
	form, err := m.values()
	if err != nil {
		return nil, err
	}
	comment := &Comment{}
	if err := c.fetch(ctx, commentPrefix+"create.api", formparams.Merge(form, subjectValues(subjectType, subjectID)), "data.comment", comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func validateSubject(subjectType SubjectType, subjectID int64) error {
	if err := validateVar("SubjectType", subjectType, "subjectType"); err != nil {
		return err
	}
	return validateVar("SubjectId", subjectID, "gt=0")
}
