package megaplan

import "context"

// Notifications returns the active notifications of the user.
func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	var notifications []Notification
	if err := c.fetch(ctx, informerPrefix+"notifications.api", nil, "data.notifications", &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// NotificationDeactivate marks a notification as read.
func (c *Client) NotificationDeactivate(ctx context.Context, id int64) error {
	if err := validateID(id); err != nil {
		return err
	}
	_, err := c.Call(ctx, informerPrefix+"deactivateNotification.api", idValues(id))
	return err
}

// Approvals returns the tasks and projects waiting for the user's approval.
func (c *Client) Approvals(ctx context.Context) (*Approvals, error) {
	approvals := &Approvals{}
	if err := c.fetch(ctx, informerPrefix+"approvals.api", nil, "data", approvals); err != nil {
		return nil, err
	}
	return approvals, nil
}
