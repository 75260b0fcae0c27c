package objects

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/birbparty/vrcsdk/sdk"
	"github.com/birbparty/vrcsdk/types"
)

// Notification is an entry in the current user's inbox, such as a friend request.
type Notification struct {
	ID             string                 `json:"id"`
	SenderUserID   string                 `json:"senderUserId"`
	SenderUsername string                 `json:"senderUsername,omitempty"`
	ReceiverUserID string                 `json:"receiverUserId,omitempty"`
	Type           types.NotificationType `json:"type"`
	Message        string                 `json:"message,omitempty"`
	Details        json.RawMessage        `json:"details,omitempty"`
	Seen           bool                   `json:"seen"`
	CreatedAt      time.Time              `json:"created_at"`

	client *Client
}

// NewNotification parses a notification payload.
func NewNotification(c *Client, data json.RawMessage) (*Notification, error) {
	n, err := decode[Notification](data)
	if err != nil {
		return nil, err
	}
	n.client = c
	return n, nil
}

// FetchNotifications lists notifications of type t. An empty t lists all.
func (c *Client) FetchNotifications(ctx context.Context, t types.NotificationType) ([]*Notification, error) {
	var params sdk.Params
	if t != "" {
		if !t.Valid() {
			return nil, sdk.NewValidationError(fmt.Sprintf("invalid notification type %q", t), nil)
		}
		params = sdk.Params{"type": t}
	}

	data, err := c.call(ctx, "fetch notifications", "/auth/user/notifications", http.MethodGet, params)
	if err != nil {
		return nil, err
	}
	items, err := decodeList(data)
	if err != nil {
		return nil, fmt.Errorf("fetch notifications: %w", err)
	}

	out := make([]*Notification, 0, len(items))
	for _, item := range items {
		n, err := NewNotification(c, item)
		if err != nil {
			return nil, fmt.Errorf("fetch notifications: %w", err)
		}
		out = append(out, n)
	}
	return out, nil
}

// Accept accepts a friend request. Other notification types cannot be
// accepted.
func (n *Notification) Accept(ctx context.Context) error {
	if n.Type != types.NotificationTypeFriendRequest {
		return &UnsupportedOperationError{Op: "accept", Entity: n.Type.String() + " notification"}
	}
	_, err := n.client.call(ctx, "accept notification",
		sdk.BuildPath("/auth/user/notifications/{0}/accept", n.ID), http.MethodPut, nil)
	return err
}

// MarkSeen marks the notification as read.
func (n *Notification) MarkSeen(ctx context.Context) error {
	_, err := n.client.call(ctx, "mark notification seen",
		sdk.BuildPath("/auth/user/notifications/{0}/see", n.ID), http.MethodPut, nil)
	if err != nil {
		return err
	}
	n.Seen = true
	return nil
}

// Hide removes the notification from the inbox.
func (n *Notification) Hide(ctx context.Context) error {
	_, err := n.client.call(ctx, "hide notification",
		sdk.BuildPath("/auth/user/notifications/{0}/hide", n.ID), http.MethodPut, nil)
	return err
}
