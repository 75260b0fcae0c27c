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

// PlayerModeration is a block, mute or avatar visibility override the current
// user applied to another player.
type PlayerModeration struct {
	ID                string                     `json:"id"`
	Type              types.PlayerModerationType `json:"type"`
	SourceUserID      string                     `json:"sourceUserId"`
	SourceDisplayName string                     `json:"sourceDisplayName,omitempty"`
	TargetUserID      string                     `json:"targetUserId"`
	TargetDisplayName string                     `json:"targetDisplayName,omitempty"`
	Created           time.Time                  `json:"created"`

	client *Client
}

func NewPlayerModeration(c *Client, data json.RawMessage) (*PlayerModeration, error) {
	m, err := decode[PlayerModeration](data)
	if err != nil {
		return nil, err
	}
	m.client = c
	return m, nil
}

func checkModerationType(t types.PlayerModerationType) error {
	if !t.Valid() {
		return sdk.NewValidationError(fmt.Sprintf("invalid player moderation type %q", t), nil)
	}
	return nil
}

// Moderate applies moderation t to the user with id userID.
func (c *Client) Moderate(ctx context.Context, userID string, t types.PlayerModerationType) (*PlayerModeration, error) {
	if err := checkModerationType(t); err != nil {
		return nil, err
	}
	data, err := c.call(ctx, "moderate", "/auth/user/playermoderations", http.MethodPost, sdk.Params{
		"moderated": userID,
		"type":      t,
	})
	if err != nil {
		return nil, err
	}
	return NewPlayerModeration(c, data)
}

// Unmoderate lifts moderation t from the user with id userID.
func (c *Client) Unmoderate(ctx context.Context, userID string, t types.PlayerModerationType) error {
	if err := checkModerationType(t); err != nil {
		return err
	}
	_, err := c.call(ctx, "unmoderate", "/auth/user/unplayermoderate", http.MethodPut, sdk.Params{
		"moderated": userID,
		"type":      t,
	})
	return err
}

// FetchPlayerModerations lists moderations the current user applied. An
// empty t lists every type.
func (c *Client) FetchPlayerModerations(ctx context.Context, t types.PlayerModerationType) ([]*PlayerModeration, error) {
	var params sdk.Params
	if t != "" {
		if err := checkModerationType(t); err != nil {
			return nil, err
		}
		params = sdk.Params{"type": t}
	}

	data, err := c.call(ctx, "fetch player moderations", "/auth/user/playermoderations", http.MethodGet, params)
	if err != nil {
		return nil, err
	}
	items, err := decodeList(data)
	if err != nil {
		return nil, fmt.Errorf("fetch player moderations: %w", err)
	}

	out := make([]*PlayerModeration, 0, len(items))
	for _, item := range items {
		m, err := NewPlayerModeration(c, item)
		if err != nil {
			return nil, fmt.Errorf("fetch player moderations: %w", err)
		}
		out = append(out, m)
	}
	return out, nil
}

// Remove lifts this moderation.
func (m *PlayerModeration) Remove(ctx context.Context) error {
	return m.client.Unmoderate(ctx, m.TargetUserID, m.Type)
}
