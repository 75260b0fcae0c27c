package objects

import (
	"context"
	"encoding/json"
	"time"

	"github.com/birbparty/vrcsdk/types"
)

// Avatar is an uploaded avatar.
type Avatar struct {
	ID                string              `json:"id"`
	Name              string              `json:"name"`
	Description       string              `json:"description,omitempty"`
	AuthorID          string              `json:"authorId"`
	AuthorName        string              `json:"authorName,omitempty"`
	ImageURL          string              `json:"imageUrl,omitempty"`
	ThumbnailImageURL string              `json:"thumbnailImageUrl,omitempty"`
	AssetURL          string              `json:"assetUrl,omitempty"`
	ReleaseStatus     types.ReleaseStatus `json:"releaseStatus,omitempty"`
	Tags              []string            `json:"tags,omitempty"`
	Version           int                 `json:"version,omitempty"`
	Featured          bool                `json:"featured"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`

	client *Client
}

// NewAvatar parses an avatar payload.
func NewAvatar(c *Client, data json.RawMessage) (*Avatar, error) {
	a, err := decode[Avatar](data)
	if err != nil {
		return nil, err
	}
	a.client = c
	return a, nil
}

// Author loads the user who uploaded the avatar.
func (a *Avatar) Author(ctx context.Context) (*User, error) {
	return a.client.FetchUser(ctx, a.AuthorID)
}

// Favorite adds this avatar to the avatar favorites.
func (a *Avatar) Favorite(ctx context.Context) (*Favorite, error) {
	return addFavorite(ctx, a.client, types.FavoriteTypeAvatar, a.ID)
}
