package objects

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/birbparty/vrcsdk/types"
)

// WorldInfo is the record shared by both world views.
type WorldInfo struct {
	ID                string              `json:"id"`
	Name              string              `json:"name"`
	AuthorID          string              `json:"authorId"`
	AuthorName        string              `json:"authorName,omitempty"`
	Capacity          int                 `json:"capacity"`
	ImageURL          string              `json:"imageUrl,omitempty"`
	ThumbnailImageURL string              `json:"thumbnailImageUrl,omitempty"`
	ReleaseStatus     types.ReleaseStatus `json:"releaseStatus,omitempty"`
	Tags              []string            `json:"tags,omitempty"`
	Favorites         int                 `json:"favorites"`
	Occupants         int                 `json:"occupants"`
	Heat              int                 `json:"heat"`
	Popularity        int                 `json:"popularity"`
	Organization      string              `json:"organization,omitempty"`
	PublicationDate   string              `json:"publicationDate,omitempty"`
	CreatedAt         string              `json:"created_at,omitempty"`
	UpdatedAt         string              `json:"updated_at,omitempty"`
}

// LimitedWorld is the partial world view returned by searches.
type LimitedWorld struct {
	WorldInfo

	client *Client
}

// NewLimitedWorld parses a partial world payload. It fetches nothing.
func NewLimitedWorld(c *Client, data json.RawMessage) (*LimitedWorld, error) {
	w, err := decode[LimitedWorld](data)
	if err != nil {
		return nil, err
	}
	w.client = c
	return w, nil
}

func (w *LimitedWorld) Author(ctx context.Context) (*User, error) {
	return w.client.FetchUser(ctx, w.AuthorID)
}

func (w *LimitedWorld) Favorite(ctx context.Context) (*Favorite, error) {
	return addFavorite(ctx, w.client, types.FavoriteTypeWorld, w.ID)
}

// InstanceRef is one entry of a world's "instances" array, encoded by the
// API as ["<instanceId>", <occupants>].
type InstanceRef struct {
	ID        string
	Occupants int
}

func (r *InstanceRef) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("instance ref: %w", err)
	}
	if len(raw) == 0 {
		return fmt.Errorf("instance ref: empty array")
	}
	if err := json.Unmarshal(raw[0], &r.ID); err != nil {
		return fmt.Errorf("instance ref id: %w", err)
	}
	if len(raw) > 1 {
		if err := json.Unmarshal(raw[1], &r.Occupants); err != nil {
			return fmt.Errorf("instance ref occupants: %w", err)
		}
	}
	return nil
}

func (r InstanceRef) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{r.ID, r.Occupants})
}

// World is the full world view. Instances holds one resolved Instance per
// entry of InstanceRefs, in the same order.
type World struct {
	LimitedWorld

	Description      string        `json:"description,omitempty"`
	Version          int           `json:"version"`
	Visits           int           `json:"visits"`
	PublicOccupants  int           `json:"publicOccupants"`
	PrivateOccupants int           `json:"privateOccupants"`
	Featured         bool          `json:"featured"`
	InstanceRefs     []InstanceRef `json:"instances,omitempty"`

	Instances []*Instance `json:"-"`
}

// NewWorld parses a world payload and fetches every referenced instance.
// Fetches run concurrently up to the client's enrich concurrency. Any failed
// fetch fails the whole construction.
func NewWorld(ctx context.Context, c *Client, data json.RawMessage) (w *World, err error) {
	ctx, done := c.track(ctx, "World")
	defer func() { done(err) }()

	w, err = decode[World](data)
	if err != nil {
		return nil, err
	}
	w.client = c

	instances := make([]*Instance, len(w.InstanceRefs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.enrichConcurrency)
	for i, ref := range w.InstanceRefs {
		g.Go(func() error {
			inst, err := c.FetchInstance(gctx, w.ID, ref.ID)
			if err != nil {
				return err
			}
			instances[i] = inst
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("world %s: %w", w.ID, err)
	}
	w.Instances = instances

	c.logger(ctx).WithField("world_id", w.ID).
		WithField("instances", len(instances)).
		Debug("Resolved world instances")
	return w, nil
}

// FetchInstance loads one instance of this world.
func (w *World) FetchInstance(ctx context.Context, instanceID string) (*Instance, error) {
	return w.client.FetchInstance(ctx, w.ID, instanceID)
}

// Instance is one running copy of a world.
type Instance struct {
	ID         string         `json:"id"`
	InstanceID string         `json:"instanceId"`
	Location   string         `json:"location,omitempty"`
	Name       string         `json:"name,omitempty"`
	WorldID    string         `json:"worldId"`
	Type       string         `json:"type,omitempty"`
	OwnerID    string         `json:"ownerId,omitempty"`
	Region     string         `json:"region,omitempty"`
	NUsers     int            `json:"n_users"`
	Capacity   int            `json:"capacity"`
	Full       bool           `json:"full"`
	Permanent  bool           `json:"permanent"`
	Tags       []string       `json:"tags,omitempty"`
	Platforms  map[string]int `json:"platforms,omitempty"`

	client *Client
}

func NewInstance(c *Client, data json.RawMessage) (*Instance, error) {
	inst, err := decode[Instance](data)
	if err != nil {
		return nil, err
	}
	inst.client = c
	return inst, nil
}

// World loads the world this instance belongs to.
func (i *Instance) World(ctx context.Context) (*World, error) {
	return i.client.FetchWorld(ctx, i.WorldID)
}
