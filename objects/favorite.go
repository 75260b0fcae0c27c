package objects

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/birbparty/vrcsdk/sdk"
	"github.com/birbparty/vrcsdk/types"
)

// FavoriteTarget is the entity a favorite points at: a WorldTarget,
// FriendTarget or AvatarTarget.
type FavoriteTarget interface {
	Kind() types.FavoriteType
	TargetID() string

	favoriteTarget()
}

type WorldTarget struct{ World *World }

func (WorldTarget) Kind() types.FavoriteType { return types.FavoriteTypeWorld }
func (t WorldTarget) TargetID() string       { return t.World.ID }
func (WorldTarget) favoriteTarget()          {}

type FriendTarget struct{ Friend *LimitedUser }

func (FriendTarget) Kind() types.FavoriteType { return types.FavoriteTypeFriend }
func (t FriendTarget) TargetID() string       { return t.Friend.ID }
func (FriendTarget) favoriteTarget()          {}

type AvatarTarget struct{ Avatar *Avatar }

func (AvatarTarget) Kind() types.FavoriteType { return types.FavoriteTypeAvatar }
func (t AvatarTarget) TargetID() string       { return t.Avatar.ID }
func (AvatarTarget) favoriteTarget()          {}

// Favorite is an entry in one of the current user's favorite lists.
// Target is nil when a friend favorite names someone who is not in the
// loaded friend list, or when the type is unknown.
type Favorite struct {
	ID         string             `json:"id"`
	Type       types.FavoriteType `json:"type"`
	FavoriteID string             `json:"favoriteId"`
	Tags       []string           `json:"tags,omitempty"`

	Target FavoriteTarget `json:"-"`

	client *Client
}

// NewFavorite parses a favorite and resolves its target. Friend favorites are
// matched against the client's current user, without a request.
func NewFavorite(ctx context.Context, c *Client, data json.RawMessage) (*Favorite, error) {
	var friends []*LimitedUser
	if me := c.Me(); me != nil {
		friends = me.Friends()
	}
	return newFavorite(ctx, c, data, friends)
}

func newFavorite(ctx context.Context, c *Client, data json.RawMessage, friends []*LimitedUser) (f *Favorite, err error) {
	ctx, done := c.track(ctx, "Favorite")
	defer func() { done(err) }()

	f, err = decode[Favorite](data)
	if err != nil {
		return nil, err
	}
	f.client = c

	log := c.logger(ctx).WithFields(logrus.Fields{
		"favorite_id": f.ID,
		"type":        f.Type.String(),
		"target_id":   f.FavoriteID,
	})

	switch f.Type {
	case types.FavoriteTypeWorld:
		w, err := c.FetchWorld(ctx, f.FavoriteID)
		if err != nil {
			return nil, err
		}
		f.Target = WorldTarget{World: w}
	case types.FavoriteTypeAvatar:
		a, err := c.FetchAvatar(ctx, f.FavoriteID)
		if err != nil {
			return nil, err
		}
		f.Target = AvatarTarget{Avatar: a}
	case types.FavoriteTypeFriend:
		for _, friend := range friends {
			if friend.ID == f.FavoriteID {
				f.Target = FriendTarget{Friend: friend}
				break
			}
		}
		if f.Target == nil {
			log.Warn("Favorited friend not in friend list; target left unresolved")
		}
	default:
		log.Warn("Unknown favorite type; target left unresolved")
	}
	return f, nil
}

// Resolved reports whether Target was set.
func (f *Favorite) Resolved() bool {
	return f.Target != nil
}

// Remove deletes this favorite.
func (f *Favorite) Remove(ctx context.Context) error {
	return removeFavorite(ctx, f.client, f.ID)
}

func addFavorite(ctx context.Context, c *Client, t types.FavoriteType, id string) (*Favorite, error) {
	data, err := c.call(ctx, "add favorite", "/favorites", http.MethodPost, sdk.Params{
		"type":       t,
		"favoriteId": id,
	})
	if err != nil {
		return nil, err
	}
	return NewFavorite(ctx, c, data)
}

func removeFavorite(ctx context.Context, c *Client, id string) error {
	_, err := c.call(ctx, "remove favorite", sdk.BuildPath("/favorites/{0}", id), http.MethodDelete, nil)
	return err
}
