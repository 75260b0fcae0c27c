package objects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/birbparty/vrcsdk/sdk"
	"github.com/birbparty/vrcsdk/types"
)

// CurrentUser is the authenticated account. It has no Friend, Unfriend or
// Favorite methods.
type CurrentUser struct {
	UserInfo
	UserDetails

	Email                string   `json:"email,omitempty"`
	EmailVerified        bool     `json:"emailVerified"`
	PastDisplayNames     []any    `json:"pastDisplayNames,omitempty"`
	TwoFactorAuthEnabled bool     `json:"twoFactorAuthEnabled"`
	AcceptedTOSVersion   int      `json:"acceptedTOSVersion"`
	HasBirthday          bool     `json:"hasBirthday"`
	CurrentAvatarID      string   `json:"currentAvatar,omitempty"`
	HomeLocationID       string   `json:"homeLocation"`
	FriendIDs            []string `json:"friends,omitempty"`
	ActiveFriendIDs      []string `json:"activeFriends,omitempty"`

	CurrentAvatar  *Avatar        `json:"-"`
	HomeLocation   *World         `json:"-"`
	OnlineFriends  []*LimitedUser `json:"-"`
	OfflineFriends []*LimitedUser `json:"-"`
	ActiveFriends  []*LimitedUser `json:"-"`

	client *Client
}

// NewCurrentUser parses the authenticated user and resolves, in order, the
// current avatar, online friends, offline friends, active friends and the
// home world. An empty home location resolves to nil without a request.
func NewCurrentUser(ctx context.Context, c *Client, data json.RawMessage) (u *CurrentUser, err error) {
	ctx, done := c.track(ctx, "CurrentUser")
	defer func() { done(err) }()

	u, err = decode[CurrentUser](data)
	if err != nil {
		return nil, err
	}
	u.client = c
	log := c.logger(ctx).WithField("user_id", u.ID)

	if u.CurrentAvatarID != "" {
		if u.CurrentAvatar, err = c.FetchAvatar(ctx, u.CurrentAvatarID); err != nil {
			return nil, err
		}
	}

	if u.OnlineFriends, err = c.FetchFriends(ctx, false); err != nil {
		return nil, err
	}
	if u.OfflineFriends, err = c.FetchFriends(ctx, true); err != nil {
		return nil, err
	}

	friends := u.Friends()
	u.ActiveFriends = make([]*LimitedUser, 0, len(u.ActiveFriendIDs))
	for _, id := range u.ActiveFriendIDs {
		if f := findFriend(friends, id); f != nil {
			u.ActiveFriends = append(u.ActiveFriends, f)
		}
	}

	if u.HomeLocationID != "" {
		if u.HomeLocation, err = c.FetchWorld(ctx, u.HomeLocationID); err != nil {
			return nil, err
		}
	}

	log.WithField("friends", len(friends)).Debug("Resolved current user")
	return u, nil
}

func findFriend(friends []*LimitedUser, id string) *LimitedUser {
	for _, f := range friends {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// Friends returns online friends followed by offline friends.
func (u *CurrentUser) Friends() []*LimitedUser {
	out := make([]*LimitedUser, 0, len(u.OnlineFriends)+len(u.OfflineFriends))
	out = append(out, u.OnlineFriends...)
	return append(out, u.OfflineFriends...)
}

// FetchFull reloads the current user and replaces the client's copy.
func (u *CurrentUser) FetchFull(ctx context.Context) (*CurrentUser, error) {
	return u.client.FetchMe(ctx)
}

func (u *CurrentUser) PublicAvatars(ctx context.Context) ([]*Avatar, error) {
	return fetchPublicAvatars(ctx, u.client, u.ID)
}

// Avatars lists avatars uploaded by the current user. An empty status means
// types.ReleaseStatusAll.
func (u *CurrentUser) Avatars(ctx context.Context, status types.ReleaseStatus) ([]*Avatar, error) {
	if status == "" {
		status = types.ReleaseStatusAll
	}
	if !status.Valid() {
		return nil, sdk.NewValidationError(fmt.Sprintf("invalid release status %q", status), nil)
	}

	data, err := u.client.call(ctx, "fetch own avatars", "/avatars", http.MethodGet, sdk.Params{
		"releaseStatus": status,
		"user":          "me",
	})
	if err != nil {
		return nil, err
	}
	return newAvatarList(u.client, data, func(a *Avatar) bool { return a.AuthorID == u.ID })
}

// FetchFavorites lists favorites of type t. Friend favorites resolve against
// this user's friend list.
func (u *CurrentUser) FetchFavorites(ctx context.Context, t types.FavoriteType) ([]*Favorite, error) {
	if !t.Valid() {
		return nil, sdk.NewValidationError(fmt.Sprintf("invalid favorite type %q", t), nil)
	}

	data, err := u.client.call(ctx, "fetch favorites", "/favorites", http.MethodGet, sdk.Params{"type": t})
	if err != nil {
		return nil, err
	}
	items, err := decodeList(data)
	if err != nil {
		return nil, fmt.Errorf("fetch favorites: %w", err)
	}

	friends := u.Friends()
	favorites := make([]*Favorite, 0, len(items))
	for _, item := range items {
		f, err := newFavorite(ctx, u.client, item, friends)
		if err != nil {
			return nil, err
		}
		favorites = append(favorites, f)
	}
	return favorites, nil
}

func (u *CurrentUser) FetchFavorite(ctx context.Context, id string) (*Favorite, error) {
	data, err := u.client.call(ctx, "fetch favorite", sdk.BuildPath("/favorites/{0}", id), http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	return newFavorite(ctx, u.client, data, u.Friends())
}

func (u *CurrentUser) RemoveFavorite(ctx context.Context, id string) error {
	return removeFavorite(ctx, u.client, id)
}

// UpdateInfoParams are the profile fields UpdateInfo can change. Nil fields
// keep the current value.
type UpdateInfoParams struct {
	Email             *string
	Status            *string
	StatusDescription *string
	Bio               *string
	BioLinks          []string
}

type updateInfoBody struct {
	Email             string   `json:"email" validate:"omitempty,email"`
	Status            string   `json:"status" validate:"omitempty,oneof='active' 'join me' 'ask me' 'busy' 'offline'"`
	StatusDescription string   `json:"statusDescription" validate:"max=32"`
	Bio               string   `json:"bio" validate:"max=512"`
	BioLinks          []string `json:"bioLinks" validate:"max=3,dive,url"`
}

func (b updateInfoBody) params() sdk.Params {
	links := b.BioLinks
	if links == nil {
		links = []string{}
	}
	return sdk.Params{
		"email":             b.Email,
		"status":            b.Status,
		"statusDescription": b.StatusDescription,
		"bio":               b.Bio,
		"bioLinks":          links,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// UpdateInfo changes profile fields and returns the updated user, which also
// becomes the client's current user. Invalid input fails before any request.
func (u *CurrentUser) UpdateInfo(ctx context.Context, p UpdateInfoParams) (*CurrentUser, error) {
	body := updateInfoBody{
		Email:             valueOr(p.Email, u.Email),
		Status:            valueOr(p.Status, u.Status),
		StatusDescription: valueOr(p.StatusDescription, u.StatusDescription),
		Bio:               valueOr(p.Bio, u.Bio),
		BioLinks:          u.BioLinks,
	}
	if p.BioLinks != nil {
		body.BioLinks = p.BioLinks
	}

	if err := validate.Struct(body); err != nil {
		return nil, sdk.NewValidationError(describeValidation(err), err)
	}

	data, err := u.client.call(ctx, "update user info",
		sdk.BuildPath("/users/{0}", u.ID), http.MethodPut, body.params())
	if err != nil {
		return nil, err
	}
	me, err := NewCurrentUser(ctx, u.client, data)
	if err != nil {
		return nil, err
	}
	u.client.setMe(me)
	return me, nil
}

func valueOr(p *string, fallback string) string {
	if p != nil {
		return *p
	}
	return fallback
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return "invalid profile update: " + strings.Join(msgs, "; ")
}
