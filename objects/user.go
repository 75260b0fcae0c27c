package objects

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/birbparty/vrcsdk/sdk"
	"github.com/birbparty/vrcsdk/types"
)

// UserInfo is the record shared by every view of an account.
type UserInfo struct {
	ID                             string   `json:"id"`
	Username                       string   `json:"username,omitempty"`
	DisplayName                    string   `json:"displayName"`
	Bio                            string   `json:"bio,omitempty"`
	CurrentAvatarImageURL          string   `json:"currentAvatarImageUrl,omitempty"`
	CurrentAvatarThumbnailImageURL string   `json:"currentAvatarThumbnailImageUrl,omitempty"`
	DeveloperType                  string   `json:"developerType,omitempty"`
	IsFriend                       bool     `json:"isFriend"`
	LastPlatform                   string   `json:"last_platform,omitempty"`
	Location                       string   `json:"location,omitempty"`
	Status                         string   `json:"status,omitempty"`
	StatusDescription              string   `json:"statusDescription,omitempty"`
	Tags                           []string `json:"tags,omitempty"`
	UserIcon                       string   `json:"userIcon,omitempty"`
	ProfilePicOverride             string   `json:"profilePicOverride,omitempty"`
	FriendKey                      string   `json:"friendKey,omitempty"`
}

// UserDetails are the fields only present on full user payloads.
type UserDetails struct {
	BioLinks            []string `json:"bioLinks,omitempty"`
	DateJoined          string   `json:"date_joined,omitempty"`
	LastLogin           string   `json:"last_login,omitempty"`
	State               string   `json:"state,omitempty"`
	WorldID             string   `json:"worldId,omitempty"`
	InstanceID          string   `json:"instanceId,omitempty"`
	FriendRequestStatus string   `json:"friendRequestStatus,omitempty"`
	Note                string   `json:"note,omitempty"`
	AllowAvatarCopying  bool     `json:"allowAvatarCopying"`
	TravelingToWorld    string   `json:"travelingToWorld,omitempty"`
	TravelingToInstance string   `json:"travelingToInstance,omitempty"`
}

// LimitedUser is the partial account view returned in lists such as friends.
type LimitedUser struct {
	UserInfo

	client *Client
}

// NewLimitedUser parses a partial user payload.
func NewLimitedUser(c *Client, data json.RawMessage) (*LimitedUser, error) {
	u, err := decode[LimitedUser](data)
	if err != nil {
		return nil, err
	}
	u.client = c
	return u, nil
}

// FetchFull loads the full view of this user.
func (u *LimitedUser) FetchFull(ctx context.Context) (*User, error) {
	return u.client.FetchUser(ctx, u.ID)
}

// PublicAvatars lists the public avatars uploaded by this user.
func (u *LimitedUser) PublicAvatars(ctx context.Context) ([]*Avatar, error) {
	return fetchPublicAvatars(ctx, u.client, u.ID)
}

// Unfriend removes this user from the friend list.
func (u *LimitedUser) Unfriend(ctx context.Context) error {
	_, err := u.client.call(ctx, "unfriend",
		sdk.BuildPath("/auth/user/friends/{0}", u.ID), http.MethodDelete, nil)
	return err
}

// Friend sends a friend request and returns the notification the API created.
func (u *LimitedUser) Friend(ctx context.Context) (*Notification, error) {
	data, err := u.client.call(ctx, "send friend request",
		sdk.BuildPath("/user/{0}/friendRequest", u.ID), http.MethodPost, nil)
	if err != nil {
		return nil, err
	}
	return NewNotification(u.client, data)
}

// Favorite adds this user to the friend favorites.
func (u *LimitedUser) Favorite(ctx context.Context) (*Favorite, error) {
	return addFavorite(ctx, u.client, types.FavoriteTypeFriend, u.ID)
}

// User is the full view of another account.
type User struct {
	LimitedUser
	UserDetails
}

// NewUser parses a full user payload.
func NewUser(c *Client, data json.RawMessage) (*User, error) {
	u, err := decode[User](data)
	if err != nil {
		return nil, err
	}
	u.client = c
	return u, nil
}

func fetchPublicAvatars(ctx context.Context, c *Client, userID string) ([]*Avatar, error) {
	data, err := c.call(ctx, "fetch public avatars", "/avatars", http.MethodGet, sdk.Params{"userId": userID})
	if err != nil {
		return nil, err
	}
	return newAvatarList(c, data, nil)
}

// newAvatarList builds avatars from an array payload, keeping those for which
// keep returns true. A nil keep keeps all.
func newAvatarList(c *Client, data json.RawMessage, keep func(*Avatar) bool) ([]*Avatar, error) {
	items, err := decodeList(data)
	if err != nil {
		return nil, fmt.Errorf("avatars: %w", err)
	}
	avatars := make([]*Avatar, 0, len(items))
	for _, item := range items {
		a, err := NewAvatar(c, item)
		if err != nil {
			return nil, fmt.Errorf("avatars: %w", err)
		}
		if keep == nil || keep(a) {
			avatars = append(avatars, a)
		}
	}
	return avatars, nil
}
