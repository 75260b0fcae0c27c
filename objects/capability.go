package objects

import (
	"context"

	"github.com/birbparty/vrcsdk/types"
)

// Favoritable entities can be added to the current user's favorites.
type Favoritable interface {
	Favorite(ctx context.Context) (*Favorite, error)
}

// Friendable entities can receive friend requests and be unfriended.
type Friendable interface {
	Friend(ctx context.Context) (*Notification, error)
	Unfriend(ctx context.Context) error
}

// Authored entities were uploaded by a user.
type Authored interface {
	Author(ctx context.Context) (*User, error)
}

// SelfAccount is what only the authenticated user can do.
type SelfAccount interface {
	UpdateInfo(ctx context.Context, p UpdateInfoParams) (*CurrentUser, error)
	Avatars(ctx context.Context, status types.ReleaseStatus) ([]*Avatar, error)
	FetchFavorites(ctx context.Context, t types.FavoriteType) ([]*Favorite, error)
	FetchFavorite(ctx context.Context, id string) (*Favorite, error)
	RemoveFavorite(ctx context.Context, id string) error
	Friends() []*LimitedUser
}

var (
	_ Favoritable = (*LimitedUser)(nil)
	_ Favoritable = (*User)(nil)
	_ Favoritable = (*Avatar)(nil)
	_ Favoritable = (*LimitedWorld)(nil)
	_ Favoritable = (*World)(nil)

	_ Friendable = (*LimitedUser)(nil)
	_ Friendable = (*User)(nil)

	_ Authored = (*Avatar)(nil)
	_ Authored = (*LimitedWorld)(nil)
	_ Authored = (*World)(nil)

	_ SelfAccount = (*CurrentUser)(nil)
)

// AddFavorite favorites v when it is Favoritable. Otherwise it returns an
// *UnsupportedOperationError without calling the API.
func AddFavorite(ctx context.Context, v any) (*Favorite, error) {
	f, ok := v.(Favoritable)
	if !ok {
		return nil, unsupported("favorite", v)
	}
	return f.Favorite(ctx)
}

// SendFriendRequest sends a friend request to v when it is Friendable.
func SendFriendRequest(ctx context.Context, v any) (*Notification, error) {
	f, ok := v.(Friendable)
	if !ok {
		return nil, unsupported("friend", v)
	}
	return f.Friend(ctx)
}

// RemoveFriend unfriends v when it is Friendable.
func RemoveFriend(ctx context.Context, v any) error {
	f, ok := v.(Friendable)
	if !ok {
		return unsupported("unfriend", v)
	}
	return f.Unfriend(ctx)
}
