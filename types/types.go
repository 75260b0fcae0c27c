// Package types holds the string-valued tags the VRChat API accepts as request
// parameters. The string values are part of the wire contract and must not change.
package types

import "fmt"

// FavoriteType is the kind of entity a favorite points at.
type FavoriteType string

const (
	FavoriteTypeWorld  FavoriteType = "world"
	FavoriteTypeFriend FavoriteType = "friend"
	FavoriteTypeAvatar FavoriteType = "avatar"
)

// String returns the wire value
func (t FavoriteType) String() string { return string(t) }

// Valid reports whether t is a known favorite type
func (t FavoriteType) Valid() bool {
	switch t {
	case FavoriteTypeWorld, FavoriteTypeFriend, FavoriteTypeAvatar:
		return true
	}
	return false
}

// ParseFavoriteType converts a wire value into a FavoriteType.
func ParseFavoriteType(s string) (FavoriteType, error) {
	t := FavoriteType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown favorite type %q", s)
	}
	return t, nil
}

// NotificationType filters or describes notifications.
type NotificationType string

const (
	NotificationTypeAll                   NotificationType = "all"
	NotificationTypeFriendRequest         NotificationType = "friendRequest"
	NotificationTypeInvite                NotificationType = "invite"
	NotificationTypeRequestInvite         NotificationType = "requestInvite"
	NotificationTypeRequestInviteResponse NotificationType = "requestInviteResponse"
	NotificationTypeHidden                NotificationType = "hidden"
)

// String returns the wire value
func (t NotificationType) String() string { return string(t) }

// Valid reports whether t is a known notification type
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeAll, NotificationTypeFriendRequest, NotificationTypeInvite,
		NotificationTypeRequestInvite, NotificationTypeRequestInviteResponse, NotificationTypeHidden:
		return true
	}
	return false
}

// ParseNotificationType converts a wire value into a NotificationType.
func ParseNotificationType(s string) (NotificationType, error) {
	t := NotificationType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown notification type %q", s)
	}
	return t, nil
}

// PlayerModerationType is the action applied to another player.
type PlayerModerationType string

const (
	PlayerModerationBlock      PlayerModerationType = "block"
	PlayerModerationShowAvatar PlayerModerationType = "showAvatar"
	PlayerModerationHideAvatar PlayerModerationType = "hideAvatar"
	PlayerModerationMute       PlayerModerationType = "mute"
	PlayerModerationUnmute     PlayerModerationType = "unmute"
)

// String returns the wire value
func (t PlayerModerationType) String() string { return string(t) }

// Valid reports whether t is a known moderation type
func (t PlayerModerationType) Valid() bool {
	switch t {
	case PlayerModerationBlock, PlayerModerationShowAvatar, PlayerModerationHideAvatar,
		PlayerModerationMute, PlayerModerationUnmute:
		return true
	}
	return false
}

// ParsePlayerModerationType converts a wire value into a PlayerModerationType.
func ParsePlayerModerationType(s string) (PlayerModerationType, error) {
	t := PlayerModerationType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown player moderation type %q", s)
	}
	return t, nil
}

// ReleaseStatus filters avatars and worlds by visibility.
type ReleaseStatus string

const (
	ReleaseStatusPublic  ReleaseStatus = "public"
	ReleaseStatusPrivate ReleaseStatus = "private"
	ReleaseStatusHidden  ReleaseStatus = "hidden"
	ReleaseStatusAll     ReleaseStatus = "all"
)

// String returns the wire value
func (s ReleaseStatus) String() string { return string(s) }

// Valid reports whether s is a known release status
func (s ReleaseStatus) Valid() bool {
	switch s {
	case ReleaseStatusPublic, ReleaseStatusPrivate, ReleaseStatusHidden, ReleaseStatusAll:
		return true
	}
	return false
}

// ParseReleaseStatus converts a wire value into a ReleaseStatus.
func ParseReleaseStatus(v string) (ReleaseStatus, error) {
	s := ReleaseStatus(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown release status %q", v)
	}
	return s, nil
}
