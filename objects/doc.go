// Package objects models VRChat entities on top of an sdk.Caller.
//
// Entities are built from API payloads by New* factories. Factories for
// entities with relations (NewWorld, NewCurrentUser, NewFavorite) resolve
// them before returning, so callers never see a half-built value:
//
//	c := objects.NewClient(api)
//	me, err := c.FetchMe(ctx)
//	if err != nil {
//	    return err
//	}
//	for _, f := range me.ActiveFriends {
//	    fmt.Println(f.DisplayName)
//	}
//
// Behavior is attached through small capability interfaces (Favoritable,
// Friendable, Authored, SelfAccount). *CurrentUser has no Friend, Unfriend or
// Favorite method; AddFavorite, SendFriendRequest and RemoveFriend report
// ErrUnsupportedOperation for values that lack the capability.
package objects
