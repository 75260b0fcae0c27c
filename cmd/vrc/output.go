package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/birbparty/vrcsdk/objects"
)

// render writes v as indented JSON or YAML. YAML goes through the JSON
// encoding first so both formats use the API's field names.
func render(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	switch format {
	case "yaml":
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		return enc.Close()
	default:
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
}

type meView struct {
	*objects.CurrentUser
	Avatar         *objects.Avatar `json:"avatar,omitempty"`
	Home           *worldView      `json:"home,omitempty"`
	OnlineFriends  []string        `json:"onlineFriendNames"`
	OfflineFriends []string        `json:"offlineFriendNames"`
	ActiveFriends  []string        `json:"activeFriendNames"`
}

func newMeView(u *objects.CurrentUser) meView {
	v := meView{
		CurrentUser:    u,
		Avatar:         u.CurrentAvatar,
		OnlineFriends:  displayNames(u.OnlineFriends),
		OfflineFriends: displayNames(u.OfflineFriends),
		ActiveFriends:  displayNames(u.ActiveFriends),
	}
	if u.HomeLocation != nil {
		home := newWorldView(u.HomeLocation)
		v.Home = &home
	}
	return v
}

type worldView struct {
	*objects.World
	InstanceDetails []*objects.Instance `json:"instanceDetails"`
}

func newWorldView(w *objects.World) worldView {
	return worldView{World: w, InstanceDetails: w.Instances}
}

type favoriteView struct {
	*objects.Favorite
	TargetName string `json:"targetName,omitempty"`
}

func newFavoriteViews(favs []*objects.Favorite) []favoriteView {
	views := make([]favoriteView, 0, len(favs))
	for _, f := range favs {
		views = append(views, favoriteView{Favorite: f, TargetName: targetName(f.Target)})
	}
	return views
}

func targetName(t objects.FavoriteTarget) string {
	switch t := t.(type) {
	case objects.WorldTarget:
		return t.World.Name
	case objects.FriendTarget:
		return t.Friend.DisplayName
	case objects.AvatarTarget:
		return t.Avatar.Name
	default:
		return ""
	}
}

func displayNames(users []*objects.LimitedUser) []string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.DisplayName)
	}
	return names
}
