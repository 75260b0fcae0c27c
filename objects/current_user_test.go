package objects

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birbparty/vrcsdk/sdk"
	"github.com/birbparty/vrcsdk/types"
)

func TestFetchMe(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves relations in order", func(t *testing.T) {
		api := withMe(newFakeAPI(), worldID)
		c, _ := newTestClient(t, api)

		me, err := c.FetchMe(ctx)
		require.NoError(t, err)

		assert.Same(t, me, c.Me())
		require.NotNil(t, me.CurrentAvatar)
		assert.Equal(t, avatarID, me.CurrentAvatar.ID)
		require.NotNil(t, me.HomeLocation)
		assert.Equal(t, worldID, me.HomeLocation.ID)

		assert.Len(t, me.OnlineFriends, 2)
		assert.Len(t, me.OfflineFriends, 2)
		assert.Len(t, me.Friends(), 4)

		// usr_gone is dropped; usr_a resolves to the first (online) match.
		require.Len(t, me.ActiveFriends, 2)
		assert.Equal(t, "usr_c", me.ActiveFriends[0].ID)
		assert.Same(t, me.OnlineFriends[0], me.ActiveFriends[1])

		calls := api.recorded()
		require.Len(t, calls, 5)
		assert.Equal(t, "/auth/user", calls[0].Path)
		assert.Equal(t, "/avatars/"+avatarID, calls[1].Path)
		assert.Equal(t, sdk.Params{"offline": false}, calls[2].Params)
		assert.Equal(t, sdk.Params{"offline": true}, calls[3].Params)
		assert.Equal(t, "/worlds/"+worldID, calls[4].Path)
	})

	t.Run("empty home location issues no world fetch", func(t *testing.T) {
		api := withMe(newFakeAPI(), "")
		c, _ := newTestClient(t, api)

		me, err := c.FetchMe(ctx)
		require.NoError(t, err)

		assert.Nil(t, me.HomeLocation)
		assert.Zero(t, api.count(http.MethodGet, "/worlds/"))
	})

	t.Run("no current avatar issues no avatar fetch", func(t *testing.T) {
		payload := mePayload("")
		delete(payload, "currentAvatar")
		api := withMe(newFakeAPI(), "").on(http.MethodGet, "/auth/user", payload)
		c, _ := newTestClient(t, api)

		me, err := c.FetchMe(ctx)
		require.NoError(t, err)
		assert.Nil(t, me.CurrentAvatar)
		assert.Zero(t, api.count(http.MethodGet, "/avatars/"))
	})

	t.Run("failed enrichment is returned and me stays unset", func(t *testing.T) {
		api := withMe(newFakeAPI(), worldID).
			handle(http.MethodGet, "/auth/user/friends", func(sdk.Params) (any, error) {
				return nil, sdk.NewError(sdk.ErrorTypeServer, "503", nil)
			})
		c, _ := newTestClient(t, api)

		_, err := c.FetchMe(ctx)
		assert.ErrorIs(t, err, sdk.ErrServerError)
		assert.Nil(t, c.Me())
		assert.Zero(t, api.count(http.MethodGet, "/worlds/"))
	})

	t.Run("FetchFull returns a CurrentUser", func(t *testing.T) {
		api := withMe(newFakeAPI(), "")
		c, _ := newTestClient(t, api)

		me, err := c.FetchMe(ctx)
		require.NoError(t, err)

		full, err := me.FetchFull(ctx)
		require.NoError(t, err)
		assert.IsType(t, &CurrentUser{}, full)
		assert.Equal(t, meID, full.ID)
	})
}

func TestCurrentUser_ForbiddenOperations(t *testing.T) {
	ctx := context.Background()
	api := withMe(newFakeAPI(), "")
	c, _ := newTestClient(t, api)

	me, err := c.FetchMe(ctx)
	require.NoError(t, err)
	before := api.total()

	var v any = me
	_, isFavoritable := v.(Favoritable)
	_, isFriendable := v.(Friendable)
	assert.False(t, isFavoritable)
	assert.False(t, isFriendable)

	_, err = AddFavorite(ctx, me)
	assert.ErrorIs(t, err, ErrUnsupportedOperation)

	_, err = SendFriendRequest(ctx, me)
	assert.ErrorIs(t, err, ErrUnsupportedOperation)

	err = RemoveFriend(ctx, me)
	assert.ErrorIs(t, err, ErrUnsupportedOperation)

	var opErr *UnsupportedOperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "unfriend", opErr.Op)
	assert.Equal(t, "CurrentUser", opErr.Entity)
	assert.Equal(t, "unsupported operation: CurrentUser cannot unfriend", err.Error())

	assert.Equal(t, before, api.total(), "no request may be sent")
}

func TestCurrentUser_Avatars(t *testing.T) {
	ctx := context.Background()
	api := withMe(newFakeAPI(), "").
		on(http.MethodGet, "/avatars", `[
			{"id":"avtr_1","name":"Mine","authorId":"usr_me"},
			{"id":"avtr_2","name":"Someone else's","authorId":"usr_other"},
			{"id":"avtr_3","name":"Also mine","authorId":"usr_me"}
		]`)
	c, _ := newTestClient(t, api)
	me, err := c.FetchMe(ctx)
	require.NoError(t, err)

	avatars, err := me.Avatars(ctx, "")
	require.NoError(t, err)
	require.Len(t, avatars, 2)
	assert.Equal(t, "avtr_1", avatars[0].ID)
	assert.Equal(t, "avtr_3", avatars[1].ID)

	last := api.recorded()[api.total()-1]
	assert.Equal(t, sdk.Params{"releaseStatus": types.ReleaseStatusAll, "user": "me"}, last.Params)

	_, err = me.Avatars(ctx, types.ReleaseStatus("secret"))
	assert.ErrorIs(t, err, sdk.ErrValidation)
}

func TestCurrentUser_UpdateInfo(t *testing.T) {
	ctx := context.Background()

	t.Run("nil fields keep current values", func(t *testing.T) {
		var sent sdk.Params
		api := withMe(newFakeAPI(), "").
			handle(http.MethodPut, "/users/"+meID, func(p sdk.Params) (any, error) {
				sent = p
				updated := mePayload("")
				updated["bio"] = "new bio"
				return updated, nil
			})
		c, _ := newTestClient(t, api)
		me, err := c.FetchMe(ctx)
		require.NoError(t, err)

		bio := "new bio"
		updated, err := me.UpdateInfo(ctx, UpdateInfoParams{Bio: &bio})
		require.NoError(t, err)

		assert.Equal(t, sdk.Params{
			"email":             "birb@example.com",
			"status":            "active",
			"statusDescription": "chirping",
			"bio":               "new bio",
			"bioLinks":          []string{"https://example.com"},
		}, sent)
		assert.Equal(t, "new bio", updated.Bio)
		assert.Same(t, updated, c.Me())
	})

	t.Run("invalid input is rejected before any request", func(t *testing.T) {
		api := withMe(newFakeAPI(), "")
		c, _ := newTestClient(t, api)
		me, err := c.FetchMe(ctx)
		require.NoError(t, err)
		before := api.total()

		status := "sleeping"
		tooLong := "this status description is far longer than thirty-two characters"
		email := "not-an-email"
		cases := []UpdateInfoParams{
			{Status: &status},
			{StatusDescription: &tooLong},
			{Email: &email},
			{BioLinks: []string{"a", "b", "c", "d"}},
			{BioLinks: []string{"not a url"}},
		}
		for _, p := range cases {
			_, err := me.UpdateInfo(ctx, p)
			assert.ErrorIs(t, err, sdk.ErrValidation)
		}
		assert.Equal(t, before, api.total())
	})

	t.Run("statuses with spaces are accepted", func(t *testing.T) {
		api := withMe(newFakeAPI(), "").on(http.MethodPut, "/users/"+meID, mePayload(""))
		c, _ := newTestClient(t, api)
		me, err := c.FetchMe(ctx)
		require.NoError(t, err)

		status := "join me"
		_, err = me.UpdateInfo(ctx, UpdateInfoParams{Status: &status})
		assert.NoError(t, err)
	})
}

func TestCurrentUser_Favorites(t *testing.T) {
	ctx := context.Background()
	api := withMe(newFakeAPI(), "").
		on(http.MethodGet, "/favorites", `[
			{"id":"fvrt_1","type":"friend","favoriteId":"usr_c","tags":["group_0"]},
			{"id":"fvrt_2","type":"friend","favoriteId":"usr_stranger","tags":["group_0"]}
		]`).
		on(http.MethodGet, "/favorites/fvrt_3", `{"id":"fvrt_3","type":"avatar","favoriteId":"avtr_mine"}`).
		on(http.MethodDelete, "/favorites/fvrt_1", `{"success":{"message":"OK","status_code":200}}`)
	c, hook := newTestClient(t, api)
	me, err := c.FetchMe(ctx)
	require.NoError(t, err)

	favorites, err := me.FetchFavorites(ctx, types.FavoriteTypeFriend)
	require.NoError(t, err)
	require.Len(t, favorites, 2)

	target, ok := favorites[0].Target.(FriendTarget)
	require.True(t, ok)
	assert.Same(t, me.OfflineFriends[0], target.Friend)

	assert.Nil(t, favorites[1].Target)
	assert.False(t, favorites[1].Resolved())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "usr_stranger", hook.LastEntry().Data["target_id"])

	one, err := me.FetchFavorite(ctx, "fvrt_3")
	require.NoError(t, err)
	assert.IsType(t, AvatarTarget{}, one.Target)

	require.NoError(t, me.RemoveFavorite(ctx, "fvrt_1"))
	assert.Equal(t, 1, api.count(http.MethodDelete, "/favorites/fvrt_1"))

	_, err = me.FetchFavorites(ctx, types.FavoriteType("enemy"))
	assert.ErrorIs(t, err, sdk.ErrValidation)
}
