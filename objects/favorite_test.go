package objects

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birbparty/vrcsdk/types"
)

func TestNewFavorite(t *testing.T) {
	ctx := context.Background()

	t.Run("world favorite fetches the world once", func(t *testing.T) {
		api := newFakeAPI().on(http.MethodGet, "/worlds/wrld_1", worldPayload("wrld_1"))
		c, _ := newTestClient(t, api)

		f, err := NewFavorite(ctx, c, json.RawMessage(`{"id":"fvrt_1","type":"world","favoriteId":"wrld_1"}`))
		require.NoError(t, err)

		assert.Equal(t, 1, api.total())
		assert.Equal(t, 1, api.count(http.MethodGet, "/worlds/wrld_1"))
		target, ok := f.Target.(WorldTarget)
		require.True(t, ok)
		assert.Equal(t, "wrld_1", target.World.ID)
		assert.Equal(t, types.FavoriteTypeWorld, f.Target.Kind())
		assert.Equal(t, "wrld_1", f.Target.TargetID())
	})

	t.Run("avatar favorite fetches the avatar once", func(t *testing.T) {
		api := newFakeAPI().on(http.MethodGet, "/avatars/avtr_1", `{"id":"avtr_1","name":"Pug","authorId":"usr_x"}`)
		c, _ := newTestClient(t, api)

		f, err := NewFavorite(ctx, c, json.RawMessage(`{"id":"fvrt_1","type":"avatar","favoriteId":"avtr_1"}`))
		require.NoError(t, err)

		assert.Equal(t, 1, api.total())
		target, ok := f.Target.(AvatarTarget)
		require.True(t, ok)
		assert.Equal(t, "Pug", target.Avatar.Name)
	})

	t.Run("friend favorite matches the loaded friend without a request", func(t *testing.T) {
		api := withMe(newFakeAPI(), "")
		c, _ := newTestClient(t, api)
		me, err := c.FetchMe(ctx)
		require.NoError(t, err)
		before := api.total()

		f, err := NewFavorite(ctx, c, json.RawMessage(`{"id":"fvrt_1","type":"friend","favoriteId":"usr_a"}`))
		require.NoError(t, err)

		assert.Equal(t, before, api.total())
		target, ok := f.Target.(FriendTarget)
		require.True(t, ok)
		// First match in list order: the online entry, not the offline duplicate.
		assert.Same(t, me.OnlineFriends[0], target.Friend)
	})

	t.Run("unmatched friend leaves the target absent", func(t *testing.T) {
		c, hook := newTestClient(t, newFakeAPI())

		f, err := NewFavorite(ctx, c, json.RawMessage(`{"id":"fvrt_1","type":"friend","favoriteId":"usr_a"}`))
		require.NoError(t, err)
		assert.Nil(t, f.Target)
		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	})

	t.Run("unknown type leaves the target absent", func(t *testing.T) {
		api := newFakeAPI()
		c, hook := newTestClient(t, api)

		f, err := NewFavorite(ctx, c, json.RawMessage(`{"id":"fvrt_1","type":"group","favoriteId":"grp_1"}`))
		require.NoError(t, err)
		assert.Nil(t, f.Target)
		assert.Zero(t, api.total())
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	})

	t.Run("fetch failure is returned", func(t *testing.T) {
		c, _ := newTestClient(t, newFakeAPI())

		_, err := NewFavorite(ctx, c, json.RawMessage(`{"id":"fvrt_1","type":"world","favoriteId":"wrld_gone"}`))
		assert.Error(t, err)
	})
}

func TestFavoriting(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI().
		on(http.MethodPost, "/favorites", `{"id":"fvrt_9","type":"avatar","favoriteId":"avtr_1","tags":["avatars1"]}`).
		on(http.MethodGet, "/avatars/avtr_1", `{"id":"avtr_1","name":"Pug","authorId":"usr_x"}`).
		on(http.MethodDelete, "/favorites/fvrt_9", nil)
	c, _ := newTestClient(t, api)

	avatar, err := c.FetchAvatar(ctx, "avtr_1")
	require.NoError(t, err)

	f, err := AddFavorite(ctx, avatar)
	require.NoError(t, err)
	assert.Equal(t, "fvrt_9", f.ID)
	assert.True(t, f.Resolved())

	post := api.recorded()[1]
	assert.Equal(t, http.MethodPost, post.Method)
	assert.Equal(t, types.FavoriteTypeAvatar, post.Params["type"])
	assert.Equal(t, "avtr_1", post.Params["favoriteId"])

	require.NoError(t, f.Remove(ctx))
	assert.Equal(t, 1, api.count(http.MethodDelete, "/favorites/fvrt_9"))
}
