package objects

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birbparty/vrcsdk/sdk"
	"github.com/birbparty/vrcsdk/types"
)

func worldPayload(id string, instanceIDs ...string) string {
	refs := make([]string, len(instanceIDs))
	for i, iid := range instanceIDs {
		refs[i] = fmt.Sprintf(`[%q, %d]`, iid, i+1)
	}
	return fmt.Sprintf(`{"id":%q,"name":"The Great Pug","authorId":"usr_author","capacity":40,"instances":[%s]}`,
		id, strings.Join(refs, ","))
}

func instancePayload(worldID, instanceID string) string {
	return fmt.Sprintf(`{"id":"%s:%s","instanceId":%q,"worldId":%q,"n_users":3,"capacity":40,"platforms":{"standalonewindows":2,"android":1}}`,
		worldID, instanceID, instanceID, worldID)
}

func TestNewWorld(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves every instance in order", func(t *testing.T) {
		ids := []string{"1111~public", "2222~friends(usr_x)~nonce(ab)", "3333", "4444", "5555~hidden(usr_y)"}
		api := newFakeAPI()
		for i, id := range ids {
			// Earlier instances answer more slowly so completion order differs
			// from input order.
			delay := time.Duration(len(ids)-i) * 5 * time.Millisecond
			body := instancePayload("wrld_1", id)
			api.handle(http.MethodGet, sdk.BuildPath("/instances/{0}:{1}", "wrld_1", id), func(sdk.Params) (any, error) {
				time.Sleep(delay)
				return body, nil
			})
		}
		c, _ := newTestClient(t, api, WithEnrichConcurrency(3))

		w, err := NewWorld(ctx, c, json.RawMessage(worldPayload("wrld_1", ids...)))
		require.NoError(t, err)

		assert.Equal(t, len(ids), api.count(http.MethodGet, "/instances/"))
		require.Len(t, w.Instances, len(ids))
		for i, id := range ids {
			assert.Equal(t, id, w.Instances[i].InstanceID)
			assert.Equal(t, "wrld_1", w.Instances[i].WorldID)
			assert.Equal(t, id, w.InstanceRefs[i].ID)
			assert.Equal(t, i+1, w.InstanceRefs[i].Occupants)
		}
		assert.Equal(t, map[string]int{"standalonewindows": 2, "android": 1}, w.Instances[0].Platforms)
	})

	t.Run("no instances means no fetches", func(t *testing.T) {
		api := newFakeAPI()
		c, _ := newTestClient(t, api)

		w, err := NewWorld(ctx, c, json.RawMessage(worldPayload("wrld_1")))
		require.NoError(t, err)
		assert.Empty(t, w.Instances)
		assert.Zero(t, api.total())
	})

	t.Run("concurrency limit is honored", func(t *testing.T) {
		var inFlight, peak atomic.Int32
		api := newFakeAPI()
		ids := []string{"1", "2", "3", "4", "5", "6"}
		for _, id := range ids {
			body := instancePayload("wrld_1", id)
			api.handle(http.MethodGet, "/instances/wrld_1:"+id, func(sdk.Params) (any, error) {
				n := inFlight.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				inFlight.Add(-1)
				return body, nil
			})
		}
		c, _ := newTestClient(t, api, WithEnrichConcurrency(2))

		_, err := NewWorld(ctx, c, json.RawMessage(worldPayload("wrld_1", ids...)))
		require.NoError(t, err)
		assert.LessOrEqual(t, peak.Load(), int32(2))
	})

	t.Run("a failed instance fetch fails construction", func(t *testing.T) {
		api := newFakeAPI().on(http.MethodGet, "/instances/wrld_1:1", instancePayload("wrld_1", "1"))
		c, _ := newTestClient(t, api)

		w, err := NewWorld(ctx, c, json.RawMessage(worldPayload("wrld_1", "1", "missing")))
		assert.Nil(t, w)
		assert.True(t, sdk.IsNotFound(err))
		assert.Contains(t, err.Error(), "wrld_1")
	})

	t.Run("malformed payload", func(t *testing.T) {
		c, _ := newTestClient(t, newFakeAPI())

		_, err := NewWorld(ctx, c, json.RawMessage(`{"id":"wrld_1","instances":[[]]}`))
		assert.ErrorIs(t, err, ErrInvalidPayload)

		_, err = NewWorld(ctx, c, nil)
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})
}

func TestWorldRelations(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI().
		on(http.MethodGet, "/worlds/wrld_1", worldPayload("wrld_1", "1")).
		on(http.MethodGet, "/instances/wrld_1:1", instancePayload("wrld_1", "1")).
		on(http.MethodGet, "/instances/wrld_1:2", instancePayload("wrld_1", "2")).
		on(http.MethodGet, "/users/usr_author", `{"id":"usr_author","displayName":"Author","bioLinks":["https://a.example"]}`)
	c, _ := newTestClient(t, api)

	w, err := c.FetchWorld(ctx, "wrld_1")
	require.NoError(t, err)

	author, err := w.Author(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Author", author.DisplayName)
	assert.Equal(t, []string{"https://a.example"}, author.BioLinks)

	inst, err := w.FetchInstance(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "wrld_1:2", inst.ID)

	parent, err := inst.World(ctx)
	require.NoError(t, err)
	assert.Equal(t, w.ID, parent.ID)
	require.Len(t, parent.Instances, 1)
}

func TestLimitedWorld(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI().
		on(http.MethodGet, "/users/usr_author", `{"id":"usr_author","displayName":"Author"}`).
		on(http.MethodPost, "/favorites", `{"id":"fvrt_7","type":"world","favoriteId":"wrld_1","tags":["worlds1"]}`).
		on(http.MethodGet, "/worlds/wrld_1", worldPayload("wrld_1"))
	c, _ := newTestClient(t, api)

	w, err := NewLimitedWorld(c, json.RawMessage(`{"id":"wrld_1","name":"The Great Pug","authorId":"usr_author","capacity":40,"occupants":5}`))
	require.NoError(t, err)
	assert.Equal(t, "The Great Pug", w.Name)
	assert.Equal(t, 5, w.Occupants)
	assert.Zero(t, api.total(), "limited worlds fetch nothing on construction")

	author, err := w.Author(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Author", author.DisplayName)
	assert.Equal(t, 1, api.count(http.MethodGet, "/users/usr_author"))

	fav, err := w.Favorite(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fvrt_7", fav.ID)
	assert.Equal(t, types.FavoriteTypeWorld, fav.Type)

	var post recordedCall
	for _, call := range api.recorded() {
		if call.Method == http.MethodPost {
			post = call
		}
	}
	assert.Equal(t, "/favorites", post.Path)
	assert.Equal(t, types.FavoriteTypeWorld, post.Params["type"])
	assert.Equal(t, "wrld_1", post.Params["favoriteId"])

	_, err = NewLimitedWorld(c, json.RawMessage(`{"id":`))
	assert.Error(t, err)
}

func TestInstanceRef_JSON(t *testing.T) {
	var refs []InstanceRef
	require.NoError(t, json.Unmarshal([]byte(`[["123~private(usr_1)", 4], ["456"]]`), &refs))
	assert.Equal(t, []InstanceRef{{ID: "123~private(usr_1)", Occupants: 4}, {ID: "456"}}, refs)

	out, err := json.Marshal(refs[0])
	require.NoError(t, err)
	assert.JSONEq(t, `["123~private(usr_1)", 4]`, string(out))

	var bad InstanceRef
	assert.Error(t, json.Unmarshal([]byte(`{"id":"1"}`), &bad))
}
