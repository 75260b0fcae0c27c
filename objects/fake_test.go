package objects

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/birbparty/vrcsdk/sdk"
)

type recordedCall struct {
	Method string
	Path   string
	Params sdk.Params
}

type handler func(params sdk.Params) (any, error)

// fakeAPI is an sdk.Caller that serves canned payloads and records calls.
type fakeAPI struct {
	mu       sync.Mutex
	handlers map[string]handler
	calls    []recordedCall
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{handlers: make(map[string]handler)}
}

// on serves body for method and path. A string body is sent as raw JSON.
func (f *fakeAPI) on(method, path string, body any) *fakeAPI {
	return f.handle(method, path, func(sdk.Params) (any, error) { return body, nil })
}

func (f *fakeAPI) handle(method, path string, h handler) *fakeAPI {
	f.mu.Lock()
	f.handlers[method+" "+path] = h
	f.mu.Unlock()
	return f
}

func (f *fakeAPI) Call(ctx context.Context, path, method string, params sdk.Params) (*sdk.Response, error) {
	if method == "" {
		method = http.MethodGet
	}
	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{Method: method, Path: path, Params: params})
	h, ok := f.handlers[method+" "+path]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ok {
		return nil, (&sdk.APIError{StatusCode: http.StatusNotFound, Message: "Not Found"}).ToError()
	}

	body, err := h(params)
	if err != nil {
		return nil, err
	}
	var data json.RawMessage
	switch b := body.(type) {
	case nil:
	case string:
		data = json.RawMessage(b)
	default:
		data, err = json.Marshal(b)
		if err != nil {
			return nil, err
		}
	}
	return &sdk.Response{StatusCode: http.StatusOK, Data: data}, nil
}

func (f *fakeAPI) recorded() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedCall(nil), f.calls...)
}

// count returns how many calls matched method and a path prefix.
func (f *fakeAPI) count(method, pathPrefix string) int {
	n := 0
	for _, c := range f.recorded() {
		if c.Method == method && strings.HasPrefix(c.Path, pathPrefix) {
			n++
		}
	}
	return n
}

func (f *fakeAPI) total() int {
	return len(f.recorded())
}

func newTestClient(t *testing.T, api sdk.Caller, opts ...Option) (*Client, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewClient(api, append([]Option{WithLogger(logger)}, opts...)...), hook
}

// friendsHandler serves the online list for offline=false and the offline
// list for offline=true.
func friendsHandler(online, offline any) handler {
	return func(p sdk.Params) (any, error) {
		if p["offline"] == true {
			return offline, nil
		}
		return online, nil
	}
}

const (
	meID     = "usr_me"
	worldID  = "wrld_home"
	avatarID = "avtr_mine"
)

func mePayload(homeLocation string) map[string]any {
	return map[string]any{
		"id":                meID,
		"username":          "birb",
		"displayName":       "Birb",
		"email":             "birb@example.com",
		"status":            "active",
		"statusDescription": "chirping",
		"bio":               "hello",
		"bioLinks":          []string{"https://example.com"},
		"currentAvatar":     avatarID,
		"homeLocation":      homeLocation,
		"friends":           []string{"usr_a", "usr_b", "usr_c"},
		"activeFriends":     []string{"usr_c", "usr_gone", "usr_a"},
	}
}

// withMe registers everything NewCurrentUser needs.
func withMe(api *fakeAPI, homeLocation string) *fakeAPI {
	return api.
		on(http.MethodGet, "/auth/user", mePayload(homeLocation)).
		on(http.MethodGet, "/avatars/"+avatarID, `{"id":"avtr_mine","name":"Mine","authorId":"usr_me"}`).
		handle(http.MethodGet, "/auth/user/friends", friendsHandler(
			`[{"id":"usr_a","displayName":"A"},{"id":"usr_b","displayName":"B"}]`,
			`[{"id":"usr_c","displayName":"C"},{"id":"usr_a","displayName":"A offline duplicate"}]`,
		)).
		on(http.MethodGet, "/worlds/"+worldID, `{"id":"wrld_home","name":"Home","authorId":"usr_me","instances":[]}`)
}
