package sdk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/birbparty/vrcsdk/types"
)

func TestBuildPath(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		args    []string
		want    string
	}{
		{"simple id", "/users/{0}", []string{"usr_c1644b5b-3ca4-45b4-97c6-a2a0de70d469"}, "/users/usr_c1644b5b-3ca4-45b4-97c6-a2a0de70d469"},
		{"space", "/users/{0}", []string{"usr_a b"}, "/users/usr_a%20b"},
		{"slash and query chars", "/favorites/{0}", []string{"a/b?c=d&e"}, "/favorites/a%2Fb%3Fc%3Dd%26e"},
		{
			"instance id",
			"/instances/{0}:{1}",
			[]string{"wrld_1", "12345~private(usr_2)~nonce(abc)"},
			"/instances/wrld_1:12345~private(usr_2)~nonce(abc)",
		},
		{"no args", "/auth/user", nil, "/auth/user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildPath(tt.pattern, tt.args...))
		})
	}
}

func TestEncodeQuery(t *testing.T) {
	assert.Equal(t, "", encodeQuery(nil, ""))
	assert.Equal(t, "offline=false", encodeQuery(Params{"offline": false}, ""))
	assert.Equal(t, "type=friendRequest", encodeQuery(Params{"type": types.NotificationTypeFriendRequest}, ""))
	assert.Equal(t, "releaseStatus=all&user=me", encodeQuery(Params{"user": "me", "releaseStatus": types.ReleaseStatusAll}, ""))
	assert.Equal(t, "tag=a&tag=b", encodeQuery(Params{"tag": []string{"a", "b"}, "skip": nil}, ""))
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "vrc:/worlds/wrld_1", cacheKey("/worlds/wrld_1", ""))
	assert.Equal(t, "vrc:/favorites?type=world", cacheKey("/favorites", "type=world"))

}

func TestStalePaths(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"/favorites", []string{"/favorites"}},
		{"/favorites/fvrt_1", []string{"/favorites/fvrt_1", "/favorites"}},
		{"/users/usr_1", []string{"/users/usr_1", "/users", "/auth/user"}},
		{"/auth/user/friends/usr_1", []string{"/auth/user/friends/usr_1", "/auth/user/friends", "/auth/user"}},
		{"/user/usr_1/friendRequest", []string{"/user/usr_1/friendRequest", "/user/usr_1", "/user", "/users/usr_1"}},
		{"/auth/user/notifications/not_1/accept", []string{
			"/auth/user/notifications/not_1/accept", "/auth/user/notifications/not_1",
			"/auth/user/notifications", "/auth/user", "/auth/user/friends",
		}},
		{"/auth/user/unplayermoderate", []string{"/auth/user/unplayermoderate", "/auth/user", "/auth/user/playermoderations"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, stalePaths(tt.path))
		})
	}
}

func TestRouteTemplate(t *testing.T) {
	assert.Equal(t, "/users/{id}", RouteTemplate("/users/usr_1"))
	assert.Equal(t, "/users/{id}/avatars", RouteTemplate("/users/usr_2/avatars"))
	assert.Equal(t, "/instances/{id}", RouteTemplate("/instances/wrld_1:12345~private"))
	assert.Equal(t, "/auth/user/friends", RouteTemplate("/auth/user/friends"))
}

func TestParseAPIError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantCode    string
	}{
		{"nested envelope", 404, `{"error":{"message":"\"User Not Found\"","status_code":404}}`, "User Not Found", ""},
		{"unquoted nested message", 401, `{"error":{"message":"Missing Credentials","status_code":401}}`, "Missing Credentials", ""},
		{"flat envelope", 400, `{"error":"Bad request","code":"BAD_REQUEST"}`, "Bad request", "BAD_REQUEST"},
		{"plain text", 502, "Bad Gateway\n", "Bad Gateway", ""},
		{"empty body", 500, "", "HTTP 500 error", ""},
		{"json without error field", 503, `{"status":"down"}`, `{"status":"down"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := parseAPIError(tt.status, []byte(tt.body))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, tt.wantCode, apiErr.Code)
		})
	}
}
