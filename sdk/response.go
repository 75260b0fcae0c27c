package sdk

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// encodeQuery turns params into a sorted query string. Slices repeat the key.
func encodeQuery(params Params, apiKey string) string {
	values := url.Values{}
	for key, v := range params {
		switch val := v.(type) {
		case nil:
		case []string:
			for _, s := range val {
				values.Add(key, s)
			}
		default:
			values.Set(key, formatParam(val))
		}
	}
	if apiKey != "" {
		values.Set("apiKey", apiKey)
	}
	return values.Encode()
}

func formatParam(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// encodeBody marshals params as the JSON request body. Nil params send no body.
func encodeBody(params Params) ([]byte, error) {
	if params == nil {
		return nil, nil
	}
	data, err := json.Marshal(params)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("failed to marshal request body: %v", err), err)
	}
	return data, nil
}

// cacheKey identifies a GET response. The query is sorted by encodeQuery so
// equal params produce equal keys.
func cacheKey(path, query string) string {
	if query == "" {
		return "vrc:" + path
	}
	return "vrc:" + path + "?" + query
}

// stalePaths lists the GET paths a write to path may have changed: the path
// itself, every parent collection, and views the route is known to affect
// elsewhere. Callers evict each path with and without a query string.
//
//	DELETE /favorites/fvrt_1                 -> /favorites/fvrt_1, /favorites
//	DELETE /auth/user/friends/usr_1          -> ..., /auth/user/friends, /auth/user
//	PUT /auth/user/notifications/not_1/accept -> ..., /auth/user, /auth/user/friends
func stalePaths(path string) []string {
	path = strings.TrimSuffix(path, "/")
	paths := []string{path}
	for p := path; ; {
		i := strings.LastIndex(p, "/")
		if i <= 0 {
			break
		}
		p = p[:i]
		if p != "/auth" {
			paths = append(paths, p)
		}
	}

	segments := strings.Split(path, "/")
	switch {
	case strings.HasPrefix(path, "/users/"):
		paths = append(paths, "/auth/user")
	case len(segments) == 4 && segments[1] == "user" && segments[3] == "friendRequest":
		paths = append(paths, "/users/"+segments[2])
	case strings.HasPrefix(path, "/auth/user/notifications/") && strings.HasSuffix(path, "/accept"):
		paths = append(paths, "/auth/user/friends")
	case path == "/auth/user/unplayermoderate":
		paths = append(paths, "/auth/user/playermoderations")
	}
	return paths
}

// RouteTemplate collapses entity ids in path so that every user, world or
// instance shares one route: /users/usr_123/avatars becomes /users/{id}/avatars.
func RouteTemplate(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if isIDSegment(seg) {
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}

var idPrefixes = []string{"usr_", "wrld_", "avtr_", "fvrt_", "not_", "pmod_", "grp_", "file_"}

func isIDSegment(seg string) bool {
	for _, p := range idPrefixes {
		if strings.HasPrefix(seg, p) {
			return true
		}
	}
	// instance ids: wrld_x:12345~private(...)
	return strings.Contains(seg, ":")
}

// BuildPath fills {0}, {1}, ... placeholders with escaped arguments.
//
//	sdk.BuildPath("/users/{0}", "usr_a b")      // "/users/usr_a%20b"
//	sdk.BuildPath("/instances/{0}:{1}", w, i)  // "/instances/wrld_x:12345~private"
func BuildPath(pattern string, args ...string) string {
	path := pattern
	for i, arg := range args {
		placeholder := "{" + strconv.Itoa(i) + "}"
		escaped := strings.ReplaceAll(url.QueryEscape(arg), "+", "%20")
		// Instance ids carry ( ) which are path-safe.
		escaped = strings.NewReplacer("%28", "(", "%29", ")").Replace(escaped)
		path = strings.Replace(path, placeholder, escaped, 1)
	}
	return path
}

// vrchatErrorBody is the envelope the API uses for failures.
type vrchatErrorBody struct {
	Error json.RawMessage `json:"error"`
	Code  string          `json:"code"`
}

type vrchatErrorDetail struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

// parseAPIError turns a non-2xx body into an *APIError. It understands
//
//	{"error": {"message": "\"Not Found\"", "status_code": 404}}
//	{"error": "Not Found", "code": "NOT_FOUND"}
//
// and falls back to the raw body, or "HTTP <status> error" when empty.
func parseAPIError(statusCode int, body []byte) *APIError {
	if len(body) == 0 {
		return &APIError{
			StatusCode: statusCode,
			Message:    fmt.Sprintf("HTTP %d error", statusCode),
		}
	}

	var envelope vrchatErrorBody
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		return &APIError{
			StatusCode: statusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	apiErr := &APIError{StatusCode: statusCode, Code: envelope.Code}

	var detail vrchatErrorDetail
	if err := json.Unmarshal(envelope.Error, &detail); err == nil {
		apiErr.Message = unquoteMessage(detail.Message)
		return apiErr
	}

	var message string
	if err := json.Unmarshal(envelope.Error, &message); err == nil {
		apiErr.Message = unquoteMessage(message)
		return apiErr
	}

	apiErr.Message = string(envelope.Error)
	return apiErr
}

// unquoteMessage strips the extra quotes the API wraps messages in.
func unquoteMessage(s string) string {
	if unq, err := strconv.Unquote(s); err == nil {
		return unq
	}
	return s
}

// sortedKeys is used to log params deterministically.
func sortedKeys(params Params) []string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
