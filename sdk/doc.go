// Package sdk is the HTTP transport for the VRChat REST API.
//
// It performs a single logical request per Call, handling retries with
// exponential backoff, optional circuit breaking, optional caching of GET
// payloads and OpenTelemetry spans. Entity types and their behavior live in
// the objects package, which depends only on the Caller interface defined here.
//
// # Basic Usage
//
//	client, err := sdk.NewClient(sdk.DefaultConfig().
//	    WithAuthCookie(os.Getenv("VRC_AUTH_COOKIE")).
//	    WithUserAgent("my-tool/1.0 me@example.com"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	resp, err := client.Call(ctx, sdk.BuildPath("/users/{0}", userID), "", nil)
//	if sdk.IsNotFound(err) {
//	    // no such user
//	}
//
// # Parameters
//
// For GET and DELETE, Params are encoded into the query string. For POST and
// PUT they are marshaled as the JSON body:
//
//	client.Call(ctx, "/favorites", http.MethodPost, sdk.Params{
//	    "type":       types.FavoriteTypeWorld,
//	    "favoriteId": worldID,
//	})
//
// # Error Handling
//
// Failures are returned as *Error values classified by ErrorType. Use
// errors.Is with the package sentinels, or the helpers:
//
//	if errors.Is(err, sdk.ErrCircuitOpen) { ... }
//	if sdk.IsRetryable(err) { ... }
//
// Non-2xx replies wrap an *APIError carrying the status code and the message
// from the API's error envelope.
//
// # Caching
//
// WithResponseCache stores successful GET payloads, keyed by path and query
// without the API key. A successful POST, PUT or DELETE evicts the cached
// GETs for that path and its parent collections, with every query variant,
// so DELETE /auth/user/friends/usr_1 also drops /auth/user/friends?offline=false.
//
// # Retries
//
// GET, PUT and DELETE are retried on server errors. POST is not, unless
// WithNonIdempotentRetries is set.
package sdk
