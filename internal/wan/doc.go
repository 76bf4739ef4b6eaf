// Package wan provides an HTTP client for the WanAndroid article service.
//
// # Overview
//
// The client is the transport boundary of wanreader. Every endpoint answers
// with the same envelope:
//
//	{"data": ..., "errorCode": 0, "errorMsg": ""}
//
// Methods return that envelope untouched. A non-zero errorCode is not a Go
// error at this layer; it is an application answer that the result package
// turns into a failure outcome. Go errors are reserved for transport faults.
//
// # Endpoints
//
//   - POST user/login (form: username, password)
//   - POST user/register (form: username, password, repassword)
//   - GET  article/list/{page}/json
//   - GET  lg/collect/list/{page}/json
//   - POST lg/collect/{id}/json
//   - POST lg/uncollect_originId/{originId}/json
//   - GET  user/logout/json
//
// Paths are resolved relative to the configured base URL, so a base of
// https://host/api/ produces https://host/api/user/login.
//
// # Sessions
//
// The service authenticates with cookies set by user/login. Install a jar
// with WithJar (session.Jar persists cookies across restarts) and every later
// call carries the session.
//
// # Error Handling
//
// Transport errors are wrapped with fmt.Errorf:
//
//   - "execute request: dial tcp: connection refused"
//   - "api lg/collect/5/json returned status 500"
//   - "decode response: unexpected end of JSON input"
//   - "wait for request slot: context canceled"
//
// # Timeouts and Pacing
//
// Connect, response-header and overall request timeouts default to 30s and
// are set together through WithTimeout. WithRateLimit paces requests with a
// token bucket; there are no retries.
package wan
