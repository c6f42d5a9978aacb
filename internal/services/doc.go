// Package services implements the HTTP client for the MovieHub API.
//
// # Service Interface
//
// [Service] lists every remote call the client makes. [MovieHubService] implements it over
// net/http; tests substitute the mock in internal/testing.
//
// # Authentication
//
// Bearer tokens come from an [oauth2.TokenSource] backed by the session store, read on every
// request, using the request's context when the source supports it. When the session is empty the request goes out without an Authorization header and
// the API decides whether to accept it. The client never refreshes or inspects tokens.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrConnection] : the request never produced a response
//   - [shared.ErrAPIRequest] : non-2xx status, carried by [*APIError] with the server's message
//   - [shared.ErrDecode] : 2xx response with a body that is not the expected JSON
//   - [shared.ErrMovieNotFound] : GetMovie on an unknown id, answered with 404 or null
//   - [shared.ErrInvalidCredentials] : login rejected ([*LoginError]) or answered without a token
//
// Only [*LoginError] shows the server's message to people; every other status failure
// displays the generic connection message.
//
// Nothing is retried. Timeouts come from configuration (zero disables them) and every call
// honours context cancellation.
//
// # Raw Access
//
// [APIService] sends arbitrary GET/POST requests and returns the raw response, for the
// `moviehub api` debugging commands.
package services
