// Package models defines the MovieHub entities exchanged with the remote API and the form drafts built locally.
//
// The package contains two categories of types:
//
// 1. API entities, shaped by the external service's JSON:
//   - [Movie] : catalog entry identified by a server-assigned id
//   - [Review] : 1–5 star rating with a comment, attached to one movie
//   - [TokenResponse] : login result carrying the opaque bearer token
//   - [APIMessage] : error body with either "message" or "detail"
//
// 2. Drafts, collected by forms and validated before any request is made:
//   - [MovieDraft] : add-movie form (title, year, description)
//   - [ReviewDraft] : review form (movie, rating, comment)
//   - [Credentials] and [Registration] : login and register forms
//
// Validation uses go-playground/validator struct tags and reports failures as a [ValidationError],
// whose messages are safe to show as-is. Nothing here enforces invariants on the server's behalf.
package models
