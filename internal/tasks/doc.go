// Package tasks implements the MovieHub client's user flows on top of [services.Service].
//
// # Core Operations
//
// [MovieEngine] drives every flow the CLI and TUI share:
//
//  1. [MovieEngine.Browse] : fetch the catalog once, then filter and sort it client-side
//  2. [MovieEngine.LoadDetail] : fetch a movie and its reviews concurrently and aggregate the rating
//  3. [MovieEngine.SubmitReview] : auth-gated review submission followed by a full detail reload
//  4. [MovieEngine.Login], [MovieEngine.Register], [MovieEngine.Logout] : session flows
//  5. [MovieEngine.Export] : write every movie and its reviews to disk with a rate-limited worker pool
//  6. [MovieEngine.Sync] : snapshot the catalog into the local cache for offline browsing
//
// [MovieSubmitter] handles the add-movie form and refuses overlapping submissions.
//
// # Pure Helpers
//
// [FilterMovies], [SortMovies], [AverageRating] and [FormatAverage] hold the list and rating rules
// and never touch the network.
//
// # Progress Reporting
//
// Long operations accept an optional progress channel. Updates are sent with select/default so a
// slow or absent reader never blocks the operation.
package tasks
