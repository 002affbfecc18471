// Package remote lists the repositories of a GitHub organization.
//
// [Lister.List] pages through GET /orgs/{org}/repos with go-github and keeps
// only repositories that contain a marker file (horde.yml by default), checked
// with one GET per repository against the raw content host. A probe that does
// not answer 200 removes the repository from the listing; it never fails the
// listing itself.
//
// All requests share one *http.Client from [NewHTTPClient], which retries
// connection errors and 5xx responses with go-retryablehttp. Responses can be
// cached on disk through the [Cache] interface, implemented by cache.Store.
package remote
