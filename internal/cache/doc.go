// Package cache stores GitHub API responses on disk so repeated listings of
// an organization do not hit the API.
//
// The cache is a single JSON file, by default in ~/.cache/orgit/:
//
//	{
//	  "entries": {
//	    "GET https://api.github.com/orgs/horde/repos": {
//	      "data": [ ... ],
//	      "cached_at": "2026-10-14T09:12:44Z"
//	    }
//	  }
//	}
//
// Entries older than the configured maximum age (24 hours unless configured)
// are ignored on read and dropped on the next write.
//
// # Concurrency
//
// Reads and writes hold an exclusive flock on http-cache.lock. Writes go
// through a temp file and a rename.
package cache
