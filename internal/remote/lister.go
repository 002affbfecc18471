package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/goerr/v2"

	"github.com/raphi011/orgit/internal/log"
)

var (
	// ErrListing is returned when the organization listing cannot be fetched.
	ErrListing = goerr.New("failed to list repositories")

	// ErrInvalidEndpoint is returned for unusable API or raw content URLs.
	ErrInvalidEndpoint = goerr.New("invalid endpoint")
)

// DefaultMarkerRef is probed when neither a ref is configured nor the API
// reports a default branch.
const DefaultMarkerRef = "master"

// Repository is a repository of the organization as reported by the API.
type Repository struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	CloneURL      string `json:"clone_url"`
	Description   string `json:"description,omitempty"`
	Archived      bool   `json:"archived,omitempty"`
}

// Repositories maps repository name to details.
type Repositories map[string]Repository

// Names returns the repository names in sorted order.
func (r Repositories) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Cache stores response bodies by request key.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, data []byte) error
}

// Progress receives a status line while repositories are probed.
type Progress interface {
	UpdateMessage(msg string)
}

// Options configures a Lister.
type Options struct {
	APIURL     string // REST API base, e.g. https://api.github.com/
	RawURL     string // raw content host, e.g. https://raw.githubusercontent.com
	UserAgent  string
	MarkerFile string
	MarkerRef  string // empty = repository default branch

	HTTPClient *http.Client
	Prober     Prober   // default: HTTPProber on HTTPClient
	Cache      Cache    // optional
	Progress   Progress // optional
	Logger     *log.Logger
}

// Lister lists organization repositories that carry the marker file.
type Lister struct {
	gh         *github.Client
	rawURL     string
	markerFile string
	markerRef  string
	prober     Prober
	cache      Cache
	progress   Progress
	log        *log.Logger
}

// New creates a Lister from opts.
func New(opts Options) (*Lister, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	gh := github.NewClient(httpClient)
	if opts.APIURL != "" {
		base, err := parseBase(opts.APIURL)
		if err != nil {
			return nil, err
		}
		gh.BaseURL = base
	}
	if opts.UserAgent != "" {
		gh.UserAgent = opts.UserAgent
	}

	rawURL := strings.TrimRight(opts.RawURL, "/")
	if rawURL == "" {
		return nil, goerr.Wrap(ErrInvalidEndpoint, "raw content URL is empty")
	}

	prober := opts.Prober
	if prober == nil {
		prober = &HTTPProber{Client: httpClient, UserAgent: opts.UserAgent}
	}

	l := opts.Logger
	if l == nil {
		l = log.FromContext(context.Background())
	}

	return &Lister{
		gh:         gh,
		rawURL:     rawURL,
		markerFile: opts.MarkerFile,
		markerRef:  opts.MarkerRef,
		prober:     prober,
		cache:      opts.Cache,
		progress:   opts.Progress,
		log:        l,
	}, nil
}

func parseBase(raw string) (*url.URL, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, goerr.Wrap(ErrInvalidEndpoint, "API URL must be an absolute URL", goerr.V("url", raw))
	}
	return u, nil
}

// List returns the repositories of org that contain the marker file.
func (x *Lister) List(ctx context.Context, org string) (Repositories, error) {
	all, err := x.listOrg(ctx, org)
	if err != nil {
		return nil, err
	}

	result := make(Repositories, len(all))
	for i, repo := range all {
		if x.progress != nil {
			x.progress.UpdateMessage(fmt.Sprintf("Checking %s (%d/%d)", repo.Name, i+1, len(all)))
		}

		ok, err := x.hasMarker(ctx, org, repo)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			x.log.Debug("Skipping repository, marker probe failed", "repo", repo.Name, "error", err)
			continue
		}
		if !ok {
			x.log.Debug(fmt.Sprintf("Skipping %s as it does not contain a %s file", repo.Name, x.markerFile), "org", org)
			continue
		}
		result[repo.Name] = repo
	}

	return result, nil
}

func (x *Lister) listingKey(org string) string {
	return "GET " + x.gh.BaseURL.String() + "orgs/" + org + "/repos"
}

// listOrg returns every repository of org, from the cache when possible.
func (x *Lister) listOrg(ctx context.Context, org string) ([]Repository, error) {
	key := x.listingKey(org)
	if x.cache != nil {
		if data, ok := x.cache.Get(key); ok {
			var cached []Repository
			if err := json.Unmarshal(data, &cached); err == nil {
				x.log.Debug("Using cached repository listing", "org", org, "count", len(cached))
				return cached, nil
			}
		}
	}

	var repos []Repository
	opts := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		page, resp, err := x.gh.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			status := 0
			if resp != nil {
				status = resp.StatusCode
			}
			return nil, goerr.Wrap(fmt.Errorf("%w: %w", ErrListing, err), "GitHub API request failed",
				goerr.V("org", org),
				goerr.V("page", opts.Page),
				goerr.V("status", status),
			)
		}

		for _, r := range page {
			repos = append(repos, fromGitHub(r))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if x.cache != nil {
		if data, err := json.Marshal(repos); err == nil {
			if err := x.cache.Set(key, data); err != nil {
				x.log.Debug("Failed to cache repository listing", "org", org, "error", err)
			}
		}
	}

	return repos, nil
}

func fromGitHub(r *github.Repository) Repository {
	return Repository{
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		DefaultBranch: r.GetDefaultBranch(),
		CloneURL:      r.GetCloneURL(),
		Description:   r.GetDescription(),
		Archived:      r.GetArchived(),
	}
}

// MarkerURL returns the raw content URL probed for repo.
func (x *Lister) MarkerURL(org string, repo Repository) string {
	ref := x.markerRef
	if ref == "" {
		ref = repo.DefaultBranch
	}
	if ref == "" {
		ref = DefaultMarkerRef
	}
	return strings.Join([]string{x.rawURL, url.PathEscape(org), url.PathEscape(repo.Name), ref, x.markerFile}, "/")
}

// hasMarker reports whether the marker file of repo answers 200.
// 200 and 404 answers are cached; anything else is probed again next time.
func (x *Lister) hasMarker(ctx context.Context, org string, repo Repository) (bool, error) {
	target := x.MarkerURL(org, repo)
	key := "GET " + target

	if x.cache != nil {
		if data, ok := x.cache.Get(key); ok {
			var status int
			if err := json.Unmarshal(data, &status); err == nil {
				return status == http.StatusOK, nil
			}
		}
	}

	status, err := x.prober.Probe(ctx, target)
	if err != nil {
		return false, goerr.Wrap(err, "marker probe failed", goerr.V("url", target))
	}

	if x.cache != nil && (status == http.StatusOK || status == http.StatusNotFound) {
		if err := x.cache.Set(key, []byte(fmt.Sprint(status))); err != nil {
			x.log.Debug("Failed to cache marker probe", "url", target, "error", err)
		}
	}

	return status == http.StatusOK, nil
}
