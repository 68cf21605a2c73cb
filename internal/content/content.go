// Package content fetches documents from a Sanity-compatible content store
// over its HTTP query API.
//
// The low-level Query method reports transport and store errors. The typed
// getters (Posts, Projects, SiteSettings, ...) never do: a page build should
// degrade to an empty section rather than abort, so they log the failure and
// return empty results.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrMissingProject is returned by New when the project or dataset
	// identifiers are empty.
	ErrMissingProject = errors.New("missing project or dataset")
	// ErrQuery wraps transport, status, and decode failures from the store.
	ErrQuery = errors.New("content query failed")
)

// DefaultAPIVersion pins the store API date used when none is configured.
const DefaultAPIVersion = "2024-01-01"

const defaultTimeout = 15 * time.Second

// Client queries one project and dataset.
type Client struct {
	projectID  string
	dataset    string
	apiVersion string
	token      string
	baseURL    string
	http       *http.Client
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets a read token sent as a bearer credential.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithAPIVersion overrides the store API version date.
func WithAPIVersion(version string) Option {
	return func(c *Client) {
		if version == "" {
			panic("content: empty api version")
		}
		c.apiVersion = version
	}
}

// WithCDN routes queries through the store's CDN edge. Responses may be
// stale by a few minutes, which is fine for static builds.
func WithCDN() Option {
	return func(c *Client) {
		c.baseURL = fmt.Sprintf("https://%s.apicdn.sanity.io", c.projectID)
	}
}

// WithBaseURL points the client at an arbitrary endpoint.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base == "" {
			panic("content: empty base url")
		}
		c.baseURL = base
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h == nil {
			panic("content: nil http client")
		}
		c.http = h
	}
}

// WithLogger sets the logger used when typed getters degrade.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New returns a Client for the given project and dataset.
func New(projectID, dataset string, opts ...Option) (*Client, error) {
	if projectID == "" || dataset == "" {
		return nil, fmt.Errorf("%w: projectID=%q dataset=%q", ErrMissingProject, projectID, dataset)
	}
	c := &Client{
		projectID:  projectID,
		dataset:    dataset,
		apiVersion: DefaultAPIVersion,
		baseURL:    fmt.Sprintf("https://%s.api.sanity.io", projectID),
		http:       &http.Client{Timeout: defaultTimeout},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Query runs a GROQ query with optional string parameters and decodes the
// result envelope into out. A null result leaves out untouched.
func (c *Client) Query(ctx context.Context, groq string, params map[string]string, out any) error {
	vals := url.Values{}
	vals.Set("query", groq)
	for k, v := range params {
		vals.Set("$"+k, strconv.Quote(v))
	}
	endpoint := fmt.Sprintf("%s/v%s/data/query/%s?%s", c.baseURL, c.apiVersion, c.dataset, vals.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrQuery, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrQuery, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrQuery, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrQuery, resp.StatusCode)
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("%w: decode envelope: %w", ErrQuery, err)
	}
	if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("%w: decode result: %w", ErrQuery, err)
	}
	return nil
}

func (c *Client) degrade(name string, err error) {
	c.log.Warn().Err(err).Str("query", name).Msg("content fetch degraded to empty result")
}

// SiteSettings returns the singleton settings document, or nil when the
// store has none or the fetch fails.
func (c *Client) SiteSettings(ctx context.Context) *SiteSettings {
	var s *SiteSettings
	if err := c.Query(ctx, siteSettingsQuery, nil, &s); err != nil {
		c.degrade("siteSettings", err)
		return nil
	}
	return s
}

// Posts returns all posts, newest first. Never nil.
func (c *Client) Posts(ctx context.Context) []Post {
	return c.postList(ctx, "posts", postsQuery)
}

// FeaturedPosts returns featured posts, newest first. Never nil.
func (c *Client) FeaturedPosts(ctx context.Context) []Post {
	return c.postList(ctx, "featuredPosts", featuredPostsQuery)
}

func (c *Client) postList(ctx context.Context, name, groq string) []Post {
	posts := []Post{}
	if err := c.Query(ctx, groq, nil, &posts); err != nil {
		c.degrade(name, err)
		return []Post{}
	}
	return posts
}

// PostBySlug returns one post including its body, or nil when absent.
func (c *Client) PostBySlug(ctx context.Context, slug string) *Post {
	var p *Post
	if err := c.Query(ctx, postBySlugQuery, map[string]string{"slug": slug}, &p); err != nil {
		c.degrade("postBySlug", err)
		return nil
	}
	return p
}

// PostSlugs returns the slugs of every post. Never nil.
func (c *Client) PostSlugs(ctx context.Context) []string {
	return c.slugList(ctx, "postSlugs", postSlugsQuery)
}

// Projects returns all projects, newest first. Never nil.
func (c *Client) Projects(ctx context.Context) []Project {
	return c.projectList(ctx, "projects", projectsQuery)
}

// FeaturedProjects returns featured projects, newest first. Never nil.
func (c *Client) FeaturedProjects(ctx context.Context) []Project {
	return c.projectList(ctx, "featuredProjects", featuredProjectsQuery)
}

func (c *Client) projectList(ctx context.Context, name, groq string) []Project {
	projects := []Project{}
	if err := c.Query(ctx, groq, nil, &projects); err != nil {
		c.degrade(name, err)
		return []Project{}
	}
	return projects
}

// ProjectBySlug returns one project, or nil when absent.
func (c *Client) ProjectBySlug(ctx context.Context, slug string) *Project {
	var p *Project
	if err := c.Query(ctx, projectBySlugQuery, map[string]string{"slug": slug}, &p); err != nil {
		c.degrade("projectBySlug", err)
		return nil
	}
	return p
}

// ProjectSlugs returns the slugs of every project. Never nil.
func (c *Client) ProjectSlugs(ctx context.Context) []string {
	return c.slugList(ctx, "projectSlugs", projectSlugsQuery)
}

// Jobs returns all jobs, most recent first. Never nil.
func (c *Client) Jobs(ctx context.Context) []Job {
	jobs := []Job{}
	if err := c.Query(ctx, jobsQuery, nil, &jobs); err != nil {
		c.degrade("jobs", err)
		return []Job{}
	}
	return jobs
}

func (c *Client) slugList(ctx context.Context, name, groq string) []string {
	var rows []struct {
		Slug Slug `json:"slug"`
	}
	if err := c.Query(ctx, groq, nil, &rows); err != nil {
		c.degrade(name, err)
		return []string{}
	}
	slugs := []string{}
	for _, r := range rows {
		if r.Slug.Current != "" {
			slugs = append(slugs, r.Slug.Current)
		}
	}
	return slugs
}
