// Package site assembles full HTML pages from store content and writes them
// to an output directory.
package site

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aymerick/raymond"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/assets"
	"github.com/alnah/go-folio/internal/content"
	"github.com/alnah/go-folio/internal/fileutil"
)

// Sentinel errors for site builds.
var (
	ErrTemplate  = errors.New("template rendering failed")
	ErrWritePage = errors.New("writing page failed")
)

const styleHref = "/styles/site.css"

// ContentSource is the slice of the content store the builder consumes.
type ContentSource interface {
	SiteSettings(ctx context.Context) *content.SiteSettings
	Posts(ctx context.Context) []content.Post
	FeaturedPosts(ctx context.Context) []content.Post
	PostBySlug(ctx context.Context, slug string) *content.Post
	Projects(ctx context.Context) []content.Project
	FeaturedProjects(ctx context.Context) []content.Project
	Jobs(ctx context.Context) []content.Job
}

// Meta holds site-wide copy that is not stored in the content store.
type Meta struct {
	Title       string
	Description string
	BaseURL     string
	Author      string
}

// Builder renders every page of the site into an output directory.
type Builder struct {
	source   ContentSource
	meta     Meta
	outDir   string
	renderer *folio.Renderer
	assets   assets.Loader
	images   folio.ImageURLBuilder
	log      zerolog.Logger
	now      func() time.Time

	mu        sync.Mutex
	templates map[string]*raymond.Template
}

// Option configures a Builder.
type Option func(*Builder)

// WithRenderer replaces the document renderer.
func WithRenderer(r *folio.Renderer) Option {
	return func(b *Builder) {
		if r == nil {
			panic("site: nil renderer")
		}
		b.renderer = r
	}
}

// WithAssets replaces the template and style loader.
func WithAssets(loader assets.Loader) Option {
	return func(b *Builder) {
		if loader == nil {
			panic("site: nil asset loader")
		}
		b.assets = loader
	}
}

// WithImages sets the builder used to resolve cover image references.
func WithImages(images folio.ImageURLBuilder) Option {
	return func(b *Builder) { b.images = images }
}

// WithLogger sets the build logger.
func WithLogger(log zerolog.Logger) Option {
	return func(b *Builder) { b.log = log }
}

// WithClock overrides the time source used for footer years and relative
// dates. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now == nil {
			panic("site: nil clock")
		}
		b.now = now
	}
}

// NewBuilder creates a Builder writing into outDir.
func NewBuilder(source ContentSource, meta Meta, outDir string, opts ...Option) *Builder {
	if source == nil {
		panic("site: nil content source")
	}
	b := &Builder{
		source:    source,
		meta:      meta,
		outDir:    outDir,
		renderer:  folio.NewRenderer(),
		assets:    assets.NewEmbeddedLoader(),
		log:       zerolog.Nop(),
		now:       time.Now,
		templates: map[string]*raymond.Template{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

var helpersOnce sync.Once

// registerHelpers installs the template helpers. Raymond helpers are global,
// so registration happens once per process.
func registerHelpers() {
	helpersOnce.Do(func() {
		raymond.RegisterHelper("eq", func(a, b interface{}, options *raymond.Options) interface{} {
			if fmt.Sprint(a) == fmt.Sprint(b) {
				return options.Fn()
			}
			return options.Inverse()
		})
	})
}

// Build fetches all content and writes the whole site: the landing page,
// the blog index and every post, the projects page, the experience page,
// and the stylesheet. Fetch failures degrade to empty sections; template
// and write failures abort the build.
func (b *Builder) Build(ctx context.Context) error {
	registerHelpers()

	settings := b.source.SiteSettings(ctx)
	posts := b.source.Posts(ctx)

	if err := b.buildIndex(ctx, settings); err != nil {
		return err
	}
	if err := b.buildPostList(ctx, settings, posts); err != nil {
		return err
	}
	for _, p := range posts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.buildPost(ctx, settings, p.Slug.Current); err != nil {
			return err
		}
	}
	if err := b.buildProjects(ctx, settings); err != nil {
		return err
	}
	if err := b.buildExperience(ctx, settings); err != nil {
		return err
	}
	return b.writeStyles()
}

func (b *Builder) buildIndex(ctx context.Context, settings *content.SiteSettings) error {
	data := map[string]interface{}{
		"featuredPosts":    b.postViews(b.source.FeaturedPosts(ctx)),
		"featuredProjects": b.projectViews(b.source.FeaturedProjects(ctx)),
	}
	if settings != nil {
		data["name"] = settings.Name
		data["title"] = settings.Title
		data["bio"] = settings.Bio
		data["location"] = settings.Location
	} else {
		data["name"] = b.meta.Title
	}
	return b.writePage("index", "", b.meta.Title, settings, data, "index.html")
}

func (b *Builder) buildPostList(ctx context.Context, settings *content.SiteSettings, posts []content.Post) error {
	data := map[string]interface{}{"posts": b.postViews(posts)}
	return b.writePage("posts", "blog", "Blog | "+b.meta.Title, settings, data, "blog/index.html")
}

func (b *Builder) buildPost(ctx context.Context, settings *content.SiteSettings, slug string) error {
	post := b.source.PostBySlug(ctx, slug)
	if post == nil {
		b.log.Warn().Str("slug", slug).Msg("post listed but not fetchable, skipping page")
		return nil
	}

	// Render only fails on context cancellation; malformed nodes degrade
	// inside the renderer.
	doc, err := b.renderer.Render(ctx, post.Body)
	if err != nil {
		return err
	}

	data := map[string]interface{}{
		"title":    post.Title,
		"date":     post.PublishedAt.Format("January 2, 2006"),
		"dateISO":  post.PublishedAt.Format(time.RFC3339),
		"relative": humanize.RelTime(post.PublishedAt, b.now(), "ago", "from now"),
		"tags":     post.Tags,
		"toc":      raymond.SafeString(doc.TOC),
		"body":     raymond.SafeString(doc.Body),
	}
	if url := b.coverURL(post.CoverImage); url != "" {
		data["coverImage"] = url
	}

	rel := fmt.Sprintf("blog/%s/index.html", slug)
	return b.writePage("post", "blog", post.Title+" | "+b.meta.Title, settings, data, rel)
}

func (b *Builder) buildProjects(ctx context.Context, settings *content.SiteSettings) error {
	data := map[string]interface{}{"projects": b.projectViews(b.source.Projects(ctx))}
	return b.writePage("projects", "projects", "Projects | "+b.meta.Title, settings, data, "projects/index.html")
}

func (b *Builder) buildExperience(ctx context.Context, settings *content.SiteSettings) error {
	jobs := b.source.Jobs(ctx)
	views := make([]map[string]interface{}, 0, len(jobs))
	for _, j := range jobs {
		views = append(views, map[string]interface{}{
			"role":     j.Role,
			"company":  j.Company,
			"period":   formatPeriod(j.StartDate, j.EndDate),
			"location": j.Location,
			"bullets":  j.Bullets,
			"tech":     strings.Join(j.Tech, ", "),
		})
	}
	data := map[string]interface{}{"jobs": views}
	return b.writePage("experience", "experience", "Experience | "+b.meta.Title, settings, data, "experience/index.html")
}

func (b *Builder) postViews(posts []content.Post) []map[string]interface{} {
	views := make([]map[string]interface{}, 0, len(posts))
	for _, p := range posts {
		views = append(views, map[string]interface{}{
			"title":   p.Title,
			"slug":    p.Slug.Current,
			"excerpt": p.Excerpt,
			"date":    p.PublishedAt.Format("January 2, 2006"),
			"dateISO": p.PublishedAt.Format(time.RFC3339),
		})
	}
	return views
}

func (b *Builder) projectViews(projects []content.Project) []map[string]interface{} {
	views := make([]map[string]interface{}, 0, len(projects))
	for _, p := range projects {
		v := map[string]interface{}{
			"title":   p.Title,
			"slug":    p.Slug.Current,
			"tagline": p.Tagline,
			"summary": p.Summary,
			"tech":    strings.Join(p.Tech, ", "),
		}
		if p.Year > 0 {
			v["year"] = p.Year
		}
		if p.Links != nil {
			v["liveUrl"] = p.Links.LiveURL
			v["gitUrl"] = p.Links.GitURL
		}
		views = append(views, v)
	}
	return views
}

func (b *Builder) coverURL(img *content.Image) string {
	if img == nil || img.Asset.Ref == "" || b.images == nil {
		return ""
	}
	url, err := b.images.URLFor(img.Asset.Ref, 1200, 630)
	if err != nil {
		b.log.Warn().Err(err).Str("ref", img.Asset.Ref).Msg("cover image skipped")
		return ""
	}
	return url
}

// writePage renders a body template, wraps it in the layout, and writes it.
func (b *Builder) writePage(tmplName, section, pageTitle string, settings *content.SiteSettings, data map[string]interface{}, rel string) error {
	body, err := b.exec(tmplName, data)
	if err != nil {
		return err
	}

	author := b.meta.Author
	if author == "" && settings != nil {
		author = settings.Name
	}
	layoutData := map[string]interface{}{
		"pageTitle":   pageTitle,
		"description": b.meta.Description,
		"stylesHref":  styleHref,
		"siteTitle":   b.meta.Title,
		"section":     section,
		"author":      author,
		"year":        b.now().Year(),
	}
	if settings != nil && settings.Socials != nil {
		layoutData["socials"] = map[string]interface{}{
			"github":   settings.Socials.GitHub,
			"linkedin": settings.Socials.LinkedIn,
			"twitter":  settings.Socials.Twitter,
		}
	}
	layoutData["content"] = raymond.SafeString(body)

	page, err := b.exec("layout", layoutData)
	if err != nil {
		return err
	}

	if err := fileutil.WriteFile(b.outDir, rel, []byte(page)); err != nil {
		return fmt.Errorf("%w: %w", ErrWritePage, err)
	}
	b.log.Debug().Str("page", rel).Msg("page written")
	return nil
}

func (b *Builder) exec(name string, data map[string]interface{}) (string, error) {
	tmpl, err := b.template(name)
	if err != nil {
		return "", err
	}
	out, err := tmpl.Exec(data)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTemplate, name, err)
	}
	return out, nil
}

func (b *Builder) template(name string) (*raymond.Template, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if tmpl, ok := b.templates[name]; ok {
		return tmpl, nil
	}
	src, err := b.assets.LoadTemplate(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplate, name, err)
	}
	tmpl, err := raymond.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplate, name, err)
	}
	b.templates[name] = tmpl
	return tmpl, nil
}

func (b *Builder) writeStyles() error {
	css, err := b.assets.LoadStyle("site")
	if err != nil {
		return fmt.Errorf("%w: site style: %v", ErrTemplate, err)
	}
	if err := fileutil.WriteFile(b.outDir, "styles/site.css", []byte(css)); err != nil {
		return fmt.Errorf("%w: %w", ErrWritePage, err)
	}
	return nil
}

// formatPeriod renders a job date range like "Jan 2022 - Present". Dates
// come in as "2006-01-02" or "2006-01" strings; unparseable values pass
// through untouched.
func formatPeriod(start, end string) string {
	from := formatMonth(start)
	to := "Present"
	if end != "" {
		to = formatMonth(end)
	}
	return from + " - " + to
}

func formatMonth(date string) string {
	for _, layout := range []string{"2006-01-02", "2006-01"} {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format("Jan 2006")
		}
	}
	return date
}
