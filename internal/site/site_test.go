package site

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/content"
)

type fakeSource struct {
	settings *content.SiteSettings
	posts    []content.Post
	featured []content.Post
	bySlug   map[string]*content.Post
	projects []content.Project
	jobs     []content.Job
}

func (f *fakeSource) SiteSettings(ctx context.Context) *content.SiteSettings { return f.settings }
func (f *fakeSource) Posts(ctx context.Context) []content.Post              { return f.posts }
func (f *fakeSource) FeaturedPosts(ctx context.Context) []content.Post      { return f.featured }
func (f *fakeSource) PostBySlug(ctx context.Context, slug string) *content.Post {
	return f.bySlug[slug]
}
func (f *fakeSource) Projects(ctx context.Context) []content.Project         { return f.projects }
func (f *fakeSource) FeaturedProjects(ctx context.Context) []content.Project { return f.projects }
func (f *fakeSource) Jobs(ctx context.Context) []content.Job                 { return f.jobs }

type stubImages struct{}

func (stubImages) URLFor(ref string, width, height int) (string, error) {
	return "https://cdn.example.com/" + ref, nil
}

func textBlock(style folio.BlockStyle, text string) folio.Node {
	return folio.Node{
		Kind:     folio.KindBlock,
		Style:    style,
		Children: []folio.Span{{Text: text}},
	}
}

func fullSource() *fakeSource {
	published := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	post := content.Post{
		ID:          "post-1",
		Title:       "Getting Started",
		Slug:        content.Slug{Current: "getting-started"},
		Excerpt:     "A short intro.",
		PublishedAt: published,
		Tags:        []string{"go"},
		CoverImage:  &content.Image{Asset: content.Asset{Ref: "image-abc-1200x630-png"}},
		Body: []folio.Node{
			textBlock(folio.StyleH2, "Install"),
			textBlock(folio.StyleNormal, "Run the usual command."),
			{Kind: folio.KindCodeBlock, Language: "go", Code: "package main\n"},
			textBlock(folio.StyleH3, "Verify"),
			textBlock(folio.StyleNormal, "Check the version."),
		},
	}
	return &fakeSource{
		settings: &content.SiteSettings{
			Name:    "Ada Lovelace",
			Title:   "Engineer",
			Bio:     "I build things.",
			Socials: &content.Socials{GitHub: "https://github.com/ada"},
		},
		posts:    []content.Post{post},
		featured: []content.Post{post},
		bySlug:   map[string]*content.Post{"getting-started": &post},
		projects: []content.Project{{
			ID:    "proj-1",
			Title: "Folio",
			Slug:  content.Slug{Current: "folio"},
			Year:  2024,
			Tech:  []string{"go", "html"},
			Links: &content.ProjectLinks{GitURL: "https://github.com/ada/folio"},
		}},
		jobs: []content.Job{{
			ID:        "job-1",
			Company:   "Acme",
			Role:      "Engineer",
			StartDate: "2022-01-15",
			Bullets:   []string{"built the pipeline"},
			Tech:      []string{"go"},
		}},
	}
}

func buildSite(t *testing.T, source ContentSource) string {
	t.Helper()
	dir := t.TempDir()
	b := NewBuilder(source, Meta{Title: "Ada's Site", Author: "Ada"}, dir,
		WithImages(stubImages{}),
		WithClock(func() time.Time { return time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC) }),
	)
	if err := b.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	return dir
}

func loadPage(t *testing.T, dir, rel string) *goquery.Document {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("page %s: %v", rel, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("parse %s: %v", rel, err)
	}
	return doc
}

func TestBuildWritesAllPages(t *testing.T) {
	t.Parallel()

	dir := buildSite(t, fullSource())

	for _, rel := range []string{
		"index.html",
		"blog/index.html",
		"blog/getting-started/index.html",
		"projects/index.html",
		"experience/index.html",
		"styles/site.css",
	} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing output %s: %v", rel, err)
		}
	}
}

func TestBuildIndexPage(t *testing.T) {
	t.Parallel()

	dir := buildSite(t, fullSource())
	doc := loadPage(t, dir, "index.html")

	if got := doc.Find(".hero h1").Text(); got != "Ada Lovelace" {
		t.Errorf("hero name = %q", got)
	}
	if doc.Find(`.featured-posts a[href="/blog/getting-started/"]`).Length() != 1 {
		t.Error("featured post link missing")
	}
	if doc.Find(`.site-footer a[href="https://github.com/ada"]`).Length() != 1 {
		t.Error("footer social link missing")
	}
	if !strings.Contains(doc.Find(".site-footer").Text(), "2024") {
		t.Error("footer year missing")
	}
}

func TestBuildPostPage(t *testing.T) {
	t.Parallel()

	dir := buildSite(t, fullSource())
	doc := loadPage(t, dir, "blog/getting-started/index.html")

	if got := doc.Find("article.post h1").Text(); got != "Getting Started" {
		t.Errorf("post title = %q", got)
	}

	// Every outline link must land on a heading in the same page.
	ids := map[string]bool{}
	doc.Find(".post-body h2[id], .post-body h3[id]").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		ids[id] = true
	})
	links := doc.Find(".toc a")
	if links.Length() != 2 {
		t.Fatalf("got %d outline links, want 2", links.Length())
	}
	links.Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !strings.HasPrefix(href, "#") || !ids[strings.TrimPrefix(href, "#")] {
			t.Errorf("outline link %q has no matching heading", href)
		}
	})

	if doc.Find("figure.code-block").Length() != 1 {
		t.Error("code block figure missing")
	}
	if doc.Find(`img.post-cover[src="https://cdn.example.com/image-abc-1200x630-png"]`).Length() != 1 {
		t.Error("cover image missing or unresolved")
	}
	if !strings.Contains(doc.Find(".post-relative").Text(), "ago") {
		t.Errorf("relative date missing: %q", doc.Find(".post-relative").Text())
	}
	if doc.Find(`.site-nav a.active[href="/blog/"]`).Length() != 1 {
		t.Error("blog nav entry should be active")
	}
}

func TestBuildExperiencePage(t *testing.T) {
	t.Parallel()

	dir := buildSite(t, fullSource())
	doc := loadPage(t, dir, "experience/index.html")

	if got := doc.Find(".job-dates").Text(); !strings.Contains(got, "Jan 2022 - Present") {
		t.Errorf("job period = %q", got)
	}
	if got := doc.Find(".job-bullets li").Text(); got != "built the pipeline" {
		t.Errorf("job bullets = %q", got)
	}
}

func TestBuildWithEmptyStore(t *testing.T) {
	t.Parallel()

	dir := buildSite(t, &fakeSource{})

	blog := loadPage(t, dir, "blog/index.html")
	if !strings.Contains(blog.Find(".posts").Text(), "Nothing here yet.") {
		t.Error("empty blog note missing")
	}

	index := loadPage(t, dir, "index.html")
	if index.Find(".featured-posts").Length() != 0 {
		t.Error("featured section should be absent with no posts")
	}
	// Falls back to the configured site title when settings are missing.
	if got := index.Find(".hero h1").Text(); got != "Ada's Site" {
		t.Errorf("hero fallback = %q", got)
	}
}

func TestBuildSkipsUnfetchablePost(t *testing.T) {
	t.Parallel()

	src := fullSource()
	src.bySlug = map[string]*content.Post{}
	dir := buildSite(t, src)

	if _, err := os.Stat(filepath.Join(dir, "blog", "getting-started", "index.html")); err == nil {
		t.Error("unfetchable post should not produce a page")
	}
	if _, err := os.Stat(filepath.Join(dir, "blog", "index.html")); err != nil {
		t.Errorf("blog index should still build: %v", err)
	}
}

func TestFormatPeriod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		start, end, want string
	}{
		{"2022-01-15", "", "Jan 2022 - Present"},
		{"2022-01-15", "2024-03-01", "Jan 2022 - Mar 2024"},
		{"2022-01", "2023-06", "Jan 2022 - Jun 2023"},
		{"whenever", "", "whenever - Present"},
	}
	for _, tt := range tests {
		if got := formatPeriod(tt.start, tt.end); got != tt.want {
			t.Errorf("formatPeriod(%q, %q) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}
