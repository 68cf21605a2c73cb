package content

import (
	"time"

	folio "github.com/alnah/go-folio"
)

// Slug is a URL fragment chosen by the author.
type Slug struct {
	Current string `json:"current"`
}

// Image points at an uploaded image asset.
type Image struct {
	Asset Asset `json:"asset"`
}

// Asset carries the store's asset reference, e.g. "image-abc-800x600-png".
type Asset struct {
	Ref string `json:"_ref"`
}

// Socials holds the profile links shown in the site footer.
type Socials struct {
	GitHub   string `json:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
}

// SiteSettings is the singleton document with site-wide copy.
type SiteSettings struct {
	Name     string   `json:"name"`
	Title    string   `json:"title"`
	Bio      string   `json:"bio"`
	Location string   `json:"location,omitempty"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone,omitempty"`
	Avatar   *Image   `json:"avatar,omitempty"`
	Socials  *Socials `json:"socials,omitempty"`
}

// Post is a blog entry. Body is present only on by-slug fetches.
type Post struct {
	ID          string       `json:"_id"`
	Title       string       `json:"title"`
	Slug        Slug         `json:"slug"`
	Excerpt     string       `json:"excerpt,omitempty"`
	CoverImage  *Image       `json:"coverImage,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	PublishedAt time.Time    `json:"publishedAt"`
	Body        []folio.Node `json:"body,omitempty"`
	Featured    bool         `json:"featured,omitempty"`
}

// ProjectImage is a gallery entry on a project.
type ProjectImage struct {
	Image   Image  `json:"image"`
	Caption string `json:"caption,omitempty"`
}

// ProjectLinks holds outbound links for a project.
type ProjectLinks struct {
	LiveURL string `json:"liveUrl,omitempty"`
	GitURL  string `json:"gitUrl,omitempty"`
}

// Project is a portfolio entry.
type Project struct {
	ID       string         `json:"_id"`
	Title    string         `json:"title"`
	Slug     Slug           `json:"slug"`
	Tagline  string         `json:"tagline,omitempty"`
	Summary  string         `json:"summary,omitempty"`
	Tech     []string       `json:"tech,omitempty"`
	Year     int            `json:"year,omitempty"`
	Images   []ProjectImage `json:"images,omitempty"`
	Links    *ProjectLinks  `json:"links,omitempty"`
	Featured bool           `json:"featured,omitempty"`
}

// Job is an experience entry. Dates are "YYYY-MM-DD" strings as stored;
// an empty EndDate means the role is current.
type Job struct {
	ID        string   `json:"_id"`
	Company   string   `json:"company"`
	Role      string   `json:"role"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate,omitempty"`
	Location  string   `json:"location,omitempty"`
	Bullets   []string `json:"bullets,omitempty"`
	Tech      []string `json:"tech,omitempty"`
	Logo      *Image   `json:"logo,omitempty"`
}
