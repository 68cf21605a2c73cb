// Package imageurl turns content-store asset references into CDN image URLs.
//
// References look like "image-<id>-<width>x<height>-<ext>". The builder
// rewrites them into https URLs on the store's image CDN, with crop-fit
// resize parameters appended.
package imageurl

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var (
	// ErrBadRef is returned when an asset reference does not match the
	// expected "image-<id>-<WxH>-<ext>" shape.
	ErrBadRef = errors.New("malformed image asset reference")
	// ErrMissingProject is returned by New when the project or dataset
	// identifiers are empty.
	ErrMissingProject = errors.New("missing project or dataset")
)

const cdnBase = "https://cdn.sanity.io/images"

var refRe = regexp.MustCompile(`^image-([a-zA-Z0-9]+)-(\d+)x(\d+)-([a-z0-9]+)$`)

// Builder resolves asset references for a single project and dataset.
type Builder struct {
	projectID string
	dataset   string
}

// New returns a Builder for the given project and dataset.
func New(projectID, dataset string) (*Builder, error) {
	if projectID == "" || dataset == "" {
		return nil, fmt.Errorf("%w: projectID=%q dataset=%q", ErrMissingProject, projectID, dataset)
	}
	return &Builder{projectID: projectID, dataset: dataset}, nil
}

// URLFor resolves ref into a CDN URL resized to width x height with crop fit.
// Passing width or height of zero omits the resize parameters and returns the
// asset at its stored dimensions.
func (b *Builder) URLFor(ref string, width, height int) (string, error) {
	m := refRe.FindStringSubmatch(ref)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrBadRef, ref)
	}
	id, w, h, ext := m[1], m[2], m[3], m[4]

	url := fmt.Sprintf("%s/%s/%s/%s-%sx%s.%s", cdnBase, b.projectID, b.dataset, id, w, h, ext)
	if width > 0 && height > 0 {
		url += "?w=" + strconv.Itoa(width) + "&h=" + strconv.Itoa(height) + "&fit=crop"
	}
	return url, nil
}
