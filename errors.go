package folio

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyDocument = errors.New("document cannot be empty")
	ErrDecodeNode    = errors.New("node decoding failed")
	ErrMarkdownParse = errors.New("markdown parsing failed")

	// Collaborator degradations. These are logged, never fatal to a render.
	ErrNoClipboard = errors.New("no clipboard available")
	ErrNoImageURL  = errors.New("no image URL builder configured")
	ErrImageURL    = errors.New("image URL construction failed")
)
