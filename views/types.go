package views

import (
	"time"

	"github.com/httpjpg/httpjpg/observability"
)

// SiteConfig holds site-wide settings shown in every page head.
type SiteConfig struct {
	Name        string // SITE_NAME  (default "httpjpg")
	URL         string // SITE_URL   (default "http://localhost:3000")
	Description string // SITE_DESCRIPTION
	Author      string // SITE_AUTHOR
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head>.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // og:image, already transformed
	Published   time.Time
	NoIndex     bool
}

// Consent is the visitor's cookie choice. Until Decided is set the layout
// shows the consent banner.
type Consent struct {
	Decided   bool `json:"decided"`
	Analytics bool `json:"analytics"`
	Marketing bool `json:"marketing"`
}

// LayoutData is everything the page shell needs besides the body.
type LayoutData struct {
	Site    SiteConfig
	Meta    PageMeta
	RUM     observability.RUM
	Consent Consent

	// Draft shows the preview banner and loads the Visual Editor bridge.
	Draft     bool
	CSRFToken string
}
