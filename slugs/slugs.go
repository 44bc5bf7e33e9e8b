// Package slugs maps between Storyblok full slugs, which live under a
// configured main folder, and the public routes of the site.
package slugs

import "strings"

// ExcludedFolders are folder markers whose content is never routed publicly.
var ExcludedFolders = []string{"_config", "_components", "_layouts"}

// Resolver translates slugs for one main folder.
type Resolver struct {
	MainFolder string
}

// New returns a Resolver for mainFolder, trimmed of surrounding slashes.
func New(mainFolder string) Resolver {
	return Resolver{MainFolder: strings.Trim(mainFolder, "/")}
}

// WithFolderPrefix turns a public slug into a full slug. The empty slug and
// "/" both address the main folder itself.
func (r Resolver) WithFolderPrefix(slug string) string {
	if slug == "" || slug == "/" {
		return r.MainFolder
	}
	if r.MainFolder == "" {
		return slug
	}
	return r.MainFolder + "/" + slug
}

// WithoutFolderPrefix turns a full slug into a public slug. The main folder
// itself becomes "/"; slugs outside the folder are returned unchanged.
func (r Resolver) WithoutFolderPrefix(fullSlug string) string {
	if r.MainFolder == "" {
		if fullSlug == "" {
			return "/"
		}
		return fullSlug
	}
	if fullSlug == r.MainFolder {
		return "/"
	}
	if rest, ok := strings.CutPrefix(fullSlug, r.MainFolder+"/"); ok {
		return rest
	}
	return fullSlug
}

// IsExcludedFromRouting reports whether slug contains one of the reserved
// folder markers anywhere in its path. Matching is a case-sensitive
// substring test, not a segment test.
func IsExcludedFromRouting(slug string) bool {
	for _, marker := range ExcludedFolders {
		if strings.Contains(slug, marker) {
			return true
		}
	}
	return false
}

// IsExcludedFromRouting is the package-level check exposed on the resolver
// for callers holding only a Resolver.
func (r Resolver) IsExcludedFromRouting(slug string) bool {
	return IsExcludedFromRouting(slug)
}

// PublicPath returns the site URL path for a full slug, with a trailing
// slash on everything but the root.
func (r Resolver) PublicPath(fullSlug string) string {
	public := strings.Trim(r.WithoutFolderPrefix(strings.Trim(fullSlug, "/")), "/")
	if public == "" {
		return "/"
	}
	return "/" + public + "/"
}

// FromRequestPath converts a request path like "/work/foo/" into the public
// slug "work/foo", or "/" for the site root.
func FromRequestPath(path string) string {
	slug := strings.Trim(path, "/")
	if slug == "" {
		return "/"
	}
	return slug
}
