// Package imageservice builds Storyblok Image Service URLs for CMS assets.
//
// A processed URL has the shape
//
//	<base>/m[/<W>x<H>]/filters:quality(75)[:focal(<fx>x<fy>:<W>x<H>)][:<filters>]
//
// Images not hosted on a Storyblok asset CDN are returned untouched.
package imageservice

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultQuality is the compression quality applied to every processed image.
const DefaultQuality = 75

// DefaultHosts lists the Storyblok asset CDN hosts across regions.
var DefaultHosts = []string{
	"a.storyblok.com",
	"a2.storyblok.com",
	"a-us.storyblok.com",
	"a-ap.storyblok.com",
	"a-ca.storyblok.com",
	"a-cn.storyblok.com",
}

// Transformer rewrites asset URLs into Image Service URLs.
type Transformer struct {
	Hosts   []string // asset CDN hosts eligible for rewriting
	Quality int      // quality(...) filter value
}

var defaultTransformer = Transformer{Hosts: DefaultHosts, Quality: DefaultQuality}

// ProcessedImage rewrites src with the default hosts and quality.
func ProcessedImage(src, crop, focus, filters string) string {
	return defaultTransformer.ProcessedImage(src, crop, focus, filters)
}

// ProcessedImage returns the Image Service URL for src. crop is "WxH" or
// empty, focus is Storyblok's "x1xy1:x2xy2" rectangle, filters is a
// colon-separated directive list appended verbatim.
func (t Transformer) ProcessedImage(src, crop, focus, filters string) string {
	if src == "" {
		return ""
	}
	if t.isExternal(src) {
		return src
	}

	quality := t.Quality
	if quality <= 0 {
		quality = DefaultQuality
	}

	var path strings.Builder
	path.WriteString("/m")
	if crop != "" {
		path.WriteString("/")
		path.WriteString(crop)
	}

	var filter strings.Builder
	filter.WriteString("/filters:quality(")
	filter.WriteString(strconv.Itoa(quality))
	filter.WriteString(")")
	if crop != "" && focus != "" {
		if clause, ok := focalClause(crop, focus); ok {
			filter.WriteString(":")
			filter.WriteString(clause)
		}
	}
	if filters != "" {
		filter.WriteString(":")
		filter.WriteString(filters)
	}

	return src + path.String() + filter.String()
}

// isExternal reports whether src is an absolute http(s) URL on a host that
// is not one of the asset CDN hosts.
func (t Transformer) isExternal(src string) bool {
	lower := strings.ToLower(src)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false
	}
	u, err := url.Parse(src)
	if err != nil {
		return true
	}
	host := strings.ToLower(u.Hostname())
	hosts := t.Hosts
	if len(hosts) == 0 {
		hosts = DefaultHosts
	}
	for _, h := range hosts {
		if host == h {
			return false
		}
	}
	return true
}

func focalClause(crop, focus string) (string, bool) {
	w, h, ok := ParseCrop(crop)
	if !ok {
		return "", false
	}
	fp, ok := ParseFocus(focus)
	if !ok {
		return "", false
	}
	return "focal(" + fp.String() + ":" + strconv.Itoa(w) + "x" + strconv.Itoa(h) + ")", true
}

// FocalPoint is the top-left corner of a Storyblok focus rectangle.
type FocalPoint struct {
	X int
	Y int
}

func (p FocalPoint) String() string {
	return strconv.Itoa(p.X) + "x" + strconv.Itoa(p.Y)
}

// ParseFocus extracts the first coordinate pair from a "x1xy1:x2xy2" focus
// string. Only the first pair is used by the Image Service.
func ParseFocus(focus string) (FocalPoint, bool) {
	first, _, _ := strings.Cut(focus, ":")
	xs, ys, found := strings.Cut(first, "x")
	if !found {
		return FocalPoint{}, false
	}
	x, err := strconv.Atoi(xs)
	if err != nil || x < 0 {
		return FocalPoint{}, false
	}
	y, err := strconv.Atoi(ys)
	if err != nil || y < 0 {
		return FocalPoint{}, false
	}
	return FocalPoint{X: x, Y: y}, true
}

// ParseCrop splits a "WxH" crop string into positive dimensions.
func ParseCrop(crop string) (w, h int, ok bool) {
	ws, hs, found := strings.Cut(crop, "x")
	if !found {
		return 0, 0, false
	}
	w, err := strconv.Atoi(ws)
	if err != nil || w <= 0 {
		return 0, 0, false
	}
	h, err = strconv.Atoi(hs)
	if err != nil || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}
