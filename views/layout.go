package views

import (
	"context"
	"encoding/json"
	"io"

	"github.com/a-h/templ"
)

const (
	storyblokBridgeSrc = "https://app.storyblok.com/f/storyblok-v2-latest.js"
	datadogRUMSrc      = "https://www.datadoghq-browser-agent.com/eu1/v5/datadog-rum.js"
)

// Layout wraps body in the HTML document shell.
func Layout(d LayoutData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		title := d.Meta.Title
		switch {
		case title == "":
			title = d.Site.Name
		case title != d.Site.Name:
			title += " | " + d.Site.Name
		}
		description := d.Meta.Description
		if description == "" {
			description = d.Site.Description
		}
		ogType := d.Meta.OGType
		if ogType == "" {
			ogType = "website"
		}

		w.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`, esc(title), `</title>`)
		if description != "" {
			w.raw(`<meta name="description" content="`, esc(description), `">`)
		}
		if d.Meta.NoIndex || d.Draft {
			w.raw(`<meta name="robots" content="noindex, nofollow">`)
		}
		if d.Meta.URL != "" {
			w.raw(`<link rel="canonical" href="`, esc(d.Meta.URL), `">`,
				`<meta property="og:url" content="`, esc(d.Meta.URL), `">`)
		}
		w.raw(`<meta property="og:title" content="`, esc(title), `">`,
			`<meta property="og:type" content="`, esc(ogType), `">`,
			`<meta property="og:site_name" content="`, esc(d.Site.Name), `">`)
		if d.Meta.Image != "" {
			w.raw(`<meta property="og:image" content="`, esc(d.Meta.Image), `">`)
		}
		w.raw(`<link rel="icon" href="/favicon.svg" type="image/svg+xml">`,
			`<link rel="stylesheet" href="/public/styles.css">`,
			`<link rel="alternate" type="application/rss+xml" title="`, esc(d.Site.Name), `" href="/feed.xml">`)
		if d.Meta.URL != "" {
			w.raw(`<script type="application/ld+json">`, CreativeWorkJsonLD(d.Site, d.Meta), `</script>`)
		} else {
			w.raw(`<script type="application/ld+json">`, WebsiteJsonLD(d.Site), `</script>`)
		}
		if d.RUM.Enabled && d.Consent.Analytics && !d.Draft {
			w.raw(rumSnippet(d))
		}
		w.raw(`</head><body>`)

		if d.Draft {
			w.raw(`<div class="draft-banner" role="status">Preview mode. `,
				`<a href="/api/draft/disable">Exit preview</a></div>`)
		}
		w.render(ctx, body)
		if !d.Consent.Decided && !d.Draft {
			w.raw(consentBanner)
		}
		if d.Draft {
			w.raw(`<script src="`, storyblokBridgeSrc, `" async></script>`,
				`<script>window.addEventListener("load",function(){if(!window.StoryblokBridge)return;`,
				`var b=new window.StoryblokBridge();b.on(["published","change"],function(){location.reload()});});</script>`)
		}
		w.raw(`</body></html>`)
		return w.err
	})
}

func rumSnippet(d LayoutData) string {
	cfg, err := json.Marshal(map[string]any{
		"clientToken":           d.RUM.ClientToken,
		"applicationId":         d.RUM.ApplicationID,
		"site":                  d.RUM.Site,
		"service":               d.RUM.Service,
		"env":                   d.RUM.Env,
		"sessionSampleRate":     100,
		"trackUserInteractions": true,
		"defaultPrivacyLevel":   "mask-user-input",
	})
	if err != nil {
		return ""
	}
	return `<script src="` + datadogRUMSrc + `" async></script>` +
		`<script>window.addEventListener("load",function(){window.DD_RUM&&window.DD_RUM.init(` +
		string(cfg) + `)});</script>`
}

const consentBanner = `<form class="consent" id="consent" aria-label="Cookie consent">` +
	`<p>This site uses cookies for anonymous analytics.</p>` +
	`<label><input type="checkbox" name="analytics" checked> Analytics</label>` +
	`<label><input type="checkbox" name="marketing"> Marketing</label>` +
	`<button type="submit" name="choice" value="save">Save</button>` +
	`<button type="submit" name="choice" value="reject">Reject all</button></form>` +
	`<script>document.getElementById("consent").addEventListener("submit",function(e){e.preventDefault();` +
	`var f=e.target,reject=e.submitter&&e.submitter.value==="reject";` +
	`fetch("/api/consent",{method:"POST",headers:{"Content-Type":"application/json"},` +
	`body:JSON.stringify({analytics:!reject&&f.analytics.checked,marketing:!reject&&f.marketing.checked})})` +
	`.then(function(){location.reload()});});</script>`
