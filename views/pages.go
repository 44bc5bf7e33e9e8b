package views

import (
	"io"

	"github.com/a-h/templ"
)

// NotFound is the body of the 404 page.
func NotFound() templ.Component {
	return component(func(out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<main class="page page--error"><h1>Page not found</h1>`,
			`<p>The page you are looking for does not exist.</p><a href="/">Back home</a></main>`)
		return w.err
	})
}

// ServerError is the body of the 500 page.
func ServerError() templ.Component {
	return component(func(out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<main class="page page--error"><h1>Something went wrong</h1>`,
			`<p>Please try again in a moment.</p><a href="/">Back home</a></main>`)
		return w.err
	})
}

// AdminLogin is the console sign-in form.
func AdminLogin(showError bool, csrfToken string) templ.Component {
	return component(func(out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<main class="admin"><h1>Console</h1>`)
		if showError {
			w.raw(`<p class="admin__error" role="alert">Invalid password.</p>`)
		}
		w.raw(`<form method="post" action="/admin/login/">`,
			`<input type="hidden" name="_csrf" value="`, esc(csrfToken), `">`,
			`<label>Password <input type="password" name="password" autocomplete="current-password" required></label>`,
			`<button type="submit">Sign in</button></form></main>`)
		return w.err
	})
}

// ConsoleDashboard is the signed-in console. Panels load from the
// /api/console JSON endpoint.
func ConsoleDashboard(csrfToken string) templ.Component {
	return component(func(out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<main class="admin console"><header class="console__header"><h1>Console</h1>`,
			`<form method="post" action="/admin/logout/">`,
			`<input type="hidden" name="_csrf" value="`, esc(csrfToken), `">`,
			`<button type="submit">Sign out</button></form></header>`)
		for _, panel := range []struct{ id, title string }{
			{"github", "Deployments"},
			{"sentry", "Errors"},
			{"datadog", "Real user monitoring"},
			{"uptime", "Uptime"},
		} {
			w.raw(`<section class="console__panel" id="panel-`, panel.id, `"><h2>`, esc(panel.title),
				`</h2><pre data-source="`, panel.id, `">Loading…</pre></section>`)
		}
		w.raw(`</main><script>fetch("/api/console",{credentials:"same-origin"}).then(function(r){return r.json()})`,
			`.then(function(d){document.querySelectorAll("pre[data-source]").forEach(function(el){`,
			`var k=el.dataset.source;el.textContent=d[k]?JSON.stringify(d[k],null,2):((d.errors||{})[k]||"unavailable");});});</script>`)
		return w.err
	})
}
