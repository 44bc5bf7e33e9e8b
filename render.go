package httpjpg

import (
	"encoding/json"

	"github.com/a-h/templ"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/httpjpg/httpjpg/views"
)

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// renderPage wraps body in the site layout for the current visitor.
func (a *App) renderPage(c echo.Context, code int, meta views.PageMeta, body templ.Component) error {
	draft := IsDraft(c)
	if draft {
		c.Response().Header().Set("Cache-Control", "no-store")
	}
	layout := views.LayoutData{
		Site:      a.Config.viewSite(),
		Meta:      meta,
		RUM:       a.Obs.RUM(),
		Consent:   consentFrom(c),
		Draft:     draft,
		CSRFToken: CsrfToken(c),
	}
	return RenderStatus(c, code, views.Layout(layout, body))
}

// consentFrom reads the stored cookie choice. A missing or unreadable
// cookie means the visitor has not decided yet.
func consentFrom(c echo.Context) views.Consent {
	sess, err := session.Get(consentSession, c)
	if err != nil {
		return views.Consent{}
	}
	raw, ok := sess.Values["choice"].(string)
	if !ok {
		return views.Consent{}
	}
	var consent views.Consent
	if err := json.Unmarshal([]byte(raw), &consent); err != nil {
		return views.Consent{}
	}
	return consent
}
