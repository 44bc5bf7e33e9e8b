package httpjpg

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/httpjpg/httpjpg/views"
)

// consentMaxAge keeps the cookie choice for a year.
const consentMaxAge = 60 * 60 * 24 * 365

type consentRequest struct {
	Analytics bool `json:"analytics"`
	Marketing bool `json:"marketing"`
}

// handleConsent stores the visitor's cookie choice.
func (a *App) handleConsent(c echo.Context) error {
	var req consentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	choice := views.Consent{Decided: true, Analytics: req.Analytics, Marketing: req.Marketing}
	raw, err := json.Marshal(choice)
	if err != nil {
		return err
	}

	sess, err := session.Get(consentSession, c)
	if err != nil {
		return err
	}
	sess.Options.MaxAge = consentMaxAge
	sess.Values["choice"] = string(raw)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, choice)
}
