package httpjpg

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/httpjpg/httpjpg/views"
)

func (a *App) handleAdmin(c echo.Context) error {
	meta := views.PageMeta{Title: "Console", NoIndex: true}
	if !IsAdmin(c) {
		return a.renderPage(c, http.StatusOK, meta, views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderPage(c, http.StatusOK, meta, views.ConsoleDashboard(CsrfToken(c)))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	if secretsEqual(c.FormValue("password"), a.Config.AdminPassword) {
		if err := setAdminSession(c); err != nil {
			return err
		}
		a.Log.Info("console login", zap.String("ip", ip))
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	a.Log.Warn("console login failed", zap.String("ip", ip))
	return a.renderPage(c, http.StatusUnauthorized, views.PageMeta{Title: "Console", NoIndex: true},
		views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}
