package main

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"charity-web/internal/i18n"
)

const localizerKey = "localizer"

// requestLogger logs one line per request on the application logger
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		logger.LogAttrs(c.Request.Context(), level, "request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

// languageMiddleware resolves the request language and caches it in the
// i18next cookie. A page request carrying ?lng= is redirected to the same
// URL without it once the cookie is set.
func (app *App) languageMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang, explicit := app.bundle.Resolve(c.Request)
		if cookie, err := c.Request.Cookie(i18n.CookieName); err != nil || cookie.Value != lang {
			i18n.SetCookie(c.Writer, lang)
		}
		c.Set(localizerKey, app.bundle.Localizer(lang))

		if explicit && c.Request.Method == http.MethodGet && isPagePath(c.Request.URL.Path) {
			u := *c.Request.URL
			q := u.Query()
			q.Del(i18n.QueryParam)
			u.RawQuery = q.Encode()
			c.Redirect(http.StatusFound, u.RequestURI())
			c.Abort()
			return
		}

		c.Next()
	}
}

func isPagePath(path string) bool {
	for _, prefix := range []string{"/api/", "/swagger/", "/languages/"} {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return path != "/ping"
}

// localizer returns the translator chosen by languageMiddleware
func (app *App) localizer(c *gin.Context) *i18n.Localizer {
	if v, ok := c.Get(localizerKey); ok {
		if l, ok := v.(*i18n.Localizer); ok {
			return l
		}
	}
	lang, _ := app.bundle.Resolve(c.Request)
	return app.bundle.Localizer(lang)
}
