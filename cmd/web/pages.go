package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"charity-web/internal/i18n"
	"charity-web/internal/web"
)

func (app *App) layout(c *gin.Context, titleKey string) web.Layout {
	return web.NewLayout(
		app.localizer(c),
		app.bundle.Supported(),
		c.Request.URL.Path,
		c.Request.URL.RawQuery,
		titleKey,
	)
}

// handlePage renders one of the static pages
func (app *App) handlePage(page web.Page) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, web.TemplatePage, web.NewPageView(app.layout(c, page.TitleKey), page))
	}
}

// handleNotFound renders the not found page, or a JSON error under /api
func (app *App) handleNotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.HTML(http.StatusNotFound, web.TemplateNotFound, web.NotFoundView{
		Layout: app.layout(c, "not_found_title"),
	})
}

// handleTranslationFile serves /languages/{lng}/translation.json
func (app *App) handleTranslationFile(c *gin.Context) {
	data, err := app.bundle.TranslationFile(c.Param("lng"))
	if err != nil {
		if errors.Is(err, i18n.ErrUnsupportedLanguage) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		app.logger.Error("failed to read translation file", "language", c.Param("lng"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read translation file"})
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}
