package main

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"charity-web/internal/donate"
	"charity-web/internal/location"
	"charity-web/internal/session"
	"charity-web/internal/types"
	"charity-web/internal/web"
)

const msgBadCoords = "We could not read the position shared by your browser"

// handleDonate renders the donate page once the load has finished
func (app *App) handleDonate(c *gin.Context) {
	sid := app.sessions.ID(c.Writer, c.Request)
	ctx := c.Request.Context()

	// The selector shows what the session held before this load
	selected := app.currentLocationState(ctx, sid)

	state := app.donateService.Load(ctx, sid, app.visitorLocation(c, sid))

	if selected == "" {
		if loc, ok := state.Location(); ok {
			selected = stateLabel(loc)
		}
	}

	c.HTML(http.StatusOK, web.TemplateDonate, web.NewDonateView(app.layout(c, "Donate_BTN"), state, selected))
}

// handleSetDonateLocation stores the state picked in the selector
func (app *App) handleSetDonateLocation(c *gin.Context) {
	value := strings.TrimSpace(c.PostForm("state"))
	if utf8.RuneCountInString(value) > web.MaxStateLength {
		c.String(http.StatusBadRequest, "state is too long")
		return
	}

	if value != "" {
		sid := app.sessions.ID(c.Writer, c.Request)
		if err := app.sessions.Set(c.Request.Context(), sid, session.KeyLocationState, value); err != nil {
			app.logger.Error("failed to store selected state", "error", err)
		}
	}

	c.Redirect(http.StatusSeeOther, "/donate")
}

// handleGetDonateState godoc
// @Summary Load the donate page state
// @Description Resolve the caller's location, then the charity list, and return the resulting view state
// @Tags donate
// @Produce json
// @Param lat query number false "Latitude in decimal degrees" minimum(-90) maximum(90)
// @Param lng query number false "Longitude in decimal degrees" minimum(-180) maximum(180)
// @Success 200 {object} DonateStateResponse
// @Failure 429 {object} map[string]string
// @Router /api/v1/donate [get]
func (app *App) handleGetDonateState(c *gin.Context) {
	sid := app.sessions.ID(c.Writer, c.Request)
	state := app.donateService.Load(c.Request.Context(), sid, app.visitorLocation(c, sid))
	c.JSON(http.StatusOK, state)
}

// DonateStateResponse documents the JSON form of donate.State
type DonateStateResponse struct {
	State     string          `json:"state" example:"loaded"`
	Loading   bool            `json:"loading" example:"false"`
	Error     *string         `json:"error"`
	ErrorKind string          `json:"errorKind" example:"none"`
	Charities []types.Charity `json:"charities"`
	Location  *types.Location `json:"location,omitempty"`
}

// visitorLocation captures the request details the load needs. The returned
// provider may run after the handler has returned, so it must not touch c.
func (app *App) visitorLocation(c *gin.Context, sid string) donate.LocationProvider {
	coords, coordsErr := coordsFromQuery(c)
	query := location.Query{
		IP:       c.ClientIP(),
		Coords:   coords,
		Language: app.localizer(c).Lang(),
	}

	return donate.LocationFunc(func(ctx context.Context) (types.Location, error) {
		if coordsErr != nil {
			return types.Location{}, types.NewLookupError(msgBadCoords, coordsErr)
		}

		loc, err := app.locationService.Locate(ctx, query)
		if err != nil {
			return types.Location{}, err
		}

		if err := app.sessions.Set(ctx, sid, session.KeyLocationState, stateLabel(*loc)); err != nil {
			app.logger.Warn("failed to store resolved state", "error", err)
		}
		return *loc, nil
	})
}

func (app *App) currentLocationState(ctx context.Context, sid string) string {
	value, ok, err := app.sessions.Get(ctx, sid, session.KeyLocationState)
	if err != nil {
		app.logger.Warn("failed to read session state", "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return value
}

// stateLabel is the selector value for a resolved location
func stateLabel(loc types.Location) string {
	if loc.Region != "" {
		return loc.Region
	}
	return loc.Label()
}
