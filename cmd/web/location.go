package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"charity-web/internal/location"
	"charity-web/internal/types"
)

var errCoordsPair = errors.New("lat and lng must be provided together")

// CoordsInput defines the optional coordinate query parameters
type CoordsInput struct {
	Latitude  *float64 `form:"lat"` // Latitude in decimal degrees
	Longitude *float64 `form:"lng"` // Longitude in decimal degrees
}

// coordsFromQuery returns nil when the browser shared no position
func coordsFromQuery(c *gin.Context) (*types.Coords, error) {
	var input CoordsInput
	if err := c.ShouldBindQuery(&input); err != nil {
		return nil, err
	}
	if input.Latitude == nil && input.Longitude == nil {
		return nil, nil
	}
	if input.Latitude == nil || input.Longitude == nil {
		return nil, errCoordsPair
	}
	coords := types.NewCoords(*input.Latitude, *input.Longitude)
	return &coords, nil
}

// handleGetLocation godoc
// @Summary Resolve the caller's location
// @Description Resolve the approximate location of the caller from shared coordinates, or from the client IP when none are given
// @Tags location
// @Produce json
// @Param lat query number false "Latitude in decimal degrees" minimum(-90) maximum(90) example(30.2672)
// @Param lng query number false "Longitude in decimal degrees" minimum(-180) maximum(180) example(-97.7431)
// @Success 200 {object} types.Location
// @Failure 400 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/v1/location [get]
func (app *App) handleGetLocation(c *gin.Context) {
	coords, err := coordsFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Delegate to business layer
	loc, err := app.locationService.Locate(c.Request.Context(), location.Query{
		IP:       c.ClientIP(),
		Coords:   coords,
		Language: app.localizer(c).Lang(),
	})
	if err != nil {
		// Check if it's a validation error from business layer
		if errors.Is(err, location.ErrInvalidLatitude) || errors.Is(err, location.ErrInvalidLongitude) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, context.Canceled) {
			return
		}

		app.logger.Warn("failed to resolve location", "client_ip", c.ClientIP(), "error", err)
		var lookupErr *types.LookupError
		if errors.As(err, &lookupErr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": lookupErr.Reason})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve location"})
		return
	}

	c.JSON(http.StatusOK, loc)
}
