package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // import the Echo web framework to handle routing

    "github.com/iliyamo/vehicle-advertisement/internal/handler"
)

// RegisterRoutes registers routes that are not part of the versioned API.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAdvertisement registers the dealer and listing API under /v1.
// Every middleware in mw wraps the whole group, so the response cache sees
// both the reads it serves and the writes that invalidate it.
func RegisterAdvertisement(e *echo.Echo, h *handler.AdvertisementHandler, mw ...echo.MiddlewareFunc) {
    g := e.Group("/v1", mw...)

    g.POST("/dealers", h.CreateDealer)
    g.GET("/dealers", h.ListDealers)

    g.POST("/listings", h.CreateListing)
    g.GET("/listings", h.ListListings)
    g.PUT("/listings/:id", h.UpdateListing)
    g.PATCH("/listings/:id", h.UpdateListing)
    g.POST("/listings/:id/publish", h.PublishListing)
    g.POST("/listings/:id/unpublish", h.UnpublishListing)
}
