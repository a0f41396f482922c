package handler // handler defines http handlers

import (
    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/vehicle-advertisement/internal/service"
)

// AdvertisementHandler exposes the dealer and listing operations over HTTP.
type AdvertisementHandler struct {
    Svc *service.Service // Svc runs every dealer and listing operation
}

// NewAdvertisementHandler constructs an AdvertisementHandler and panics if svc is nil.
func NewAdvertisementHandler(svc *service.Service) *AdvertisementHandler {
    if svc == nil {
        panic("nil service passed to NewAdvertisementHandler")
    }
    return &AdvertisementHandler{Svc: svc}
}

// paramID parses the :id path parameter as a UUID.
func paramID(c echo.Context) (uuid.UUID, bool) {
    id, err := uuid.Parse(c.Param("id"))
    if err != nil {
        return uuid.Nil, false
    }
    return id, true
}
