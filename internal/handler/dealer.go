package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"
)

// CreateDealer handles POST /v1/dealers.
func (h *AdvertisementHandler) CreateDealer(c echo.Context) error {
    var body struct {
        Name      string `json:"name"`
        TierLimit *int   `json:"tier_limit"`
    }
    if err := c.Bind(&body); err != nil {
        return badRequest(c, "invalid request body")
    }
    name := strings.TrimSpace(body.Name)
    if name == "" {
        return badRequest(c, "name is required")
    }
    if body.TierLimit == nil || *body.TierLimit < 1 {
        return badRequest(c, "tier_limit must be at least 1")
    }
    d, err := h.Svc.CreateDealer(c.Request().Context(), name, *body.TierLimit)
    if err != nil {
        return serviceError(c, "create dealer", err)
    }
    return c.JSON(http.StatusCreated, d)
}

// ListDealers handles GET /v1/dealers.
func (h *AdvertisementHandler) ListDealers(c echo.Context) error {
    items, err := h.Svc.ListDealers(c.Request().Context())
    if err != nil {
        return serviceError(c, "list dealers", err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}
