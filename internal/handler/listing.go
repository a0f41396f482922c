package handler

import (
    "net/http"
    "strings"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/vehicle-advertisement/internal/model"
)

// listingBody is the payload of create and update.  Price is a pointer so
// that a missing price is told apart from zero.
type listingBody struct {
    DealerID string   `json:"dealer_id"`
    Vehicle  string   `json:"vehicle"`
    Price    *float64 `json:"price"`
}

func (b listingBody) validate() (uuid.UUID, string, string) {
    dealerID, err := uuid.Parse(strings.TrimSpace(b.DealerID))
    if err != nil {
        return uuid.Nil, "", "dealer_id must be a valid id"
    }
    vehicle := strings.TrimSpace(b.Vehicle)
    if vehicle == "" {
        return uuid.Nil, "", "vehicle is required"
    }
    if b.Price == nil {
        return uuid.Nil, "", "price is required"
    }
    return dealerID, vehicle, ""
}

// CreateListing handles POST /v1/listings.  New listings start as drafts.
func (h *AdvertisementHandler) CreateListing(c echo.Context) error {
    var body listingBody
    if err := c.Bind(&body); err != nil {
        return badRequest(c, "invalid request body")
    }
    dealerID, vehicle, msg := body.validate()
    if msg != "" {
        return badRequest(c, msg)
    }
    l, err := h.Svc.CreateListing(c.Request().Context(), dealerID, vehicle, *body.Price)
    if err != nil {
        return serviceError(c, "create listing", err)
    }
    return c.JSON(http.StatusCreated, l)
}

// UpdateListing handles PUT/PATCH /v1/listings/:id.  The listing returns to
// draft and has to be published again.
func (h *AdvertisementHandler) UpdateListing(c echo.Context) error {
    id, ok := paramID(c)
    if !ok {
        return badRequest(c, "invalid id")
    }
    var body listingBody
    if err := c.Bind(&body); err != nil {
        return badRequest(c, "invalid request body")
    }
    dealerID, vehicle, msg := body.validate()
    if msg != "" {
        return badRequest(c, msg)
    }
    l, err := h.Svc.UpdateListing(c.Request().Context(), id, dealerID, vehicle, *body.Price)
    if err != nil {
        return serviceError(c, "update listing", err)
    }
    return c.JSON(http.StatusOK, l)
}

// ListListings handles GET /v1/listings?dealer_id=&state=.  Both query
// parameters are required.
func (h *AdvertisementHandler) ListListings(c echo.Context) error {
    dealerID, err := uuid.Parse(strings.TrimSpace(c.QueryParam("dealer_id")))
    if err != nil {
        return badRequest(c, "dealer_id must be a valid id")
    }
    state, err := model.ParseListingState(c.QueryParam("state"))
    if err != nil {
        return badRequest(c, "state must be draft or published")
    }
    items, err := h.Svc.ListListings(c.Request().Context(), dealerID, state)
    if err != nil {
        return serviceError(c, "list listings", err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// PublishListing handles POST /v1/listings/:id/publish.  With
// show_error_if_limit_reached set a full quota is reported as 400;
// otherwise the dealer's oldest published listing is moved back to draft.
func (h *AdvertisementHandler) PublishListing(c echo.Context) error {
    id, ok := paramID(c)
    if !ok {
        return badRequest(c, "invalid id")
    }
    var body struct {
        ShowErrorIfLimitReached bool `json:"show_error_if_limit_reached"`
    }
    if err := c.Bind(&body); err != nil { // an empty body means the lenient mode
        return badRequest(c, "invalid request body")
    }
    if _, err := h.Svc.PublishListing(c.Request().Context(), id, body.ShowErrorIfLimitReached); err != nil {
        return serviceError(c, "publish listing", err)
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "It was published"})
}

// UnpublishListing handles POST /v1/listings/:id/unpublish.
func (h *AdvertisementHandler) UnpublishListing(c echo.Context) error {
    id, ok := paramID(c)
    if !ok {
        return badRequest(c, "invalid id")
    }
    if _, err := h.Svc.UnpublishListing(c.Request().Context(), id); err != nil {
        return serviceError(c, "unpublish listing", err)
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "It was unpublished"})
}
