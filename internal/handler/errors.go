package handler

import (
    "errors"
    "log"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/vehicle-advertisement/internal/service"
)

// serviceError maps a service error onto a status code and writes it as
// {"error": "..."}.  Unknown errors are logged and reported as 500 without
// leaking their text.
func serviceError(c echo.Context, op string, err error) error {
    switch {
    case errors.Is(err, service.ErrDealerNotFound), errors.Is(err, service.ErrListingNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
    case errors.Is(err, service.ErrDealerAlreadyExists), errors.Is(err, service.ErrListingAlreadyExists):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    case errors.Is(err, service.ErrTierLimitExceeded), errors.Is(err, service.ErrInvalidArgument):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    log.Printf("handler: %s: %v", op, err)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": op + " failed"})
}

func badRequest(c echo.Context, msg string) error {
    return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
