package handler // package handler holds the HTTP handlers of the purchase API

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticket-purchase-service/internal/catalog"
)

// Health is used by load balancers to check that the service is up.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Catalog lists ticket categories with their price and seat requirement.
func Catalog(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"tickets":             catalog.Entries(),
		"max_seats_per_order": catalog.MaxSeatsPerPurchase,
	})
}
