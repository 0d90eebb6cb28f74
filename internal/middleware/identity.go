package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// AccountID returns the account authenticated by JWTAuth, or false when the
// request is anonymous.
func AccountID(c echo.Context) (int64, bool) {
	id, ok := c.Get(AccountIDKey).(int64)
	return id, ok && id > 0
}

// accountKey is the account ID as used in Redis keys, "anon" for guests.
func accountKey(c echo.Context) string {
	if id, ok := AccountID(c); ok {
		return strconv.FormatInt(id, 10)
	}
	return "anon"
}
