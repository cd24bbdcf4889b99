package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/mscheesy-pos/internal/presentation/http/middleware"
	"github.com/sangkips/mscheesy-pos/pkg/money"
)

const maxTerminalIDLength = 64

// TerminalID identifies the cart a request works on. Carts belong to the
// signed-in user; the X-Terminal-ID header picks one of that user's
// terminals and cannot reach another user's cart.
func TerminalID(c *gin.Context) string {
	userID := middleware.UserIDFrom(c).String()
	id := strings.TrimSpace(c.GetHeader(middleware.TerminalIDHeader))
	if id == "" {
		return userID
	}
	if len(id) > maxTerminalIDLength {
		id = id[:maxTerminalIDLength]
	}
	return userID + ":" + id
}

// paramUUID parses a path parameter, writing a 400 when it is not a uuid
func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+strings.ReplaceAll(name, "_", " "))
		return uuid.Nil, false
	}
	return id, true
}

func centsPtr(amount *float64) *int64 {
	if amount == nil {
		return nil
	}
	v := money.FromFloat(*amount)
	return &v
}
