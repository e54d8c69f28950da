package handler

import (
	"dealership-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
)

// guestSentinel is the literal user id an unauthenticated client sends
// to signal "no user id".
const guestSentinel = "guest"

// claimsFrom returns the verified identity attached by the auth gate,
// or nil on anonymous requests.
func claimsFrom(c echo.Context) *jwtutil.UserClaims {
	claims, _ := c.Get("user").(*jwtutil.UserClaims)
	return claims
}

// ownerID resolves the owner reference for optional-auth submissions.
// An authenticated caller that omits the id owns the submission; the
// guest sentinel and an absent id both map to a nil owner. The sentinel
// is never stored as a literal owner reference.
func ownerID(c echo.Context, payloadUserID string) *string {
	if payloadUserID == guestSentinel {
		return nil
	}

	if payloadUserID == "" {
		if claims := claimsFrom(c); claims != nil {
			id := claims.UserID
			return &id
		}
		return nil
	}

	return &payloadUserID
}
