package utils

import (
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// UserIDFromTokenMiddleware extracts the account ID from the verified token
// and stores it in the request values for handlers that only need identity.
func UserIDFromTokenMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}

// CreatorOnlyMiddleware gates routes that mutate creator-owned records.
func CreatorOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if claims.UserType != "creator" {
		ctx.StopWithJSON(iris.StatusForbidden, iris.Map{
			"status": iris.StatusForbidden,
			"title":  "Forbidden",
			"detail": "Only creator accounts can perform this action.",
		})
		return
	}
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}

// BusinessOnlyMiddleware gates routes that mutate business-owned records.
func BusinessOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if claims.UserType != "business" {
		ctx.StopWithJSON(iris.StatusForbidden, iris.Map{
			"status": iris.StatusForbidden,
			"title":  "Forbidden",
			"detail": "Only business accounts can perform this action.",
		})
		return
	}
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}
