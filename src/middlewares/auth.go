package middlewares

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"mixlab/src/db"
	"mixlab/src/models"
	"mixlab/src/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func parseBearerToken(ctx *gin.Context) (*models.User, bool) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer") {
		return nil, false
	}
	parts := strings.Split(bearerToken, " ")
	if len(parts) < 2 || parts[1] == "" {
		return nil, false
	}
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !tkn.Valid {
		if err != nil {
			log.Printf("token error: %s\n", err.Error())
		}
		return nil, false
	}
	uid, err := strconv.Atoi(claims.Subject)
	if err != nil {
		log.Println("error parsing claims:", err.Error())
		return nil, false
	}
	var user models.User
	if err := db.GetDb().
		Model(&models.User{}).
		Where(&models.User{ID: uint(uid)}).
		First(&user).
		Error; err != nil {
		return nil, false
	}
	return &user, true
}

// AuthMiddleware rejects requests without a valid first-party token.
func AuthMiddleware(ctx *gin.Context) {
	user, ok := parseBearerToken(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	ctx.Set("id", user.ID)
	ctx.Set("email", user.Email)
	ctx.Set("role", user.Role)
}

// AdminMiddleware additionally requires an admin or instructor role.
func AdminMiddleware(ctx *gin.Context) {
	role := ctx.GetString("role")
	if role != "admin" && role != "instructor" {
		ctx.AbortWithStatus(http.StatusForbidden)
		return
	}
}

// OptionalAuth attaches the authenticated identity when a valid token
// is present. An invalid or missing credential never aborts: the
// request proceeds anonymously.
func OptionalAuth(ctx *gin.Context) {
	if user, ok := parseBearerToken(ctx); ok {
		ctx.Set("id", user.ID)
		ctx.Set("email", user.Email)
		ctx.Set("role", user.Role)
	}
}
