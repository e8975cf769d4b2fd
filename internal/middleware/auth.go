package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/hrms/internal/auditctx"
	iauth "github.com/charlesng35/hrms/internal/auth"
	apperrors "github.com/charlesng35/hrms/pkg/errors"
	"github.com/charlesng35/hrms/pkg/response"
)

const (
	CtxClaimsKey = "authClaims"
	CtxUserIDKey = "userID"
	CtxOrgIDKey  = "organisationID"
)

// Auth enforces JWT authentication using the supplied JWT service. The verified identity is
// stored on the gin context and, as an auditctx.Actor, on the request context.
func Auth(jwt *iauth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) < 7 || !strings.EqualFold(authz[:7], "Bearer ") {
			abortUnauthorized(c, apperrors.ErrUnauthorized)
			return
		}

		token := strings.TrimSpace(authz[7:])
		if token == "" {
			abortUnauthorized(c, apperrors.ErrUnauthorized)
			return
		}

		claims, err := jwt.ValidateAccessToken(token)
		if err != nil {
			if errors.Is(err, iauth.ErrTokenExpired) {
				abortUnauthorized(c, apperrors.ErrExpiredToken)
				return
			}
			abortUnauthorized(c, apperrors.ErrInvalidToken)
			return
		}

		c.Set(CtxClaimsKey, claims)
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxOrgIDKey, claims.OrganisationID)

		ctx := auditctx.WithActor(c.Request.Context(), auditctx.Actor{
			UserID:         claims.UserID,
			OrganisationID: claims.OrganisationID,
			Email:          claims.Email,
			IPAddress:      c.ClientIP(),
			UserAgent:      c.Request.UserAgent(),
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// ClaimsFromContext returns the claims stored by Auth.
func ClaimsFromContext(c *gin.Context) (*iauth.Claims, bool) {
	value, ok := c.Get(CtxClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*iauth.Claims)
	return claims, ok
}

func abortUnauthorized(c *gin.Context, err *apperrors.AppError) {
	c.Header("WWW-Authenticate", "Bearer")
	response.Abort(c, err)
}
