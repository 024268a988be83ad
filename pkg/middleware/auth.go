package middleware

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"messaging-service/ddd/domain/entity"
	"messaging-service/pkg/auth"
	"messaging-service/pkg/errno"
	"messaging-service/pkg/logger"
	"messaging-service/pkg/restapi"
)

// HeaderServiceToken carries the shared secret of service-to-service calls.
const HeaderServiceToken = "X-Service-Token"

const (
	ctxKeyUserID = "userId"
	ctxKeyCaller = "caller"
)

// IdentityLookup resolves the caller behind a verified token.
type IdentityLookup interface {
	GetIdentity(ctx context.Context, id uint64) (*entity.UserIdentity, error)
}

// Auth requires a valid bearer token belonging to an active user.
func Auth(verifier auth.TokenVerifier, users IdentityLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			restapi.Failed(c, errno.ErrUnauthorized)
			return
		}
		userID, err := verifier.Verify(token)
		if err != nil {
			logger.WithContext(c.Request.Context()).Debugf("token rejected: %v", err)
			restapi.Failed(c, errno.ErrUnauthorized)
			return
		}
		caller, err := users.GetIdentity(c.Request.Context(), userID)
		if err != nil {
			restapi.Failed(c, errno.Storage(err))
			return
		}
		if caller == nil || !caller.IsActive {
			restapi.Failed(c, errno.ErrUnauthorized)
			return
		}
		c.Set(ctxKeyUserID, caller.ID)
		c.Set(ctxKeyCaller, caller)
		c.Next()
	}
}

// Admin must run after Auth and lets only admins through.
func Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Caller(c).IsAdmin() {
			restapi.Failed(c, errno.ErrForbidden)
			return
		}
		c.Next()
	}
}

// ServiceToken guards inner routes with a shared secret. An empty secret
// rejects every call.
func ServiceToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(HeaderServiceToken)
		if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			restapi.Failed(c, errno.ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// CallerID returns the authenticated user id, or 0.
func CallerID(c *gin.Context) uint64 {
	return c.GetUint64(ctxKeyUserID)
}

// Caller returns the authenticated user, or nil.
func Caller(c *gin.Context) *entity.UserIdentity {
	v, ok := c.Get(ctxKeyCaller)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.UserIdentity)
	return u
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
