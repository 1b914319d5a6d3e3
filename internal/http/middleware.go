package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"finance-tracker-backend/internal/auth"
	"finance-tracker-backend/internal/log"
)

// requireSession resolves the bearer token into a session and rejects the request without one.
func (h *handler) requireSession(c *gin.Context) {
	sess, err := h.svc.Authenticate(c.Request.Context(), bearerToken(c.GetHeader("Authorization")))
	if err != nil {
		fail(c, err, "Failed to verify token")
		return
	}

	ctx := auth.WithSession(c.Request.Context(), sess)
	ctx = log.WithContext(ctx, log.FromContext(ctx).With(log.FieldUserID, sess.User.ID))
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// session returns the caller resolved by requireSession.
func session(c *gin.Context) auth.Session {
	sess, _ := auth.FromContext(c.Request.Context())
	return sess
}
