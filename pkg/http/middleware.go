package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"liyu1981.xyz/iot-dashboard-service/pkg/auth"
	"liyu1981.xyz/iot-dashboard-service/pkg/common"
)

const ctxKeyUserID = "userID"

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		h.Set("Access-Control-Max-Age", "86400")
		c.Next()
	}
}

func preflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// resolveUser returns the session user id, empty when the request carries no valid
// session. A store failure is an error.
func (rs *RestfulServer) resolveUser(c *gin.Context) (string, error) {
	if rs.Sessions == nil {
		return "", nil
	}
	token := auth.TokenFromRequest(c.Request)
	if token == "" {
		return "", nil
	}
	userID, err := rs.Sessions.Resolve(c.Request.Context(), token)
	if errors.Is(err, auth.ErrNoSession) {
		return "", nil
	}
	return userID, err
}

func (rs *RestfulServer) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := rs.resolveUser(c)
		if err != nil {
			common.GetLoggerWith(common.LoggerNameRestfulServer).Error("Session lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve session"})
			return
		}
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(ctxKeyUserID, userID)
		c.Next()
	}
}

// optionalSession attaches the user when a session is present. A broken session store
// degrades to anonymous.
func (rs *RestfulServer) optionalSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := rs.resolveUser(c)
		if err != nil {
			common.GetLoggerWith(common.LoggerNameRestfulServer).Warn("Session lookup failed", zap.Error(err))
		}
		if userID != "" {
			c.Set(ctxKeyUserID, userID)
		}
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString(ctxKeyUserID)
}
