package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"liyu1981.xyz/iot-dashboard-service/pkg/common"
	"liyu1981.xyz/iot-dashboard-service/pkg/iot"
	"liyu1981.xyz/iot-dashboard-service/pkg/validation"
)

// respondError maps service errors to status codes. failMessage is the client facing
// text for anything unexpected.
func respondError(c *gin.Context, err error, failMessage string) {
	var vErr *validation.Error
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message, "details": vErr.Details})
	case errors.Is(err, iot.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": iot.PublicMessage(err)})
	case errors.Is(err, iot.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": iot.PublicMessage(err)})
	case errors.Is(err, iot.ErrConstraint), errors.Is(err, iot.ErrConflict):
		common.GetLoggerWith(common.LoggerNameRestfulServer).Warn("Request rejected",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": iot.PublicMessage(err)})
	default:
		common.GetLoggerWith(common.LoggerNameRestfulServer).Error(failMessage,
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": failMessage})
	}
}

func tooManyRequests(c *gin.Context) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
}
