package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"liyu1981.xyz/iot-dashboard-service/pkg/iot"
	"liyu1981.xyz/iot-dashboard-service/pkg/models"
	"liyu1981.xyz/iot-dashboard-service/pkg/validation"
)

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Float64().Required().GT(0),
	"burst": z.Int().Required().GT(0),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	device, ok := rs.ownedDevice(c)
	if !ok {
		return
	}

	var req LimiterRequest
	if errs := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); errs != nil {
		respondError(c, validation.FromIssues(errs), "Failed to set limiter")
		return
	}

	rs.SetLimiter(device.ID, req.Rate, req.Burst)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readBody(c *gin.Context) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable request body"})
		return nil, false
	}
	return body, true
}

// ownedDevice loads the path device and checks it belongs to the session user.
func (rs *RestfulServer) ownedDevice(c *gin.Context) (*models.Device, bool) {
	device, err := rs.Iot.Device.GetDevice(c.Request.Context(), c.Param("deviceId"))
	if errors.Is(err, iot.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
		return nil, false
	}
	if err != nil {
		respondError(c, err, "Failed to fetch device")
		return nil, false
	}
	if device.UserID == nil || *device.UserID != userID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return nil, false
	}
	return device, true
}
