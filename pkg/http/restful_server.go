package http

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"liyu1981.xyz/iot-dashboard-service/pkg/auth"
	"liyu1981.xyz/iot-dashboard-service/pkg/iot"
	"liyu1981.xyz/iot-dashboard-service/pkg/metrics"
	"liyu1981.xyz/iot-dashboard-service/pkg/unifi"
)

type RestfulServer struct {
	Server           *gin.Engine
	Iot              *iot.IOT
	RateLimiterStore *iot.RateLimiterStore
	Sessions         auth.SessionStore
	Unifi            *unifi.Client
}

func (rs *RestfulServer) GetLimiter(deviceID string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(deviceID)
	}
}

func (rs *RestfulServer) CheckDeviceLimiter(deviceID string) bool {
	limiter := rs.GetLimiter(deviceID)
	if limiter == nil {
		return true
	}
	if !limiter.Allow() {
		metrics.RateLimited.WithLabelValues(metrics.TransportHTTP).Inc()
		return false
	}
	return true
}

func (rs *RestfulServer) SetLimiter(deviceID string, deviceRate float64, deviceBurst int) {
	if rs.RateLimiterStore == nil {
		return
	}
	rs.RateLimiterStore.SetLimiter(deviceID, rate.Limit(deviceRate), deviceBurst)
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)
	rs.Server.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := rs.Server.Group("/api")

	// agent facing, open to any origin
	api.OPTIONS("/devices/data", cors(), preflight)
	api.POST("/devices/data", cors(), rs.PostDeviceData)
	api.GET("/devices/data", rs.GetDeviceData)

	api.POST("/devices/register", rs.optionalSession(), rs.RegisterDevice)
	api.GET("/devices", rs.requireSession(), rs.ListDevices)

	devices := api.Group("/devices/:deviceId")
	{
		devices.GET("", rs.GetDevice)
		devices.GET("/readings", rs.GetReadings)
		devices.GET("/alerts", rs.GetAlerts)
		devices.PATCH("/alerts/:alertId", rs.requireSession(), rs.UpdateAlert)
		devices.GET("/export", rs.requireSession(), rs.ExportReadings)
		devices.GET("/commands", rs.GetPendingCommands)
		devices.POST("/commands", rs.requireSession(), rs.EnqueueCommand)
		devices.POST("/commands/:commandId/ack", rs.AcknowledgeCommand)
		devices.POST("/limiter", rs.requireSession(), rs.PostLimiter)
	}

	sensors := api.Group("/sensors", rs.requireSession())
	{
		sensors.GET("", rs.ListSensors)
		sensors.POST("", rs.RegisterSensor)
		sensors.GET("/:sensorId", rs.GetSensor)
		sensors.PATCH("/:sensorId", rs.UpdateSensor)
		sensors.DELETE("/:sensorId", rs.DeleteSensor)
	}

	hardware := api.Group("/iot/sensors", cors())
	{
		hardware.OPTIONS("", preflight)
		hardware.POST("", rs.PostVoltage)
		hardware.OPTIONS("/:sensorId/values", preflight)
		hardware.POST("/:sensorId/values", rs.PostSensorValues)
	}

	integrations := api.Group("/unifi", rs.requireSession())
	{
		integrations.POST("", rs.ListUnifiSites)
		integrations.PUT("", rs.SaveUnifiConfig)
		integrations.GET("", rs.GetUnifiSiteData)
	}
}
