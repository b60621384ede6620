package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"liyu1981.xyz/iot-dashboard-service/pkg/common"
	"liyu1981.xyz/iot-dashboard-service/pkg/iot"
	"liyu1981.xyz/iot-dashboard-service/pkg/models"
	"liyu1981.xyz/iot-dashboard-service/pkg/report"
	"liyu1981.xyz/iot-dashboard-service/pkg/validation"
)

const (
	statsWindowHours  = 24
	defaultDataLimit  = 100
	maxDataLimit      = 1000
	maxReadingsWindow = 24 * 30
)

func (rs *RestfulServer) PostDeviceData(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	var addressed struct {
		DeviceID string `json:"deviceId"`
	}
	// bodies that do not decode here are rejected by ParseTelemetry with field details
	if err := json.Unmarshal(body, &addressed); err == nil && addressed.DeviceID != "" {
		if !rs.CheckDeviceLimiter(addressed.DeviceID) {
			tooManyRequests(c)
			return
		}
	}

	t, err := validation.ParseTelemetry(body)
	if err != nil {
		respondError(c, err, "Failed to store data")
		return
	}

	result, err := rs.Iot.Telemetry.Ingest(c.Request.Context(), t)
	if err != nil {
		respondError(c, err, "Failed to store data")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"receivedAt": result.ReceivedAt,
		"message":    "Data stored successfully",
	})
}

type DeviceDataQuery struct {
	DeviceID string `zog:"deviceId"`
	Limit    int    `zog:"limit"`
}

var deviceDataQuerySchema = z.Struct(z.Shape{
	"DeviceID": z.String().Required(),
	"Limit":    z.Int().Default(defaultDataLimit).GT(0).LTE(maxDataLimit),
})

func (rs *RestfulServer) GetDeviceData(c *gin.Context) {
	if c.Query("deviceId") == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deviceId parameter required"})
		return
	}

	var q DeviceDataQuery
	if errs := deviceDataQuerySchema.Parse(zhttp.Request(c.Request), &q); errs != nil {
		respondError(c, validation.FromIssues(errs), "Failed to fetch data")
		return
	}

	readings, err := rs.Iot.Telemetry.LatestReadings(c.Request.Context(), q.DeviceID, q.Limit)
	if err != nil {
		respondError(c, err, "Failed to fetch data")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"deviceId": q.DeviceID,
		"count":    len(readings),
		"data":     readings,
	})
}

func (rs *RestfulServer) RegisterDevice(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	reg, err := validation.ParseDeviceRegistration(body)
	if err != nil {
		respondError(c, err, "Failed to register device")
		return
	}

	attrs := iot.DeviceAttrs{
		ID:         reg.DeviceID,
		Hostname:   reg.Hostname,
		SystemInfo: reg.SystemInfoJSON(),
		Notes:      reg.Notes,
	}
	if owner := userID(c); owner != "" {
		attrs.UserID = &owner
	}

	device, err := rs.Iot.Device.UpsertDevice(c.Request.Context(), attrs)
	if err != nil {
		respondError(c, err, "Failed to register device")
		return
	}

	common.GetLoggerWith(common.LoggerNameRestfulServer).Info("Device registered",
		zap.String("device_id", device.ID),
		zap.Bool("has_session", attrs.UserID != nil),
	)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Device registered successfully",
		"device":  device,
	})
}

func (rs *RestfulServer) ListDevices(c *gin.Context) {
	devices, err := rs.Iot.Device.ListUserDevices(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err, "Failed to fetch devices")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(devices),
		"devices": devices,
	})
}

func (rs *RestfulServer) GetDevice(c *gin.Context) {
	ctx := c.Request.Context()
	deviceID := c.Param("deviceId")

	device, err := rs.Iot.Device.GetDevice(ctx, deviceID)
	if errors.Is(err, iot.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
		return
	}
	if err != nil {
		respondError(c, err, "Failed to fetch device")
		return
	}

	latest, err := rs.Iot.Telemetry.LatestReadings(ctx, deviceID, 1)
	if err != nil {
		respondError(c, err, "Failed to fetch device")
		return
	}
	stats, err := rs.Iot.Telemetry.Stats(ctx, deviceID, statsWindowHours)
	if err != nil {
		respondError(c, err, "Failed to fetch device")
		return
	}
	alerts, err := rs.Iot.Alert.GetDeviceAlerts(ctx, deviceID, false)
	if err != nil {
		respondError(c, err, "Failed to fetch device")
		return
	}

	var latestData *models.TelemetryReading
	if len(latest) > 0 {
		latestData = &latest[0]
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"device":       device,
		"latestData":   latestData,
		"statistics":   stats,
		"activeAlerts": alerts,
	})
}

type WindowQuery struct {
	Hours int `zog:"hours"`
}

var windowQuerySchema = z.Struct(z.Shape{
	"Hours": z.Int().Default(statsWindowHours).GT(0).LTE(maxReadingsWindow),
})

func parseWindow(c *gin.Context) (from, to time.Time, ok bool) {
	var q WindowQuery
	if errs := windowQuerySchema.Parse(zhttp.Request(c.Request), &q); errs != nil {
		respondError(c, validation.FromIssues(errs), "Failed to fetch readings")
		return from, to, false
	}
	to = time.Now().UTC()
	from = to.Add(-time.Duration(q.Hours) * time.Hour)
	return from, to, true
}

func (rs *RestfulServer) GetReadings(c *gin.Context) {
	deviceID := c.Param("deviceId")
	from, to, ok := parseWindow(c)
	if !ok {
		return
	}

	readings, err := rs.Iot.Telemetry.ReadingsRange(c.Request.Context(), deviceID, from, to)
	if err != nil {
		respondError(c, err, "Failed to fetch readings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"deviceId": deviceID,
		"from":     from,
		"to":       to,
		"count":    len(readings),
		"data":     readings,
	})
}

func (rs *RestfulServer) ExportReadings(c *gin.Context) {
	device, ok := rs.ownedDevice(c)
	if !ok {
		return
	}
	from, to, ok := parseWindow(c)
	if !ok {
		return
	}

	readings, err := rs.Iot.Telemetry.ReadingsRange(c.Request.Context(), device.ID, from, to)
	if err != nil {
		respondError(c, err, "Failed to export readings")
		return
	}

	content, err := report.Readings(device.ID, readings)
	if err != nil {
		respondError(c, err, "Failed to export readings")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+report.FileName(device.ID, to)+`"`)
	c.Data(http.StatusOK, report.ContentType, content)
}

type AlertsQuery struct {
	IncludeResolved bool `zog:"includeResolved"`
}

var alertsQuerySchema = z.Struct(z.Shape{
	"IncludeResolved": z.Bool().Default(false),
})

func (rs *RestfulServer) GetAlerts(c *gin.Context) {
	deviceID := c.Param("deviceId")

	var q AlertsQuery
	if errs := alertsQuerySchema.Parse(zhttp.Request(c.Request), &q); errs != nil {
		respondError(c, validation.FromIssues(errs), "Failed to fetch alerts")
		return
	}

	alerts, err := rs.Iot.Alert.GetDeviceAlerts(c.Request.Context(), deviceID, q.IncludeResolved)
	if err != nil {
		respondError(c, err, "Failed to fetch alerts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"deviceId": deviceID,
		"count":    len(alerts),
		"alerts":   alerts,
	})
}

const (
	AlertActionAcknowledge = "acknowledge"
	AlertActionResolve     = "resolve"
)

type AlertUpdateRequest struct {
	Action string `json:"action"`
}

var alertUpdateSchema = z.Struct(z.Shape{
	"Action": z.String().Required().OneOf([]string{AlertActionAcknowledge, AlertActionResolve}),
})

func (rs *RestfulServer) UpdateAlert(c *gin.Context) {
	device, ok := rs.ownedDevice(c)
	if !ok {
		return
	}

	alertID, ok := pathID(c, "alertId")
	if !ok {
		return
	}

	var req AlertUpdateRequest
	if errs := alertUpdateSchema.Parse(zhttp.Request(c.Request), &req); errs != nil {
		respondError(c, validation.FromIssues(errs), "Failed to update alert")
		return
	}

	var alert *models.DeviceAlert
	var err error
	switch req.Action {
	case AlertActionAcknowledge:
		alert, err = rs.Iot.Alert.AcknowledgeAlert(c.Request.Context(), device.ID, alertID)
	default:
		alert, err = rs.Iot.Alert.ResolveAlert(c.Request.Context(), device.ID, alertID)
	}
	if err != nil {
		respondError(c, err, "Failed to update alert")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "alert": alert})
}
