package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"liyu1981.xyz/iot-dashboard-service/pkg/iot"
	"liyu1981.xyz/iot-dashboard-service/pkg/models"
	"liyu1981.xyz/iot-dashboard-service/pkg/validation"
)

const sensorDetailReadings = 10

func (rs *RestfulServer) ListSensors(c *gin.Context) {
	sensors, err := rs.Iot.Sensor.ListUserSensors(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err, "Failed to fetch sensors")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(sensors),
		"sensors": sensors,
	})
}

// RegisterSensor creates or updates a sensor. Re-registering someone else's sensor id
// is forbidden.
func (rs *RestfulServer) RegisterSensor(c *gin.Context) {
	ctx := c.Request.Context()
	owner := userID(c)

	body, ok := readBody(c)
	if !ok {
		return
	}
	reg, err := validation.ParseSensorRegistration(body)
	if err != nil {
		respondError(c, err, "Failed to register sensor")
		return
	}

	existing, err := rs.Iot.Sensor.GetSensor(ctx, reg.ID)
	switch {
	case errors.Is(err, iot.ErrNotFound):
	case err != nil:
		respondError(c, err, "Failed to register sensor")
		return
	case existing.UserID != owner:
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	sensor, err := rs.Iot.Sensor.UpsertSensor(ctx, iot.SensorAttrs{
		ID:              reg.ID,
		UserID:          owner,
		Name:            reg.Name,
		MeasurementType: reg.MeasurementType,
		DeviceID:        reg.DeviceID,
		Location:        reg.Location,
	})
	if err != nil {
		respondError(c, err, "Failed to register sensor")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "sensor": sensor})
}

func (rs *RestfulServer) ownedSensor(c *gin.Context) (*models.Sensor, bool) {
	sensor, err := rs.Iot.Sensor.GetSensor(c.Request.Context(), c.Param("sensorId"))
	if errors.Is(err, iot.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sensor not found"})
		return nil, false
	}
	if err != nil {
		respondError(c, err, "Failed to fetch sensor")
		return nil, false
	}
	if sensor.UserID != userID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return nil, false
	}
	return sensor, true
}

func (rs *RestfulServer) GetSensor(c *gin.Context) {
	sensor, ok := rs.ownedSensor(c)
	if !ok {
		return
	}

	readings, err := rs.Iot.Sensor.LatestReadings(c.Request.Context(), sensor.ID, sensorDetailReadings)
	if err != nil {
		respondError(c, err, "Failed to fetch sensor")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"sensor":     sensor,
		"latestData": readings,
	})
}

func (rs *RestfulServer) UpdateSensor(c *gin.Context) {
	sensor, ok := rs.ownedSensor(c)
	if !ok {
		return
	}

	body, ok := readBody(c)
	if !ok {
		return
	}
	update, err := validation.ParseSensorUpdate(body)
	if err != nil {
		respondError(c, err, "Failed to update sensor")
		return
	}

	updated, err := rs.Iot.Sensor.UpdateSensor(c.Request.Context(), sensor.ID, update)
	if err != nil {
		respondError(c, err, "Failed to update sensor")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "sensor": updated})
}

func (rs *RestfulServer) DeleteSensor(c *gin.Context) {
	sensor, ok := rs.ownedSensor(c)
	if !ok {
		return
	}

	if err := rs.Iot.Sensor.DeleteSensor(c.Request.Context(), sensor.ID); err != nil {
		respondError(c, err, "Failed to delete sensor")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PostVoltage is the bare hardware push. The sensor must already be registered.
func (rs *RestfulServer) PostVoltage(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}
	in, err := validation.ParseVoltageReading(body)
	if err != nil {
		respondError(c, err, "Failed to insert sensor data")
		return
	}

	sensor, err := rs.Iot.RecordVoltage(c.Request.Context(), in, time.Now())
	if errors.Is(err, iot.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sensor not found. Please register the sensor first."})
		return
	}
	if err != nil {
		respondError(c, err, "Failed to insert sensor data")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "sensor": sensor, "dataInserted": true})
}

func (rs *RestfulServer) PostSensorValues(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}
	reading, err := validation.ParseSensorReading(body, time.Now())
	if err != nil {
		respondError(c, err, "Failed to store sensor reading")
		return
	}

	_, err = rs.Iot.Sensor.AppendReading(c.Request.Context(), c.Param("sensorId"), reading)
	if errors.Is(err, iot.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sensor not found"})
		return
	}
	if err != nil {
		respondError(c, err, "Failed to store sensor reading")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true})
}
