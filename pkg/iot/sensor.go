package iot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"liyu1981.xyz/iot-dashboard-service/pkg/common"
	"liyu1981.xyz/iot-dashboard-service/pkg/metrics"
	"liyu1981.xyz/iot-dashboard-service/pkg/models"
	"liyu1981.xyz/iot-dashboard-service/pkg/validation"
)

const VoltageUnit = "V"

// SensorAttrs is a sensor upsert. An empty UserID, nil DeviceID or nil Location keeps
// the stored value.
type SensorAttrs struct {
	ID              string
	UserID          string
	Name            string
	MeasurementType string
	DeviceID        *string
	Location        *string
}

func sensorLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTSensor),
	)
}

func (i *IOT) upsertSensor(ctx context.Context, attrs SensorAttrs) (*models.Sensor, error) {
	now := i.now()
	sensor := models.Sensor{
		ID:              attrs.ID,
		UserID:          attrs.UserID,
		DeviceID:        attrs.DeviceID,
		Name:            attrs.Name,
		MeasurementType: attrs.MeasurementType,
		Location:        attrs.Location,
		Status:          models.SensorStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := i.Db.Conn.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: append(
			clause.AssignmentColumns([]string{"name", "measurement_type", "status", "updated_at"}),
			clause.Assignment{Column: clause.Column{Name: "user_id"}, Value: gorm.Expr("COALESCE(NULLIF(excluded.user_id, ''), sensors.user_id)")},
			// omitted associations keep their stored values, UpdateSensor clears them
			clause.Assignment{Column: clause.Column{Name: "location"}, Value: gorm.Expr("COALESCE(excluded.location, sensors.location)")},
			clause.Assignment{Column: clause.Column{Name: "device_id"}, Value: gorm.Expr("COALESCE(excluded.device_id, sensors.device_id)")},
		),
	}).Create(&sensor).Error
	if err != nil {
		return nil, wrapDbError("upsert sensor", err)
	}

	stored, err := i.getSensor(ctx, attrs.ID)
	if err != nil {
		return nil, err
	}

	sensorLogger().Info("Sensor upserted", zap.String("sensor_id", stored.ID), zap.String("user_id", stored.UserID))
	return stored, nil
}

func (i *IOT) getSensor(ctx context.Context, sensorID string) (*models.Sensor, error) {
	var sensor models.Sensor
	if err := i.Db.Conn.WithContext(ctx).First(&sensor, "id = ?", sensorID).Error; err != nil {
		return nil, wrapDbError("get sensor", err)
	}
	return &sensor, nil
}

func (i *IOT) listUserSensors(ctx context.Context, userID string) ([]models.Sensor, error) {
	sensors := []models.Sensor{}
	err := i.Db.Conn.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&sensors).Error
	return sensors, wrapDbError("list sensors", err)
}

func (i *IOT) updateSensor(ctx context.Context, sensorID string, update *validation.SensorUpdate) (*models.Sensor, error) {
	updates := map[string]any{}
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.MeasurementType != nil {
		updates["measurement_type"] = *update.MeasurementType
	}
	if update.Location != nil {
		updates["location"] = *update.Location
	}
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	switch {
	case update.ClearDevice:
		updates["device_id"] = nil
	case update.DeviceID != nil:
		updates["device_id"] = *update.DeviceID
	}

	if _, err := i.getSensor(ctx, sensorID); err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		updates["updated_at"] = i.now()
		err := i.Db.Conn.WithContext(ctx).
			Model(&models.Sensor{}).
			Where("id = ?", sensorID).
			Updates(updates).Error
		if err != nil {
			return nil, wrapDbError("update sensor", err)
		}
	}

	return i.getSensor(ctx, sensorID)
}

func (i *IOT) deleteSensor(ctx context.Context, sensorID string) error {
	result := i.Db.Conn.WithContext(ctx).Delete(&models.Sensor{}, "id = ?", sensorID)
	if result.Error != nil {
		return wrapDbError("delete sensor", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete sensor %s: %w", sensorID, ErrNotFound)
	}
	sensorLogger().Info("Sensor deleted", zap.String("sensor_id", sensorID))
	return nil
}

// appendSensorReading never writes an orphan row: the insert relies on the foreign key,
// a violation is reported as ErrNotFound.
func (i *IOT) appendSensorReading(ctx context.Context, sensorID string, in *validation.SensorReading) (*models.SensorReading, error) {
	reading := models.SensorReading{
		SensorID:   sensorID,
		Timestamp:  in.Timestamp.UTC(),
		Value:      in.Value,
		Unit:       in.Unit,
		ReceivedAt: i.now(),
	}
	if len(in.Metadata) > 0 {
		reading.Metadata = datatypes.JSON(in.Metadata)
	}

	if err := i.Db.Conn.WithContext(ctx).Create(&reading).Error; err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("append reading for sensor %s: %w", sensorID, ErrNotFound)
		}
		return nil, wrapDbError("append sensor reading", err)
	}

	metrics.ReadingsIngested.WithLabelValues(metrics.KindSensor).Inc()
	sensorLogger().Info("Sensor reading saved", zap.String("sensor_id", sensorID), zap.String("value", reading.Value))
	return &reading, nil
}

// RecordVoltage stores a bare volt push against a registered sensor. The sensor must
// exist, an unknown id is ErrNotFound and nothing is written.
func (i *IOT) RecordVoltage(ctx context.Context, in *validation.VoltageReading, now time.Time) (*models.Sensor, error) {
	sensor, err := i.Sensor.GetSensor(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if _, err := i.Sensor.AppendReading(ctx, sensor.ID, &validation.SensorReading{
		Value:     strconv.FormatFloat(in.Volts, 'f', -1, 64),
		Unit:      common.Ptr(VoltageUnit),
		Metadata:  []byte(`{}`),
		Timestamp: now.UTC(),
	}); err != nil {
		return nil, err
	}
	return sensor, nil
}

func (i *IOT) latestSensorReadings(ctx context.Context, sensorID string, limit int) ([]models.SensorReading, error) {
	if limit <= 0 {
		limit = 1
	}
	readings := []models.SensorReading{}
	err := i.Db.Conn.WithContext(ctx).
		Where("sensor_id = ?", sensorID).
		Order("timestamp desc").
		Order("id desc").
		Limit(limit).
		Find(&readings).Error
	return readings, wrapDbError("latest sensor readings", err)
}

type ISensorImpl struct {
	iot *IOT
}

func (is *ISensorImpl) UpsertSensor(ctx context.Context, attrs SensorAttrs) (*models.Sensor, error) {
	return is.iot.upsertSensor(ctx, attrs)
}

func (is *ISensorImpl) GetSensor(ctx context.Context, sensorID string) (*models.Sensor, error) {
	return is.iot.getSensor(ctx, sensorID)
}

func (is *ISensorImpl) ListUserSensors(ctx context.Context, userID string) ([]models.Sensor, error) {
	return is.iot.listUserSensors(ctx, userID)
}

func (is *ISensorImpl) UpdateSensor(ctx context.Context, sensorID string, update *validation.SensorUpdate) (*models.Sensor, error) {
	return is.iot.updateSensor(ctx, sensorID, update)
}

func (is *ISensorImpl) DeleteSensor(ctx context.Context, sensorID string) error {
	return is.iot.deleteSensor(ctx, sensorID)
}

func (is *ISensorImpl) AppendReading(ctx context.Context, sensorID string, reading *validation.SensorReading) (*models.SensorReading, error) {
	return is.iot.appendSensorReading(ctx, sensorID, reading)
}

func (is *ISensorImpl) LatestReadings(ctx context.Context, sensorID string, limit int) ([]models.SensorReading, error) {
	return is.iot.latestSensorReadings(ctx, sensorID, limit)
}

func (i *IOT) GetISensor() ISensor {
	return &ISensorImpl{iot: i}
}
