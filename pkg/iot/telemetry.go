package iot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/iot-dashboard-service/pkg/common"
	"liyu1981.xyz/iot-dashboard-service/pkg/metrics"
	"liyu1981.xyz/iot-dashboard-service/pkg/models"
	"liyu1981.xyz/iot-dashboard-service/pkg/validation"
)

type IngestResult struct {
	ReceivedAt time.Time
	Device     *models.Device
	Reading    *models.TelemetryReading
	Alerts     []models.DeviceAlert
}

// DeviceStats aggregates readings over a window. Pointers are nil when the window is
// empty, and battery values stay nil when no reading carried a battery block.
type DeviceStats struct {
	AvgCPUUsage       *float64 `gorm:"column:avg_cpu_usage" json:"avgCpuUsage"`
	MaxCPUUsage       *float64 `gorm:"column:max_cpu_usage" json:"maxCpuUsage"`
	AvgMemoryPercent  *float64 `gorm:"column:avg_memory_percent" json:"avgMemoryPercent"`
	MaxMemoryPercent  *float64 `gorm:"column:max_memory_percent" json:"maxMemoryPercent"`
	AvgBatteryPercent *float64 `gorm:"column:avg_battery_percent" json:"avgBatteryPercent"`
	MinBatteryPercent *float64 `gorm:"column:min_battery_percent" json:"minBatteryPercent"`
	DataPoints        int64    `gorm:"column:data_points" json:"dataPoints"`
}

func (i *IOT) ingest(ctx context.Context, t *validation.Telemetry) (*IngestResult, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTTelemetry),
	)

	receivedAt := i.now()
	logger.Info("Received telemetry for device",
		zap.String("device_id", t.DeviceID),
		zap.String("hostname", t.Hostname),
		zap.Time("timestamp", t.EventTime),
	)

	reading, snapshot, err := Normalize(t, receivedAt)
	if err != nil {
		return nil, err
	}

	if i.Device == nil || i.Alert == nil {
		return nil, fmt.Errorf("device or alert service not available")
	}

	var systemInfo json.RawMessage
	if t.Data.SystemInfo != nil {
		if systemInfo, err = json.Marshal(t.Data.SystemInfo); err != nil {
			return nil, fmt.Errorf("encode system info: %w", err)
		}
	}

	device, err := i.Device.UpsertDevice(ctx, DeviceAttrs{
		ID:         t.DeviceID,
		Hostname:   t.Hostname,
		SystemInfo: systemInfo,
	})
	if err != nil {
		return nil, err
	}

	if err := i.appendReading(ctx, reading); err != nil {
		return nil, err
	}

	logger.Info("Telemetry saved",
		zap.String("device_id", t.DeviceID),
		zap.Uint("reading_id", reading.ID),
		zap.Int("cpu_usage", reading.CPUUsage),
		zap.Int("memory_percent", reading.MemoryPercent),
		zap.Intp("battery_percent", reading.BatteryPercent),
	)

	alerts, err := i.Alert.CheckAndStoreAlerts(ctx, t.DeviceID, snapshot)
	if err != nil {
		logger.Error("Some alerts were not stored", zap.String("device_id", t.DeviceID), zap.Error(err))
	}

	return &IngestResult{
		ReceivedAt: receivedAt,
		Device:     device,
		Reading:    reading,
		Alerts:     alerts,
	}, nil
}

// appendReading inserts one row. A missing parent device maps to ErrNotFound.
func (i *IOT) appendReading(ctx context.Context, reading *models.TelemetryReading) error {
	if reading.ReceivedAt.IsZero() {
		reading.ReceivedAt = i.now()
	}
	if len(reading.FullDataSnapshot) == 0 {
		reading.FullDataSnapshot = []byte(`{}`)
	}

	if err := i.Db.Conn.WithContext(ctx).Create(reading).Error; err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("append reading for %s: %w", reading.DeviceID, ErrNotFound)
		}
		return wrapDbError("append reading", err)
	}

	metrics.ReadingsIngested.WithLabelValues(metrics.KindTelemetry).Inc()
	return nil
}

func (i *IOT) latestReadings(ctx context.Context, deviceID string, limit int) ([]models.TelemetryReading, error) {
	if limit <= 0 {
		limit = 1
	}
	readings := []models.TelemetryReading{}
	err := i.Db.Conn.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Order("timestamp desc").
		Order("id desc").
		Limit(limit).
		Find(&readings).Error
	return readings, wrapDbError("latest readings", err)
}

func (i *IOT) readingsRange(ctx context.Context, deviceID string, from, to time.Time) ([]models.TelemetryReading, error) {
	readings := []models.TelemetryReading{}
	err := i.Db.Conn.WithContext(ctx).
		Where("device_id = ? AND timestamp >= ? AND timestamp <= ?", deviceID, from.UTC(), to.UTC()).
		Order("timestamp asc").
		Order("id asc").
		Find(&readings).Error
	return readings, wrapDbError("readings range", err)
}

func (i *IOT) stats(ctx context.Context, deviceID string, windowHours int) (*DeviceStats, error) {
	since := i.now().Add(-time.Duration(windowHours) * time.Hour)

	var stats DeviceStats
	err := i.Db.Conn.WithContext(ctx).
		Model(&models.TelemetryReading{}).
		Select(`AVG(cpu_usage) AS avg_cpu_usage,
			MAX(cpu_usage) AS max_cpu_usage,
			AVG(memory_percent) AS avg_memory_percent,
			MAX(memory_percent) AS max_memory_percent,
			AVG(battery_percent) AS avg_battery_percent,
			MIN(battery_percent) AS min_battery_percent,
			COUNT(*) AS data_points`).
		Where("device_id = ? AND timestamp >= ?", deviceID, since).
		Scan(&stats).Error
	if err != nil {
		return nil, wrapDbError("device stats", err)
	}
	return &stats, nil
}

// deleteOlderThan is the retention cleanup, it only touches device_data.
func (i *IOT) deleteOlderThan(ctx context.Context, days int) (int64, error) {
	if days < 0 {
		return 0, errors.New("retention days must not be negative")
	}
	cutoff := i.now().Add(-time.Duration(days) * 24 * time.Hour)

	result := i.Db.Conn.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Delete(&models.TelemetryReading{})
	if result.Error != nil {
		return 0, wrapDbError("delete old readings", result.Error)
	}
	return result.RowsAffected, nil
}

type ITelemetryImpl struct {
	iot *IOT
}

func (it *ITelemetryImpl) Ingest(ctx context.Context, telemetry *validation.Telemetry) (*IngestResult, error) {
	return it.iot.ingest(ctx, telemetry)
}

func (it *ITelemetryImpl) AppendReading(ctx context.Context, reading *models.TelemetryReading) error {
	return it.iot.appendReading(ctx, reading)
}

func (it *ITelemetryImpl) LatestReadings(ctx context.Context, deviceID string, limit int) ([]models.TelemetryReading, error) {
	return it.iot.latestReadings(ctx, deviceID, limit)
}

func (it *ITelemetryImpl) ReadingsRange(ctx context.Context, deviceID string, from, to time.Time) ([]models.TelemetryReading, error) {
	return it.iot.readingsRange(ctx, deviceID, from, to)
}

func (it *ITelemetryImpl) Stats(ctx context.Context, deviceID string, windowHours int) (*DeviceStats, error) {
	return it.iot.stats(ctx, deviceID, windowHours)
}

func (it *ITelemetryImpl) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	return it.iot.deleteOlderThan(ctx, days)
}

func (i *IOT) GetITelemetry() ITelemetry {
	return &ITelemetryImpl{iot: i}
}
