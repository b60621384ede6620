package iot

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"liyu1981.xyz/iot-dashboard-service/pkg/common"
	"liyu1981.xyz/iot-dashboard-service/pkg/metrics"
	"liyu1981.xyz/iot-dashboard-service/pkg/models"
)

// DeviceAttrs is an identity upsert. A nil UserID or Notes leaves the stored value alone.
type DeviceAttrs struct {
	ID         string
	Hostname   string
	SystemInfo json.RawMessage
	UserID     *string
	Notes      *string
}

func (i *IOT) upsertDevice(ctx context.Context, attrs DeviceAttrs) (*models.Device, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTDevice),
	)

	systemInfo := attrs.SystemInfo
	if len(systemInfo) == 0 {
		systemInfo = json.RawMessage(`{}`)
	}

	now := i.now()
	device := models.Device{
		ID:         attrs.ID,
		UserID:     attrs.UserID,
		Hostname:   attrs.Hostname,
		SystemInfo: datatypes.JSON(systemInfo),
		FirstSeen:  now,
		LastSeen:   now,
		Status:     models.DeviceStatusActive,
		Notes:      attrs.Notes,
	}

	logger.Info("Received device upsert", zap.String("device_id", attrs.ID), zap.String("hostname", attrs.Hostname))

	err := i.Db.Conn.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: append(
			clause.AssignmentColumns([]string{"hostname", "system_info", "last_seen", "status"}),
			clause.Assignment{Column: clause.Column{Name: "user_id"}, Value: gorm.Expr("COALESCE(excluded.user_id, devices.user_id)")},
			clause.Assignment{Column: clause.Column{Name: "notes"}, Value: gorm.Expr("COALESCE(excluded.notes, devices.notes)")},
		),
	}).Create(&device).Error
	if err != nil {
		return nil, wrapDbError("upsert device", err)
	}

	var stored models.Device
	if err := i.Db.Conn.WithContext(ctx).First(&stored, "id = ?", attrs.ID).Error; err != nil {
		return nil, wrapDbError("reload device", err)
	}

	logger.Info("Device upserted", zap.String("device_id", stored.ID), zap.Stringp("user_id", stored.UserID))
	return &stored, nil
}

func (i *IOT) getDevice(ctx context.Context, deviceID string) (*models.Device, error) {
	var device models.Device
	if err := i.Db.Conn.WithContext(ctx).First(&device, "id = ?", deviceID).Error; err != nil {
		return nil, wrapDbError("get device", err)
	}
	return &device, nil
}

func (i *IOT) listUserDevices(ctx context.Context, userID string) ([]models.Device, error) {
	devices := []models.Device{}
	err := i.Db.Conn.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_seen desc").
		Find(&devices).Error
	return devices, wrapDbError("list devices", err)
}

// sweepStale marks active devices offline once last_seen is older than thresholdMinutes.
func (i *IOT) sweepStale(ctx context.Context, thresholdMinutes int) (int64, error) {
	cutoff := i.now().Add(-time.Duration(thresholdMinutes) * time.Minute)

	result := i.Db.Conn.WithContext(ctx).
		Model(&models.Device{}).
		Where("status = ? AND last_seen < ?", models.DeviceStatusActive, cutoff).
		Update("status", models.DeviceStatusOffline)
	if result.Error != nil {
		return 0, wrapDbError("sweep stale devices", result.Error)
	}

	if result.RowsAffected > 0 {
		metrics.DevicesMarkedOffline.Add(float64(result.RowsAffected))
		common.GetLoggerWith(
			common.LoggerNameIOTCore,
			zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTDevice),
		).Info("Devices marked offline", zap.Int64("count", result.RowsAffected), zap.Time("cutoff", cutoff))
	}
	return result.RowsAffected, nil
}

type IDeviceImpl struct {
	iot *IOT
}

func (id *IDeviceImpl) UpsertDevice(ctx context.Context, attrs DeviceAttrs) (*models.Device, error) {
	return id.iot.upsertDevice(ctx, attrs)
}

func (id *IDeviceImpl) GetDevice(ctx context.Context, deviceID string) (*models.Device, error) {
	return id.iot.getDevice(ctx, deviceID)
}

func (id *IDeviceImpl) ListUserDevices(ctx context.Context, userID string) ([]models.Device, error) {
	return id.iot.listUserDevices(ctx, userID)
}

func (id *IDeviceImpl) SweepStale(ctx context.Context, thresholdMinutes int) (int64, error) {
	return id.iot.sweepStale(ctx, thresholdMinutes)
}

func (i *IOT) GetIDevice() IDevice {
	return &IDeviceImpl{iot: i}
}
