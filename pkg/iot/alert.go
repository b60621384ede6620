package iot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/iot-dashboard-service/pkg/common"
	"liyu1981.xyz/iot-dashboard-service/pkg/metrics"
	"liyu1981.xyz/iot-dashboard-service/pkg/models"
)

// AlertCandidate is an alert the engine decided to raise, not yet persisted.
type AlertCandidate struct {
	DeviceID  string
	Type      models.AlertType
	Severity  models.AlertSeverity
	Message   string
	Value     int
	Threshold int
}

type tier struct {
	severity  models.AlertSeverity
	threshold float64
	format    string
}

var (
	cpuTiers = []tier{
		{models.AlertSeverityCritical, 90, "CPU usage critically high: %s%%"},
		{models.AlertSeverityWarning, 75, "CPU usage high: %s%%"},
	}
	memoryTiers = []tier{
		{models.AlertSeverityCritical, 90, "Memory usage critically high: %s%%"},
		{models.AlertSeverityWarning, 80, "Memory usage high: %s%%"},
	}
	diskTiers = []tier{
		{models.AlertSeverityCritical, 90, "Disk %s almost full: %s%%"},
		{models.AlertSeverityWarning, 80, "Disk %s running low: %s%%"},
	}
	temperatureTiers = []tier{
		{models.AlertSeverityCritical, 85, "%s temperature critical: %s°C"},
		{models.AlertSeverityWarning, 75, "%s temperature high: %s°C"},
	}
)

const batteryHealthThreshold = 60

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// above returns the first tier strictly exceeded, tiers are ordered highest first.
func above(v float64, tiers []tier) (tier, bool) {
	for _, t := range tiers {
		if v > t.threshold {
			return t, true
		}
	}
	return tier{}, false
}

func candidate(deviceID string, alertType models.AlertType, t tier, value float64, message string) AlertCandidate {
	return AlertCandidate{
		DeviceID:  deviceID,
		Type:      alertType,
		Severity:  t.severity,
		Message:   message,
		Value:     roundInt(value),
		Threshold: int(t.threshold),
	}
}

// Evaluate applies the threshold rules to a snapshot. It has no side effects and
// returns candidates in a stable order.
func Evaluate(deviceID string, s *Snapshot) []AlertCandidate {
	if s == nil {
		return nil
	}
	var out []AlertCandidate

	if t, ok := above(s.CPUUsagePercent, cpuTiers); ok {
		out = append(out, candidate(deviceID, models.AlertTypeCPUHigh, t, s.CPUUsagePercent,
			fmt.Sprintf(t.format, formatNumber(s.CPUUsagePercent))))
	}

	if t, ok := above(s.MemoryPercent, memoryTiers); ok {
		out = append(out, candidate(deviceID, models.AlertTypeMemoryHigh, t, s.MemoryPercent,
			fmt.Sprintf(t.format, formatNumber(s.MemoryPercent))))
	}

	if b := s.Battery; b != nil && !b.PluggedIn {
		pct := formatNumber(b.Percent)
		switch {
		case b.Percent < 10:
			out = append(out, candidate(deviceID, models.AlertTypeBatteryCritical,
				tier{severity: models.AlertSeverityCritical, threshold: 10}, b.Percent,
				fmt.Sprintf("Battery critically low: %s%%", pct)))
		case b.Percent < 20:
			out = append(out, candidate(deviceID, models.AlertTypeBatteryLow,
				tier{severity: models.AlertSeverityWarning, threshold: 20}, b.Percent,
				fmt.Sprintf("Battery low: %s%%", pct)))
		}
	}

	for _, d := range s.Disks {
		if t, ok := above(d.Percent, diskTiers); ok {
			out = append(out, candidate(deviceID, models.AlertTypeDiskFull, t, d.Percent,
				fmt.Sprintf(t.format, d.Device, formatNumber(d.Percent))))
		}
	}

	names := make([]string, 0, len(s.Temperatures))
	for name := range s.Temperatures {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, current := range s.Temperatures[name] {
			if t, ok := above(current, temperatureTiers); ok {
				out = append(out, candidate(deviceID, models.AlertTypeTemperatureHigh, t, current,
					fmt.Sprintf(t.format, name, formatNumber(current))))
			}
		}
	}

	if s.FullChargeCapacity != nil && s.DesignCapacity != nil && *s.FullChargeCapacity != 0 && *s.DesignCapacity != 0 {
		health := *s.FullChargeCapacity / *s.DesignCapacity * 100
		if health < batteryHealthThreshold {
			out = append(out, candidate(deviceID, models.AlertTypeBatteryHealth,
				tier{severity: models.AlertSeverityWarning, threshold: batteryHealthThreshold}, health,
				fmt.Sprintf("Battery health degraded: %.1f%%", health)))
		}
	}

	return out
}

func (i *IOT) checkAndStoreAlerts(ctx context.Context, deviceID string, snapshot *Snapshot) ([]models.DeviceAlert, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTAlert),
	)

	var (
		stored []models.DeviceAlert
		errs   []error
	)

	for _, c := range Evaluate(deviceID, snapshot) {
		alert := models.DeviceAlert{
			DeviceID:  c.DeviceID,
			AlertType: c.Type,
			Severity:  c.Severity,
			Message:   c.Message,
			Value:     common.Ptr(c.Value),
			Threshold: common.Ptr(c.Threshold),
			CreatedAt: i.now(),
		}

		logger.Info("Alert found", zap.Reflect("alert", c))

		if err := i.Db.Conn.WithContext(ctx).Create(&alert).Error; err != nil {
			logger.Error("Alert not saved", zap.Reflect("alert", c), zap.Error(err))
			metrics.AlertPersistFailures.Inc()
			errs = append(errs, wrapDbError("create alert", err))
			continue
		}

		metrics.AlertsFired.WithLabelValues(string(c.Type), string(c.Severity)).Inc()
		logger.Info("Alert saved", zap.Reflect("alert", c), zap.Uint("alert_id", alert.ID))
		stored = append(stored, alert)
	}

	return stored, errors.Join(errs...)
}

func (i *IOT) getDeviceAlerts(ctx context.Context, deviceID string, includeResolved bool) ([]models.DeviceAlert, error) {
	query := i.Db.Conn.WithContext(ctx).Where("device_id = ?", deviceID)
	if !includeResolved {
		query = query.Where("resolved_at IS NULL")
	}

	alerts := []models.DeviceAlert{}
	err := query.Order("created_at desc").Order("id desc").Find(&alerts).Error
	return alerts, wrapDbError("list alerts", err)
}

func (i *IOT) updateAlert(ctx context.Context, deviceID string, alertID uint, updates map[string]any) (*models.DeviceAlert, error) {
	var alert models.DeviceAlert
	err := i.Db.Conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&alert, "id = ? AND device_id = ?", alertID, deviceID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.DeviceAlert{}).Where("id = ?", alert.ID).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&alert, alert.ID).Error
	})
	if err != nil {
		return nil, wrapDbError("update alert", err)
	}
	return &alert, nil
}

func (i *IOT) acknowledgeAlert(ctx context.Context, deviceID string, alertID uint) (*models.DeviceAlert, error) {
	return i.updateAlert(ctx, deviceID, alertID, map[string]any{"acknowledged": true})
}

// resolveAlert closes an alert. Resolving twice keeps the first resolution time.
func (i *IOT) resolveAlert(ctx context.Context, deviceID string, alertID uint) (*models.DeviceAlert, error) {
	return i.updateAlert(ctx, deviceID, alertID, map[string]any{
		"resolved_at": gorm.Expr("COALESCE(resolved_at, ?)", i.now()),
	})
}

type IAlertImpl struct {
	iot *IOT
}

func (ia *IAlertImpl) CheckAndStoreAlerts(ctx context.Context, deviceID string, snapshot *Snapshot) ([]models.DeviceAlert, error) {
	return ia.iot.checkAndStoreAlerts(ctx, deviceID, snapshot)
}

func (ia *IAlertImpl) GetDeviceAlerts(ctx context.Context, deviceID string, includeResolved bool) ([]models.DeviceAlert, error) {
	return ia.iot.getDeviceAlerts(ctx, deviceID, includeResolved)
}

func (ia *IAlertImpl) AcknowledgeAlert(ctx context.Context, deviceID string, alertID uint) (*models.DeviceAlert, error) {
	return ia.iot.acknowledgeAlert(ctx, deviceID, alertID)
}

func (ia *IAlertImpl) ResolveAlert(ctx context.Context, deviceID string, alertID uint) (*models.DeviceAlert, error) {
	return ia.iot.resolveAlert(ctx, deviceID, alertID)
}

func (i *IOT) GetIAlert() IAlert {
	return &IAlertImpl{iot: i}
}
