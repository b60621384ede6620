package iot_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zapcore"

	"liyu1981.xyz/iot-dashboard-service/pkg/common"
	"liyu1981.xyz/iot-dashboard-service/pkg/iot"
	"liyu1981.xyz/iot-dashboard-service/pkg/models"
	"liyu1981.xyz/iot-dashboard-service/pkg/testing/fixtures"
	_ "liyu1981.xyz/iot-dashboard-service/pkg/testing"
)

func TestIngest_NormalizesAndStores(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _ := GetMockIOTWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	deviceID := uuid.NewString()
	result := mustIngest(t, iotObj, deviceID, nil)

	assert.Equal(t, deviceID, result.Device.ID)
	assert.Equal(t, models.DeviceStatusActive, result.Device.Status)
	assert.Contains(t, string(result.Device.SystemInfo), `"node_name":"laptop"`)
	assert.Empty(t, result.Alerts)

	readings, err := iotObj.Telemetry.LatestReadings(context.Background(), deviceID, 10)
	require.NoError(t, err)
	require.Len(t, readings, 1)

	r := readings[0]
	assert.Equal(t, 12, r.CPUUsage)
	assert.Equal(t, 2401, *r.CPUFreqCurrent)
	assert.Equal(t, 8, *r.CPUCores)
	assert.Equal(t, 15600, r.MemoryTotal)
	assert.Equal(t, 6400, r.MemoryUsed)
	assert.Equal(t, 9200, r.MemoryAvailable)
	assert.Equal(t, 41, r.MemoryPercent)
	assert.Equal(t, 77, *r.BatteryPercent)
	assert.True(t, *r.BatteryPluggedIn)
	assert.Nil(t, r.BatteryTimeLeft)
	assert.Equal(t, 12450.0, *r.PowerVoltage)
	assert.Equal(t, -8200.0, *r.PowerCurrentRate)
	assert.Equal(t, int64(4096000), *r.NetworkBytesReceived)
	assert.Contains(t, string(r.DiskInfo), `"/dev/nvme0n1p2"`)
	assert.Contains(t, string(r.TemperatureInfo), `"Package id 0"`)
	assert.Contains(t, string(r.FullDataSnapshot), `"cpu_usage_percent":12.4`)
	assert.False(t, r.ReceivedAt.IsZero())
}

func TestIngest_OptionalBlocksStayNull(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _ := GetMockIOTWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	deviceID := uuid.NewString()
	mustIngest(t, iotObj, deviceID, func(m map[string]any) {
		data := fixtures.Data(m)
		data["battery_info"] = nil
		data["power_info"] = nil
		data["temperature_info"] = nil
		fixtures.Section(m, "cpu_info")["cpu_freq_current"] = nil
	})

	readings, err := iotObj.Telemetry.LatestReadings(context.Background(), deviceID, 1)
	require.NoError(t, err)
	require.Len(t, readings, 1)

	r := readings[0]
	assert.Nil(t, r.BatteryPercent)
	assert.Nil(t, r.BatteryPluggedIn)
	assert.Nil(t, r.PowerVoltage)
	assert.Nil(t, r.CPUFreqCurrent)
	assert.Empty(t, r.TemperatureInfo)
}

func TestIngest_ZeroBatteryIsStored(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _ := GetMockIOTWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	deviceID := uuid.NewString()
	result := mustIngest(t, iotObj, deviceID, func(m map[string]any) {
		fixtures.Section(m, "battery_info")["percent"] = 0
		fixtures.Section(m, "battery_info")["plugged_in"] = false
	})

	require.NotNil(t, result.Reading.BatteryPercent)
	assert.Equal(t, 0, *result.Reading.BatteryPercent)
	require.Len(t, result.Alerts, 1)
	assert.Equal(t, models.AlertTypeBatteryCritical, result.Alerts[0].AlertType)
}

func TestIngest_CriticalScenario(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _ := GetMockIOTWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	deviceID := uuid.NewString()
	result := mustIngest(t, iotObj, deviceID, func(m map[string]any) {
		fixtures.Section(m, "cpu_info")["cpu_usage_percent"] = 95
		fixtures.Section(m, "battery_info")["percent"] = 5
		fixtures.Section(m, "battery_info")["plugged_in"] = false
	})

	require.Len(t, result.Alerts, 2)

	alerts, err := iotObj.Alert.GetDeviceAlerts(context.Background(), deviceID, false)
	require.NoError(t, err)
	got := map[models.AlertType][2]int{}
	for _, a := range alerts {
		assert.Equal(t, models.AlertSeverityCritical, a.Severity)
		got[a.AlertType] = [2]int{*a.Value, *a.Threshold}
	}
	assert.Equal(t, map[models.AlertType][2]int{
		models.AlertTypeCPUHigh:         {95, 90},
		models.AlertTypeBatteryCritical: {5, 10},
	}, got)
}

func TestIngest_AlertFailureDoesNotFailIngest(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, mockIAlert := GetMockIOTWithMemorySqliteDialector(t, true)
	defer ctrl.Finish()

	deviceID := uuid.NewString()

	mockIAlert.EXPECT().
		CheckAndStoreAlerts(gomock.Any(), deviceID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, s *iot.Snapshot) ([]models.DeviceAlert, error) {
			assert.Equal(t, 12.4, s.CPUUsagePercent)
			assert.Equal(t, 41.2, s.MemoryPercent)
			return nil, errors.New("disk on fire")
		})

	result := mustIngest(t, iotObj, deviceID, nil)
	assert.Empty(t, result.Alerts)

	readings, err := iotObj.Telemetry.LatestReadings(context.Background(), deviceID, 1)
	require.NoError(t, err)
	assert.Len(t, readings, 1)
}

func TestIngest_WithLog(t *testing.T) {
	var buf = &bytes.Buffer{}
	common.SetTestCaptureLogger(buf, zapcore.InfoLevel)

	ctrl, iotObj, _ := GetMockIOTWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	deviceID := uuid.NewString()
	mustIngest(t, iotObj, deviceID, nil)

	logs := ParseLogs(buf)
	for _, msg := range []string{"Received telemetry for device", "Telemetry saved"} {
		assert.True(t, findLog(logs, func(l map[string]any) bool {
			return l["logger"] == "iot_core" &&
				l["category"] == "telemetry" &&
				l["msg"] == msg &&
				l["device_id"] == deviceID
		}), msg)
	}
}

func TestAppendReading_UnknownDevice(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _ := GetMockIOTWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	err := iotObj.Telemetry.AppendReading(context.Background(), &models.TelemetryReading{
		DeviceID:  "ghost",
		Timestamp: time.Now().UTC(),
	})
	assert.ErrorIs(t, err, iot.ErrNotFound)

	var count int64
	require.NoError(t, iotObj.Db.Conn.Model(&models.TelemetryReading{}).Count(&count).Error)
	assert.Zero(t, count)
}

func appendAt(t *testing.T, iotObj *iot.IOT, deviceID string, ts time.Time, cpu int, battery *int) {
	t.Helper()
	require.NoError(t, iotObj.Telemetry.AppendReading(context.Background(), &models.TelemetryReading{
		DeviceID:       deviceID,
		Timestamp:      ts.UTC(),
		CPUUsage:       cpu,
		MemoryPercent:  cpu / 2,
		BatteryPercent: battery,
	}))
}

func TestLatestAndRangeReadings(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _ := GetMockIOTWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	ctx := context.Background()
	deviceID := uuid.NewString()
	seedDevice(t, iotObj, deviceID, nil)

	now := time.Now().UTC()
	appendAt(t, iotObj, deviceID, now.Add(-3*time.Hour), 10, nil)
	appendAt(t, iotObj, deviceID, now.Add(-1*time.Hour), 30, nil)
	appendAt(t, iotObj, deviceID, now.Add(-2*time.Hour), 20, nil)

	latest, err := iotObj.Telemetry.LatestReadings(ctx, deviceID, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, 30, latest[0].CPUUsage)
	assert.Equal(t, 20, latest[1].CPUUsage)

	window, err := iotObj.Telemetry.ReadingsRange(ctx, deviceID, now.Add(-150*time.Minute), now)
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, 20, window[0].CPUUsage)
	assert.Equal(t, 30, window[1].CPUUsage)

	empty, err := iotObj.Telemetry.LatestReadings(ctx, "nobody", 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStats(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _ := GetMockIOTWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	ctx := context.Background()
	deviceID := uuid.NewString()
	seedDevice(t, iotObj, deviceID, nil)

	stats, err := iotObj.Telemetry.Stats(ctx, deviceID, 24)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.DataPoints)
	assert.Nil(t, stats.AvgCPUUsage)
	assert.Nil(t, stats.MinBatteryPercent)

	now := time.Now().UTC()
	appendAt(t, iotObj, deviceID, now.Add(-time.Hour), 20, common.Ptr(80))
	appendAt(t, iotObj, deviceID, now.Add(-2*time.Hour), 40, nil)
	appendAt(t, iotObj, deviceID, now.Add(-48*time.Hour), 100, common.Ptr(1))

	stats, err = iotObj.Telemetry.Stats(ctx, deviceID, 24)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.DataPoints)
	assert.InDelta(t, 30, *stats.AvgCPUUsage, 0.001)
	assert.InDelta(t, 40, *stats.MaxCPUUsage, 0.001)
	assert.InDelta(t, 15, *stats.AvgMemoryPercent, 0.001)
	assert.InDelta(t, 80, *stats.AvgBatteryPercent, 0.001)
	assert.InDelta(t, 80, *stats.MinBatteryPercent, 0.001)
}

func TestDeleteOlderThan(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _ := GetMockIOTWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	ctx := context.Background()
	deviceID := uuid.NewString()
	seedDevice(t, iotObj, deviceID, nil)

	now := time.Now().UTC()
	appendAt(t, iotObj, deviceID, now.Add(-40*24*time.Hour), 10, nil)
	appendAt(t, iotObj, deviceID, now.Add(-time.Hour), 20, nil)

	s := quietSnapshot()
	s.CPUUsagePercent = 99
	_, err := iotObj.Alert.CheckAndStoreAlerts(ctx, deviceID, s)
	require.NoError(t, err)

	n, err := iotObj.Telemetry.DeleteOlderThan(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	left, err := iotObj.Telemetry.LatestReadings(ctx, deviceID, 10)
	require.NoError(t, err)
	assert.Len(t, left, 1)

	alerts, err := iotObj.Alert.GetDeviceAlerts(ctx, deviceID, true)
	require.NoError(t, err)
	assert.Len(t, alerts, 1)

	_, err = iotObj.Telemetry.DeleteOlderThan(ctx, -1)
	assert.Error(t, err)
}

func TestDeleteOlderThan_KeepsReadingAtCutoff(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _ := GetMockIOTWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	ctx := context.Background()
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	iotObj.Clock = func() time.Time { return now }

	deviceID := uuid.NewString()
	seedDevice(t, iotObj, deviceID, nil)

	cutoff := now.Add(-30 * 24 * time.Hour)
	appendAt(t, iotObj, deviceID, cutoff, 10, nil)
	appendAt(t, iotObj, deviceID, cutoff.Add(-time.Second), 20, nil)

	n, err := iotObj.Telemetry.DeleteOlderThan(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	left, err := iotObj.Telemetry.LatestReadings(ctx, deviceID, 10)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.True(t, left[0].Timestamp.Equal(cutoff))
}
