package http

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"liyu1981.xyz/iot-dashboard-service/pkg/common"
	"liyu1981.xyz/iot-dashboard-service/pkg/models"
	"liyu1981.xyz/iot-dashboard-service/pkg/report"
	"liyu1981.xyz/iot-dashboard-service/pkg/testing/fixtures"
)

func hotAndDrained(m map[string]any) {
	fixtures.Section(m, "cpu_info")["cpu_usage_percent"] = 95.0
	fixtures.Section(m, "battery_info")["percent"] = 5.0
	fixtures.Section(m, "battery_info")["plugged_in"] = false
}

func TestPostDeviceData_RaisesAlerts(t *testing.T) {
	common.SetTestLoggerNop()
	rs := setupTestServer(t)
	deviceID := uuid.NewString()

	w := postTelemetry(rs, deviceID, hotAndDrained)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Data stored successfully", body["message"])
	assert.NotEmpty(t, body["receivedAt"])
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	var alerts []models.DeviceAlert
	require.NoError(t, rs.Iot.Db.Conn.Where("device_id = ?", deviceID).Order("id").Find(&alerts).Error)
	require.Len(t, alerts, 2)

	byType := map[models.AlertType]models.DeviceAlert{}
	for _, a := range alerts {
		byType[a.AlertType] = a
	}
	cpu := byType[models.AlertTypeCPUHigh]
	assert.Equal(t, models.AlertSeverityCritical, cpu.Severity)
	assert.Equal(t, 95, *cpu.Value)
	assert.Equal(t, 90, *cpu.Threshold)

	battery := byType[models.AlertTypeBatteryCritical]
	assert.Equal(t, models.AlertSeverityCritical, battery.Severity)
	assert.Equal(t, 5, *battery.Value)
	assert.Equal(t, 10, *battery.Threshold)

	var reading models.TelemetryReading
	require.NoError(t, rs.Iot.Db.Conn.First(&reading, "device_id = ?", deviceID).Error)
	assert.Equal(t, 95, reading.CPUUsage)
	assert.Equal(t, 5, *reading.BatteryPercent)
	assert.False(t, *reading.BatteryPluggedIn)
}

func TestPostDeviceData_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()
	rs := setupTestServer(t)

	{
		// empty payload should be rejected with field details
		w := doRequest(rs, http.MethodPost, "/api/devices/data", []byte("{}"), "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Validation error", body["error"])
		assert.NotEmpty(t, body["details"])
	}

	{
		w := doRequest(rs, http.MethodPost, "/api/devices/data", []byte("not json"), "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	{
		w := postTelemetry(rs, uuid.NewString(), func(m map[string]any) {
			m["timestamp"] = "yesterday"
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "timestamp")
	}

	{
		deviceID := uuid.NewString()
		w := postTelemetry(rs, deviceID, func(m map[string]any) {
			delete(fixtures.Data(m), "cpu_info")
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var count int64
		rs.Iot.Db.Conn.Model(&models.Device{}).Where("id = ?", deviceID).Count(&count)
		assert.Zero(t, count, "nothing is written when validation fails")
	}
}

func TestRegisterDevice(t *testing.T) {
	common.SetTestLoggerNop()
	rs := setupTestServer(t)
	deviceID := "laptop:" + uuid.NewString()

	w := doRequest(rs, http.MethodPost, "/api/devices/register", map[string]any{
		"deviceId": deviceID,
		"hostname": "laptop",
		"systemInfo": map[string]any{
			"os":          "Linux",
			"totalMemory": 16.0,
		},
	}, aliceToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "Device registered successfully", body["message"])
	device := body["device"].(map[string]any)
	assert.Equal(t, deviceID, device["id"])
	assert.Equal(t, "alice", device["userId"])

	// anonymous re-registration keeps the owner
	w = doRequest(rs, http.MethodPost, "/api/devices/register", map[string]any{
		"deviceId": deviceID,
		"hostname": "laptop-renamed",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	device = decodeBody(t, w)["device"].(map[string]any)
	assert.Equal(t, "alice", device["userId"])
	assert.Equal(t, "laptop-renamed", device["hostname"])

	w = doRequest(rs, http.MethodGet, "/api/devices", nil, aliceToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decodeBody(t, w)["count"])

	w = doRequest(rs, http.MethodGet, "/api/devices", nil, bobToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decodeBody(t, w)["count"])
}

func TestRegisterDevice_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()
	rs := setupTestServer(t)

	cases := []map[string]any{
		{"deviceId": "ok-id"},
		{"deviceId": "ok-id", "hostname": "x"},
		{"deviceId": "bad id!", "hostname": "laptop"},
		{"hostname": "laptop"},
	}
	for i, c := range cases {
		w := doRequest(rs, http.MethodPost, "/api/devices/register", c, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "case %d", i)
		assert.Equal(t, "Validation error", decodeBody(t, w)["error"], "case %d", i)
	}
}

func TestGetDevice(t *testing.T) {
	common.SetTestLoggerNop()
	rs := setupTestServer(t)
	deviceID := uuid.NewString()

	w := doRequest(rs, http.MethodGet, "/api/devices/"+deviceID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Device not found"}`, w.Body.String())

	registerDevice(t, rs, deviceID, "")
	w = doRequest(rs, http.MethodGet, "/api/devices/"+deviceID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Nil(t, body["latestData"])
	assert.Empty(t, body["activeAlerts"])
	assert.EqualValues(t, 0, body["statistics"].(map[string]any)["dataPoints"])

	require.Equal(t, http.StatusOK, postTelemetry(rs, deviceID, nil).Code)
	require.Equal(t, http.StatusOK, postTelemetry(rs, deviceID, hotAndDrained).Code)

	w = doRequest(rs, http.MethodGet, "/api/devices/"+deviceID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	latest := body["latestData"].(map[string]any)
	assert.EqualValues(t, 95, latest["cpuUsage"])
	stats := body["statistics"].(map[string]any)
	assert.EqualValues(t, 2, stats["dataPoints"])
	assert.EqualValues(t, 95, stats["maxCpuUsage"])
	assert.Len(t, body["activeAlerts"], 2)
}

func TestGetDeviceData(t *testing.T) {
	common.SetTestLoggerNop()
	rs := setupTestServer(t)
	deviceID := uuid.NewString()

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, postTelemetry(rs, deviceID, nil).Code)
	}

	w := doRequest(rs, http.MethodGet, "/api/devices/data?deviceId="+deviceID, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, deviceID, body["deviceId"])
	assert.EqualValues(t, 3, body["count"])

	w = doRequest(rs, http.MethodGet, "/api/devices/data?deviceId="+deviceID+"&limit=2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decodeBody(t, w)["count"])

	w = doRequest(rs, http.MethodGet, "/api/devices/data", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"deviceId parameter required"}`, w.Body.String())

	w = doRequest(rs, http.MethodGet, "/api/devices/data?deviceId="+deviceID+"&limit=0", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetReadings(t *testing.T) {
	common.SetTestLoggerNop()
	rs := setupTestServer(t)
	deviceID := uuid.NewString()

	require.Equal(t, http.StatusOK, postTelemetry(rs, deviceID, nil).Code)
	require.Equal(t, http.StatusOK, postTelemetry(rs, deviceID, func(m map[string]any) {
		m["timestamp"] = "2020-01-01T00:00:00Z"
	}).Code)

	w := doRequest(rs, http.MethodGet, "/api/devices/"+deviceID+"/readings", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1, decodeBody(t, w)["count"], "default window is 24 hours")

	w = doRequest(rs, http.MethodGet, "/api/devices/"+deviceID+"/readings?hours=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(rs, http.MethodGet, "/api/devices/"+deviceID+"/readings?hours=100000", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportReadings(t *testing.T) {
	common.SetTestLoggerNop()
	rs := setupTestServer(t)
	deviceID := uuid.NewString()
	registerDevice(t, rs, deviceID, aliceToken)

	require.Equal(t, http.StatusOK, postTelemetry(rs, deviceID, nil).Code)
	require.Equal(t, http.StatusOK, postTelemetry(rs, deviceID, hotAndDrained).Code)

	path := "/api/devices/" + deviceID + "/export?hours=1"
	assert.Equal(t, http.StatusUnauthorized, doRequest(rs, http.MethodGet, path, nil, "").Code)
	assert.Equal(t, http.StatusForbidden, doRequest(rs, http.MethodGet, path, nil, bobToken).Code)

	w := doRequest(rs, http.MethodGet, path, nil, aliceToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, report.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "telemetry-"+deviceID)

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(report.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, report.ReadingsHeader, rows[0])
}

func TestUpdateAlert(t *testing.T) {
	common.SetTestLoggerNop()
	rs := setupTestServer(t)
	deviceID := uuid.NewString()
	registerDevice(t, rs, deviceID, aliceToken)
	require.Equal(t, http.StatusOK, postTelemetry(rs, deviceID, hotAndDrained).Code)

	alerts, err := rs.Iot.Alert.GetDeviceAlerts(context.Background(), deviceID, false)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	path := fmt.Sprintf("/api/devices/%s/alerts/%d", deviceID, alerts[0].ID)

	w := doRequest(rs, http.MethodPatch, path, map[string]any{"action": "acknowledge"}, aliceToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decodeBody(t, w)["alert"].(map[string]any)["acknowledged"])

	w = doRequest(rs, http.MethodPatch, path, map[string]any{"action": "resolve"}, aliceToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, decodeBody(t, w)["alert"].(map[string]any)["resolvedAt"])

	w = doRequest(rs, http.MethodGet, "/api/devices/"+deviceID+"/alerts", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decodeBody(t, w)["count"])

	w = doRequest(rs, http.MethodGet, "/api/devices/"+deviceID+"/alerts?includeResolved=true", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decodeBody(t, w)["count"])

	// edge cases
	assert.Equal(t, http.StatusBadRequest,
		doRequest(rs, http.MethodPatch, path, map[string]any{"action": "snooze"}, aliceToken).Code)
	assert.Equal(t, http.StatusForbidden,
		doRequest(rs, http.MethodPatch, path, map[string]any{"action": "resolve"}, bobToken).Code)
	assert.Equal(t, http.StatusNotFound,
		doRequest(rs, http.MethodPatch, "/api/devices/"+deviceID+"/alerts/99999", map[string]any{"action": "resolve"}, aliceToken).Code)
	assert.Equal(t, http.StatusBadRequest,
		doRequest(rs, http.MethodPatch, "/api/devices/"+deviceID+"/alerts/abc", map[string]any{"action": "resolve"}, aliceToken).Code)
}
