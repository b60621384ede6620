package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liyu1981.xyz/iot-dashboard-service/pkg/testing/fixtures"
)

func requireValidationError(t *testing.T, err error) *Error {
	t.Helper()
	require.Error(t, err)
	var vErr *Error
	require.True(t, errors.As(err, &vErr), "expected *validation.Error, got %T", err)
	assert.Equal(t, MessageValidationError, vErr.Message)
	return vErr
}

func TestParseTelemetry(t *testing.T) {
	body := fixtures.TelemetryPayload("dev-1", nil)

	tel, err := ParseTelemetry(body)
	require.NoError(t, err)

	assert.Equal(t, "dev-1", tel.DeviceID)
	assert.Equal(t, "laptop-dev-1", tel.Hostname)
	assert.False(t, tel.EventTime.IsZero())
	assert.Equal(t, 12.4, tel.Data.CPUInfo.CPUUsagePercent)
	require.NotNil(t, tel.Data.CPUInfo.CPUFreqCurrent)
	assert.Equal(t, 15.6, tel.Data.MemoryInfo.TotalGB)
	require.Len(t, tel.Data.DiskInfo, 1)
	assert.Equal(t, "/dev/nvme0n1p2", tel.Data.DiskInfo[0].Device)
	require.NotNil(t, tel.Data.BatteryInfo)
	assert.True(t, tel.Data.BatteryInfo.PluggedIn)
	assert.Nil(t, tel.Data.BatteryInfo.TimeLeftSeconds)
	require.NotNil(t, tel.Data.PowerInfo)
	assert.Equal(t, 12450.0, *tel.Data.PowerInfo.VoltageMV)
	assert.Equal(t, []TemperatureEntry{{Label: "Package id 0", Current: 48}}, tel.Data.TemperatureInfo["coretemp"])
	assert.Contains(t, string(tel.RawData), `"cpu_usage_percent":12.4`)
}

func TestParseTelemetry_OptionalBlocksAbsent(t *testing.T) {
	body := fixtures.TelemetryPayload("dev-1", func(m map[string]any) {
		data := fixtures.Data(m)
		data["battery_info"] = nil
		data["power_info"] = nil
		data["temperature_info"] = nil
		data["disk_info"] = []any{}
	})

	tel, err := ParseTelemetry(body)
	require.NoError(t, err)
	assert.Nil(t, tel.Data.BatteryInfo)
	assert.Nil(t, tel.Data.PowerInfo)
	assert.Nil(t, tel.Data.TemperatureInfo)
	assert.Empty(t, tel.Data.DiskInfo)
}

func TestParseTelemetry_ZeroValuesAreValid(t *testing.T) {
	body := fixtures.TelemetryPayload("dev-1", func(m map[string]any) {
		fixtures.Section(m, "cpu_info")["cpu_usage_percent"] = 0
		fixtures.Section(m, "battery_info")["percent"] = 0
		fixtures.Section(m, "battery_info")["plugged_in"] = false
	})

	tel, err := ParseTelemetry(body)
	require.NoError(t, err)
	assert.Equal(t, 0.0, tel.Data.CPUInfo.CPUUsagePercent)
	require.NotNil(t, tel.Data.BatteryInfo)
	assert.Equal(t, 0.0, tel.Data.BatteryInfo.Percent)
	assert.False(t, tel.Data.BatteryInfo.PluggedIn)
}

func TestParseTelemetry_Rejections(t *testing.T) {
	cases := map[string]func(m map[string]any){
		"missing device id":     func(m map[string]any) { delete(m, "deviceId") },
		"empty device id":       func(m map[string]any) { m["deviceId"] = "" },
		"missing data":          func(m map[string]any) { delete(m, "data") },
		"missing cpu block":     func(m map[string]any) { delete(fixtures.Data(m), "cpu_info") },
		"missing memory block":  func(m map[string]any) { delete(fixtures.Data(m), "memory_info") },
		"missing network block": func(m map[string]any) { delete(fixtures.Data(m), "network_info") },
		"missing system block":  func(m map[string]any) { delete(fixtures.Data(m), "system_info") },
		"missing disk list":     func(m map[string]any) { delete(fixtures.Data(m), "disk_info") },
		"cpu usage as string":   func(m map[string]any) { fixtures.Section(m, "cpu_info")["cpu_usage_percent"] = "high" },
		"bad timestamp":         func(m map[string]any) { m["timestamp"] = "yesterday" },
		"temperature not a map": func(m map[string]any) { fixtures.Data(m)["temperature_info"] = []any{1, 2} },
		"temperature no current": func(m map[string]any) {
			fixtures.Data(m)["temperature_info"] = map[string]any{"acpi": []any{map[string]any{"label": "x"}}}
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTelemetry(fixtures.TelemetryPayload("dev-1", mutate))
			requireValidationError(t, err)
		})
	}
}

func TestParseTelemetry_ReportsEveryField(t *testing.T) {
	body := fixtures.TelemetryPayload("dev-1", func(m map[string]any) {
		m["hostname"] = nil
		m["timestamp"] = "not-a-time"
		delete(fixtures.Data(m), "disk_info")
		fixtures.Data(m)["temperature_info"] = "hot"
	})

	_, err := ParseTelemetry(body)
	vErr := requireValidationError(t, err)
	details, ok := vErr.Details.(FieldErrors)
	require.True(t, ok)
	assert.Contains(t, details, "hostname")
	assert.Contains(t, details, "timestamp")
	assert.Contains(t, details, "data.disk_info")
	assert.Contains(t, details, "data.temperature_info")
}

func TestParseTelemetry_NumericStringsRejected(t *testing.T) {
	cases := map[string]struct {
		mutate func(m map[string]any)
		field  string
	}{
		"cpu usage": {
			func(m map[string]any) { fixtures.Section(m, "cpu_info")["cpu_usage_percent"] = "95" },
			"data.cpu_info.cpu_usage_percent",
		},
		"memory percent": {
			func(m map[string]any) { fixtures.Section(m, "memory_info")["percent"] = "50" },
			"data.memory_info.percent",
		},
		"network bytes": {
			func(m map[string]any) { fixtures.Section(m, "network_info")["bytes_sent"] = "1024" },
			"data.network_info.bytes_sent",
		},
		"nullable power field": {
			func(m map[string]any) { fixtures.Section(m, "power_info")["voltage_mv"] = "12450" },
			"data.power_info.voltage_mv",
		},
		"per core usage": {
			func(m map[string]any) { fixtures.Section(m, "cpu_info")["per_cpu_usage"] = []any{1.5, "2"} },
			"data.cpu_info.per_cpu_usage[1]",
		},
		"disk percent": {
			func(m map[string]any) {
				fixtures.Data(m)["disk_info"] = []any{map[string]any{"device": "/dev/sda1", "percent": "70"}}
			},
			"data.disk_info[0].percent",
		},
		"device id": {
			func(m map[string]any) { m["deviceId"] = 42 },
			"deviceId",
		},
		"epoch timestamp": {
			func(m map[string]any) { m["timestamp"] = 1700000000 },
			"timestamp",
		},
		"plugged in": {
			func(m map[string]any) { fixtures.Section(m, "battery_info")["plugged_in"] = "true" },
			"data.battery_info.plugged_in",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTelemetry(fixtures.TelemetryPayload("dev-1", tc.mutate))
			vErr := requireValidationError(t, err)
			assert.Contains(t, vErr.Details, tc.field)
		})
	}
}

func TestParseTelemetry_NotJSON(t *testing.T) {
	_, err := ParseTelemetry([]byte("not json"))
	vErr := requireValidationError(t, err)
	assert.Contains(t, vErr.Details, "$root")
}

func TestParseISOTime(t *testing.T) {
	for _, in := range []string{
		"2024-05-01T10:20:30Z",
		"2024-05-01T10:20:30.123456+02:00",
		"2024-05-01T10:20:30.123456",
		"2024-05-01 10:20:30",
	} {
		parsed, err := ParseISOTime(in)
		require.NoError(t, err, in)
		assert.Equal(t, time.UTC, parsed.Location(), in)
	}

	parsed, err := ParseISOTime("2024-05-01T10:20:30+02:00")
	require.NoError(t, err)
	assert.Equal(t, 8, parsed.Hour())

	_, err = ParseISOTime("05/01/2024")
	assert.Error(t, err)
}

func TestEpochToTime(t *testing.T) {
	secs := EpochToTime(1_700_000_000)
	assert.Equal(t, int64(1_700_000_000), secs.Unix())

	millis := EpochToTime(1_700_000_000_123)
	assert.Equal(t, int64(1_700_000_000_123), millis.UnixMilli())
}

func TestParseDeviceRegistration(t *testing.T) {
	reg, err := ParseDeviceRegistration([]byte(`{"hostname":"my-laptop","deviceId":"aa:bb_cc-1","systemInfo":{"os":"Linux","totalMemory":16}}`))
	require.NoError(t, err)
	assert.Equal(t, "aa:bb_cc-1", reg.DeviceID)
	assert.JSONEq(t, `{"os":"Linux","totalMemory":16}`, string(reg.SystemInfoJSON()))

	reg, err = ParseDeviceRegistration([]byte(`{"hostname":"my-laptop","deviceId":"abc"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(reg.SystemInfoJSON()))

	bad := []string{
		`{"hostname":"x","deviceId":"abc"}`,
		`{"hostname":"` + strings.Repeat("h", 256) + `","deviceId":"abc"}`,
		`{"hostname":"laptop","deviceId":"has space"}`,
		`{"hostname":"laptop","deviceId":"slash/id"}`,
		`{"hostname":"laptop"}`,
		`{"hostname":"laptop","deviceId":"abc","notes":"` + strings.Repeat("n", 501) + `"}`,
	}
	for _, body := range bad {
		_, err := ParseDeviceRegistration([]byte(body))
		requireValidationError(t, err)
	}
}

func TestParseSensorRegistration(t *testing.T) {
	reg, err := ParseSensorRegistration([]byte(`{"id":"s1","name":"Living room","measurementType":"temperature","location":"home"}`))
	require.NoError(t, err)
	assert.Equal(t, "s1", reg.ID)
	assert.Nil(t, reg.DeviceID)
	require.NotNil(t, reg.Location)

	for _, body := range []string{
		`{"id":"","name":"Living room","measurementType":"temperature"}`,
		`{"id":"s1","name":"L","measurementType":"temperature"}`,
		`{"id":"s1","name":"Living room","measurementType":"toaster"}`,
	} {
		_, err := ParseSensorRegistration([]byte(body))
		requireValidationError(t, err)
	}
}

func TestParseSensorUpdate(t *testing.T) {
	upd, err := ParseSensorUpdate([]byte(`{"name":"Kitchen","deviceId":null}`))
	require.NoError(t, err)
	require.NotNil(t, upd.Name)
	assert.Equal(t, "Kitchen", *upd.Name)
	assert.True(t, upd.ClearDevice)

	upd, err = ParseSensorUpdate([]byte(`{"deviceId":"dev-1","status":"offline"}`))
	require.NoError(t, err)
	assert.False(t, upd.ClearDevice)
	require.NotNil(t, upd.DeviceID)
	assert.Equal(t, "offline", *upd.Status)

	_, err = ParseSensorUpdate([]byte(`{"status":"broken"}`))
	requireValidationError(t, err)
}

func TestParseVoltageReading(t *testing.T) {
	r, err := ParseVoltageReading([]byte(`{"id":"s1","volts":3.7}`))
	require.NoError(t, err)
	assert.Equal(t, "s1", r.ID)
	assert.Equal(t, 3.7, r.Volts)

	_, err = ParseVoltageReading([]byte(`{"id":"s1"}`))
	requireValidationError(t, err)
}

func TestParseSensorReading(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	cases := []struct {
		body  string
		value string
		ts    time.Time
	}{
		{`{"value":"on"}`, "on", now},
		{`{"value":21.5,"unit":"C"}`, "21.5", now},
		{`{"value":true}`, "true", now},
		{`{"value":{"r":1, "g":2}}`, `{"r":1,"g":2}`, now},
		{`{"value":1,"timestamp":1700000000}`, "1", time.Unix(1_700_000_000, 0).UTC()},
		{`{"value":1,"timestamp":1700000000123}`, "1", time.UnixMilli(1_700_000_000_123).UTC()},
		{`{"value":1,"timestamp":"2024-05-01T10:00:00Z"}`, "1", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{`{"value":1,"timestamp":"garbage"}`, "1", now},
	}

	for _, c := range cases {
		r, err := ParseSensorReading([]byte(c.body), now)
		require.NoError(t, err, c.body)
		assert.Equal(t, c.value, r.Value, c.body)
		assert.True(t, c.ts.Equal(r.Timestamp), c.body)
	}

	r, err := ParseSensorReading([]byte(`{"value":1,"unit":"lx","metadata":{"room":"kitchen"}}`), now)
	require.NoError(t, err)
	assert.Equal(t, "lx", *r.Unit)
	assert.JSONEq(t, `{"room":"kitchen"}`, string(r.Metadata))

	for _, body := range []string{
		`{}`,
		`{"value":null}`,
		`{"value":[1,2]}`,
		`{"value":1,"metadata":"nope"}`,
		`{"value":1,"timestamp":true}`,
	} {
		_, err := ParseSensorReading([]byte(body), now)
		requireValidationError(t, err)
	}
}

func TestParseCommandRequest(t *testing.T) {
	req, err := ParseCommandRequest([]byte(`{"type":"update_interval","payload":{"seconds":30}}`))
	require.NoError(t, err)
	assert.Equal(t, "update_interval", req.Type)
	assert.JSONEq(t, `{"seconds":30}`, string(req.Payload))

	_, err = ParseCommandRequest([]byte(`{"type":"format_disk"}`))
	requireValidationError(t, err)
}

func TestParseCommandAck(t *testing.T) {
	now := time.Now().UTC()

	ack, err := ParseCommandAck([]byte(`{"status":"executed","timestamp":"2024-05-01T10:00:00Z"}`), now)
	require.NoError(t, err)
	assert.Equal(t, "executed", ack.Status)
	assert.Equal(t, 2024, ack.At.Year())

	ack, err = ParseCommandAck([]byte(`{"status":"failed","timestamp":"soon","error":"permission denied"}`), now)
	require.NoError(t, err)
	assert.Equal(t, now, ack.At)
	assert.Equal(t, "permission denied", *ack.Error)

	_, err = ParseCommandAck([]byte(`{"status":"done","timestamp":"2024-05-01T10:00:00Z"}`), now)
	requireValidationError(t, err)

	_, err = ParseCommandAck([]byte(`{"status":"executed"}`), now)
	requireValidationError(t, err)
}
