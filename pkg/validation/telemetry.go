package validation

import (
	"encoding/json"
	"fmt"
	"time"

	z "github.com/Oudwins/zog"
)

type SystemInfo struct {
	System    string `json:"system" zog:"system"`
	NodeName  string `json:"node_name" zog:"node_name"`
	Release   string `json:"release" zog:"release"`
	Version   string `json:"version" zog:"version"`
	Machine   string `json:"machine" zog:"machine"`
	Processor string `json:"processor" zog:"processor"`
}

type CPUInfo struct {
	PhysicalCores   float64   `json:"physical_cores" zog:"physical_cores"`
	TotalCores      float64   `json:"total_cores" zog:"total_cores"`
	CPUUsagePercent float64   `json:"cpu_usage_percent" zog:"cpu_usage_percent"`
	CPUFreqCurrent  *float64  `json:"cpu_freq_current" zog:"cpu_freq_current"`
	CPUFreqMax      *float64  `json:"cpu_freq_max" zog:"cpu_freq_max"`
	PerCPUUsage     []float64 `json:"per_cpu_usage" zog:"per_cpu_usage"`
}

type MemoryInfo struct {
	TotalGB     float64 `json:"total_gb" zog:"total_gb"`
	AvailableGB float64 `json:"available_gb" zog:"available_gb"`
	UsedGB      float64 `json:"used_gb" zog:"used_gb"`
	Percent     float64 `json:"percent" zog:"percent"`
}

type DiskInfo struct {
	Device     string  `json:"device" zog:"device"`
	Mountpoint string  `json:"mountpoint" zog:"mountpoint"`
	Fstype     string  `json:"fstype" zog:"fstype"`
	TotalGB    float64 `json:"total_gb" zog:"total_gb"`
	UsedGB     float64 `json:"used_gb" zog:"used_gb"`
	FreeGB     float64 `json:"free_gb" zog:"free_gb"`
	Percent    float64 `json:"percent" zog:"percent"`
}

type BatteryInfo struct {
	Percent          float64  `json:"percent" zog:"percent"`
	PluggedIn        bool     `json:"plugged_in" zog:"plugged_in"`
	TimeLeftSeconds  *float64 `json:"time_left_seconds" zog:"time_left_seconds"`
	BatteryStatus    *float64 `json:"battery_status" zog:"battery_status"`
	EstimatedRunTime *float64 `json:"estimated_run_time" zog:"estimated_run_time"`
}

// PowerInfo values are milli-units as reported by the agent.
type PowerInfo struct {
	FullChargeCapacityMWh *float64 `json:"full_charge_capacity_mwh" zog:"full_charge_capacity_mwh"`
	DesignCapacityMWh     *float64 `json:"design_capacity_mwh" zog:"design_capacity_mwh"`
	DefaultAlert          *float64 `json:"default_alert" zog:"default_alert"`
	CurrentRateMW         *float64 `json:"current_rate_mw" zog:"current_rate_mw"`
	CurrentRateW          *float64 `json:"current_rate_w" zog:"current_rate_w"`
	VoltageMV             *float64 `json:"voltage_mv" zog:"voltage_mv"`
	VoltageV              *float64 `json:"voltage_v" zog:"voltage_v"`
	RemainingCapacityMWh  *float64 `json:"remaining_capacity_mwh" zog:"remaining_capacity_mwh"`
	Error                 *string  `json:"error" zog:"error"`
}

type NetworkInfo struct {
	BytesSent       float64 `json:"bytes_sent" zog:"bytes_sent"`
	BytesReceived   float64 `json:"bytes_received" zog:"bytes_received"`
	PacketsSent     float64 `json:"packets_sent" zog:"packets_sent"`
	PacketsReceived float64 `json:"packets_received" zog:"packets_received"`
}

type TemperatureEntry struct {
	Label   string  `json:"label"`
	Current float64 `json:"current"`
}

type TelemetryData struct {
	Timestamp   string       `json:"timestamp" zog:"timestamp"`
	SystemInfo  *SystemInfo  `json:"system_info" zog:"system_info"`
	CPUInfo     *CPUInfo     `json:"cpu_info" zog:"cpu_info"`
	MemoryInfo  *MemoryInfo  `json:"memory_info" zog:"memory_info"`
	DiskInfo    []DiskInfo   `json:"disk_info" zog:"disk_info"`
	BatteryInfo *BatteryInfo `json:"battery_info" zog:"battery_info"`
	PowerInfo   *PowerInfo   `json:"power_info" zog:"power_info"`
	NetworkInfo *NetworkInfo `json:"network_info" zog:"network_info"`

	// decoded by hand, zog has no record schema
	TemperatureInfo map[string][]TemperatureEntry `json:"temperature_info"`
}

// Telemetry is a validated submission. EventTime is the parsed Timestamp and RawData
// the verbatim "data" object.
type Telemetry struct {
	DeviceID  string         `json:"deviceId" zog:"deviceId"`
	Timestamp string         `json:"timestamp" zog:"timestamp"`
	Hostname  string         `json:"hostname" zog:"hostname"`
	Data      *TelemetryData `json:"data" zog:"data"`

	EventTime time.Time       `json:"-"`
	RawData   json.RawMessage `json:"-"`
}

var telemetrySchema = z.Struct(z.Shape{
	"DeviceID":  z.String().Min(1, z.Message("Device ID is required")).Required(z.Message("Device ID is required")),
	"Timestamp": z.String().Required(),
	"Hostname":  z.String().Required(),
	"Data": z.Ptr(z.Struct(z.Shape{
		"Timestamp": z.String(),
		"SystemInfo": z.Ptr(z.Struct(z.Shape{
			"System":    z.String(),
			"NodeName":  z.String(),
			"Release":   z.String(),
			"Version":   z.String(),
			"Machine":   z.String(),
			"Processor": z.String(),
		})).NotNil(),
		"CPUInfo": z.Ptr(z.Struct(z.Shape{
			"PhysicalCores":   z.Float64().Required(),
			"TotalCores":      z.Float64().Required(),
			"CPUUsagePercent": z.Float64().Required(),
			"CPUFreqCurrent":  z.Ptr(z.Float64()),
			"CPUFreqMax":      z.Ptr(z.Float64()),
			"PerCPUUsage":     z.Slice(z.Float64()),
		})).NotNil(),
		"MemoryInfo": z.Ptr(z.Struct(z.Shape{
			"TotalGB":     z.Float64().Required(),
			"AvailableGB": z.Float64().Required(),
			"UsedGB":      z.Float64().Required(),
			"Percent":     z.Float64().Required(),
		})).NotNil(),
		"DiskInfo": z.Slice(z.Struct(z.Shape{
			"Device":     z.String().Required(),
			"Mountpoint": z.String(),
			"Fstype":     z.String(),
			"TotalGB":    z.Float64(),
			"UsedGB":     z.Float64(),
			"FreeGB":     z.Float64(),
			"Percent":    z.Float64().Required(),
		})),
		"BatteryInfo": z.Ptr(z.Struct(z.Shape{
			"Percent":          z.Float64().Required(),
			"PluggedIn":        z.Bool().Required(),
			"TimeLeftSeconds":  z.Ptr(z.Float64()),
			"BatteryStatus":    z.Ptr(z.Float64()),
			"EstimatedRunTime": z.Ptr(z.Float64()),
		})),
		"PowerInfo": z.Ptr(z.Struct(z.Shape{
			"FullChargeCapacityMWh": z.Ptr(z.Float64()),
			"DesignCapacityMWh":     z.Ptr(z.Float64()),
			"DefaultAlert":          z.Ptr(z.Float64()),
			"CurrentRateMW":         z.Ptr(z.Float64()),
			"CurrentRateW":          z.Ptr(z.Float64()),
			"VoltageMV":             z.Ptr(z.Float64()),
			"VoltageV":              z.Ptr(z.Float64()),
			"RemainingCapacityMWh":  z.Ptr(z.Float64()),
			"Error":                 z.Ptr(z.String()),
		})),
		"NetworkInfo": z.Ptr(z.Struct(z.Shape{
			"BytesSent":       z.Float64().Required(),
			"BytesReceived":   z.Float64().Required(),
			"PacketsSent":     z.Float64().Required(),
			"PacketsReceived": z.Float64().Required(),
		})).NotNil(),
	})).NotNil(),
})

// telemetryNumbers lists the numeric fields of each data block. zog coerces numeric
// strings, so these are checked against the decoded JSON types as well.
var telemetryNumbers = map[string][]string{
	"cpu_info":     {"physical_cores", "total_cores", "cpu_usage_percent", "cpu_freq_current", "cpu_freq_max"},
	"memory_info":  {"total_gb", "available_gb", "used_gb", "percent"},
	"battery_info": {"percent", "time_left_seconds", "battery_status", "estimated_run_time"},
	"power_info": {
		"full_charge_capacity_mwh", "design_capacity_mwh", "default_alert", "current_rate_mw",
		"current_rate_w", "voltage_mv", "voltage_v", "remaining_capacity_mwh",
	},
	"network_info": {"bytes_sent", "bytes_received", "packets_sent", "packets_received"},
}

var diskNumbers = []string{"total_gb", "used_gb", "free_gb", "percent"}

// checkNumbers flags present, non-null keys of obj that did not decode as JSON numbers.
func checkNumbers(obj map[string]any, prefix string, keys []string, fields FieldErrors) {
	for _, key := range keys {
		v, ok := obj[key]
		if !ok || v == nil {
			continue
		}
		if _, isNumber := v.(float64); !isNumber {
			fields.Add(prefix+"."+key, "must be a number")
		}
	}
}

func checkTelemetryTypes(data map[string]any, fields FieldErrors) {
	for block, keys := range telemetryNumbers {
		if obj, ok := data[block].(map[string]any); ok {
			checkNumbers(obj, "data."+block, keys, fields)
		}
	}

	if cpu, ok := data["cpu_info"].(map[string]any); ok {
		if list, ok := cpu["per_cpu_usage"].([]any); ok {
			for i, v := range list {
				if _, isNumber := v.(float64); !isNumber {
					fields.Add(fmt.Sprintf("data.cpu_info.per_cpu_usage[%d]", i), "must be a number")
				}
			}
		}
	}

	if battery, ok := data["battery_info"].(map[string]any); ok {
		if v, ok := battery["plugged_in"]; ok && v != nil {
			if _, isBool := v.(bool); !isBool {
				fields.Add("data.battery_info.plugged_in", "must be a boolean")
			}
		}
	}

	if disks, ok := data["disk_info"].([]any); ok {
		for i, item := range disks {
			if obj, ok := item.(map[string]any); ok {
				checkNumbers(obj, fmt.Sprintf("data.disk_info[%d]", i), diskNumbers, fields)
			}
		}
	}
}

// ParseTelemetry validates a raw JSON submission from any transport. Every violated
// field is reported in one *Error.
func ParseTelemetry(body []byte) (*Telemetry, error) {
	m, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	fields := FieldErrors{}

	var t Telemetry
	if errs := telemetrySchema.Parse(m, &t); errs != nil {
		fields.AddIssues(errs)
	}

	for _, key := range []string{"deviceId", "hostname"} {
		if v, ok := m[key]; ok && v != nil {
			if _, isString := v.(string); !isString {
				fields.Add(key, "must be a string")
			}
		}
	}

	switch ts := m["timestamp"].(type) {
	case nil:
	case string:
		eventTime, err := ParseISOTime(ts)
		if err != nil {
			fields.Add("timestamp", "must be an ISO 8601 timestamp")
		}
		t.EventTime = eventTime
	default:
		fields.Add("timestamp", "must be an ISO 8601 timestamp")
	}

	data, _ := m["data"].(map[string]any)
	if data != nil {
		if _, ok := data["disk_info"]; !ok {
			fields.Add("data.disk_info", "is required")
		}
		checkTelemetryTypes(data, fields)
	}

	temperatures := decodeTemperatureInfo(data["temperature_info"], fields)

	if err := fields.err(); err != nil {
		return nil, err
	}
	t.Data.TemperatureInfo = temperatures

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("re-read data block: %w", err)
	}
	t.RawData = envelope.Data

	return &t, nil
}

// decodeTemperatureInfo accepts null or a map of sensor name to entry list.
func decodeTemperatureInfo(v any, fields FieldErrors) map[string][]TemperatureEntry {
	const key = "data.temperature_info"
	if v == nil {
		return nil
	}
	groups, ok := v.(map[string]any)
	if !ok {
		fields.Add(key, "must be an object of sensor entry lists")
		return nil
	}

	result := make(map[string][]TemperatureEntry, len(groups))
	for name, raw := range groups {
		list, ok := raw.([]any)
		if !ok {
			fields.Add(key+"."+name, "must be a list")
			continue
		}
		entries := make([]TemperatureEntry, 0, len(list))
		for i, item := range list {
			obj, ok := item.(map[string]any)
			if !ok {
				fields.Add(fmt.Sprintf("%s.%s[%d]", key, name, i), "must be an object")
				continue
			}
			current, ok := obj["current"].(float64)
			if !ok {
				fields.Add(fmt.Sprintf("%s.%s[%d].current", key, name, i), "must be a number")
				continue
			}
			label, _ := obj["label"].(string)
			entries = append(entries, TemperatureEntry{Label: label, Current: current})
		}
		result[name] = entries
	}
	return result
}
