package fixtures

import (
	"encoding/json"
	"time"
)

// TelemetryMap is a complete agent submission with every metric comfortably below
// alert thresholds. Tests tweak the nested maps before marshalling.
func TelemetryMap(deviceID string) map[string]any {
	ts := time.Now().UTC().Format(time.RFC3339Nano)
	return map[string]any{
		"deviceId":  deviceID,
		"timestamp": ts,
		"hostname":  "laptop-" + deviceID,
		"data": map[string]any{
			"timestamp": ts,
			"system_info": map[string]any{
				"system":    "Linux",
				"node_name": "laptop",
				"release":   "6.8.0",
				"version":   "#1 SMP",
				"machine":   "x86_64",
				"processor": "x86_64",
			},
			"cpu_info": map[string]any{
				"physical_cores":    4,
				"total_cores":       8,
				"cpu_usage_percent": 12.4,
				"cpu_freq_current":  2400.6,
				"cpu_freq_max":      4200.0,
				"per_cpu_usage":     []any{10.0, 12.5, 9.1, 14.0},
			},
			"memory_info": map[string]any{
				"total_gb":     15.6,
				"available_gb": 9.2,
				"used_gb":      6.4,
				"percent":      41.2,
			},
			"disk_info": []any{
				map[string]any{
					"device":     "/dev/nvme0n1p2",
					"mountpoint": "/",
					"fstype":     "ext4",
					"total_gb":   476.9,
					"used_gb":    120.3,
					"free_gb":    356.6,
					"percent":    25.2,
				},
			},
			"battery_info": map[string]any{
				"percent":           77.0,
				"plugged_in":        true,
				"time_left_seconds": nil,
				"battery_status":    2,
			},
			"power_info": map[string]any{
				"voltage_mv":               12450.0,
				"current_rate_mw":          -8200.0,
				"remaining_capacity_mwh":   41000.0,
				"full_charge_capacity_mwh": 52000.0,
				"design_capacity_mwh":      57000.0,
			},
			"network_info": map[string]any{
				"bytes_sent":       1024000,
				"bytes_received":   4096000,
				"packets_sent":     1200,
				"packets_received": 3400,
			},
			"temperature_info": map[string]any{
				"coretemp": []any{
					map[string]any{"label": "Package id 0", "current": 48.0},
				},
			},
		},
	}
}

func Data(m map[string]any) map[string]any {
	return m["data"].(map[string]any)
}

func Section(m map[string]any, name string) map[string]any {
	return Data(m)[name].(map[string]any)
}

func Marshal(m map[string]any) []byte {
	b, err := json.Marshal(m)
	if err != nil {
		panic(err)
	}
	return b
}

// TelemetryPayload is TelemetryMap marshalled, with an optional mutation applied first.
func TelemetryPayload(deviceID string, mutate func(m map[string]any)) []byte {
	m := TelemetryMap(deviceID)
	if mutate != nil {
		mutate(m)
	}
	return Marshal(m)
}
