package iot

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"gorm.io/datatypes"
	"liyu1981.xyz/iot-dashboard-service/pkg/models"
	"liyu1981.xyz/iot-dashboard-service/pkg/validation"
)

type BatterySnapshot struct {
	Percent   float64
	PluggedIn bool
}

type DiskUsage struct {
	Device  string
	Percent float64
}

// Snapshot is what the alert engine evaluates. Values are the unrounded ones the
// agent reported.
type Snapshot struct {
	CPUUsagePercent    float64
	MemoryPercent      float64
	Battery            *BatterySnapshot
	Disks              []DiskUsage
	Temperatures       map[string][]float64
	FullChargeCapacity *float64
	DesignCapacity     *float64
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

func roundIntPtr(v *float64) *int {
	if v == nil {
		return nil
	}
	r := roundInt(*v)
	return &r
}

func roundInt64Ptr(v float64) *int64 {
	r := int64(math.Round(v))
	return &r
}

// gbToMB keeps the dashboard's decimal convention, 1 GB is 1000 MB.
func gbToMB(gb float64) int {
	return roundInt(gb * 1000)
}

func jsonColumn(v any) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// Normalize converts a validated submission into a device_data row and the snapshot
// the alert engine runs on.
func Normalize(t *validation.Telemetry, receivedAt time.Time) (*models.TelemetryReading, *Snapshot, error) {
	data := t.Data
	if data == nil || data.CPUInfo == nil || data.MemoryInfo == nil || data.NetworkInfo == nil {
		return nil, nil, fmt.Errorf("normalize: incomplete telemetry for %s", t.DeviceID)
	}

	reading := &models.TelemetryReading{
		DeviceID:   t.DeviceID,
		Timestamp:  t.EventTime.UTC(),
		ReceivedAt: receivedAt.UTC(),

		CPUUsage:       roundInt(data.CPUInfo.CPUUsagePercent),
		CPUFreqCurrent: roundIntPtr(data.CPUInfo.CPUFreqCurrent),
		CPUCores:       roundIntPtr(&data.CPUInfo.TotalCores),

		MemoryTotal:     gbToMB(data.MemoryInfo.TotalGB),
		MemoryUsed:      gbToMB(data.MemoryInfo.UsedGB),
		MemoryAvailable: gbToMB(data.MemoryInfo.AvailableGB),
		MemoryPercent:   roundInt(data.MemoryInfo.Percent),

		NetworkBytesSent:       roundInt64Ptr(data.NetworkInfo.BytesSent),
		NetworkBytesReceived:   roundInt64Ptr(data.NetworkInfo.BytesReceived),
		NetworkPacketsSent:     roundInt64Ptr(data.NetworkInfo.PacketsSent),
		NetworkPacketsReceived: roundInt64Ptr(data.NetworkInfo.PacketsReceived),

		FullDataSnapshot: datatypes.JSON(t.RawData),
	}

	var err error
	if data.CPUInfo.PerCPUUsage != nil {
		if reading.CPUPerCoreUsage, err = jsonColumn(data.CPUInfo.PerCPUUsage); err != nil {
			return nil, nil, fmt.Errorf("normalize per core usage: %w", err)
		}
	}

	disks := data.DiskInfo
	if disks == nil {
		disks = []validation.DiskInfo{}
	}
	if reading.DiskInfo, err = jsonColumn(disks); err != nil {
		return nil, nil, fmt.Errorf("normalize disk info: %w", err)
	}

	if data.TemperatureInfo != nil {
		if reading.TemperatureInfo, err = jsonColumn(data.TemperatureInfo); err != nil {
			return nil, nil, fmt.Errorf("normalize temperature info: %w", err)
		}
	}

	if len(reading.FullDataSnapshot) == 0 {
		if reading.FullDataSnapshot, err = jsonColumn(data); err != nil {
			return nil, nil, fmt.Errorf("normalize snapshot: %w", err)
		}
	}

	snapshot := &Snapshot{
		CPUUsagePercent: data.CPUInfo.CPUUsagePercent,
		MemoryPercent:   data.MemoryInfo.Percent,
	}

	if b := data.BatteryInfo; b != nil {
		percent := roundInt(b.Percent)
		plugged := b.PluggedIn
		reading.BatteryPercent = &percent
		reading.BatteryPluggedIn = &plugged
		reading.BatteryTimeLeft = roundIntPtr(b.TimeLeftSeconds)
		reading.BatteryStatus = roundIntPtr(b.BatteryStatus)

		snapshot.Battery = &BatterySnapshot{Percent: b.Percent, PluggedIn: b.PluggedIn}
	}

	if p := data.PowerInfo; p != nil {
		reading.PowerVoltage = p.VoltageMV
		reading.PowerCurrentRate = p.CurrentRateMW
		reading.PowerRemainingCapacity = p.RemainingCapacityMWh
		reading.PowerFullChargeCapacity = p.FullChargeCapacityMWh
		reading.PowerDesignCapacity = p.DesignCapacityMWh

		snapshot.FullChargeCapacity = p.FullChargeCapacityMWh
		snapshot.DesignCapacity = p.DesignCapacityMWh
	}

	for _, d := range data.DiskInfo {
		snapshot.Disks = append(snapshot.Disks, DiskUsage{Device: d.Device, Percent: d.Percent})
	}

	if data.TemperatureInfo != nil {
		snapshot.Temperatures = make(map[string][]float64, len(data.TemperatureInfo))
		for name, entries := range data.TemperatureInfo {
			for _, e := range entries {
				snapshot.Temperatures[name] = append(snapshot.Temperatures[name], e.Current)
			}
		}
	}

	return reading, snapshot, nil
}
