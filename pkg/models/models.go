package models

import (
	"time"

	"gorm.io/datatypes"
)

type DeviceStatus string

const (
	DeviceStatusActive   DeviceStatus = "active"
	DeviceStatusInactive DeviceStatus = "inactive"
	DeviceStatusOffline  DeviceStatus = "offline"
)

type AlertSeverity string

const (
	AlertSeverityInfo     AlertSeverity = "info"
	AlertSeverityWarning  AlertSeverity = "warning"
	AlertSeverityCritical AlertSeverity = "critical"
)

type AlertType string

const (
	AlertTypeCPUHigh         AlertType = "cpu_high"
	AlertTypeMemoryHigh      AlertType = "memory_high"
	AlertTypeBatteryLow      AlertType = "battery_low"
	AlertTypeBatteryCritical AlertType = "battery_critical"
	AlertTypeDiskFull        AlertType = "disk_full"
	AlertTypeTemperatureHigh AlertType = "temperature_high"
	AlertTypeBatteryHealth   AlertType = "battery_health"
)

type CommandType string

const (
	CommandTypeShutdown       CommandType = "shutdown"
	CommandTypeRestart        CommandType = "restart"
	CommandTypeStop           CommandType = "stop"
	CommandTypeUpdateInterval CommandType = "update_interval"
)

var CommandTypes = []string{
	string(CommandTypeShutdown),
	string(CommandTypeRestart),
	string(CommandTypeStop),
	string(CommandTypeUpdateInterval),
}

type CommandStatus string

const (
	CommandStatusPending      CommandStatus = "pending"
	CommandStatusAcknowledged CommandStatus = "acknowledged"
	CommandStatusExecuted     CommandStatus = "executed"
	CommandStatusFailed       CommandStatus = "failed"
)

// CommandSummary is the trimmed command shape agents poll for.
type CommandSummary struct {
	ID        uint           `json:"id"`
	Type      CommandType    `json:"type"`
	Payload   datatypes.JSON `json:"payload"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (c *DeviceCommand) Summary() CommandSummary {
	return CommandSummary{
		ID:        c.ID,
		Type:      c.CommandType,
		Payload:   c.Payload,
		CreatedAt: c.CreatedAt,
	}
}

type SensorStatus string

const (
	SensorStatusActive   SensorStatus = "active"
	SensorStatusInactive SensorStatus = "inactive"
	SensorStatusOffline  SensorStatus = "offline"
)

var SensorStatuses = []string{
	string(SensorStatusActive),
	string(SensorStatusInactive),
	string(SensorStatusOffline),
}

var MeasurementTypes = []string{
	"tv",
	"air_conditioner",
	"temperature",
	"humidity",
	"motion",
	"light",
	"door",
	"window",
	"smoke",
	"camera",
	"thermostat",
	"fan",
	"heater",
	"other",
}

type Device struct {
	ID         string         `gorm:"primaryKey" json:"id"`
	UserID     *string        `gorm:"index" json:"userId"`
	Hostname   string         `gorm:"not null" json:"hostname"`
	SystemInfo datatypes.JSON `json:"systemInfo"`
	FirstSeen  time.Time      `gorm:"not null" json:"firstSeen"`
	LastSeen   time.Time      `gorm:"not null;index" json:"lastSeen"`
	Status     DeviceStatus   `gorm:"type:varchar(16);not null;default:active;index;check:status IN ('active','inactive','offline')" json:"status"`
	Notes      *string        `json:"notes"`

	Readings []TelemetryReading `gorm:"foreignKey:DeviceID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Alerts   []DeviceAlert      `gorm:"foreignKey:DeviceID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Commands []DeviceCommand    `gorm:"foreignKey:DeviceID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Sensors  []Sensor           `gorm:"foreignKey:DeviceID;references:ID;constraint:OnDelete:SET NULL" json:"-"`
}

// TelemetryReading is one append-only row of device_data. Memory is stored in MB,
// power values in the milli-units reported by the agent.
type TelemetryReading struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DeviceID   string    `gorm:"not null;index:idx_device_data_device_ts,priority:1" json:"deviceId"`
	Timestamp  time.Time `gorm:"not null;index:idx_device_data_device_ts,priority:2" json:"timestamp"`
	ReceivedAt time.Time `gorm:"not null" json:"receivedAt"`

	CPUUsage        int            `gorm:"column:cpu_usage;not null" json:"cpuUsage"`
	CPUFreqCurrent  *int           `gorm:"column:cpu_freq_current" json:"cpuFreqCurrent"`
	CPUCores        *int           `gorm:"column:cpu_cores" json:"cpuCores"`
	CPUPerCoreUsage datatypes.JSON `gorm:"column:cpu_per_core_usage" json:"cpuPerCoreUsage"`

	MemoryTotal     int `gorm:"not null" json:"memoryTotal"`
	MemoryUsed      int `gorm:"not null" json:"memoryUsed"`
	MemoryAvailable int `gorm:"not null" json:"memoryAvailable"`
	MemoryPercent   int `gorm:"not null" json:"memoryPercent"`

	BatteryPercent   *int  `json:"batteryPercent"`
	BatteryPluggedIn *bool `json:"batteryPluggedIn"`
	BatteryTimeLeft  *int  `json:"batteryTimeLeft"`
	BatteryStatus    *int  `json:"batteryStatus"`

	PowerVoltage            *float64 `json:"powerVoltage"`
	PowerCurrentRate        *float64 `json:"powerCurrentRate"`
	PowerRemainingCapacity  *float64 `json:"powerRemainingCapacity"`
	PowerFullChargeCapacity *float64 `json:"powerFullChargeCapacity"`
	PowerDesignCapacity     *float64 `json:"powerDesignCapacity"`

	DiskInfo datatypes.JSON `json:"diskInfo"`

	NetworkBytesSent       *int64 `json:"networkBytesSent"`
	NetworkBytesReceived   *int64 `json:"networkBytesReceived"`
	NetworkPacketsSent     *int64 `json:"networkPacketsSent"`
	NetworkPacketsReceived *int64 `json:"networkPacketsReceived"`

	TemperatureInfo  datatypes.JSON `json:"temperatureInfo"`
	FullDataSnapshot datatypes.JSON `gorm:"not null" json:"fullDataSnapshot"`
}

func (TelemetryReading) TableName() string {
	return "device_data"
}

type DeviceAlert struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	DeviceID     string        `gorm:"not null;index" json:"deviceId"`
	AlertType    AlertType     `gorm:"type:varchar(32);not null" json:"alertType"`
	Severity     AlertSeverity `gorm:"type:varchar(16);not null;check:severity IN ('info','warning','critical')" json:"severity"`
	Message      string        `gorm:"not null" json:"message"`
	Value        *int          `json:"value"`
	Threshold    *int          `json:"threshold"`
	CreatedAt    time.Time     `gorm:"not null;index" json:"createdAt"`
	ResolvedAt   *time.Time    `json:"resolvedAt"`
	Acknowledged bool          `gorm:"not null;default:false" json:"acknowledged"`
}

type DeviceCommand struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	DeviceID       string         `gorm:"not null;index" json:"deviceId"`
	CommandType    CommandType    `gorm:"type:varchar(32);not null;check:command_type IN ('shutdown','restart','stop','update_interval')" json:"commandType"`
	Payload        datatypes.JSON `json:"payload"`
	Status         CommandStatus  `gorm:"type:varchar(16);not null;default:pending;index;check:status IN ('pending','acknowledged','executed','failed')" json:"status"`
	CreatedAt      time.Time      `gorm:"not null" json:"createdAt"`
	AcknowledgedAt *time.Time     `json:"acknowledgedAt"`
	ExecutedAt     *time.Time     `json:"executedAt"`
	Error          *string        `json:"error"`
}

type Sensor struct {
	ID              string         `gorm:"primaryKey" json:"id"`
	UserID          string         `gorm:"not null;index" json:"userId"`
	DeviceID        *string        `gorm:"index" json:"deviceId"`
	Name            string         `gorm:"not null" json:"name"`
	MeasurementType string         `gorm:"not null" json:"measurementType"`
	Location        *string        `json:"location"`
	Status          SensorStatus   `gorm:"type:varchar(16);not null;default:active" json:"status"`
	Metadata        datatypes.JSON `json:"metadata"`
	CreatedAt       time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updatedAt"`

	Readings []SensorReading `gorm:"foreignKey:SensorID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

type SensorReading struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	SensorID   string         `gorm:"not null;index:idx_sensor_data_sensor_ts,priority:1" json:"sensorId"`
	Timestamp  time.Time      `gorm:"not null;index:idx_sensor_data_sensor_ts,priority:2" json:"timestamp"`
	Value      string         `gorm:"not null" json:"value"`
	Unit       *string        `json:"unit"`
	Metadata   datatypes.JSON `json:"metadata"`
	ReceivedAt time.Time      `gorm:"not null" json:"receivedAt"`
}

func (SensorReading) TableName() string {
	return "sensor_data"
}

// IntegrationConfig stores one UniFi account per user. APIKey holds the sealed key,
// never the plaintext.
type IntegrationConfig struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	UserID        string    `gorm:"not null;uniqueIndex" json:"userId"`
	ControllerURL string    `gorm:"not null" json:"controllerUrl"`
	APIKey        string    `gorm:"column:api_key;not null" json:"-"`
	NetworkID     string    `gorm:"not null" json:"networkId"`
	NetworkName   *string   `json:"networkName"`
	CreatedAt     time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null" json:"updatedAt"`
}

func (IntegrationConfig) TableName() string {
	return "unifi_config"
}

func AllModels() []any {
	return []any{
		&Device{},
		&TelemetryReading{},
		&DeviceAlert{},
		&DeviceCommand{},
		&Sensor{},
		&SensorReading{},
		&IntegrationConfig{},
	}
}
