package iot

//go:generate mockgen -source=iot.go -destination=mocks/iot_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"time"

	"liyu1981.xyz/iot-dashboard-service/pkg/db"
	"liyu1981.xyz/iot-dashboard-service/pkg/models"
	"liyu1981.xyz/iot-dashboard-service/pkg/secret"
	"liyu1981.xyz/iot-dashboard-service/pkg/validation"
)

type IDevice interface {
	UpsertDevice(ctx context.Context, attrs DeviceAttrs) (*models.Device, error)
	GetDevice(ctx context.Context, deviceID string) (*models.Device, error)
	ListUserDevices(ctx context.Context, userID string) ([]models.Device, error)
	SweepStale(ctx context.Context, thresholdMinutes int) (int64, error)
}

type ITelemetry interface {
	Ingest(ctx context.Context, telemetry *validation.Telemetry) (*IngestResult, error)
	AppendReading(ctx context.Context, reading *models.TelemetryReading) error
	LatestReadings(ctx context.Context, deviceID string, limit int) ([]models.TelemetryReading, error)
	ReadingsRange(ctx context.Context, deviceID string, from, to time.Time) ([]models.TelemetryReading, error)
	Stats(ctx context.Context, deviceID string, windowHours int) (*DeviceStats, error)
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

type IAlert interface {
	CheckAndStoreAlerts(ctx context.Context, deviceID string, snapshot *Snapshot) ([]models.DeviceAlert, error)
	GetDeviceAlerts(ctx context.Context, deviceID string, includeResolved bool) ([]models.DeviceAlert, error)
	AcknowledgeAlert(ctx context.Context, deviceID string, alertID uint) (*models.DeviceAlert, error)
	ResolveAlert(ctx context.Context, deviceID string, alertID uint) (*models.DeviceAlert, error)
}

type ICommand interface {
	Enqueue(ctx context.Context, deviceID string, commandType models.CommandType, payload json.RawMessage) (*models.DeviceCommand, error)
	Pending(ctx context.Context, deviceID string) ([]models.DeviceCommand, error)
	Acknowledge(ctx context.Context, deviceID string, commandID uint, at time.Time) (*models.DeviceCommand, error)
	MarkExecuted(ctx context.Context, deviceID string, commandID uint, errMsg *string, at time.Time) (*models.DeviceCommand, error)
}

type ISensor interface {
	UpsertSensor(ctx context.Context, attrs SensorAttrs) (*models.Sensor, error)
	GetSensor(ctx context.Context, sensorID string) (*models.Sensor, error)
	ListUserSensors(ctx context.Context, userID string) ([]models.Sensor, error)
	UpdateSensor(ctx context.Context, sensorID string, update *validation.SensorUpdate) (*models.Sensor, error)
	DeleteSensor(ctx context.Context, sensorID string) error
	AppendReading(ctx context.Context, sensorID string, reading *validation.SensorReading) (*models.SensorReading, error)
	LatestReadings(ctx context.Context, sensorID string, limit int) ([]models.SensorReading, error)
}

type IIntegration interface {
	SaveConfig(ctx context.Context, userID string, input IntegrationInput) (*models.IntegrationConfig, error)
	GetConfig(ctx context.Context, userID string) (*models.IntegrationConfig, string, error)
}

type IOT struct {
	Db     *db.DB
	Cipher *secret.Cipher
	// Clock defaults to time.Now when nil.
	Clock func() time.Time

	Device      IDevice
	Telemetry   ITelemetry
	Alert       IAlert
	Command     ICommand
	Sensor      ISensor
	Integration IIntegration
}

type ServiceOpts struct {
	Device      IDevice
	Telemetry   ITelemetry
	Alert       IAlert
	Command     ICommand
	Sensor      ISensor
	Integration IIntegration
}

// New builds an IOT with every service backed by database. cipher may be nil when no
// integration key is configured, IIntegration then refuses to store keys.
func New(database *db.DB, cipher *secret.Cipher) *IOT {
	i := &IOT{Db: database, Cipher: cipher}
	return i.WithServices(ServiceOpts{
		Device:      i.GetIDevice(),
		Telemetry:   i.GetITelemetry(),
		Alert:       i.GetIAlert(),
		Command:     i.GetICommand(),
		Sensor:      i.GetISensor(),
		Integration: i.GetIIntegration(),
	})
}

func (i *IOT) now() time.Time {
	if i.Clock != nil {
		return i.Clock().UTC()
	}
	return time.Now().UTC()
}

func (i *IOT) WithServices(opts ServiceOpts) *IOT {
	if opts.Device != nil {
		i.Device = opts.Device
	}
	if opts.Telemetry != nil {
		i.Telemetry = opts.Telemetry
	}
	if opts.Alert != nil {
		i.Alert = opts.Alert
	}
	if opts.Command != nil {
		i.Command = opts.Command
	}
	if opts.Sensor != nil {
		i.Sensor = opts.Sensor
	}
	if opts.Integration != nil {
		i.Integration = opts.Integration
	}
	return i
}
