package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	z "github.com/Oudwins/zog"
	"liyu1981.xyz/iot-dashboard-service/pkg/models"
)

type SensorRegistration struct {
	ID              string  `json:"id" zog:"id"`
	Name            string  `json:"name" zog:"name"`
	MeasurementType string  `json:"measurementType" zog:"measurementType"`
	DeviceID        *string `json:"deviceId,omitempty" zog:"deviceId"`
	Location        *string `json:"location,omitempty" zog:"location"`
}

var sensorRegistrationSchema = z.Struct(z.Shape{
	"ID": z.String().
		Required(z.Message("Sensor ID is required")).
		Min(1, z.Message("Sensor ID is required")),
	"Name": z.String().
		Required(z.Message("Name is required")).
		Min(2, z.Message("Name must be at least 2 characters")),
	"MeasurementType": z.String().
		Required(z.Message("Please select a valid measurement type")).
		OneOf(models.MeasurementTypes, z.Message("Please select a valid measurement type")),
	"DeviceID": z.Ptr(z.String()),
	"Location": z.Ptr(z.String()),
})

func ParseSensorRegistration(body []byte) (*SensorRegistration, error) {
	m, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	var reg SensorRegistration
	if errs := sensorRegistrationSchema.Parse(m, &reg); errs != nil {
		return nil, FromIssues(errs)
	}
	if reg.DeviceID != nil && *reg.DeviceID == "" {
		reg.DeviceID = nil
	}
	return &reg, nil
}

// SensorUpdate is a partial patch. ClearDevice is set when deviceId is sent as null.
type SensorUpdate struct {
	Name            *string `json:"name,omitempty" zog:"name"`
	MeasurementType *string `json:"measurementType,omitempty" zog:"measurementType"`
	DeviceID        *string `json:"deviceId,omitempty" zog:"deviceId"`
	Location        *string `json:"location,omitempty" zog:"location"`
	Status          *string `json:"status,omitempty" zog:"status"`

	ClearDevice bool `json:"-"`
}

var sensorUpdateSchema = z.Struct(z.Shape{
	"Name":            z.Ptr(z.String().Min(2, z.Message("Name must be at least 2 characters"))),
	"MeasurementType": z.Ptr(z.String().OneOf(models.MeasurementTypes, z.Message("Please select a valid measurement type"))),
	"DeviceID":        z.Ptr(z.String()),
	"Location":        z.Ptr(z.String()),
	"Status":          z.Ptr(z.String().OneOf(models.SensorStatuses)),
})

func ParseSensorUpdate(body []byte) (*SensorUpdate, error) {
	m, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	var upd SensorUpdate
	if errs := sensorUpdateSchema.Parse(m, &upd); errs != nil {
		return nil, FromIssues(errs)
	}
	if v, present := m["deviceId"]; present && v == nil {
		upd.ClearDevice = true
		upd.DeviceID = nil
	}
	return &upd, nil
}

// VoltageReading is the minimal hardware push: a registered sensor id and a volt value.
type VoltageReading struct {
	ID    string  `json:"id" zog:"id"`
	Volts float64 `json:"volts" zog:"volts"`
}

var voltageReadingSchema = z.Struct(z.Shape{
	"ID":    z.String().Required().Min(1),
	"Volts": z.Float64().Required(),
})

func ParseVoltageReading(body []byte) (*VoltageReading, error) {
	m, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	var r VoltageReading
	if errs := voltageReadingSchema.Parse(m, &r); errs != nil {
		return nil, FromIssues(errs)
	}
	return &r, nil
}

// SensorReading is a validated reading push with the value already stringified.
type SensorReading struct {
	Unit *string `json:"unit,omitempty" zog:"unit"`

	Value     string          `json:"value"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

var sensorReadingSchema = z.Struct(z.Shape{
	"Unit": z.Ptr(z.String()),
})

// ParseSensorReading accepts string, number, boolean or object values. The timestamp
// may be epoch seconds, epoch milliseconds or an ISO string, defaulting to now.
func ParseSensorReading(body []byte, now time.Time) (*SensorReading, error) {
	m, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	var r SensorReading
	if errs := sensorReadingSchema.Parse(m, &r); errs != nil {
		return nil, FromIssues(errs)
	}

	fields := FieldErrors{}

	var raw struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("re-read value: %w", err)
	}

	switch v := m["value"].(type) {
	case string:
		r.Value = v
	case float64:
		r.Value = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		r.Value = strconv.FormatBool(v)
	case map[string]any:
		var compact bytes.Buffer
		if err := json.Compact(&compact, raw.Value); err != nil {
			fields.Add("value", "must be valid JSON")
		}
		r.Value = compact.String()
	case nil:
		fields.Add("value", "is required")
	default:
		fields.Add("value", "must be a string, number, boolean or object")
	}

	r.Metadata = optionalObject(m, "metadata", fields)

	r.Timestamp = now.UTC()
	switch ts := m["timestamp"].(type) {
	case nil:
	case float64:
		r.Timestamp = EpochToTime(ts)
	case string:
		if parsed, err := ParseISOTime(ts); err == nil {
			r.Timestamp = parsed
		}
	default:
		fields.Add("timestamp", "must be a number or an ISO string")
	}

	if err := fields.err(); err != nil {
		return nil, err
	}
	return &r, nil
}
