package validation

import (
	"encoding/json"
	"regexp"

	z "github.com/Oudwins/zog"
)

var DeviceIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_:-]+$`)

type RegistrationSystemInfo struct {
	OS           string   `json:"os,omitempty" zog:"os"`
	OSVersion    string   `json:"osVersion,omitempty" zog:"osVersion"`
	Processor    string   `json:"processor,omitempty" zog:"processor"`
	TotalMemory  *float64 `json:"totalMemory,omitempty" zog:"totalMemory"`
	Architecture string   `json:"architecture,omitempty" zog:"architecture"`
}

type DeviceRegistration struct {
	Hostname   string                  `json:"hostname" zog:"hostname"`
	DeviceID   string                  `json:"deviceId" zog:"deviceId"`
	Notes      *string                 `json:"notes,omitempty" zog:"notes"`
	SystemInfo *RegistrationSystemInfo `json:"systemInfo,omitempty" zog:"systemInfo"`
}

var deviceRegistrationSchema = z.Struct(z.Shape{
	"Hostname": z.String().
		Required(z.Message("Hostname is required")).
		Min(2, z.Message("Hostname must be at least 2 characters")).
		Max(255, z.Message("Hostname is too long")),
	"DeviceID": z.String().
		Required(z.Message("Device ID is required")).
		Match(DeviceIDPattern, z.Message("Device ID can only contain letters, numbers, hyphens, underscores, and colons")),
	"Notes": z.Ptr(z.String().Max(500, z.Message("Notes are too long"))),
	"SystemInfo": z.Ptr(z.Struct(z.Shape{
		"OS":           z.String(),
		"OSVersion":    z.String(),
		"Processor":    z.String(),
		"TotalMemory":  z.Ptr(z.Float64()),
		"Architecture": z.String(),
	})),
})

func ParseDeviceRegistration(body []byte) (*DeviceRegistration, error) {
	m, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	var reg DeviceRegistration
	if errs := deviceRegistrationSchema.Parse(m, &reg); errs != nil {
		return nil, FromIssues(errs)
	}
	return &reg, nil
}

// SystemInfoJSON is the stored blob, an empty object when none was sent.
func (r *DeviceRegistration) SystemInfoJSON() json.RawMessage {
	if r.SystemInfo == nil {
		return json.RawMessage(`{}`)
	}
	b, err := json.Marshal(r.SystemInfo)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return b
}
