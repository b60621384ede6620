package validation

import (
	"encoding/json"
	"time"

	z "github.com/Oudwins/zog"
	"liyu1981.xyz/iot-dashboard-service/pkg/models"
)

type CommandRequest struct {
	Type    string          `json:"type" zog:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

var commandRequestSchema = z.Struct(z.Shape{
	"Type": z.String().Required().OneOf(models.CommandTypes),
})

func ParseCommandRequest(body []byte) (*CommandRequest, error) {
	m, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	var req CommandRequest
	if errs := commandRequestSchema.Parse(m, &req); errs != nil {
		return nil, FromIssues(errs)
	}

	fields := FieldErrors{}
	req.Payload = optionalObject(m, "payload", fields)
	if err := fields.err(); err != nil {
		return nil, err
	}
	return &req, nil
}

var CommandAckStatuses = []string{
	string(models.CommandStatusAcknowledged),
	string(models.CommandStatusExecuted),
	string(models.CommandStatusFailed),
}

// CommandAck is the device's report for a command. At is the parsed client
// timestamp, or the receive time when the agent sent something unparsable.
type CommandAck struct {
	Status    string  `json:"status" zog:"status"`
	Timestamp string  `json:"timestamp" zog:"timestamp"`
	Error     *string `json:"error,omitempty" zog:"error"`

	At time.Time `json:"-"`
}

var commandAckSchema = z.Struct(z.Shape{
	"Status":    z.String().Required().OneOf(CommandAckStatuses),
	"Timestamp": z.String().Required(),
	"Error":     z.Ptr(z.String()),
})

func ParseCommandAck(body []byte, now time.Time) (*CommandAck, error) {
	m, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	var ack CommandAck
	if errs := commandAckSchema.Parse(m, &ack); errs != nil {
		return nil, FromIssues(errs)
	}

	ack.At = now.UTC()
	if at, err := ParseISOTime(ack.Timestamp); err == nil {
		ack.At = at
	}
	return &ack, nil
}
