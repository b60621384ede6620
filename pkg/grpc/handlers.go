package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	z "github.com/Oudwins/zog"
	"go.uber.org/zap"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"liyu1981.xyz/iot-dashboard-service/pkg/common"
	"liyu1981.xyz/iot-dashboard-service/pkg/iot"
	"liyu1981.xyz/iot-dashboard-service/pkg/models"
	"liyu1981.xyz/iot-dashboard-service/pkg/validation"
)

func validateID(id *string) z.ZogIssueList {
	var idValidator = z.String().Min(1).Required()
	return idValidator.Validate(id)
}

func logger() *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameGrpcServer)
}

func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, err
	}
	return out, nil
}

func success(payload map[string]any) (*structpb.Struct, error) {
	payload["success"] = true
	return toStruct(payload)
}

// failure turns a domain error into an envelope. Transport errors are reserved for
// the interceptor.
func failure(method string, err error) (*structpb.Struct, error) {
	body := map[string]any{"success": false, "error": err.Error()}
	if msg := iot.PublicMessage(err); msg != "" {
		body["error"] = msg
	}

	var vErr *validation.Error
	if errors.As(err, &vErr) {
		body["error"] = vErr.Message
		body["details"] = vErr.Details
	}

	logger().Warn("Request failed", zap.String("method", method), zap.Error(err))
	return toStruct(body)
}

func requestBody(req *structpb.Struct) ([]byte, error) {
	return json.Marshal(req.AsMap())
}

func (s *IOTServer) IngestTelemetry(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	body, err := requestBody(req)
	if err != nil {
		return failure(MethodIngestTelemetry, err)
	}

	t, err := validation.ParseTelemetry(body)
	if err != nil {
		return failure(MethodIngestTelemetry, err)
	}

	result, err := s.Iot.Telemetry.Ingest(ctx, t)
	if err != nil {
		return failure(MethodIngestTelemetry, err)
	}

	return success(map[string]any{
		"receivedAt": result.ReceivedAt,
		"message":    "Data stored successfully",
		"alerts":     len(result.Alerts),
	})
}

func (s *IOTServer) GetPendingCommands(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	deviceID := req.GetFields()[fieldDeviceID].GetStringValue()
	if err := validateID(&deviceID); err != nil {
		return failure(MethodGetPendingCommands, fmt.Errorf("validation error: %v", err))
	}

	commands, err := s.Iot.Command.Pending(ctx, deviceID)
	if err != nil {
		return failure(MethodGetPendingCommands, err)
	}

	return success(map[string]any{
		"deviceId": deviceID,
		"count":    len(commands),
		"commands": common.Mapper(commands, func(c models.DeviceCommand) models.CommandSummary {
			return c.Summary()
		}),
	})
}

type ackTarget struct {
	DeviceID  string  `zog:"deviceId"`
	CommandID float64 `zog:"commandId"`
}

var ackTargetSchema = z.Struct(z.Shape{
	"DeviceID":  z.String().Required().Min(1),
	"CommandID": z.Float64().Required().GT(0),
})

func (s *IOTServer) AcknowledgeCommand(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var target ackTarget
	if errs := ackTargetSchema.Parse(req.AsMap(), &target); errs != nil {
		return failure(MethodAcknowledgeCommand, fmt.Errorf("validation error: %v", errs))
	}
	if target.CommandID != float64(uint(target.CommandID)) {
		return failure(MethodAcknowledgeCommand, fmt.Errorf("validation error: commandId must be an integer"))
	}

	body, err := requestBody(req)
	if err != nil {
		return failure(MethodAcknowledgeCommand, err)
	}
	ack, err := validation.ParseCommandAck(body, time.Now())
	if err != nil {
		return failure(MethodAcknowledgeCommand, err)
	}

	command, err := s.Iot.ApplyCommandAck(ctx, target.DeviceID, uint(target.CommandID), ack)
	if err != nil {
		return failure(MethodAcknowledgeCommand, err)
	}

	return success(map[string]any{"command": command.Summary(), "status": command.Status})
}

// PushSensorReading takes either a bare {id, volts} push or a reading body with a
// sensorId.
func (s *IOTServer) PushSensorReading(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	body, err := requestBody(req)
	if err != nil {
		return failure(MethodPushSensorReading, err)
	}

	if _, ok := req.GetFields()["volts"]; ok {
		v, err := validation.ParseVoltageReading(body)
		if err != nil {
			return failure(MethodPushSensorReading, err)
		}
		sensor, err := s.Iot.RecordVoltage(ctx, v, time.Now())
		if err != nil {
			return failure(MethodPushSensorReading, err)
		}
		return success(map[string]any{"sensor": sensor, "dataInserted": true})
	}

	sensorID := req.GetFields()["sensorId"].GetStringValue()
	if err := validateID(&sensorID); err != nil {
		return failure(MethodPushSensorReading, fmt.Errorf("validation error: sensorId %v", err))
	}

	reading, err := validation.ParseSensorReading(body, time.Now())
	if err != nil {
		return failure(MethodPushSensorReading, err)
	}
	saved, err := s.Iot.Sensor.AppendReading(ctx, sensorID, reading)
	if err != nil {
		return failure(MethodPushSensorReading, err)
	}
	return success(map[string]any{"reading": saved})
}
