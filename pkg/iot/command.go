package iot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"liyu1981.xyz/iot-dashboard-service/pkg/common"
	"liyu1981.xyz/iot-dashboard-service/pkg/models"
	"liyu1981.xyz/iot-dashboard-service/pkg/validation"
)

func (i *IOT) enqueueCommand(ctx context.Context, deviceID string, commandType models.CommandType, payload json.RawMessage) (*models.DeviceCommand, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTCommand),
	)

	if _, err := i.getDevice(ctx, deviceID); err != nil {
		return nil, err
	}

	command := models.DeviceCommand{
		DeviceID:    deviceID,
		CommandType: commandType,
		Status:      models.CommandStatusPending,
		CreatedAt:   i.now(),
	}
	if len(payload) > 0 {
		command.Payload = datatypes.JSON(payload)
	}

	if err := i.Db.Conn.WithContext(ctx).Create(&command).Error; err != nil {
		return nil, wrapDbError("enqueue command", err)
	}

	logger.Info("Command queued", zap.String("device_id", deviceID), zap.Uint("command_id", command.ID), zap.String("type", string(commandType)))
	return &command, nil
}

func (i *IOT) pendingCommands(ctx context.Context, deviceID string) ([]models.DeviceCommand, error) {
	commands := []models.DeviceCommand{}
	err := i.Db.Conn.WithContext(ctx).
		Where("device_id = ? AND status = ?", deviceID, models.CommandStatusPending).
		Order("created_at asc").
		Order("id asc").
		Find(&commands).Error
	return commands, wrapDbError("pending commands", err)
}

// transition applies a conditional update so concurrent or repeated acks cannot move a
// command backwards. When nothing matched it tells a missing command from a stale one.
func (i *IOT) transition(ctx context.Context, deviceID string, commandID uint, from []models.CommandStatus, updates map[string]any) (*models.DeviceCommand, error) {
	var command models.DeviceCommand

	err := i.Db.Conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.DeviceCommand{}).
			Where("id = ? AND device_id = ? AND status IN ?", commandID, deviceID, from).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}

		if err := tx.First(&command, "id = ? AND device_id = ?", commandID, deviceID).Error; err != nil {
			return err
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("command %d is %s: %w", commandID, command.Status, ErrConflict)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, err
		}
		return nil, wrapDbError("transition command", err)
	}
	return &command, nil
}

func (i *IOT) acknowledgeCommand(ctx context.Context, deviceID string, commandID uint, at time.Time) (*models.DeviceCommand, error) {
	command, err := i.transition(ctx, deviceID, commandID,
		[]models.CommandStatus{models.CommandStatusPending},
		map[string]any{
			"status":          models.CommandStatusAcknowledged,
			"acknowledged_at": at.UTC(),
		})
	if err != nil {
		return nil, err
	}

	common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTCommand),
	).Info("Command acknowledged", zap.String("device_id", deviceID), zap.Uint("command_id", commandID))
	return command, nil
}

// markExecuted finishes a command, an error message makes it failed.
func (i *IOT) markExecuted(ctx context.Context, deviceID string, commandID uint, errMsg *string, at time.Time) (*models.DeviceCommand, error) {
	status := models.CommandStatusExecuted
	if errMsg != nil && *errMsg != "" {
		status = models.CommandStatusFailed
	} else {
		errMsg = nil
	}

	command, err := i.transition(ctx, deviceID, commandID,
		[]models.CommandStatus{models.CommandStatusPending, models.CommandStatusAcknowledged},
		map[string]any{
			"status":      status,
			"executed_at": at.UTC(),
			"error":       errMsg,
		})
	if err != nil {
		return nil, err
	}

	common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTCommand),
	).Info("Command finished", zap.String("device_id", deviceID), zap.Uint("command_id", commandID), zap.String("status", string(status)))
	return command, nil
}

type ICommandImpl struct {
	iot *IOT
}

// ApplyCommandAck routes an agent report onto the command state machine. A failed
// report without an error text is recorded with a generic one.
func (i *IOT) ApplyCommandAck(ctx context.Context, deviceID string, commandID uint, ack *validation.CommandAck) (*models.DeviceCommand, error) {
	switch models.CommandStatus(ack.Status) {
	case models.CommandStatusAcknowledged:
		return i.Command.Acknowledge(ctx, deviceID, commandID, ack.At)
	case models.CommandStatusExecuted:
		return i.Command.MarkExecuted(ctx, deviceID, commandID, nil, ack.At)
	case models.CommandStatusFailed:
		errMsg := ack.Error
		if errMsg == nil || *errMsg == "" {
			errMsg = common.Ptr("command failed")
		}
		return i.Command.MarkExecuted(ctx, deviceID, commandID, errMsg, ack.At)
	}
	return nil, fmt.Errorf("ack status %q: %w", ack.Status, ErrConflict)
}

func (ic *ICommandImpl) Enqueue(ctx context.Context, deviceID string, commandType models.CommandType, payload json.RawMessage) (*models.DeviceCommand, error) {
	return ic.iot.enqueueCommand(ctx, deviceID, commandType, payload)
}

func (ic *ICommandImpl) Pending(ctx context.Context, deviceID string) ([]models.DeviceCommand, error) {
	return ic.iot.pendingCommands(ctx, deviceID)
}

func (ic *ICommandImpl) Acknowledge(ctx context.Context, deviceID string, commandID uint, at time.Time) (*models.DeviceCommand, error) {
	return ic.iot.acknowledgeCommand(ctx, deviceID, commandID, at)
}

func (ic *ICommandImpl) MarkExecuted(ctx context.Context, deviceID string, commandID uint, errMsg *string, at time.Time) (*models.DeviceCommand, error) {
	return ic.iot.markExecuted(ctx, deviceID, commandID, errMsg, at)
}

func (i *IOT) GetICommand() ICommand {
	return &ICommandImpl{iot: i}
}
