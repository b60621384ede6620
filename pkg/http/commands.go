package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"liyu1981.xyz/iot-dashboard-service/pkg/common"
	"liyu1981.xyz/iot-dashboard-service/pkg/models"
	"liyu1981.xyz/iot-dashboard-service/pkg/validation"
)

// pathID reads a positive integer path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		fields := validation.FieldErrors{}
		fields.Add(name, "must be a positive integer")
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.MessageValidationError, "details": fields})
		return 0, false
	}
	return uint(id), true
}

func (rs *RestfulServer) GetPendingCommands(c *gin.Context) {
	deviceID := c.Param("deviceId")

	if !rs.CheckDeviceLimiter(deviceID) {
		tooManyRequests(c)
		return
	}

	commands, err := rs.Iot.Command.Pending(c.Request.Context(), deviceID)
	if err != nil {
		respondError(c, err, "Failed to fetch commands")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"deviceId": deviceID,
		"count":    len(commands),
		"commands": common.Mapper(commands, func(cmd models.DeviceCommand) models.CommandSummary {
			return cmd.Summary()
		}),
	})
}

func (rs *RestfulServer) EnqueueCommand(c *gin.Context) {
	device, ok := rs.ownedDevice(c)
	if !ok {
		return
	}

	body, ok := readBody(c)
	if !ok {
		return
	}
	req, err := validation.ParseCommandRequest(body)
	if err != nil {
		respondError(c, err, "Failed to queue command")
		return
	}

	command, err := rs.Iot.Command.Enqueue(c.Request.Context(), device.ID, models.CommandType(req.Type), req.Payload)
	if err != nil {
		respondError(c, err, "Failed to queue command")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "command": command})
}

func (rs *RestfulServer) AcknowledgeCommand(c *gin.Context) {
	deviceID := c.Param("deviceId")
	commandID, ok := pathID(c, "commandId")
	if !ok {
		return
	}

	body, ok := readBody(c)
	if !ok {
		return
	}
	ack, err := validation.ParseCommandAck(body, time.Now())
	if err != nil {
		respondError(c, err, "Failed to process acknowledgment")
		return
	}

	command, err := rs.Iot.ApplyCommandAck(c.Request.Context(), deviceID, commandID, ack)
	if err != nil {
		respondError(c, err, "Failed to process acknowledgment")
		return
	}

	common.GetLoggerWith(common.LoggerNameRestfulServer).Info("Command acknowledged",
		zap.String("device_id", deviceID),
		zap.Uint("command_id", commandID),
		zap.String("status", string(command.Status)),
		zap.Stringp("error", command.Error),
	)

	c.JSON(http.StatusOK, gin.H{"success": true, "status": command.Status})
}
