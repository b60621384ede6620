package iot

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"
	"liyu1981.xyz/iot-dashboard-service/pkg/common"
	"liyu1981.xyz/iot-dashboard-service/pkg/models"
	"liyu1981.xyz/iot-dashboard-service/pkg/unifi"
)

var ErrNoCipher = errors.New("integration key encryption is not configured")

type IntegrationInput struct {
	APIKey      string
	NetworkID   string
	NetworkName *string
}

func (i *IOT) saveIntegrationConfig(ctx context.Context, userID string, input IntegrationInput) (*models.IntegrationConfig, error) {
	if i.Cipher == nil {
		return nil, ErrNoCipher
	}

	sealed, err := i.Cipher.Encrypt(input.APIKey)
	if err != nil {
		return nil, fmt.Errorf("seal api key: %w", err)
	}

	now := i.now()
	config := models.IntegrationConfig{
		ID:            uuid.NewString(),
		UserID:        userID,
		ControllerURL: unifi.DefaultBaseURL,
		APIKey:        sealed,
		NetworkID:     input.NetworkID,
		NetworkName:   input.NetworkName,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = i.Db.Conn.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"controller_url", "api_key", "network_id", "network_name", "updated_at"}),
	}).Create(&config).Error
	if err != nil {
		return nil, wrapDbError("save integration config", err)
	}

	stored, _, err := i.getIntegrationConfig(ctx, userID)
	if err != nil {
		return nil, err
	}

	common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTIntegration),
	).Info("Integration config saved", zap.String("user_id", userID), zap.String("network_id", input.NetworkID))
	return stored, nil
}

// getIntegrationConfig returns the stored row and the decrypted API key.
func (i *IOT) getIntegrationConfig(ctx context.Context, userID string) (*models.IntegrationConfig, string, error) {
	var config models.IntegrationConfig
	if err := i.Db.Conn.WithContext(ctx).First(&config, "user_id = ?", userID).Error; err != nil {
		return nil, "", wrapDbError("get integration config", err)
	}
	if i.Cipher == nil {
		return nil, "", ErrNoCipher
	}

	apiKey, err := i.Cipher.Decrypt(config.APIKey)
	if err != nil {
		return nil, "", fmt.Errorf("open api key: %w", err)
	}
	return &config, apiKey, nil
}

type IIntegrationImpl struct {
	iot *IOT
}

func (ii *IIntegrationImpl) SaveConfig(ctx context.Context, userID string, input IntegrationInput) (*models.IntegrationConfig, error) {
	return ii.iot.saveIntegrationConfig(ctx, userID, input)
}

func (ii *IIntegrationImpl) GetConfig(ctx context.Context, userID string) (*models.IntegrationConfig, string, error) {
	return ii.iot.getIntegrationConfig(ctx, userID)
}

func (i *IOT) GetIIntegration() IIntegration {
	return &IIntegrationImpl{iot: i}
}
