package mqtt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"liyu1981.xyz/iot-dashboard-service/pkg/common"
	"liyu1981.xyz/iot-dashboard-service/pkg/iot"
	"liyu1981.xyz/iot-dashboard-service/pkg/metrics"
	"liyu1981.xyz/iot-dashboard-service/pkg/validation"
)

const (
	TopicTelemetry      = "devices/+/telemetry"
	TopicSensorReadings = "sensors/+/readings"

	qos            = 1
	handlerTimeout = 10 * time.Second
)

var (
	ErrTopic         = errors.New("unexpected topic")
	ErrTopicMismatch = errors.New("payload device id does not match topic")
	ErrRateLimited   = errors.New("rate limited")
)

type Config struct {
	Broker   string
	ClientID string
	Username string
	Password string
}

func NewClientOptions(cfg Config) *paho.ClientOptions {
	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	return opts
}

// Bridge feeds MQTT publishes into the same ingest paths as the HTTP API. Payloads are
// the HTTP JSON bodies; a failing message is logged and dropped.
type Bridge struct {
	Client           paho.Client
	Iot              *iot.IOT
	RateLimiterStore *iot.RateLimiterStore

	logger *zap.Logger
}

func NewBridge(client paho.Client, iotObj *iot.IOT, limiter *iot.RateLimiterStore) *Bridge {
	return &Bridge{
		Client:           client,
		Iot:              iotObj,
		RateLimiterStore: limiter,
		logger:           common.GetLoggerWith(common.LoggerNameMqttBridge),
	}
}

// Start connects when needed and subscribes both topics.
func (b *Bridge) Start() error {
	if !b.Client.IsConnected() {
		if token := b.Client.Connect(); token.Wait() && token.Error() != nil {
			return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
		}
	}

	subs := map[string]paho.MessageHandler{
		TopicTelemetry:      b.onTelemetry,
		TopicSensorReadings: b.onSensorReading,
	}
	for topic, handler := range subs {
		if token := b.Client.Subscribe(topic, qos, handler); token.Wait() && token.Error() != nil {
			return fmt.Errorf("failed to subscribe to topic %s: %w", topic, token.Error())
		}
		b.logger.Info("Subscribed", zap.String("topic", topic))
	}
	return nil
}

func (b *Bridge) Stop() {
	if token := b.Client.Unsubscribe(TopicTelemetry, TopicSensorReadings); token.Wait() && token.Error() != nil {
		b.logger.Warn("Unsubscribe failed", zap.Error(token.Error()))
	}
	b.Client.Disconnect(250)
}

func (b *Bridge) onTelemetry(_ paho.Client, msg paho.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	if err := b.HandleTelemetry(ctx, msg.Topic(), msg.Payload()); err != nil {
		b.logger.Error("Telemetry message dropped", zap.String("topic", msg.Topic()), zap.Error(err))
	}
}

func (b *Bridge) onSensorReading(_ paho.Client, msg paho.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	if err := b.HandleSensorReading(ctx, msg.Topic(), msg.Payload()); err != nil {
		b.logger.Error("Sensor message dropped", zap.String("topic", msg.Topic()), zap.Error(err))
	}
}

func (b *Bridge) HandleTelemetry(ctx context.Context, topic string, payload []byte) error {
	deviceID, err := topicID(topic, "devices", "telemetry")
	if err != nil {
		return err
	}

	if !b.RateLimiterStore.Allow(deviceID) {
		metrics.RateLimited.WithLabelValues(metrics.TransportMQTT).Inc()
		return fmt.Errorf("device %s: %w", deviceID, ErrRateLimited)
	}

	t, err := validation.ParseTelemetry(payload)
	if err != nil {
		return err
	}
	if t.DeviceID != deviceID {
		return fmt.Errorf("%w: topic %s, payload %s", ErrTopicMismatch, deviceID, t.DeviceID)
	}

	result, err := b.Iot.Telemetry.Ingest(ctx, t)
	if err != nil {
		return err
	}
	b.logger.Debug("Telemetry ingested",
		zap.String("device_id", deviceID),
		zap.Int("alerts", len(result.Alerts)),
	)
	return nil
}

func (b *Bridge) HandleSensorReading(ctx context.Context, topic string, payload []byte) error {
	sensorID, err := topicID(topic, "sensors", "readings")
	if err != nil {
		return err
	}

	reading, err := validation.ParseSensorReading(payload, time.Now())
	if err != nil {
		return err
	}
	if _, err := b.Iot.Sensor.AppendReading(ctx, sensorID, reading); err != nil {
		return err
	}
	return nil
}

// topicID extracts the middle segment of prefix/{id}/suffix.
func topicID(topic, prefix, suffix string) (string, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != prefix || parts[2] != suffix || parts[1] == "" {
		return "", fmt.Errorf("%w: %s", ErrTopic, topic)
	}
	return parts[1], nil
}
