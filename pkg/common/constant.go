package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyIOTDBType string = "IOT_DB_TYPE"
	EnvKeyIOTDbPath string = "IOT_DB_PATH"

	EnvKeyIOTLogDir string = "IOT_LOG_DIR"

	EnvKeyIOTHttpHostPort string = "IOT_HTTP_HOST_PORT"
	EnvKeyIOTGrpcHostPort string = "IOT_GRPC_HOST_PORT"

	EnvKeyIOTDefaultRate  string = "IOT_DEFAULT_RATE"
	EnvKeyIOTDefaultBurst string = "IOT_DEFAULT_BURST"

	EnvKeyIOTRedisAddr     string = "IOT_REDIS_ADDR"
	EnvKeyIOTRedisPassword string = "IOT_REDIS_PASSWORD"
	EnvKeyIOTRedisDB       string = "IOT_REDIS_DB"

	EnvKeyIOTMqttBroker   string = "IOT_MQTT_BROKER"
	EnvKeyIOTMqttClientID string = "IOT_MQTT_CLIENT_ID"
	EnvKeyIOTMqttUsername string = "IOT_MQTT_USERNAME"
	EnvKeyIOTMqttPassword string = "IOT_MQTT_PASSWORD"

	EnvKeyIOTSecretKey    string = "IOT_SECRET_KEY"
	EnvKeyIOTUnifiBaseURL string = "IOT_UNIFI_BASE_URL"

	EnvKeyIOTStaleMinutes  string = "IOT_STALE_MINUTES"
	EnvKeyIOTRetentionDays string = "IOT_RETENTION_DAYS"

	LoggerNameIOTCore       string = "iot_core"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameGrpcServer    string = "grpc_server"
	LoggerNameMqttBridge    string = "mqtt_bridge"
	LoggerNameUnifiClient   string = "unifi_client"
	LoggerNameMaintenance   string = "maintenance"

	LoggerFieldIOTCategory       string = "category"
	LoggerCategoryIOTDevice      string = "device"
	LoggerCategoryIOTTelemetry   string = "telemetry"
	LoggerCategoryIOTAlert       string = "alert"
	LoggerCategoryIOTCommand     string = "command"
	LoggerCategoryIOTSensor      string = "sensor"
	LoggerCategoryIOTIntegration string = "integration"

	DefaultStaleMinutes  int = 15
	DefaultRetentionDays int = 30
)
