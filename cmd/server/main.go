package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	paho "github.com/eclipse/paho.mqtt.golang"

	"liyu1981.xyz/iot-dashboard-service/pkg/auth"
	"liyu1981.xyz/iot-dashboard-service/pkg/common"
	"liyu1981.xyz/iot-dashboard-service/pkg/db"
	iotGrpc "liyu1981.xyz/iot-dashboard-service/pkg/grpc"
	iotHttp "liyu1981.xyz/iot-dashboard-service/pkg/http"
	"liyu1981.xyz/iot-dashboard-service/pkg/iot"
	iotMqtt "liyu1981.xyz/iot-dashboard-service/pkg/mqtt"
	"liyu1981.xyz/iot-dashboard-service/pkg/secret"
	"liyu1981.xyz/iot-dashboard-service/pkg/unifi"
)

func main() {
	var err error

	err = godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	var dbInstance *db.DB
	iotDbType := os.Getenv(common.EnvKeyIOTDBType)
	switch iotDbType {
	case "file":
		dbInstance, err = db.Open(db.UseSqliteDialector())
	case "memory":
		dbInstance, err = db.Open(db.UseMemorySqliteDialector())
	default:
		log.Fatal("Unknown IOT_DB_TYPE: " + iotDbType)
	}
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer dbInstance.Close()

	grpcHostPort := strings.TrimSpace(os.Getenv(common.EnvKeyIOTGrpcHostPort))
	httpHostPort := strings.TrimSpace(os.Getenv(common.EnvKeyIOTHttpHostPort))

	var defaultRate float64
	var defaultBurst int64

	if defaultRate, err = strconv.ParseFloat(os.Getenv(common.EnvKeyIOTDefaultRate), 64); err != nil {
		log.Fatal("Invalid IOT_DEFAULT_RATE, or not set in .env, should be a float64 value")
	}

	if defaultBurst, err = strconv.ParseInt(os.Getenv(common.EnvKeyIOTDefaultBurst), 10, 64); err != nil {
		log.Fatal("Invalid IOT_DEFAULT_BURST, or not set in .env, should be an int value")
	}

	logger := common.GetLogger()
	defer common.SyncLogger()

	var cipher *secret.Cipher
	if secretKey := os.Getenv(common.EnvKeyIOTSecretKey); secretKey != "" {
		if cipher, err = secret.NewCipher(secretKey); err != nil {
			log.Fatalf("Invalid IOT_SECRET_KEY: %v", err)
		}
	} else {
		logger.Warn("IOT_SECRET_KEY not set, UniFi integration keys cannot be stored")
	}

	iotCore := iot.New(dbInstance, cipher)

	// one store per transport, a device talking over both gets both budgets
	newLimiterStore := func() *iot.RateLimiterStore {
		return iot.NewRateLimiterStore(rate.Limit(defaultRate), int(defaultBurst))
	}
	limiterDesc := fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", defaultRate, defaultBurst)

	var sessions auth.SessionStore
	if redisAddr := strings.TrimSpace(os.Getenv(common.EnvKeyIOTRedisAddr)); redisAddr != "" {
		redisDB, _ := strconv.Atoi(os.Getenv(common.EnvKeyIOTRedisDB))
		client := auth.NewRedisClient(redisAddr, os.Getenv(common.EnvKeyIOTRedisPassword), redisDB)
		defer client.Close()
		sessions = auth.NewRedisSessionStore(client)
		logger.Info("Session store configured", zap.String("redis_addr", redisAddr))
	} else {
		logger.Warn("IOT_REDIS_ADDR not set, every dashboard route will answer 401")
	}

	if broker := strings.TrimSpace(os.Getenv(common.EnvKeyIOTMqttBroker)); broker != "" {
		clientID := common.GetEnvString(common.EnvKeyIOTMqttClientID,
			"iot-dashboard-"+strconv.FormatInt(time.Now().Unix(), 10))
		opts := iotMqtt.NewClientOptions(iotMqtt.Config{
			Broker:   broker,
			ClientID: clientID,
			Username: os.Getenv(common.EnvKeyIOTMqttUsername),
			Password: os.Getenv(common.EnvKeyIOTMqttPassword),
		})
		bridge := iotMqtt.NewBridge(paho.NewClient(opts), iotCore, newLimiterStore())
		if err := bridge.Start(); err != nil {
			log.Fatalf("mqtt bridge failed to start: %v", err)
		}
		defer bridge.Stop()
		logger.Info("MQTT bridge started", zap.String("broker", broker), zap.String("default_limiter", limiterDesc))
	}

	if grpcHostPort != "" {
		logger.Info("Starting gRPC server on port " + grpcHostPort)
		go func() {
			iotGrpcServer := iotGrpc.IOTServer{
				Iot:              iotCore,
				RateLimiterStore: newLimiterStore(),
			}
			s := iotGrpcServer.NewServer()
			logger.Info("gRPC server created with:", zap.String("default_limiter", limiterDesc))

			listener, err := net.Listen("tcp", grpcHostPort)
			if err != nil {
				log.Fatalf("failed to listen: %v", err)
			}

			logger.Info("start gRPC server on " + grpcHostPort)
			if err := s.Serve(listener); err != nil {
				log.Fatalf("grpc server failed to serve: %v", err)
			}
		}()
	}

	if httpHostPort == "" {
		// fallback to default http port
		httpHostPort = ":1080"
	}

	rs := &iotHttp.RestfulServer{
		Server:           gin.Default(),
		Iot:              iotCore,
		RateLimiterStore: newLimiterStore(),
		Sessions:         sessions,
		Unifi:            unifi.NewClient(os.Getenv(common.EnvKeyIOTUnifiBaseURL)),
	}
	rs.Setup()

	logger.Info("http server created with:", zap.String("default_limiter", limiterDesc))

	logger.Info("Starting HTTP server on: " + httpHostPort)
	if err := rs.Server.Run(httpHostPort); err != nil {
		log.Fatalf("http server failed to serve: %v", err)
	}
}
