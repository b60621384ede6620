package grpc

import (
	"google.golang.org/grpc"
	"golang.org/x/time/rate"

	"liyu1981.xyz/iot-dashboard-service/pkg/iot"
	"liyu1981.xyz/iot-dashboard-service/pkg/metrics"
)

// RateLimitedMethods are the agent calls keyed by deviceId.
var RateLimitedMethods = []string{
	MethodIngestTelemetry,
	MethodGetPendingCommands,
}

type IOTServer struct {
	Iot              *iot.IOT
	RateLimiterStore *iot.RateLimiterStore
}

func (i *IOTServer) GetLimiter(deviceID string) *rate.Limiter {
	if i.RateLimiterStore == nil {
		return nil
	} else {
		return i.RateLimiterStore.GetLimiter(deviceID)
	}
}

func (i *IOTServer) CheckDeviceLimiter(deviceID string) bool {
	limiter := i.GetLimiter(deviceID)
	if limiter == nil {
		return true
	}
	if !limiter.Allow() {
		metrics.RateLimited.WithLabelValues(metrics.TransportGRPC).Inc()
		return false
	}
	return true
}

// NewServer returns a grpc.Server with the telemetry service registered behind the
// per-device rate limit interceptor.
func (i *IOTServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.UnaryInterceptor(i.CreateRateLimitInterceptor(RateLimitedMethods)))
	server := grpc.NewServer(opts...)
	RegisterTelemetryServiceServer(server, i)
	return server
}
