package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"liyu1981.xyz/iot-dashboard-service/pkg/common"
	"liyu1981.xyz/iot-dashboard-service/pkg/db"
	"liyu1981.xyz/iot-dashboard-service/pkg/iot"
)

func runOnce(ctx context.Context, iotCore *iot.IOT, staleMinutes, retentionDays int, logger *zap.Logger) {
	if staleMinutes > 0 {
		n, err := iotCore.Device.SweepStale(ctx, staleMinutes)
		if err != nil {
			logger.Error("Staleness sweep failed", zap.Error(err))
		} else {
			logger.Info("Staleness sweep done", zap.Int("threshold_minutes", staleMinutes), zap.Int64("devices_offline", n))
		}
	}

	if retentionDays > 0 {
		n, err := iotCore.Telemetry.DeleteOlderThan(ctx, retentionDays)
		if err != nil {
			logger.Error("Retention cleanup failed", zap.Error(err))
		} else {
			logger.Info("Retention cleanup done", zap.Int("retention_days", retentionDays), zap.Int64("readings_deleted", n))
		}
	}
}

func main() {
	// .env is optional here so the job can run from cron with a plain environment
	_ = godotenv.Load()

	staleMinutes := flag.Int("stale-minutes", common.GetEnvInt(common.EnvKeyIOTStaleMinutes, common.DefaultStaleMinutes),
		"mark active devices offline after this many minutes without data, 0 disables")
	retentionDays := flag.Int("retention-days", common.GetEnvInt(common.EnvKeyIOTRetentionDays, common.DefaultRetentionDays),
		"delete telemetry readings older than this many days, 0 disables")
	interval := flag.Duration("interval", 0, "repeat every interval until interrupted, 0 runs once")
	flag.Parse()

	dbInstance, err := db.Open(db.UseSqliteDialector())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer dbInstance.Close()

	logger := common.GetLoggerWith(common.LoggerNameMaintenance)
	defer common.SyncLogger()
	iotCore := iot.New(dbInstance, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runOnce(ctx, iotCore, *staleMinutes, *retentionDays, logger)
	if *interval <= 0 {
		return
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Maintenance stopped")
			return
		case <-ticker.C:
			runOnce(ctx, iotCore, *staleMinutes, *retentionDays, logger)
		}
	}
}
