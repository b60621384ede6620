package iot_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"liyu1981.xyz/iot-dashboard-service/pkg/db"
	"liyu1981.xyz/iot-dashboard-service/pkg/iot"
	"liyu1981.xyz/iot-dashboard-service/pkg/iot/mocks"
	"liyu1981.xyz/iot-dashboard-service/pkg/secret"
	"liyu1981.xyz/iot-dashboard-service/pkg/testing/fixtures"
	"liyu1981.xyz/iot-dashboard-service/pkg/validation"
)

// GetMockIOTWithMemorySqliteDialector returns an IOT on a fresh memory database. With
// useMockIAlert the alert service is replaced by the returned gomock mock.
func GetMockIOTWithMemorySqliteDialector(t *testing.T, useMockIAlert bool) (
	*gomock.Controller,
	*iot.IOT,
	*mocks.MockIAlert,
) {
	ctrl := gomock.NewController(t)

	dbInstance, err := db.Open(db.UseMemorySqliteDialector())
	require.NoError(t, err)
	t.Cleanup(func() { dbInstance.Close() })

	cipher, err := secret.NewCipher("test-passphrase")
	require.NoError(t, err)

	iotInstance := iot.New(dbInstance, cipher)

	mockIAlert := mocks.NewMockIAlert(ctrl)
	if useMockIAlert {
		iotInstance.WithServices(iot.ServiceOpts{Alert: mockIAlert})
	}

	return ctrl, iotInstance, mockIAlert
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}

func findLog(logs []any, match func(l map[string]any) bool) bool {
	for _, log := range logs {
		if lobj, ok := log.(map[string]any); ok && match(lobj) {
			return true
		}
	}
	return false
}

func mustTelemetry(t *testing.T, deviceID string, mutate func(m map[string]any)) *validation.Telemetry {
	t.Helper()
	tel, err := validation.ParseTelemetry(fixtures.TelemetryPayload(deviceID, mutate))
	require.NoError(t, err)
	return tel
}

func mustIngest(t *testing.T, iotObj *iot.IOT, deviceID string, mutate func(m map[string]any)) *iot.IngestResult {
	t.Helper()
	result, err := iotObj.Telemetry.Ingest(context.Background(), mustTelemetry(t, deviceID, mutate))
	require.NoError(t, err)
	return result
}
