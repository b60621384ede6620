package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	iotGrpc "liyu1981.xyz/iot-dashboard-service/pkg/grpc"
	"liyu1981.xyz/iot-dashboard-service/pkg/testing/fixtures"
)

var maxDevices int = 2000
var httpHostPort string = "127.0.0.1:1080"
var grpcHostPort string = "127.0.0.1:10801"

var grpcClient *iotGrpc.TelemetryServiceClient

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
var rndMu sync.Mutex

func main() {
	deviceIDs := make([]string, maxDevices)
	for i := 0; i < maxDevices; i++ {
		deviceIDs[i] = "bench-" + uuid.NewString()
	}
	fmt.Printf("generated %v device IDs\n", maxDevices)

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	conn, err := grpc.Dial(grpcHostPort, grpc.WithInsecure())
	if err != nil {
		log.Fatal("Failed to connect to gRPC server:", err)
	}
	defer conn.Close()
	grpcClient = iotGrpc.NewTelemetryServiceClient(conn)

	fmt.Printf("gRPC server verified and connected\n")

	var startTime time.Time
	var usedTime time.Duration

	startTime = time.Now()
	wg := sync.WaitGroup{}
	for i := 0; i < maxDevices; i++ {
		i := i
		wg.Add(1)
		go func() {
			registerDevice(deviceIDs[i])
			fmt.Printf("\rregistered device %v", i)
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\rregistered %v devices: used time=%v seconds, throughput=%v action/second\n",
		maxDevices, usedTime.Seconds(), float64(maxDevices)/usedTime.Seconds(),
	)

	startTime = time.Now()
	wg = sync.WaitGroup{}
	for i := 0; i < maxDevices; i++ {
		i := i
		wg.Add(1)
		go func() {
			doAction(deviceIDs[i])
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\n\rdid actions for %v devices: used time=%v seconds, throughput=%v action/second\n",
		maxDevices, usedTime.Seconds(), float64(maxDevices*3)/usedTime.Seconds(),
	)
}

func flipCoin() bool {
	rndMu.Lock()
	defer rndMu.Unlock()
	return rnd.Int31n(100000)%2 == 0
}

func rndFloat64(min, max float64, decimal int) float64 {
	rndMu.Lock()
	val := min + rnd.Float64()*(max-min)
	rndMu.Unlock()
	multiplier := math.Pow10(decimal)
	return math.Round(val*multiplier) / multiplier
}

func postJSON(path string, payload any) (*http.Response, error) {
	jsonData, _ := json.Marshal(payload)
	return http.Post(fmt.Sprintf("http://%s%s", httpHostPort, path), "application/json", bytes.NewBuffer(jsonData))
}

func registerDevice(deviceID string) {
	resp, err := postJSON("/api/devices/register", map[string]any{
		"deviceId": deviceID,
		"hostname": "bench-host",
		"systemInfo": map[string]any{
			"os":           "Linux",
			"architecture": "x86_64",
		},
	})
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		panic(fmt.Sprintf("register %s: status %d", deviceID, resp.StatusCode))
	}
}

// telemetry is a fixture submission with randomized load, high enough at times to fire
// alerts.
func telemetry(deviceID string) map[string]any {
	m := fixtures.TelemetryMap(deviceID)
	fixtures.Section(m, "cpu_info")["cpu_usage_percent"] = rndFloat64(0, 100, 1)
	fixtures.Section(m, "memory_info")["percent"] = rndFloat64(0, 100, 1)
	fixtures.Section(m, "battery_info")["percent"] = rndFloat64(0, 100, 0)
	fixtures.Section(m, "battery_info")["plugged_in"] = flipCoin()
	return m
}

func doAction(deviceID string) {
	actions := []func(){
		genPostTelemetryAction(deviceID),
		genGetCommandsAction(deviceID),
		genGetAlertsAction(deviceID),
	}
	actionNames := []string{
		"PostTelemetry",
		"GetCommands",
		"GetAlerts",
	}
	rndMu.Lock()
	rnd.Shuffle(len(actions), func(i, j int) {
		actions[i], actions[j] = actions[j], actions[i]
		actionNames[i], actionNames[j] = actionNames[j], actionNames[i]
	})
	pause := 100 + rnd.Int31n(1000)
	rndMu.Unlock()
	for index, action := range actions {
		action()
		fmt.Printf("\rexecuted action %v for device %v", actionNames[index], deviceID)
		time.Sleep(time.Duration(pause) * time.Millisecond)
	}
}

func checkGrpc(resp *structpb.Struct, err error) {
	if err != nil {
		fmt.Printf("\nerror: %v\n", err)
		return
	}
	if !resp.GetFields()["success"].GetBoolValue() {
		fmt.Printf("\nresponse success = false: %v\n", resp)
	}
}

func genPostTelemetryAction(deviceID string) func() {
	return func() {
		payload := telemetry(deviceID)

		if flipCoin() {
			resp, err := postJSON("/api/devices/data", payload)
			if err != nil {
				fmt.Printf("\nerror: %v\n", err)
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				fmt.Printf("\nresponse status code != 200: %v\n", resp.StatusCode)
			}
		} else {
			req, err := structpb.NewStruct(payload)
			if err != nil {
				panic(err)
			}
			checkGrpc(grpcClient.IngestTelemetry(context.Background(), req))
		}
	}
}

func genGetCommandsAction(deviceID string) func() {
	return func() {
		if flipCoin() {
			resp, err := http.Get(fmt.Sprintf("http://%s/api/devices/%s/commands", httpHostPort, deviceID))
			if err != nil {
				fmt.Printf("\nerror: %v\n", err)
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				fmt.Printf("\nresponse status code != 200: %v\n", resp.StatusCode)
			}
		} else {
			req, _ := structpb.NewStruct(map[string]any{"deviceId": deviceID})
			checkGrpc(grpcClient.GetPendingCommands(context.Background(), req))
		}
	}
}

func genGetAlertsAction(deviceID string) func() {
	return func() {
		resp, err := http.Get(fmt.Sprintf("http://%s/api/devices/%s/alerts", httpHostPort, deviceID))
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			fmt.Printf("\nresponse status code != 200: %v\n", resp.StatusCode)
		}
	}
}
