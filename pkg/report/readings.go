package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"liyu1981.xyz/iot-dashboard-service/pkg/models"
)

const SheetName = "Telemetry"

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var ReadingsHeader = []string{
	"Timestamp",
	"Received At",
	"CPU Usage (%)",
	"CPU Freq (MHz)",
	"CPU Cores",
	"Memory Total (MB)",
	"Memory Used (MB)",
	"Memory Available (MB)",
	"Memory (%)",
	"Battery (%)",
	"Plugged In",
	"Voltage (mV)",
	"Current Rate (mW)",
	"Full Charge (mWh)",
	"Design Capacity (mWh)",
	"Net Sent (B)",
	"Net Received (B)",
}

var columnWidths = []float64{22, 22, 14, 14, 10, 18, 18, 20, 12, 12, 12, 14, 18, 18, 20, 16, 18}

// FileName is the attachment name for a device export covering the given window.
func FileName(deviceID string, to time.Time) string {
	return fmt.Sprintf("telemetry-%s-%s.xlsx", deviceID, to.UTC().Format("20060102T150405Z"))
}

// Readings renders readings as a single sheet workbook, one row per reading in the
// order given. Missing optional metrics are left as empty cells.
func Readings(deviceID string, readings []models.TelemetryReading) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "Telemetry " + deviceID,
		Subject: deviceID,
	}); err != nil {
		return nil, fmt.Errorf("failed to set doc props: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &ReadingsHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(ReadingsHeader))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}
	for i, width := range columnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i := range readings {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := readingRow(&readings[i])
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func readingRow(r *models.TelemetryReading) []any {
	return []any{
		r.Timestamp.UTC().Format(time.RFC3339),
		r.ReceivedAt.UTC().Format(time.RFC3339),
		r.CPUUsage,
		cell(r.CPUFreqCurrent),
		cell(r.CPUCores),
		r.MemoryTotal,
		r.MemoryUsed,
		r.MemoryAvailable,
		r.MemoryPercent,
		cell(r.BatteryPercent),
		cell(r.BatteryPluggedIn),
		cell(r.PowerVoltage),
		cell(r.PowerCurrentRate),
		cell(r.PowerFullChargeCapacity),
		cell(r.PowerDesignCapacity),
		cell(r.NetworkBytesSent),
		cell(r.NetworkBytesReceived),
	}
}

func cell[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}
