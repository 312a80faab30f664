package services

import (
	"fmt"
	"time"

	"sally/internal/common"
	"sally/internal/models"

	"github.com/xuri/excelize/v2"
)

const driverSheet = "Drivers"

var driverExportHeader = []string{
	"Driver ID", "Name", "License Number", "License State", "Phone", "Email",
	"Status", "Source", "Active", "Last Synced", "Created",
}

var driverExportWidths = []float64{38, 28, 18, 12, 18, 30, 14, 14, 10, 20, 20}

func buildDriverWorkbook(drivers []*models.Driver) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", driverSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range driverExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(driverSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(driverSheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(driverSheet, name, name, driverExportWidths[col]); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, d := range drivers {
		row := []interface{}{
			d.DriverID,
			d.Name,
			common.SafeString(d.LicenseNumber),
			common.SafeString(d.LicenseState),
			common.SafeString(d.Phone),
			common.SafeString(d.Email),
			string(d.Status),
			common.SafeString(d.ExternalSource),
			d.IsActive,
			formatExportTime(d.LastSyncedAt),
			d.CreatedAt.UTC().Format(time.RFC3339),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(driverSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatExportTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
