package services

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kendall-kelly/cleanrush-laundry-api/models"
	"github.com/kendall-kelly/cleanrush-laundry-api/utils"
)

// OrdersSheet is the worksheet name of the admin export
const OrdersSheet = "Orders"

var reportHeaders = []interface{}{
	"Kode", "Nama", "Telepon", "Layanan", "Kg", "Setrika", "Noda", "Antar",
	"Bayar", "Total", "Status", "Dibuat", "Pickup",
}

func yesNo(b bool) string {
	if b {
		return "Ya"
	}
	return "-"
}

func reportRow(o models.Order, loc *time.Location) []interface{} {
	return []interface{}{
		o.Code, o.CustomerName, o.Phone, string(o.ServiceTier), o.WeightKg,
		yesNo(o.IroningRequested), yesNo(o.StainTreatmentRequested), yesNo(o.DeliveryRequested),
		string(o.PaymentMethod), o.TotalPrice, o.StageName(),
		utils.FormatDateTimeID(o.CreatedAt, loc), utils.FormatDateTimeID(o.ScheduledPickupAt, loc),
	}
}

// BuildOrdersWorkbook renders the admin order table as an XLSX workbook.
// The caller owns the returned file and must Close it.
func BuildOrdersWorkbook(orders []models.Order, loc *time.Location) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", OrdersSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(OrdersSheet, "A1", &reportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(reportHeaders))
	if err := f.SetCellStyle(OrdersSheet, "A1", lastCol+"1", style); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, o := range orders {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := reportRow(o, loc)
		if err := f.SetSheetRow(OrdersSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row for %s: %w", o.Code, err)
		}
	}

	f.SetColWidth(OrdersSheet, "A", "A", 18)
	f.SetColWidth(OrdersSheet, "B", "C", 22)
	f.SetColWidth(OrdersSheet, "L", "M", 20)

	return f, nil
}
