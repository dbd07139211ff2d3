package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/agromarket/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(report model.ContractsReport) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, report); err != nil {
		return nil, err
	}

	detailSheet := "Contracts"
	file.NewSheet(detailSheet)
	if err := g.writeContracts(file, detailSheet, report); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, report model.ContractsReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	byStatus := make(map[model.ContractStatus]int)
	for _, row := range report.Rows {
		byStatus[row.Contract.Status]++
	}

	set("A1", "User")
	set("B1", report.Owner.FullName)
	set("A2", "Role")
	set("B2", string(report.Owner.Role))
	set("A3", "Generated at")
	set("B3", formatDateTime(report.GeneratedAt))
	set("A4", "Total contracts")
	set("B4", len(report.Rows))

	tableRow := 6
	set(fmt.Sprintf("A%d", tableRow), "Status")
	set(fmt.Sprintf("B%d", tableRow), "Count")

	statuses := []model.ContractStatus{
		model.ContractStatusPending,
		model.ContractStatusAccepted,
		model.ContractStatusRejected,
		model.ContractStatusCompleted,
	}
	for i, status := range statuses {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), string(status))
		set(fmt.Sprintf("B%d", row), byStatus[status])
	}

	_ = file.SetColWidth(sheet, "A", "A", 24)
	_ = file.SetColWidth(sheet, "B", "B", 28)
	return nil
}

func (g *Generator) writeContracts(file *excelize.File, sheet string, report model.ContractsReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{"ID", "Product", "Counterparty", "Quantity", "Price", "Status", "Delivery date", "Created at"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		set(cell, header)
	}

	for i, row := range report.Rows {
		values := []interface{}{
			row.Contract.ID,
			row.ProductName,
			row.Counterparty,
			row.Contract.Quantity,
			row.Contract.Price,
			string(row.Contract.Status),
			formatDate(row.Contract.DeliveryDate),
			formatDateTime(row.Contract.CreatedAt),
		}
		for j, value := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			set(cell, value)
		}
	}

	_ = file.SetColWidth(sheet, "A", "A", 8)
	_ = file.SetColWidth(sheet, "B", "C", 28)
	_ = file.SetColWidth(sheet, "D", "F", 14)
	_ = file.SetColWidth(sheet, "G", "H", 20)
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02.01.2006")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02.01.2006 15:04")
}
