package usecase

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"go-jobboard-backend/internal/domain"
)

const exportSheet = "Applications"

var exportHeaders = []string{"APPLICANT", "EMAIL", "JOB TITLE", "COMPANY", "LOCATION", "STATUS", "APPLIED AT", "UPDATED AT"}

// exportApplications renders recruiter application rows as an XLSX workbook.
func exportApplications(views []domain.RecruiterApplicationView) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, "", err
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	f.SetCellStyle(exportSheet, "A1", endCell, headerStyle)

	for rowIdx, v := range views {
		for colIdx, value := range exportRow(v) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(exportSheet, cell, value)
		}
	}

	for i := range exportHeaders {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(exportSheet, colName, colName, 24)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	filename := fmt.Sprintf("applications_%s.xlsx", time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

func exportRow(v domain.RecruiterApplicationView) []interface{} {
	var name, mail, title, company, location string
	if v.Applicant != nil {
		name, mail = v.Applicant.Name, v.Applicant.Email
	}
	if v.Job != nil {
		title, company, location = v.Job.Title, v.Job.Company, v.Job.Location
	}
	return []interface{}{
		name,
		mail,
		title,
		company,
		location,
		strings.ToUpper(v.Status),
		v.CreatedAt.Format(time.RFC3339),
		v.UpdatedAt.Format(time.RFC3339),
	}
}
