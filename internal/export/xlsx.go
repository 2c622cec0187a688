package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Yann31150/Rechercheannonces/internal/models"
)

const jobsSheet = "Offres"

// WriteWorkbook renders jobs as a single-sheet workbook with a frozen,
// filterable header row.
func WriteWorkbook(w io.Writer, jobs []models.Job) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", jobsSheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	linkStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "0563C1", Underline: "single"},
	})
	if err != nil {
		return err
	}

	widths := []float64{12, 45, 25, 25, 35, 14, 20, 60}
	for i, width := range widths {
		col := string(rune('A' + i))
		f.SetColWidth(jobsSheet, col, col, width)
	}

	for col, header := range columnHeader() {
		cell := fmt.Sprintf("%s1", string(rune('A'+col)))
		f.SetCellValue(jobsSheet, cell, header)
		f.SetCellStyle(jobsSheet, cell, cell, headerStyle)
	}

	for i, job := range jobs {
		row := i + 2
		f.SetCellValue(jobsSheet, fmt.Sprintf("A%d", row), job.Source)
		f.SetCellValue(jobsSheet, fmt.Sprintf("B%d", row), job.Title)
		f.SetCellValue(jobsSheet, fmt.Sprintf("C%d", row), job.Company)
		f.SetCellValue(jobsSheet, fmt.Sprintf("D%d", row), job.Location)
		f.SetCellValue(jobsSheet, fmt.Sprintf("F%d", row), job.Date)
		f.SetCellValue(jobsSheet, fmt.Sprintf("G%d", row), job.ScrapedAt)
		f.SetCellValue(jobsSheet, fmt.Sprintf("H%d", row), job.Description)

		urlCell := fmt.Sprintf("E%d", row)
		if job.URL != "" {
			f.SetCellValue(jobsSheet, urlCell, job.URL)
			f.SetCellHyperLink(jobsSheet, urlCell, job.URL, "External")
			f.SetCellStyle(jobsSheet, urlCell, urlCell, linkStyle)
		}
	}

	if len(jobs) > 0 {
		f.AutoFilter(jobsSheet, fmt.Sprintf("A1:H%d", len(jobs)+1), []excelize.AutoFilterOptions{})
	}
	f.SetPanes(jobsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	return f.Write(w)
}
