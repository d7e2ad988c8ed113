// Package export renders availability reports as Excel workbooks.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"hotelavail/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Availability"

var headers = []string{"Room type", "Description", "Total", "Booked", "Available"}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Exporter writes report workbooks into a directory.
type Exporter struct {
	dir    string
	logger *zerolog.Logger
}

func NewExporter(dir string, logger *zerolog.Logger) *Exporter {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &Exporter{dir: dir, logger: logger}
}

// ExportReport saves the report to <dir>/availability_<hotel>_<start>_<end>.xlsx
// and returns the file path.
func (e *Exporter) ExportReport(
	_ context.Context,
	hotel models.Hotel,
	startDate, endDate string,
	rows []models.RoomTypeAvailability,
) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	fileName := fmt.Sprintf("availability_%s_%s_%s.xlsx",
		unsafeFileChars.ReplaceAllString(hotel.ID, "_"),
		unsafeFileChars.ReplaceAllString(startDate, ""),
		unsafeFileChars.ReplaceAllString(endDate, ""))
	filePath := filepath.Join(e.dir, fileName)

	f, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("error creating file: %w", err)
	}
	if err := WriteReport(f, hotel, startDate, endDate, rows); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Str("hotel_id", hotel.ID).Msg("Excel file created")
	return filePath, nil
}

// WriteReport renders one sheet: a title row, a header row and one row per
// room type. Negative availability is highlighted.
func WriteReport(w io.Writer, hotel models.Hotel, startDate, endDate string, rows []models.RoomTypeAvailability) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s: %s - %s", hotel.DisplayName(), startDate, endDate))
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.MergeCell(sheetName, "A1", lastCol+"1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, h)
	}
	_ = f.SetCellStyle(sheetName, "A2", lastCol+"2", headerStyle)

	overbookedStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F8CBAD"}, Pattern: 1},
		Font: &excelize.Font{Bold: true, Color: "#9C0006"},
	})

	for i, r := range rows {
		row := i + 3
		values := []any{r.RoomType, r.Description, r.TotalRooms, r.BookedRooms, r.AvailableRooms}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
		if r.AvailableRooms < 0 {
			cell, _ := excelize.CoordinatesToCellName(len(values), row)
			_ = f.SetCellStyle(sheetName, cell, cell, overbookedStyle)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 15)
	_ = f.SetColWidth(sheetName, "B", "B", 30)
	_ = f.SetColWidth(sheetName, "C", lastCol, 12)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}
