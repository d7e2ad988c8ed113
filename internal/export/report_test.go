package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"hotelavail/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testReport() (models.Hotel, []models.RoomTypeAvailability) {
	hotel := models.Hotel{ID: "H1", Name: "Hotel California"}
	rows := []models.RoomTypeAvailability{
		{
			RoomType:     "SGL",
			Description:  "Single Room",
			Availability: models.Availability{TotalRooms: 2, BookedRooms: 1, AvailableRooms: 1},
		},
		{
			RoomType:     "DBL",
			Description:  "Double Room",
			Availability: models.Availability{TotalRooms: 3, BookedRooms: 4, AvailableRooms: -1},
		},
	}
	return hotel, rows
}

func TestWriteReport(t *testing.T) {
	hotel, rows := testReport()

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, hotel, "2024-09-01", "2024-09-05", rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetName}, f.GetSheetList())

	title, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Hotel California (H1): 2024-09-01 - 2024-09-05", title)

	all, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, headers, all[1])
	assert.Equal(t, []string{"SGL", "Single Room", "2", "1", "1"}, all[2])
	assert.Equal(t, []string{"DBL", "Double Room", "3", "4", "-1"}, all[3])

	okStyle, err := f.GetCellStyle(sheetName, "E3")
	require.NoError(t, err)
	overStyle, err := f.GetCellStyle(sheetName, "E4")
	require.NoError(t, err)
	assert.NotEqual(t, okStyle, overStyle)
}

func TestWriteReport_NoRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, models.Hotel{ID: "H2", Name: "Empty"}, "2024-09-01", "2024-09-01", nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	all, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestExporter_ExportReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	e := NewExporter(dir, nil)
	hotel, rows := testReport()
	hotel.ID = "H/1"

	path, err := e.ExportReport(context.Background(), hotel, "2024-09-01", "20240905", rows)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "availability_H_1_20240901_20240905.xlsx"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(sheetName, "A3")
	require.NoError(t, err)
	assert.Equal(t, "SGL", v)
}

func TestExporter_BadDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	e := NewExporter(filepath.Join(file, "sub"), nil)
	hotel, rows := testReport()
	_, err := e.ExportReport(context.Background(), hotel, "2024-09-01", "2024-09-05", rows)
	assert.ErrorContains(t, err, "error creating export directory")
}
