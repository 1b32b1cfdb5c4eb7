package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"travelbook/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

var headers = []string{"Booking ID", "Type", "Details", "Booking Date", "Amount", "Status", "Rebooked From", "Rebooked To"}

// WriteBookingsReport creates an Excel report of the given bookings in
// dir and returns the file path.
func WriteBookingsReport(bookings []*models.Booking, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)

	for i, b := range bookings {
		row := i + 2
		values := []interface{}{
			b.ID,
			b.Kind,
			itemSummary(b),
			b.BookingDate.Format("2006-01-02"),
			b.TotalAmount,
			b.Status,
			b.RebookedFrom,
			b.RebookedTo,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, value)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 36)
	_ = f.SetColWidth(sheetName, "B", "H", 18)
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02"))
	filePath := filepath.Join(dir, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}
	return filePath, nil
}

func itemSummary(b *models.Booking) string {
	switch b.Kind {
	case models.KindFlight:
		return fmt.Sprintf("%s %s → %s", b.Item.FlightNumber, b.Item.Origin, b.Item.Destination)
	case models.KindHotel:
		return fmt.Sprintf("%s, %s", b.Item.Name, b.Item.Location)
	case models.KindCar:
		return fmt.Sprintf("%s %s, %s", b.Item.Brand, b.Item.Model, b.Item.PickupLocation)
	default:
		return b.Item.Name
	}
}
