package itinerary

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	scheduleSheet        = "Schedule"
	recommendationsSheet = "Recommendations"
)

var (
	scheduleHeader       = []string{"Day", "Altitude (m)", "Rest"}
	recommendationHeader = []string{"Section", "Item", "Dose", "Schedule"}
)

// XLSX renders the itinerary as a workbook with a Schedule sheet and a
// Recommendations sheet.
func XLSX(it Itinerary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", scheduleSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(recommendationsSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := writeRow(f, scheduleSheet, 1, toAny(scheduleHeader), headerStyle); err != nil {
		return nil, err
	}
	for i, e := range it.Schedule {
		rest := ""
		if e.IsRestDay {
			rest = "REST"
		}
		if err := writeRow(f, scheduleSheet, i+2, []any{e.Day, e.Altitude, rest}, 0); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(scheduleSheet, "A", "C", 14); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	if err := writeRow(f, recommendationsSheet, 1, toAny(recommendationHeader), headerStyle); err != nil {
		return nil, err
	}
	row := 2
	for _, b := range it.Blocks {
		for _, l := range b.Lines {
			if err := writeRow(f, recommendationsSheet, row, []any{b.Title, l, "", ""}, 0); err != nil {
				return nil, err
			}
			row++
		}
		for _, m := range b.Medications {
			if err := writeRow(f, recommendationsSheet, row, []any{b.Title, m.Name, m.Dose, m.Schedule}, 0); err != nil {
				return nil, err
			}
			row++
		}
	}
	if err := f.SetColWidth(recommendationsSheet, "A", "A", 36); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(recommendationsSheet, "B", "B", 70); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any, style int) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("convert coordinates: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	if style == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return fmt.Errorf("convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(sheet, cell, end, style); err != nil {
		return fmt.Errorf("set header style: %w", err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
