package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SpriteCut/internal/model"
)

// Workbook sheet names.
const (
	PlacementsSheet = "Placements"
	UnplacedSheet   = "Unplaced"
)

var placementHeaders = []string{"ID", "Source", "Path", "X", "Y", "Width", "Height", "Cut Corners", "Vertices"}

var unplacedHeaders = []string{"ID", "Source", "Path", "Source Width", "Source Height"}

// ExportWorkbook writes an XLSX workbook with one row per placed sprite on
// the Placements sheet and one row per unplaced sprite on the Unplaced sheet.
func ExportWorkbook(path string, result model.PackResult, paths []string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), PlacementsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(UnplacedSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	var placed, unplaced [][]interface{}
	for _, s := range result.Sprites {
		p := sourcePath(s, paths)
		if s.Fitted {
			placed = append(placed, []interface{}{
				s.ID, s.Source, p, s.X, s.Y, s.Width, s.Height, cornerNames(s.Mask), formatVertices(s.Vertices),
			})
		} else {
			unplaced = append(unplaced, []interface{}{s.ID, s.Source, p, s.SourceWidth, s.SourceHeight})
		}
	}

	if err := writeSheet(f, PlacementsSheet, placementHeaders, placed, bold); err != nil {
		return err
	}
	if err := writeSheet(f, UnplacedSheet, unplacedHeaders, unplaced, bold); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]interface{}, headerStyle int) error {
	for j, h := range headers {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return fmt.Errorf("failed to create cell reference: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to create cell reference: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
			}
		}
	}
	return nil
}

func sourcePath(s model.Sprite, paths []string) string {
	if s.Source >= 0 && s.Source < len(paths) {
		return paths[s.Source]
	}
	return ""
}

// cornerNames lists the cut corners, e.g. "TopLeft BottomRight".
func cornerNames(m model.ShapeMask) string {
	var names []string
	for _, c := range model.Corners {
		if m.Has(c) {
			names = append(names, c.String())
		}
	}
	return strings.Join(names, " ")
}

// formatVertices renders a polygon as "x,y x,y ...".
func formatVertices(p model.Polygon) string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = fmt.Sprintf("%d,%d", v.X, v.Y)
	}
	return strings.Join(parts, " ")
}
