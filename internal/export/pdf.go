// Package export writes packing results: the composed atlas, the unplaced
// sprite log, a PDF layout report, an XLSX workbook and a DXF outline file.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/SpriteCut/internal/model"
)

// spriteColor represents an RGB color for a placed sprite.
type spriteColor struct {
	R, G, B int
}

var spriteColors = []spriteColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	qrSize       = 40.0
)

// ReportSummary is the data encoded into the summary page's QR code.
type ReportSummary struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Sprites    int     `json:"sprites"`
	Fitted     int     `json:"fitted"`
	Unplaced   int     `json:"unplaced"`
	Efficiency float64 `json:"efficiency"`
	Fill       float64 `json:"fill"`
	MinCutArea int     `json:"min_cut_area"`
}

// Summarize computes the report summary of a packing result.
func Summarize(result model.PackResult, settings model.PackSettings) ReportSummary {
	fill := 0.0
	if ta := result.TotalArea(); ta > 0 {
		fill = result.UsedArea() / ta * 100.0
	}
	return ReportSummary{
		Width:      result.Width,
		Height:     result.Height,
		Sprites:    len(result.Sprites),
		Fitted:     result.FittedCount(),
		Unplaced:   len(result.Unplaced),
		Efficiency: math.Round(result.Efficiency()*10) / 10,
		Fill:       math.Round(fill*10) / 10,
		MinCutArea: settings.MinCutArea,
	}
}

// ExportPDF generates a two-page PDF report: the surface layout with every
// placed polygon, followed by a summary page with statistics and a QR code.
// paths is indexed by Sprite.Source and only used for labels.
func ExportPDF(path string, result model.PackResult, paths []string, settings model.PackSettings) error {
	if len(result.Sprites) == 0 {
		return fmt.Errorf("no sprites to export")
	}
	if result.Width <= 0 || result.Height <= 0 {
		return fmt.Errorf("invalid surface size %dx%d", result.Width, result.Height)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderLayoutPage(pdf, result, paths)

	pdf.AddPage()
	if err := renderSummaryPage(pdf, result, paths, settings); err != nil {
		return err
	}

	return pdf.OutputFileAndClose(path)
}

// renderLayoutPage draws the surface and the placed sprites on the current page.
func renderLayoutPage(pdf *fpdf.Fpdf, result model.PackResult, paths []string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Atlas %d x %d px", result.Width, result.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Sprites: %d | Placed: %d | Box coverage: %.1f%% | Polygon area: %.0f sq px",
		len(result.Sprites), result.FittedCount(), result.Efficiency(), result.UsedArea())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	scale := math.Min(drawWidth/float64(result.Width), drawHeight/float64(result.Height))
	canvasW := float64(result.Width) * scale
	canvasH := float64(result.Height) * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Surface background
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for i, s := range result.Sprites {
		if !s.Fitted {
			continue
		}
		col := spriteColors[i%len(spriteColors)]

		// Padded bounding box
		pdf.SetDrawColor(160, 160, 160)
		pdf.SetLineWidth(0.1)
		pdf.Rect(offsetX+float64(s.X)*scale, offsetY+float64(s.Y)*scale,
			float64(s.Width)*scale, float64(s.Height)*scale, "D")

		// Polygon
		outline := s.Outline()
		pts := make([]fpdf.PointType, len(outline))
		for j, v := range outline {
			pts[j] = fpdf.PointType{X: offsetX + float64(v.X)*scale, Y: offsetY + float64(v.Y)*scale}
		}
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Polygon(pts, "FD")

		pw, ph := float64(s.Width)*scale, float64(s.Height)*scale
		if pw > 15 && ph > 8 {
			label := spriteName(s, paths)
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)
			if lw := pdf.GetStringWidth(label); lw < pw-2 {
				pdf.SetXY(offsetX+float64(s.X)*scale+(pw-lw)/2, offsetY+float64(s.Y)*scale+ph/2-2)
				pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, result, offsetX, offsetY, canvasW, canvasH)
	drawSpriteLegend(pdf, result, paths, offsetY+canvasH+6)
}

// drawDimensionAnnotations adds width and height labels outside the surface rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, result model.PackResult, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%d px", result.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%d px", result.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawSpriteLegend renders a compact legend of placed sprites below the surface.
func drawSpriteLegend(pdf *fpdf.Fpdf, result model.PackResult, paths []string, startY float64) {
	if result.FittedCount() == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Sprites placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, s := range result.Sprites {
		if !s.Fitted {
			continue
		}
		col := spriteColors[i%len(spriteColors)]
		label := fmt.Sprintf("%s (%dx%d)", spriteName(s, paths), s.SourceWidth, s.SourceHeight)
		if cuts := s.Mask.Count(); cuts > 0 {
			label += fmt.Sprintf(" %dC", cuts)
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}
		if startY > pageHeight-marginBottom {
			break
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.PackResult, paths []string, settings model.PackSettings) error {
	summary := Summarize(result, settings)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Packing Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Surface", fmt.Sprintf("%d x %d px", summary.Width, summary.Height)},
		{"Sprites", fmt.Sprintf("%d", summary.Sprites)},
		{"Placed", fmt.Sprintf("%d", summary.Fitted)},
		{"Unplaced", fmt.Sprintf("%d", summary.Unplaced)},
		{"Box Coverage", fmt.Sprintf("%.1f%%", summary.Efficiency)},
		{"Polygon Fill", fmt.Sprintf("%.1f%%", summary.Fill)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	// QR code with the summary as JSON
	qrData, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}
	pdf.RegisterImageOptionsReader("qr_summary", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr_summary", pageWidth-marginRight-qrSize, marginTop+18, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Pack Settings", "", 0, "L", false, 0, "")
	y += 9

	cuts := fmt.Sprintf("> %d sq px", settings.MinCutArea)
	if settings.DisableCuts {
		cuts = "disabled"
	}
	settingsItems := []struct {
		label string
		value string
	}{
		{"Corner Cuts", cuts},
		{"Padding", fmt.Sprintf("%d px", settings.Padding)},
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range settingsItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 5, item.value, "", 0, "L", false, 0, "")
		y += 5
	}

	if len(result.Unplaced) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unplaced Sprites", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)

		for _, idx := range result.Unplaced {
			if y > pageHeight-marginBottom-5 {
				pdf.SetXY(marginLeft+5, y)
				pdf.CellFormat(200, 5, "...", "", 0, "L", false, 0, "")
				break
			}
			s := result.Sprites[idx]
			pdf.SetXY(marginLeft+5, y)
			text := fmt.Sprintf("- %s: %d x %d px", spriteName(s, paths), s.SourceWidth, s.SourceHeight)
			pdf.CellFormat(200, 5, text, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by SpriteCut - Polygon Sprite Packer", "", 0, "C", false, 0, "")
	return nil
}

// spriteName returns the base name of the sprite's source path, or its ID.
func spriteName(s model.Sprite, paths []string) string {
	if s.Source >= 0 && s.Source < len(paths) {
		return filepath.Base(paths[s.Source])
	}
	return s.ID
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
