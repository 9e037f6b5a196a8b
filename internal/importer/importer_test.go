package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("Path,Note\nhero.png,main\nbg.png,back\n")
	got := DetectCSVDelimiter(data)
	if got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("Path;Note\nhero.png;main\nbg.png;back\n")
	got := DetectCSVDelimiter(data)
	if got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("Path\tNote\nhero.png\tmain\nbg.png\tback\n")
	got := DetectCSVDelimiter(data)
	if got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_SingleColumn(t *testing.T) {
	data := []byte("hero.png\nbg.png\n")
	got := DetectCSVDelimiter(data)
	if got != ',' {
		t.Errorf("expected comma fallback, got %q", got)
	}
}

// ─── DetectPathColumn Tests ────────────────────────────────

func TestDetectPathColumn(t *testing.T) {
	tests := []struct {
		row      []string
		col      int
		isHeader bool
	}{
		{[]string{"Path"}, 0, true},
		{[]string{"Name", "FILE"}, 1, true},
		{[]string{"id", " Image ", "note"}, 1, true},
		{[]string{"hero.png", "x"}, 0, false},
	}
	for _, tt := range tests {
		col, ok := DetectPathColumn(tt.row)
		if col != tt.col || ok != tt.isHeader {
			t.Errorf("DetectPathColumn(%v) = %d, %v; want %d, %v", tt.row, col, ok, tt.col, tt.isHeader)
		}
	}
}

// ─── Text Import Tests ─────────────────────────────────────

func TestImportTextFromReader_Whitespace(t *testing.T) {
	result := ImportTextFromReader(strings.NewReader("a.png b.PNG\n\n  c.png\td.jpg\n"))

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	want := []string{"a.png", "b.PNG", "c.png"}
	if len(result.Paths) != len(want) {
		t.Fatalf("expected %d paths, got %v", len(want), result.Paths)
	}
	for i, p := range want {
		if result.Paths[i] != p {
			t.Errorf("path %d: expected %q, got %q", i, p, result.Paths[i])
		}
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "d.jpg") {
		t.Errorf("expected one warning about d.jpg, got %v", result.Warnings)
	}
}

func TestImportTextFromReader_Empty(t *testing.T) {
	result := ImportTextFromReader(strings.NewReader("  \n"))
	if len(result.Errors) == 0 {
		t.Error("expected error for empty list")
	}
}

func TestImportText_FileNotFound(t *testing.T) {
	result := ImportText("/nonexistent/list.txt")
	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeader(t *testing.T) {
	data := "Note,Path\nmain,sprites/hero.png\nback,sprites/bg.png\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Paths) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(result.Paths))
	}
	if result.Paths[0] != "sprites/hero.png" {
		t.Errorf("expected 'sprites/hero.png', got '%s'", result.Paths[0])
	}
}

func TestImportCSVFromReader_WithoutHeader(t *testing.T) {
	data := "hero.png,main\nbg.png,back\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Paths) != 2 {
		t.Fatalf("expected 2 paths, got %d (errors: %v)", len(result.Paths), result.Errors)
	}
	if result.Paths[1] != "bg.png" {
		t.Errorf("expected 'bg.png', got '%s'", result.Paths[1])
	}
}

func TestImportCSVFromReader_FiltersExtensions(t *testing.T) {
	data := "file\nhero.png\nreadme.txt\n\nicon.Png\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Paths) != 2 {
		t.Fatalf("expected 2 paths, got %v", result.Paths)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "Line 3") && strings.Contains(w, "readme.txt") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a Line 3 warning for readme.txt, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_OnlyHeader(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("path\n"), ',')
	if len(result.Errors) == 0 {
		t.Error("expected error for a list without paths")
	}
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sprites.csv")
	content := "Path;Note\nhero.png;main\nbg.png;back\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path)

	if len(result.Paths) != 2 {
		t.Errorf("expected 2 paths, got %d (errors: %v)", len(result.Paths), result.Errors)
	}

	hasSemicolonWarning := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			hasSemicolonWarning = true
		}
	}
	if !hasSemicolonWarning {
		t.Error("expected warning about semicolon delimiter detection")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path)

	if len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sprites.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeader(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"ID", "Sprite"},
		{1, "hero.png"},
		{2, "bg.png"},
		{3, "notes.doc"},
	})

	result := ImportExcel(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Paths) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(result.Paths))
	}
	if result.Paths[0] != "hero.png" {
		t.Errorf("expected 'hero.png', got '%s'", result.Paths[0])
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel("/nonexistent/file.xlsx")

	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

// ─── ImportList Tests ──────────────────────────────────────

func TestImportList_Dispatch(t *testing.T) {
	dir := t.TempDir()

	txt := filepath.Join(dir, "list.txt")
	if err := os.WriteFile(txt, []byte("a.png b.png"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if got := ImportList(txt); len(got.Paths) != 2 {
		t.Errorf("text list: expected 2 paths, got %v (errors: %v)", got.Paths, got.Errors)
	}

	csvPath := filepath.Join(dir, "list.CSV")
	if err := os.WriteFile(csvPath, []byte("path,n\na.png,1\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if got := ImportList(csvPath); len(got.Paths) != 1 {
		t.Errorf("csv list: expected 1 path, got %v (errors: %v)", got.Paths, got.Errors)
	}

	xlsx := createTestExcel(t, [][]interface{}{{"a.png"}, {"b.png"}, {"c.png"}})
	if got := ImportList(xlsx); len(got.Paths) != 3 {
		t.Errorf("excel list: expected 3 paths, got %v (errors: %v)", got.Paths, got.Errors)
	}
}
