package urlcheck

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// sheet names, fixed so downstream tooling can find them.
var kindSheets = []struct{ kind, sheet string }{
	{KindImage, "image_url_status"},
	{KindAttachment, "pdf_url_status"},
	{KindProduct, "product_url_status"},
}

// BuildWorkbook renders probe outcomes into a three-sheet workbook, one
// sheet per URL kind. entries and outcomes are positional pairs.
func BuildWorkbook(entries []Entry, outcomes []Outcome) (*excelize.File, error) {
	if len(entries) != len(outcomes) {
		return nil, fmt.Errorf("entries/outcomes length mismatch: %d != %d", len(entries), len(outcomes))
	}

	f := excelize.NewFile()
	for si, ks := range kindSheets {
		if si == 0 {
			// Rename the default sheet instead of leaving an empty Sheet1.
			if err := f.SetSheetName(f.GetSheetName(0), ks.sheet); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(ks.sheet); err != nil {
			return nil, err
		}

		for col, header := range []string{"Model_name", "URL", "Status"} {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(ks.sheet, cell, header); err != nil {
				return nil, err
			}
		}

		row := 2
		for i, e := range entries {
			if e.Kind != ks.kind {
				continue
			}
			values := []interface{}{e.Model, e.URL, outcomes[i].Status()}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(ks.sheet, cell, v); err != nil {
					return nil, err
				}
			}
			row++
		}
	}
	return f, nil
}

// FileResult is one input file's finished workbook.
type FileResult struct {
	Name     string // workbook file name inside the zip
	Workbook *excelize.File
	Broken   int
}

// WriteZip writes every workbook into a single zip archive at path.
func WriteZip(path string, results []FileResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("output dir: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, res := range results {
		w, err := zw.Create(res.Name)
		if err != nil {
			return fmt.Errorf("zip entry %s: %w", res.Name, err)
		}
		buf, err := res.Workbook.WriteToBuffer()
		if err != nil {
			return fmt.Errorf("render workbook %s: %w", res.Name, err)
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("write workbook %s: %w", res.Name, err)
		}
	}
	return zw.Close()
}
