// Package remove filters models out of a catalog using a removal list kept
// in an Excel workbook: first sheet, first column, one model name per row.
package remove

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/catalog-tools/catqa/internal/catalog"
)

// Result summarizes one removal pass.
type Result struct {
	Kept    []catalog.Model
	Removed int
}

// LoadNames reads the removal list from the first column of the first sheet.
// The header row is included; a header that matches no model is harmless.
func LoadNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("no sheets found in excel file")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var names []string
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// Filter drops every model whose general.model matches a name on the list
// (after trimming). Order of the kept models is preserved.
func Filter(models []catalog.Model, names []string) Result {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}

	res := Result{Kept: make([]catalog.Model, 0, len(models))}
	for _, m := range models {
		name := ""
		if m.General.Model != nil {
			name = strings.TrimSpace(*m.General.Model)
		}
		if drop[name] {
			res.Removed++
			continue
		}
		res.Kept = append(res.Kept, m)
	}
	return res
}
