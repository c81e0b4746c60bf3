package remove

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/catalog-tools/catqa/internal/catalog"
)

func writeWorkbook(t *testing.T, names []string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, name := range names {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			t.Fatal(err)
		}
	}

	path := filepath.Join(t.TempDir(), "models.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestLoadNames(t *testing.T) {
	path := writeWorkbook(t, []string{"Model Name", "Ranger XP 1000", "  Sportsman 570  ", ""})

	names, err := LoadNames(path)
	if err != nil {
		t.Fatalf("LoadNames: %v", err)
	}

	want := []string{"Model Name", "Ranger XP 1000", "Sportsman 570"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestLoadNamesBadFile(t *testing.T) {
	if _, err := LoadNames(filepath.Join(t.TempDir(), "missing.xlsx")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestFilter(t *testing.T) {
	doc := `[
		{"general": {"model": "Ranger XP 1000"}},
		{"general": {"model": " Sportsman 570 "}},
		{"general": {"model": "General 1000"}},
		{"general": {}}
	]`
	models, err := catalog.Decode([]byte(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	res := Filter(models, []string{"Ranger XP 1000", "Sportsman 570", "No Such Model"})

	if res.Removed != 2 {
		t.Errorf("Removed = %d, want 2", res.Removed)
	}
	if len(res.Kept) != 2 {
		t.Fatalf("got %d kept models, want 2", len(res.Kept))
	}
	if res.Kept[0].Name() != "General 1000" {
		t.Errorf("kept[0] = %q", res.Kept[0].Name())
	}
}

func TestFilterNoMatches(t *testing.T) {
	models, err := catalog.Decode([]byte(`{"general": {"model": "A"}}`))
	if err != nil {
		t.Fatal(err)
	}
	res := Filter(models, []string{"B"})
	if res.Removed != 0 || len(res.Kept) != 1 {
		t.Errorf("Removed = %d, Kept = %d", res.Removed, len(res.Kept))
	}
}
