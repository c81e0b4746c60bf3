package merge

import (
	"errors"
	"testing"

	"github.com/catalog-tools/catqa/internal/catalog"
	"github.com/catalog-tools/catqa/internal/fileload"
)

func source(t *testing.T, name, doc string) fileload.Source {
	t.Helper()
	models, err := catalog.Decode([]byte(doc))
	if err != nil {
		t.Fatalf("decode %s: %v", name, err)
	}
	return fileload.Source{Name: name, Models: models}
}

func TestMergeConcatenatesInOrder(t *testing.T) {
	sources := []fileload.Source{
		source(t, "a.json", `[{"general": {"model": "A1"}}, {"general": {"model": "A2"}}]`),
		source(t, "b.json", `{"general": {"model": "B1"}}`),
	}

	res := Merge(sources)
	if len(res.InvalidFiles) != 0 {
		t.Errorf("InvalidFiles = %v", res.InvalidFiles)
	}

	want := []string{"A1", "A2", "B1"}
	if len(res.Models) != len(want) {
		t.Fatalf("got %d models, want %d", len(res.Models), len(want))
	}
	for i, name := range want {
		if got := res.Models[i].Name(); got != name {
			t.Errorf("model %d = %q, want %q", i, got, name)
		}
	}
}

func TestMergeSkipsInvalidSources(t *testing.T) {
	sources := []fileload.Source{
		source(t, "good.json", `{"general": {"model": "G"}}`),
		{Name: "bad.json", Err: errors.New("invalid JSON")},
	}

	res := Merge(sources)
	if len(res.Models) != 1 {
		t.Errorf("got %d models, want 1", len(res.Models))
	}
	if len(res.InvalidFiles) != 1 || res.InvalidFiles[0] != "bad.json" {
		t.Errorf("InvalidFiles = %v", res.InvalidFiles)
	}
}

func TestMergeKeepsDuplicates(t *testing.T) {
	sources := []fileload.Source{
		source(t, "a.json", `{"general": {"model": "Same"}}`),
		source(t, "b.json", `{"general": {"model": "Same"}}`),
	}

	res := Merge(sources)
	if len(res.Models) != 2 {
		t.Errorf("got %d models, want 2 (merge does not deduplicate)", len(res.Models))
	}
}

func TestMergeEmptyInput(t *testing.T) {
	res := Merge(nil)
	if len(res.Models) != 0 || len(res.InvalidFiles) != 0 {
		t.Errorf("empty input should yield an empty result: %+v", res)
	}
}
