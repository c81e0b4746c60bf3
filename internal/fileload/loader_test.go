package fileload

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validDoc = `{"general": {"model": "Ranger"}}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "catalog.json", validDoc)

	sources, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("got %d sources, want 1", len(sources))
	}
	src := sources[0]
	if src.Err != nil {
		t.Fatalf("source error: %v", src.Err)
	}
	if src.Name != "catalog.json" {
		t.Errorf("Name = %q", src.Name)
	}
	if len(src.Models) != 1 || src.Models[0].Name() != "Ranger" {
		t.Errorf("models not decoded: %+v", src.Models)
	}
}

func TestLoadMalformedJSONIsSourceError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.json", `{not json`)

	sources, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail outright: %v", err)
	}
	if len(sources) != 1 || sources[0].Err == nil {
		t.Errorf("malformed file should yield a Source with Err set")
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	if _, err := Load("catalog.xlsx"); err == nil {
		t.Error("unsupported extension should fail")
	}
	// A bare .gz that is neither .json.gz nor .tar.gz is rejected up front,
	// not fed to the tar reader.
	_, err := Load("catalog.gz")
	if err == nil {
		t.Fatal("bare .gz should fail")
	}
	if !strings.Contains(err.Error(), "unsupported file type") {
		t.Errorf("err = %v, want unsupported-file-type message", err)
	}
}

func TestLoadGzippedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json.gz")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(validDoc)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	sources, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sources) != 1 || sources[0].Err != nil {
		t.Fatalf("sources = %+v", sources)
	}
	if sources[0].Models[0].Name() != "Ranger" {
		t.Errorf("model = %q", sources[0].Models[0].Name())
	}
}

func TestLoadGzippedJSONNotGzip(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "fake.json.gz", "plain text, not gzip")

	sources, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail outright: %v", err)
	}
	if len(sources) != 1 || sources[0].Err == nil {
		t.Error("bad gzip should yield a Source with Err set")
	}
}

func TestLoadZip(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "bundle.zip")

	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	members := map[string]string{
		"a.json":            validDoc,
		"nested/b.json":     `[{"general": {"model": "A"}}, {"general": {"model": "B"}}]`,
		"broken.json":       `{{{`,
		"__MACOSX/._a.json": validDoc,
		"readme.txt":        "not json",
	}
	for name, content := range members {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	sources, err := Load(zipPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// a.json, nested/b.json and broken.json; the resource fork and the txt
	// are skipped.
	if len(sources) != 3 {
		t.Fatalf("got %d sources, want 3", len(sources))
	}

	models, errs := 0, 0
	for _, src := range sources {
		if src.Err != nil {
			errs++
			continue
		}
		models += len(src.Models)
	}
	if models != 3 {
		t.Errorf("got %d models, want 3", models)
	}
	if errs != 1 {
		t.Errorf("got %d member errors, want 1", errs)
	}
}

func TestLoadTarGz(t *testing.T) {
	dir := t.TempDir()
	tarPath := filepath.Join(dir, "bundle.tar.gz")

	f, err := os.Create(tarPath)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	body := []byte(validDoc)
	if err := tw.WriteHeader(&tar.Header{Name: "a.json", Mode: 0o644, Size: int64(len(body)), Typeflag: tar.TypeReg}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write(body); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	sources, err := Load(tarPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sources) != 1 || sources[0].Err != nil {
		t.Fatalf("sources = %+v", sources)
	}
	if sources[0].Models[0].Name() != "Ranger" {
		t.Errorf("model = %q", sources[0].Models[0].Name())
	}
}

func TestLoadAllFailsOnMissingFile(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", validDoc)

	if _, err := LoadAll([]string{good, filepath.Join(dir, "missing.zip")}); err == nil {
		t.Error("missing archive should fail the whole call")
	}
}

func TestIsArchive(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.zip", true},
		{"a.tar", true},
		{"a.tar.gz", true},
		{"A.ZIP", true},
		{"a.json", false},
		{"a.json.gz", false},
		{"a.gz", false},
		{"a.xlsx", false},
	}
	for _, tt := range tests {
		if got := IsArchive(tt.path); got != tt.want {
			t.Errorf("IsArchive(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
