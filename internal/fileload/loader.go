// Package fileload reads catalog documents from plain JSON files and from
// ZIP and TAR archives. A malformed member never fails the whole load; it is
// returned as a Source with Err set so the caller can report and continue.
package fileload

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/catalog-tools/catqa/internal/catalog"
)

// Source is one loaded document: the models it carried, or the error that
// kept it from parsing.
type Source struct {
	Name   string
	Models []catalog.Model
	Err    error
}

// IsArchive reports whether the path names a supported archive format. A
// bare .gz is not an archive; .json.gz is handled as a compressed document.
func IsArchive(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".zip") ||
		strings.HasSuffix(lower, ".tar") ||
		strings.HasSuffix(lower, ".tar.gz")
}

// Load reads a JSON file, a gzipped JSON file, or an archive of JSON files.
// The returned slice has one Source per document found.
func Load(path string) ([]Source, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".json"):
		return []Source{loadJSONFile(path)}, nil
	case strings.HasSuffix(lower, ".json.gz"):
		return []Source{loadGzJSONFile(path)}, nil
	case strings.HasSuffix(lower, ".zip"):
		return loadZip(path)
	case IsArchive(path):
		return loadTar(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
}

// LoadAll loads every path, flattening archive members. An unreadable or
// unsupported path fails the whole call; malformed members do not.
func LoadAll(paths []string) ([]Source, error) {
	var all []Source
	for _, p := range paths {
		sources, err := Load(p)
		if err != nil {
			return nil, err
		}
		all = append(all, sources...)
	}
	return all, nil
}

func loadJSONFile(path string) Source {
	name := filepath.Base(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{Name: name, Err: fmt.Errorf("read %s: %w", name, err)}
	}
	return decodeSource(name, data)
}

func loadGzJSONFile(path string) Source {
	name := filepath.Base(path)
	f, err := os.Open(path)
	if err != nil {
		return Source{Name: name, Err: fmt.Errorf("read %s: %w", name, err)}
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return Source{Name: name, Err: fmt.Errorf("open gzip %s: %w", name, err)}
	}
	defer gz.Close()

	data, err := io.ReadAll(gz)
	if err != nil {
		return Source{Name: name, Err: fmt.Errorf("read %s: %w", name, err)}
	}
	return decodeSource(name, data)
}

func decodeSource(name string, data []byte) Source {
	models, err := catalog.Decode(data)
	if err != nil {
		return Source{Name: name, Err: fmt.Errorf("invalid JSON in file %s: %w", name, err)}
	}
	return Source{Name: name, Models: models}
}

// wantedMember filters archive entries to JSON files, skipping the resource
// forks macOS zips carry.
func wantedMember(name string) bool {
	return strings.HasSuffix(name, ".json") && !strings.Contains(name, "__MACOSX")
}

func loadZip(path string) ([]Source, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip %s: %w", filepath.Base(path), err)
	}
	defer r.Close()

	var sources []Source
	for _, f := range r.File {
		if !wantedMember(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			sources = append(sources, Source{Name: f.Name, Err: fmt.Errorf("open member %s: %w", f.Name, err)})
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			sources = append(sources, Source{Name: f.Name, Err: fmt.Errorf("read member %s: %w", f.Name, err)})
			continue
		}
		sources = append(sources, decodeSource(f.Name, data))
	}
	return sources, nil
}

func loadTar(path string) ([]Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip %s: %w", filepath.Base(path), err)
		}
		defer gz.Close()
		reader = gz
	}

	var sources []Source
	tr := tar.NewReader(reader)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return sources, fmt.Errorf("read tar %s: %w", filepath.Base(path), err)
		}
		if hdr.Typeflag != tar.TypeReg || !wantedMember(hdr.Name) {
			continue
		}
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, tr); err != nil {
			sources = append(sources, Source{Name: hdr.Name, Err: fmt.Errorf("read member %s: %w", hdr.Name, err)})
			continue
		}
		sources = append(sources, decodeSource(hdr.Name, buf.Bytes()))
	}
	return sources, nil
}
