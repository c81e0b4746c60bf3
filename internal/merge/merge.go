// Package merge unions catalog documents into a single model list.
package merge

import (
	"github.com/catalog-tools/catqa/internal/catalog"
	"github.com/catalog-tools/catqa/internal/fileload"
)

// Result summarizes one merge.
type Result struct {
	Models       []catalog.Model
	InvalidFiles []string
}

// Merge concatenates the models of every parseable source in input order.
// Sources that failed to parse are listed in InvalidFiles and skipped;
// nothing is deduplicated, a union is exactly the sum of its parts.
func Merge(sources []fileload.Source) Result {
	var res Result
	for _, src := range sources {
		if src.Err != nil {
			res.InvalidFiles = append(res.InvalidFiles, src.Name)
			continue
		}
		res.Models = append(res.Models, src.Models...)
	}
	return res
}
