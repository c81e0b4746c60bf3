package urlcheck

import "github.com/catalog-tools/catqa/internal/catalog"

// URL kinds, one per result sheet.
const (
	KindImage      = "image"
	KindAttachment = "attachment"
	KindProduct    = "product"
)

// Entry is one URL to probe together with the model it belongs to.
type Entry struct {
	Model string
	URL   string
	Kind  string
}

// Extract walks the models and collects every probe-worthy URL: image
// sources, attachment locations and product URIs, in model order.
func Extract(models []catalog.Model) []Entry {
	var entries []Entry
	for i := range models {
		m := &models[i]
		name := m.Name()
		for _, img := range m.Images {
			if img.Src != "" {
				entries = append(entries, Entry{Model: name, URL: img.Src, Kind: KindImage})
			}
		}
		for _, att := range m.Attachments {
			if att.Location != "" {
				entries = append(entries, Entry{Model: name, URL: att.Location, Kind: KindAttachment})
			}
		}
		if m.ProductURI != "" {
			entries = append(entries, Entry{Model: name, URL: m.ProductURI, Kind: KindProduct})
		}
	}
	return entries
}
