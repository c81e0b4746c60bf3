package validate

import (
	"encoding/json"
	"fmt"

	"github.com/catalog-tools/catqa/internal/catalog"
)

// validateImages drops entries without a syntactically valid src URL.
func (v *Validator) validateImages(m *catalog.Model, res *Result) {
	if len(m.Images) == 0 {
		return
	}

	kept := m.Images[:0]
	for idx, img := range m.Images {
		if ValidURL(img.Src) {
			kept = append(kept, img)
			continue
		}
		res.addDetail("images", RuleMediaURL,
			fmt.Sprintf("Invalid image URL removed at index %d", idx))
	}
	m.Images = kept
}

// validateVideos handles the legacy key spelling (videoLocation,
// videoDescription, videoName) before applying the URL check.
func (v *Validator) validateVideos(m *catalog.Model, res *Result) {
	if len(m.Videos) == 0 {
		return
	}

	kept := m.Videos[:0]
	for idx, vid := range m.Videos {
		if vid.Src == "" {
			if raw, ok := vid.Extra["videoLocation"]; ok {
				var loc string
				if json.Unmarshal(raw, &loc) == nil {
					vid.Src = loc
					delete(vid.Extra, "videoLocation")
				}
			}
		}
		if raw, ok := vid.Extra["videoDescription"]; ok && vid.Desc == "" {
			var d string
			if json.Unmarshal(raw, &d) == nil {
				vid.Desc = d
				delete(vid.Extra, "videoDescription")
			}
		}
		if raw, ok := vid.Extra["videoName"]; ok && vid.LongDesc == "" {
			var n string
			if json.Unmarshal(raw, &n) == nil {
				vid.LongDesc = n
				delete(vid.Extra, "videoName")
			}
		}

		if ValidURL(vid.Src) {
			kept = append(kept, vid)
			continue
		}
		res.addDetail("videos", RuleMediaURL,
			fmt.Sprintf("Invalid video URL removed at index %d", idx))
	}
	m.Videos = kept
}

// validateAttachments accepts src as a legacy spelling of attachmentLocation
// and defaults missing descriptions to "pdf N".
func (v *Validator) validateAttachments(m *catalog.Model, res *Result) {
	if len(m.Attachments) == 0 {
		return
	}

	kept := m.Attachments[:0]
	pdfCounter := 1
	for idx, att := range m.Attachments {
		if att.Location == "" {
			if raw, ok := att.Extra["src"]; ok {
				var loc string
				if json.Unmarshal(raw, &loc) == nil {
					att.Location = loc
					delete(att.Extra, "src")
				}
			}
		}

		if !ValidURL(att.Location) {
			res.addDetail("attachments", RuleMediaURL,
				fmt.Sprintf("Invalid or empty attachment URL removed at index %d", idx))
			continue
		}

		if att.Description == "" {
			att.Description = fmt.Sprintf("pdf %d", pdfCounter)
		}
		kept = append(kept, att)
		pdfCounter++
	}
	m.Attachments = kept
}
