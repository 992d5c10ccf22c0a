// Package profile defines the structured description of a user's website that
// the assistant refines turn by turn.
//
// The document is written by a language model, so decoding is lenient: missing
// fields stay at their zero value, and any key that is unknown or whose value
// does not fit the typed field is kept verbatim in Extra and written back on
// the next save. A mistyped images value is dropped on save: image records
// are only ever written by ingestion.
package profile

import (
	"encoding/json"
	"fmt"
	"time"
)

// ImageRecord describes one stored image. The record is the only durable
// reference to the file under the user's images directory.
type ImageRecord struct {
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalname"`
	URL          string    `json:"url"`
	UploadedAt   time.Time `json:"uploadedAt"`
	Description  string    `json:"description"`
	AIAnalysis   string    `json:"aiAnalysis"`
}

// Profile is the per-user website description.
type Profile struct {
	WebsiteType       string         `json:"websiteType"`
	TargetAudience    string         `json:"targetAudience"`
	MainGoal          string         `json:"mainGoal"`
	ColorScheme       string         `json:"colorScheme"`
	Theme             string         `json:"theme"`
	Pages             []string       `json:"pages"`
	Sections          []any          `json:"sections"`
	Features          []any          `json:"features"`
	Content           map[string]any `json:"content"`
	DesignPreferences map[string]any `json:"designPreferences"`
	Images            []ImageRecord  `json:"images"`
	Fonts             string         `json:"fonts"`
	ContactInfo       map[string]any `json:"contactInfo"`
	SocialLinks       map[string]any `json:"socialLinks"`
	CustomScripts     string         `json:"customScripts"`
	Branding          map[string]any `json:"branding"`
	UpdateRequests    []any          `json:"updateRequests"`
	AdditionalNotes   string         `json:"additionalNotes"`

	// Extra holds every other top-level key exactly as it was stored.
	Extra map[string]json.RawMessage `json:"-"`
}

// Default returns the canonical empty profile used on first contact and reset.
func Default() Profile {
	return Profile{}.normalized()
}

// normalized replaces nil lists and maps with empty ones so the stored
// document always carries every known field.
func (p Profile) normalized() Profile {
	if p.Pages == nil {
		p.Pages = []string{}
	}
	if p.Sections == nil {
		p.Sections = []any{}
	}
	if p.Features == nil {
		p.Features = []any{}
	}
	if p.Content == nil {
		p.Content = map[string]any{}
	}
	if p.DesignPreferences == nil {
		p.DesignPreferences = map[string]any{}
	}
	if p.Images == nil {
		p.Images = []ImageRecord{}
	}
	if p.ContactInfo == nil {
		p.ContactInfo = map[string]any{}
	}
	if p.SocialLinks == nil {
		p.SocialLinks = map[string]any{}
	}
	if p.Branding == nil {
		p.Branding = map[string]any{}
	}
	if p.UpdateRequests == nil {
		p.UpdateRequests = []any{}
	}
	return p
}

// fields maps each known JSON key to a decoder for its typed destination.
func (p *Profile) fields() map[string]func(json.RawMessage) error {
	return map[string]func(json.RawMessage) error{
		"websiteType":       into(&p.WebsiteType),
		"targetAudience":    into(&p.TargetAudience),
		"mainGoal":          into(&p.MainGoal),
		"colorScheme":       into(&p.ColorScheme),
		"theme":             into(&p.Theme),
		"pages":             into(&p.Pages),
		"sections":          into(&p.Sections),
		"features":          into(&p.Features),
		"content":           into(&p.Content),
		"designPreferences": into(&p.DesignPreferences),
		"images":            into(&p.Images),
		"fonts":             into(&p.Fonts),
		"contactInfo":       into(&p.ContactInfo),
		"socialLinks":       into(&p.SocialLinks),
		"customScripts":     into(&p.CustomScripts),
		"branding":          into(&p.Branding),
		"updateRequests":    into(&p.UpdateRequests),
		"additionalNotes":   into(&p.AdditionalNotes),
	}
}

// into decodes into a fresh value so a failed decode leaves dst untouched.
func into[T any](dst *T) func(json.RawMessage) error {
	return func(raw json.RawMessage) error {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("profile: document is null")
	}
	out := Profile{}
	known := out.fields()
	for key, value := range raw {
		decode, ok := known[key]
		if !ok {
			out.setExtra(key, value)
			continue
		}
		if err := decode(value); err != nil {
			// Keep the model's value instead of dropping it.
			out.setExtra(key, value)
		}
	}
	*p = out.normalized()
	return nil
}

// ownedKeys are known fields whose typed value always wins over Extra.
var ownedKeys = map[string]bool{"images": true}

// MarshalJSON implements json.Marshaler. Extra keys override known ones,
// except for owned keys such as images.
func (p Profile) MarshalJSON() ([]byte, error) {
	type plain Profile
	base, err := json.Marshal(plain(p.normalized()))
	if err != nil {
		return nil, err
	}
	if len(p.Extra) == 0 {
		return base, nil
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range p.Extra {
		if ownedKeys[k] {
			continue
		}
		merged[k] = v
	}
	return json.Marshal(merged)
}

func (p *Profile) setExtra(key string, value json.RawMessage) {
	if p.Extra == nil {
		p.Extra = make(map[string]json.RawMessage)
	}
	p.Extra[key] = append(json.RawMessage(nil), value...)
}

// AddImage appends a record to the profile's image list.
func (p *Profile) AddImage(rec ImageRecord) {
	p.Images = append(p.Images, rec)
}

// HasImage reports whether a record references filename.
func (p Profile) HasImage(filename string) bool {
	for _, img := range p.Images {
		if img.Filename == filename {
			return true
		}
	}
	return false
}
