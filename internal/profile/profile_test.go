package profile

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_HasEveryFieldEmpty(t *testing.T) {
	data, err := json.Marshal(Default())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	for _, key := range []string{"websiteType", "targetAudience", "mainGoal", "colorScheme", "theme", "fonts", "customScripts", "additionalNotes"} {
		assert.Equal(t, "", m[key], key)
	}
	for _, key := range []string{"pages", "sections", "features", "images", "updateRequests"} {
		assert.Equal(t, []any{}, m[key], key)
	}
	for _, key := range []string{"content", "designPreferences", "contactInfo", "socialLinks", "branding"} {
		assert.Equal(t, map[string]any{}, m[key], key)
	}
	assert.Len(t, m, 18)
}

func TestUnmarshal_MissingFieldsTolerated(t *testing.T) {
	var p Profile
	require.NoError(t, json.Unmarshal([]byte(`{"websiteType":"blog"}`), &p))

	want := Default()
	want.WebsiteType = "blog"
	assert.Equal(t, want, p)
}

func TestUnmarshal_KeepsUnknownAndMistypedFields(t *testing.T) {
	doc := `{"theme":"dark","pages":[{"name":"Home"}],"pricingTiers":["basic","pro"]}`
	var p Profile
	require.NoError(t, json.Unmarshal([]byte(doc), &p))

	assert.Equal(t, "dark", p.Theme)
	assert.Empty(t, p.Pages)
	assert.JSONEq(t, `[{"name":"Home"}]`, string(p.Extra["pages"]))
	assert.JSONEq(t, `["basic","pro"]`, string(p.Extra["pricingTiers"]))

	out, err := json.Marshal(p)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Equal(t, []any{map[string]any{"name": "Home"}}, m["pages"])
	assert.Equal(t, []any{"basic", "pro"}, m["pricingTiers"])
	assert.Equal(t, "dark", m["theme"])
}

func TestUnmarshal_RejectsNonObject(t *testing.T) {
	var p Profile
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &p))
	assert.Error(t, json.Unmarshal([]byte(`null`), &p))
}

func TestRoundTrip(t *testing.T) {
	p := Default()
	p.WebsiteType = "portfolio"
	p.Pages = []string{"Home", "Work", "Contact"}
	p.Sections = []any{"hero", map[string]any{"id": "gallery"}}
	p.ContactInfo = map[string]any{"email": "me@example.com"}
	p.Images = []ImageRecord{{
		Filename:     "1-a-logo.png",
		OriginalName: "logo.png",
		URL:          "/images/u1/1-a-logo.png",
		UploadedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Description:  "logo",
		AIAnalysis:   "A round logo.",
	}}
	p.Extra = map[string]json.RawMessage{"mood": json.RawMessage(`"calm"`)}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	var got Profile
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, p, got)
}

func TestHasImage(t *testing.T) {
	p := Default()
	p.AddImage(ImageRecord{Filename: "a.png"})
	assert.True(t, p.HasImage("a.png"))
	assert.False(t, p.HasImage("b.png"))
}

func TestMarshal_TypedImagesWinOverExtra(t *testing.T) {
	var p Profile
	require.NoError(t, json.Unmarshal([]byte(`{"images":["logo.png"]}`), &p))
	assert.Empty(t, p.Images)
	assert.JSONEq(t, `["logo.png"]`, string(p.Extra["images"]))

	p.Images = []ImageRecord{{Filename: "1-a-logo.png"}}
	out, err := json.Marshal(p)
	require.NoError(t, err)

	var back Profile
	require.NoError(t, json.Unmarshal(out, &back))
	require.Len(t, back.Images, 1)
	assert.Equal(t, "1-a-logo.png", back.Images[0].Filename)
	assert.NotContains(t, back.Extra, "images")
}
