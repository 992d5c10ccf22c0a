// Package site holds the generated website triple.
package site

const (
	HTMLFile    = "index.html"
	CSSFile     = "styles.css"
	JSFile      = "script.js"
	NoJekyll    = ".nojekyll"
	NotFoundMsg = "// File not found"
)

// FileNames lists the artifact files in a stable order.
var FileNames = []string{HTMLFile, CSSFile, JSFile}

// Artifact is one generated website: markup, style and script.
type Artifact struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
	JS   string `json:"js"`
}

// Files maps file names to contents.
func (a Artifact) Files() map[string]string {
	return map[string]string{
		HTMLFile: a.HTML,
		CSSFile:  a.CSS,
		JSFile:   a.JS,
	}
}

// FromFiles builds an artifact from a name→content map.
func FromFiles(files map[string]string) Artifact {
	return Artifact{HTML: files[HTMLFile], CSS: files[CSSFile], JS: files[JSFile]}
}
