// Package fonts provides the font that charts are measured and drawn with.
//
// Text boxes computed by the measure package use the Go Regular metrics, so
// exported documents embed the same face to keep labels where the layout
// put them.
package fonts

import (
	"encoding/base64"
	"fmt"
	"sync"

	"golang.org/x/image/font/gofont/goregular"
)

// FontFamily is the CSS font-family name under which the face is embedded.
const FontFamily = "Go"

// FallbackFontFamily is the font-family list written on chart roots.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

// RegularTTF returns the Go Regular TrueType data.
func RegularTTF() []byte {
	return goregular.TTF
}

var (
	ttfBase64     string
	ttfBase64Once sync.Once
)

// RegularTTFBase64 returns the TTF data as base64. The encoding is
// computed once.
func RegularTTFBase64() string {
	ttfBase64Once.Do(func() {
		ttfBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return ttfBase64
}

// FontFaceCSS returns an @font-face rule embedding the font as a data URL.
func FontFaceCSS() string {
	return fmt.Sprintf("@font-face{font-family:'%s';src:url(data:font/ttf;base64,%s) format('truetype');}",
		FontFamily, RegularTTFBase64())
}
