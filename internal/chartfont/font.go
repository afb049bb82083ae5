// Package chartfont applies the one-time, process-wide chart font
// configuration. It runs once at startup and is read-only afterwards; chart
// rendering across all sessions shares the result.
package chartfont

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font/opentype"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
)

// Typeface is the name the custom face is registered under.
const Typeface = "ChartLabel"

var setupOnce sync.Once

// Setup installs the TTF at path as the default plot font. An empty path or
// a load failure degrades to the built-in typeface and reports the error;
// it is never fatal.
func Setup(path string) error {
	if path == "" {
		return nil
	}

	var err error
	setupOnce.Do(func() {
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			err = fmt.Errorf("read chart font: %w", err)
			return
		}

		var face *opentype.Font
		face, err = opentype.Parse(data)
		if err != nil {
			err = fmt.Errorf("parse chart font: %w", err)
			return
		}

		fnt := font.Font{Typeface: Typeface}
		font.DefaultCache.Add([]font.Face{{Font: fnt, Face: face}})
		plot.DefaultFont = fnt
	})
	return err
}
