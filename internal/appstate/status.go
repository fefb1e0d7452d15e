package appstate

import (
	"fmt"
	"image"
	"image/draw"
	"path"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/maskannotate/internal/theme"
)

const statusHeight = 24

var (
	statusFaceOnce sync.Once
	statusFace     font.Face = basicfont.Face7x13
)

func loadStatusFace() font.Face {
	statusFaceOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 13, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			return
		}
		statusFace = face
	})
	return statusFace
}

// Status returns the status line text: image, object type, brush, zoom and
// the image position under the pointer.
func (a *AppState) Status() string {
	if a.sess == nil {
		return a.message
	}
	s := a.sess
	parts := []string{
		path.Join(a.sel.Dir, a.sel.File),
		s.ObjectName(),
		fmt.Sprintf("brush %dpx", s.BrushWidth()),
		fmt.Sprintf("zoom %.2f", s.Zoom()),
	}
	if s.Painting() {
		c := s.Cursor()
		parts = append(parts, fmt.Sprintf("(%d, %d)", c.X, c.Y))
	}
	if !s.Confident() {
		parts = append(parts, "unconfident")
	}
	if s.Transparency() < 1 {
		parts = append(parts, fmt.Sprintf("alpha %.1f", s.Transparency()))
	}
	var hist []string
	if a.canUndo {
		hist = append(hist, "undo")
	}
	if a.canRedo {
		hist = append(hist, "redo")
	}
	if len(hist) > 0 {
		parts = append(parts, strings.Join(hist, "/"))
	}
	if a.message != "" {
		parts = append(parts, a.message)
	}
	return strings.Join(parts, "  |  ")
}

// drawStatus fills r with the status background and writes text into it.
func drawStatus(dst *image.RGBA, r image.Rectangle, th *theme.Theme, text string) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(dst, r, image.NewUniform(th.StatusBackground), image.Point{}, draw.Src)
	face := loadStatusFace()
	m := face.Metrics()
	baseline := r.Min.Y + (r.Dy()+m.Ascent.Ceil()-m.Descent.Ceil())/2
	d := &font.Drawer{
		Dst:  dst.SubImage(r).(*image.RGBA),
		Src:  image.NewUniform(th.StatusText),
		Face: face,
		Dot:  fixed.P(r.Min.X+6, baseline),
	}
	d.DrawString(text)
}
