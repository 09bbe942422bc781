package mascot

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	_ "image/jpeg"
	_ "image/png"
)

// Texture is a decoded image plus its GPU-side copy. The decoded pixels stay
// resident so sprite hit testing can check per-pixel alpha.
type Texture struct {
	img    *ebiten.Image
	pix    *image.NRGBA
	w, h   int
	opaque bool
}

// Image returns the drawable image.
func (t *Texture) Image() *ebiten.Image { return t.img }

// W returns the texture width in pixels.
func (t *Texture) W() int { return t.w }

// H returns the texture height in pixels.
func (t *Texture) H() int { return t.h }

// TransparentAt reports whether the pixel at (x, y) is mostly see-through.
// Out-of-bounds points are transparent; a texture with no alpha channel
// never is.
func (t *Texture) TransparentAt(x, y int) bool {
	if t.opaque {
		return false
	}
	if x < 0 || x >= t.w || y < 0 || y >= t.h {
		return true
	}
	return t.pix.NRGBAAt(x, y).A < 127
}

// Lib is the shared asset cache: textures and font faces keyed by what they
// were loaded from. One Lib is created at startup and injected into every
// node constructor that needs it; nothing reaches it globally.
type Lib struct {
	prefs    Preferences
	textures map[string]*Texture
	faces    map[int]*text.GoTextFace
	fontSrc  *text.GoTextFaceSource
	fontErr  error
}

// NewLib creates an asset cache using the given preferences for font lookup.
func NewLib(prefs Preferences) *Lib {
	return &Lib{
		prefs:    prefs,
		textures: make(map[string]*Texture),
		faces:    make(map[int]*text.GoTextFace),
	}
}

// QueryTex returns the texture loaded from path, decoding it on first use.
func (l *Lib) QueryTex(path string) (*Texture, error) {
	if t, ok := l.textures[path]; ok {
		return t, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mascot: open texture: %w", err)
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("mascot: decode texture %q: %w", path, err)
	}
	bounds := src.Bounds()
	pix := image.NewNRGBA(bounds)
	draw.Draw(pix, bounds, src, bounds.Min, draw.Src)
	t := &Texture{
		img:    ebiten.NewImageFromImage(src),
		pix:    pix,
		w:      bounds.Dx(),
		h:      bounds.Dy(),
		opaque: isOpaque(src),
	}
	l.textures[path] = t
	return t, nil
}

// QueryFont returns a text face at the given point size, sharing one parsed
// font source across sizes. Returns an error if the preferences name no
// usable font file; chat rendering then falls back to the debug face.
func (l *Lib) QueryFont(ptsize int) (*text.GoTextFace, error) {
	if face, ok := l.faces[ptsize]; ok {
		return face, nil
	}
	if l.fontSrc == nil && l.fontErr == nil {
		l.fontSrc, l.fontErr = loadFontSource(l.prefs.FontPath)
	}
	if l.fontErr != nil {
		return nil, l.fontErr
	}
	face := &text.GoTextFace{Source: l.fontSrc, Size: float64(ptsize)}
	l.faces[ptsize] = face
	return face, nil
}

func loadFontSource(path string) (*text.GoTextFaceSource, error) {
	if path == "" {
		return nil, fmt.Errorf("mascot: no font configured")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mascot: read font: %w", err)
	}
	src, err := text.NewGoTextFaceSource(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("mascot: parse font %q: %w", path, err)
	}
	return src, nil
}

// isOpaque reports whether the image carries no alpha information.
func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}
