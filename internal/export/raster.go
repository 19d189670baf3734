package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Холст соответствует странице A4 (794x1123 px при 96 dpi) в масштабе 2.
const (
	CanvasScale  = 2
	CanvasWidth  = 794 * CanvasScale
	CanvasHeight = 1123 * CanvasScale

	marginX       = 48 * CanvasScale
	marginY       = 48 * CanvasScale
	baseFontSize  = 12 * CanvasScale
	lineHeight    = 1.6
	blockSpacing  = 10 * CanvasScale
	logoMaxWidth  = 250 * CanvasScale
	logoMaxHeight = 80 * CanvasScale
	logoSpacing   = 20 * CanvasScale
)

var (
	fontsOnce    sync.Once
	regularFont  *opentype.Font
	boldFont     *opentype.Font
	errFontsLoad error
)

func loadFonts() error {
	fontsOnce.Do(func() {
		regularFont, errFontsLoad = opentype.Parse(goregular.TTF)
		if errFontsLoad != nil {
			return
		}
		boldFont, errFontsLoad = opentype.Parse(gobold.TTF)
	})
	return errFontsLoad
}

// rasterizer рисует блоки на холсте. Один экземпляр на вызов: font.Face не потокобезопасен.
type rasterizer struct {
	img   *image.RGBA
	faces map[faceKey]font.Face
	y     int
}

type faceKey struct {
	bold bool
	size float64
}

// rasterize рисует документ на одной странице. Всё, что ниже края холста, обрезается.
func rasterize(blocks []block) (*image.RGBA, error) {
	const op = "export.rasterize"
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r := &rasterizer{
		img:   image.NewRGBA(image.Rect(0, 0, CanvasWidth, CanvasHeight)),
		faces: make(map[faceKey]font.Face),
		y:     marginY,
	}
	defer r.close()
	draw.Draw(r.img, r.img.Bounds(), image.White, image.Point{}, draw.Src)

	for _, b := range blocks {
		if r.y >= CanvasHeight {
			break
		}
		var err error
		switch b.kind {
		case blockRule:
			r.drawRule()
		case blockImage:
			r.drawImage(b.img)
		default:
			err = r.drawText(b)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return r.img, nil
}

func (r *rasterizer) close() {
	for _, f := range r.faces {
		_ = f.Close()
	}
}

func (r *rasterizer) face(bold bool, scale float64) (font.Face, error) {
	key := faceKey{bold: bold, size: baseFontSize * scale}
	if f, ok := r.faces[key]; ok {
		return f, nil
	}
	src := regularFont
	if bold {
		src = boldFont
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    key.size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	r.faces[key] = f
	return f, nil
}

// word слово с начертанием; space означает пробел перед словом.
type word struct {
	text       string
	bold       bool
	space      bool
	width      int
	spaceWidth int
}

func (w word) advance() int {
	if w.space {
		return w.width + w.spaceWidth
	}
	return w.width
}

func (r *rasterizer) drawText(b block) error {
	maxWidth := CanvasWidth - 2*marginX
	step := int(float64(baseFontSize) * b.scale * lineHeight)

	for _, line := range b.lines {
		words, err := r.split(line, b.scale)
		if err != nil {
			return err
		}
		if len(words) == 0 {
			r.y += step
			continue
		}
		for len(words) > 0 {
			n, width := fit(words, maxWidth)
			if err := r.drawLine(words[:n], width, b, step); err != nil {
				return err
			}
			words = words[n:]
			if len(words) > 0 {
				words[0].space = false
			}
			r.y += step
			if r.y >= CanvasHeight {
				return nil
			}
		}
	}
	r.y += blockSpacing
	return nil
}

func (r *rasterizer) split(line []run, scale float64) ([]word, error) {
	var words []word
	pendingSpace := false
	for _, rn := range line {
		face, err := r.face(rn.bold, scale)
		if err != nil {
			return nil, err
		}
		text := rn.text
		if strings.HasPrefix(text, " ") {
			pendingSpace = true
		}
		fields := strings.Fields(text)
		for i, f := range fields {
			w := word{text: f, bold: rn.bold, space: (i > 0 || pendingSpace) && len(words) > 0}
			w.width = font.MeasureString(face, f).Ceil()
			w.spaceWidth = font.MeasureString(face, " ").Ceil()
			words = append(words, w)
		}
		pendingSpace = strings.HasSuffix(text, " ")
	}
	return words, nil
}

// fit возвращает, сколько слов помещается в строку, и ширину этой строки.
// Первое слово берётся всегда, даже если оно шире строки.
func fit(words []word, maxWidth int) (int, int) {
	width := 0
	for i, w := range words {
		if i > 0 && width+w.advance() > maxWidth {
			return i, width
		}
		width += w.advance()
	}
	return len(words), width
}

func (r *rasterizer) drawLine(words []word, width int, b block, step int) error {
	x := marginX
	switch b.align {
	case alignCenter:
		x = (CanvasWidth - width) / 2
	case alignRight:
		x = CanvasWidth - marginX - width
	}
	baseline := r.y + step*3/4

	for _, w := range words {
		face, err := r.face(w.bold, b.scale)
		if err != nil {
			return err
		}
		text := w.text
		if w.space {
			text = " " + text
		}
		d := &font.Drawer{
			Dst:  r.img,
			Src:  image.NewUniform(color.Black),
			Face: face,
			Dot:  fixed.P(x, baseline),
		}
		d.DrawString(text)
		x += w.advance()
	}
	return nil
}

func (r *rasterizer) drawRule() {
	y := r.y + blockSpacing
	rule := image.Rect(marginX, y, CanvasWidth-marginX, y+CanvasScale)
	draw.Draw(r.img, rule, image.NewUniform(color.Gray{Y: 0x40}), image.Point{}, draw.Src)
	r.y = y + CanvasScale + blockSpacing
}

func (r *rasterizer) drawImage(src image.Image) {
	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return
	}
	w, h := sb.Dx(), sb.Dy()
	if w > logoMaxWidth {
		h = h * logoMaxWidth / w
		w = logoMaxWidth
	}
	if h > logoMaxHeight {
		w = w * logoMaxHeight / h
		h = logoMaxHeight
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	x := (CanvasWidth - w) / 2
	dst := image.Rect(x, r.y, x+w, r.y+h)
	xdraw.CatmullRom.Scale(r.img, dst, src, sb, xdraw.Over, nil)
	r.y += h + logoSpacing
}
