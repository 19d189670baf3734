package export

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"  // декодер логотипов
	_ "image/jpeg" // декодер логотипов
	_ "image/png"  // декодер логотипов
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// align выравнивание строки блока.
type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

type blockKind int

const (
	blockText blockKind = iota
	blockRule
	blockImage
)

// run фрагмент текста с одним начертанием.
type run struct {
	text string
	bold bool
}

// block элемент вёрстки: абзац, заголовок, разделитель или изображение.
type block struct {
	kind  blockKind
	lines [][]run // явные переносы <br> делят блок на строки
	align align
	scale float64 // размер шрифта относительно основного
	bold  bool
	upper bool
	img   image.Image
}

var (
	layoutPolicyOnce sync.Once
	layoutPolicy     *bluemonday.Policy
)

// layoutSanitizer оставляет только элементы и стили, которые умеет рисовать растеризатор.
func layoutSanitizer() *bluemonday.Policy {
	layoutPolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("h1", "h2", "h3", "h4", "p", "div", "span", "strong", "b", "em", "i", "br", "hr")
		policy.AllowStyles("text-align", "font-weight", "text-transform").Globally()
		policy.AllowImages()
		policy.AllowDataURIImages()
		layoutPolicy = policy
	})
	return layoutPolicy
}

// parseLayout превращает разметку договора в последовательность блоков.
func parseLayout(markup string) []block {
	clean := layoutSanitizer().Sanitize(markup)
	z := html.NewTokenizer(strings.NewReader(clean))

	p := &layoutParser{}
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			p.flush()
			return p.blocks
		case html.TextToken:
			p.text(string(z.Text()))
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			p.start(tok, tt == html.SelfClosingTagToken)
		case html.EndTagToken:
			tok := z.Token()
			p.end(tok)
		}
	}
}

type layoutParser struct {
	blocks []block
	cur    *block
	line   []run
	bold   int
	// стек блочных стилей для вложенных div
	styles []blockStyle
}

type blockStyle struct {
	align align
	bold  bool
	upper bool
	scale float64
	tag   atom.Atom
}

func (p *layoutParser) currentStyle() blockStyle {
	if len(p.styles) == 0 {
		return blockStyle{scale: 1}
	}
	return p.styles[len(p.styles)-1]
}

func (p *layoutParser) start(tok html.Token, selfClosing bool) {
	switch tok.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.P, atom.Div:
		p.flush()
		st := p.currentStyle()
		st.tag = tok.DataAtom
		switch tok.DataAtom {
		case atom.H1:
			st.scale, st.bold, st.align = 1.6, true, alignCenter
		case atom.H2:
			st.scale, st.bold = 1.35, true
		case atom.H3, atom.H4:
			st.scale, st.bold = 1.1, true
		case atom.P:
			st.scale = 1
		}
		applyStyle(&st, attr(tok, "style"))
		if !selfClosing {
			p.styles = append(p.styles, st)
		}
	case atom.Strong, atom.B:
		if !selfClosing {
			p.bold++
		}
	case atom.Br:
		p.ensureBlock()
		p.cur.lines = append(p.cur.lines, p.line)
		p.line = nil
	case atom.Hr:
		p.flush()
		p.blocks = append(p.blocks, block{kind: blockRule})
	case atom.Img:
		if img := decodeDataURL(attr(tok, "src")); img != nil {
			p.flush()
			p.blocks = append(p.blocks, block{kind: blockImage, img: img, align: alignCenter})
		}
	}
}

func (p *layoutParser) end(tok html.Token) {
	switch tok.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.P, atom.Div:
		p.flush()
		for i := len(p.styles) - 1; i >= 0; i-- {
			if p.styles[i].tag == tok.DataAtom {
				p.styles = p.styles[:i]
				break
			}
		}
	case atom.Strong, atom.B:
		if p.bold > 0 {
			p.bold--
		}
	}
}

func (p *layoutParser) text(raw string) {
	text := collapseSpace(html.UnescapeString(raw))
	if strings.TrimSpace(text) == "" && (p.cur == nil || len(p.line) == 0) {
		return
	}
	p.ensureBlock()
	if len(p.line) == 0 {
		text = strings.TrimLeft(text, " ")
	}
	if p.cur.upper {
		text = strings.ToUpper(text)
	}
	p.line = append(p.line, run{text: text, bold: p.bold > 0 || p.cur.bold})
}

func (p *layoutParser) ensureBlock() {
	if p.cur != nil {
		return
	}
	st := p.currentStyle()
	p.cur = &block{kind: blockText, align: st.align, scale: st.scale, bold: st.bold, upper: st.upper}
	if p.cur.scale == 0 {
		p.cur.scale = 1
	}
}

func (p *layoutParser) flush() {
	if p.cur == nil {
		return
	}
	if len(p.line) > 0 {
		p.cur.lines = append(p.cur.lines, p.line)
	}
	p.line = nil
	if hasText(p.cur.lines) {
		p.blocks = append(p.blocks, *p.cur)
	}
	p.cur = nil
}

func hasText(lines [][]run) bool {
	for _, l := range lines {
		for _, r := range l {
			if strings.TrimSpace(r.text) != "" {
				return true
			}
		}
	}
	return false
}

func applyStyle(st *blockStyle, style string) {
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.ToLower(strings.TrimSpace(value))
		switch name {
		case "text-align":
			switch value {
			case "center":
				st.align = alignCenter
			case "right":
				st.align = alignRight
			default:
				st.align = alignLeft
			}
		case "font-weight":
			if n, err := strconv.Atoi(value); err == nil {
				st.bold = n >= 600
			} else {
				st.bold = value == "bold" || value == "bolder"
			}
		case "text-transform":
			st.upper = value == "uppercase"
		}
	}
}

func attr(tok html.Token, name string) string {
	for _, a := range tok.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func collapseSpace(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			if !space {
				b.WriteByte(' ')
			}
			space = true
		default:
			b.WriteRune(r)
			space = false
		}
	}
	return b.String()
}

// decodeDataURL декодирует изображение из data:image/...;base64. Внешние ссылки не загружаются.
func decodeDataURL(src string) image.Image {
	const prefix = "data:image/"
	if !strings.HasPrefix(src, prefix) {
		return nil
	}
	meta, payload, ok := strings.Cut(src, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil
	}
	return img
}
