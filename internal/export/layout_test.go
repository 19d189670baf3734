package export

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngDataURL(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 0x10, G: 0x60, B: 0xc0, A: 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func lineText(l []run) string {
	s := ""
	for _, r := range l {
		s += r.text
	}
	return s
}

func TestParseLayout_Blocks(t *testing.T) {
	markup := `
      <h1 style="text-align: center; font-weight: bold; text-transform: uppercase;">Contrato de Arrendamento</h1>
      <p style="text-align: justify;">
        <strong>SENHORIO:</strong> Ana   Costa,
        residente em Luanda.
      </p>
      <h3 style="font-weight: bold;">Cláusula Primeira</h3>
      <p>a) primeira;<br>b) segunda</p>
      <hr />
      <script>alert("x")</script>`

	blocks := parseLayout(markup)
	require.Len(t, blocks, 5)

	h1 := blocks[0]
	assert.Equal(t, blockText, h1.kind)
	assert.Equal(t, alignCenter, h1.align)
	assert.True(t, h1.bold)
	assert.Equal(t, "CONTRATO DE ARRENDAMENTO", lineText(h1.lines[0]))

	p := blocks[1]
	assert.Equal(t, alignLeft, p.align)
	require.Len(t, p.lines, 1)
	require.GreaterOrEqual(t, len(p.lines[0]), 2)
	assert.True(t, p.lines[0][0].bold)
	assert.Equal(t, "SENHORIO:", p.lines[0][0].text)
	assert.False(t, p.lines[0][1].bold)
	assert.Equal(t, "SENHORIO: Ana Costa, residente em Luanda. ", lineText(p.lines[0]))

	assert.True(t, blocks[2].bold)
	assert.Greater(t, blocks[2].scale, 1.0)

	list := blocks[3]
	require.Len(t, list.lines, 2)
	assert.Equal(t, "a) primeira;", lineText(list.lines[0]))
	assert.Equal(t, "b) segunda", lineText(list.lines[1]))

	assert.Equal(t, blockRule, blocks[4].kind)
}

func TestParseLayout_LogoDataURL(t *testing.T) {
	markup := `<div style="text-align: center;"><img src="` + pngDataURL(t, 40, 20) + `" alt="Logo" /></div><p>Texto</p>`

	blocks := parseLayout(markup)
	require.Len(t, blocks, 2)
	assert.Equal(t, blockImage, blocks[0].kind)
	require.NotNil(t, blocks[0].img)
	assert.Equal(t, 40, blocks[0].img.Bounds().Dx())
}

func TestParseLayout_RemoteImagesIgnored(t *testing.T) {
	blocks := parseLayout(`<img src="https://example.ao/logo.png" /><p>x</p>`)
	require.Len(t, blocks, 1)
	assert.Equal(t, blockText, blocks[0].kind)
}

func TestParseLayout_Entities(t *testing.T) {
	blocks := parseLayout(`<p>Compra &amp; Venda</p>`)
	require.Len(t, blocks, 1)
	assert.Equal(t, "Compra & Venda", lineText(blocks[0].lines[0]))
}

func TestCollapseSpace(t *testing.T) {
	assert.Equal(t, " a b c ", collapseSpace("\n  a \t b\n\nc  "))
}
