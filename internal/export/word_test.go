package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWord_Envelope(t *testing.T) {
	got := string(Word("<p>Olá</p>"))
	want := "<html xmlns:o='urn:schemas-microsoft-com:office:office' xmlns:w='urn:schemas-microsoft-com:office:word' xmlns='http://www.w3.org/TR/REC-html40'><head><meta charset='utf-8'><title>Export HTML to Word</title></head><body><p>Olá</p></body></html>"
	assert.Equal(t, want, got)
}

func TestWordFilename(t *testing.T) {
	assert.Equal(t, "Contrato de Arrendamento Urbano.doc", WordFilename("Contrato de Arrendamento Urbano"))
	assert.Equal(t, "contrato.doc", WordFilename(""))
	assert.Equal(t, "application/vnd.ms-word", WordContentType)
}
