package export

import (
	"github.com/magabrotheeeer/contrato-facil/internal/models"
)

// WordContentType MIME-тип HTML-документа, который открывает Word.
const WordContentType = "application/vnd.ms-word"

const (
	wordHeader = "<html xmlns:o='urn:schemas-microsoft-com:office:office' xmlns:w='urn:schemas-microsoft-com:office:word' xmlns='http://www.w3.org/TR/REC-html40'><head><meta charset='utf-8'><title>Export HTML to Word</title></head><body>"
	wordFooter = "</body></html>"
)

// Word оборачивает разметку в минимальный конверт Office HTML. Растеризации нет.
func Word(doc models.RenderedDocument) []byte {
	out := make([]byte, 0, len(wordHeader)+len(doc)+len(wordFooter))
	out = append(out, wordHeader...)
	out = append(out, doc...)
	out = append(out, wordFooter...)
	return out
}

// WordFilename имя файла Word по названию шаблона.
func WordFilename(templateName string) string {
	return baseName(templateName) + ".doc"
}
