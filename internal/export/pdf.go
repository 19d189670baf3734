// Package export превращает готовую разметку договора в PDF или документ Word.
package export

import (
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"io"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/magabrotheeeer/contrato-facil/internal/models"
)

// PDFContentType MIME-тип PDF.
const PDFContentType = "application/pdf"

// Качество JPEG для экспорта из редактора и для скачивания сохранённого договора.
const (
	QualityEditor    = 100
	QualityDashboard = 95
)

// ErrEmptyDocument нечего экспортировать.
var ErrEmptyDocument = errors.New("empty document")

// PDFExporter растеризует документ на одну страницу A4 и встраивает изображение в PDF.
// Промежуточный JPEG пишется во временный каталог и удаляется при любом исходе.
type PDFExporter struct {
	tempDir string
}

// NewPDFExporter создаёт экспортёр. Пустой tempDir означает os.TempDir().
func NewPDFExporter(tempDir string) *PDFExporter {
	return &PDFExporter{tempDir: tempDir}
}

// PDF пишет PDF документа doc в w.
func (e *PDFExporter) PDF(ctx context.Context, doc models.RenderedDocument, quality int, w io.Writer) error {
	const op = "export.PDF"
	if strings.TrimSpace(string(doc)) == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptyDocument)
	}
	if quality < 1 || quality > 100 {
		quality = QualityEditor
	}

	img, err := rasterize(parseLayout(string(doc)))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tmp, err := os.CreateTemp(e.tempDir, "contract-*.jpg")
	if err != nil {
		return fmt.Errorf("%s: create temp image: %w", op, err)
	}
	defer os.Remove(tmp.Name())

	if err := jpeg.Encode(tmp, img, &jpeg.Options{Quality: quality}); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: encode image: %w", op, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(true)
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()
	pdf.ImageOptions(tmp.Name(), 0, 0, pageW, pageH, false, fpdf.ImageOptions{ImageType: "JPG"}, 0, "")
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// PDFFilename имя файла при экспорте из редактора.
func PDFFilename(templateName string) string {
	return baseName(templateName) + ".pdf"
}

// ContractPDFFilename имя файла сохранённого договора: пробелы заменяются подчёркиванием.
func ContractPDFFilename(title string) string {
	return strings.Join(strings.Fields(baseName(title)), "_") + ".pdf"
}

func baseName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "contrato"
	}
	return strings.NewReplacer("/", "-", "\\", "-").Replace(name)
}
