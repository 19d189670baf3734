package editor

import (
	"html"
	"strings"
	"time"

	"github.com/magabrotheeeer/contrato-facil/internal/lib/ptdate"
	"github.com/magabrotheeeer/contrato-facil/internal/models"
)

// CurrentDateKey ключ, который подставляется текущей датой, если пользователь его не задал.
const CurrentDateKey = "data_atual"

const (
	missingOpen = `<span style="background-color: #e2e8f0; padding: 0 4px; color: #64748b;">[`
	missingEnd  = `]</span>`
	logoOpen    = `<div style="text-align: center; margin-bottom: 20px;"><img src="`
	logoEnd     = `" style="max-height: 80px; max-width: 250px;" alt="Logo" /></div>`
)

// Renderer подставляет значения формы в разметку шаблона.
type Renderer struct {
	now func() time.Time
}

// NewRenderer создаёт Renderer. now задаёт часы для data_atual; nil означает time.Now.
func NewRenderer(now func() time.Time) *Renderer {
	if now == nil {
		now = time.Now
	}
	return &Renderer{now: now}
}

// Render заменяет каждое вхождение {{key}} объявленных полей значением без крайних пробелов
// или, если значение пустое, выделенной подписью поля. {{data_atual}} без значения
// заменяется текущей датой. Непустой logoURL добавляет блок с логотипом в начало документа.
func (r *Renderer) Render(t models.Template, v models.FormValues, logoURL string) models.RenderedDocument {
	content := t.RawMarkup

	for _, f := range t.Fields {
		if f.Key == CurrentDateKey {
			continue
		}
		token := "{{" + f.Key + "}}"
		if !strings.Contains(content, token) {
			continue
		}
		value := strings.TrimSpace(v[f.Key])
		if value == "" {
			value = MissingValue(f.Label)
		}
		content = strings.ReplaceAll(content, token, value)
	}

	if token := "{{" + CurrentDateKey + "}}"; strings.Contains(content, token) {
		value := strings.TrimSpace(v[CurrentDateKey])
		if value == "" {
			value = ptdate.Long(r.now())
		}
		content = strings.ReplaceAll(content, token, value)
	}

	if logoURL != "" {
		content = LogoBlock(logoURL) + content
	}
	return models.RenderedDocument(content)
}

// MissingValue возвращает выделенный фрагмент с подписью незаполненного поля.
func MissingValue(label string) string {
	return missingOpen + label + missingEnd
}

// LogoBlock возвращает центрированный блок с изображением логотипа. Адрес экранируется.
func LogoBlock(logoURL string) string {
	return logoOpen + html.EscapeString(logoURL) + logoEnd
}
