package models

import "strings"

// FieldType тип поля формы шаблона.
type FieldType string

// Типы полей.
const (
	FieldText     FieldType = "text"
	FieldDate     FieldType = "date"
	FieldNumber   FieldType = "number"
	FieldCurrency FieldType = "currency"
	FieldTextarea FieldType = "textarea"
)

// optionalMarker подстрока ключа, делающая поле необязательным.
const optionalMarker = "opcional"

// FieldSpec описание поля формы.
type FieldSpec struct {
	Key         string    `json:"key" yaml:"key"`
	Label       string    `json:"label" yaml:"label"`
	Type        FieldType `json:"type" yaml:"type"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder"`
}

// Optional сообщает, что поле можно оставить пустым: ключ содержит "opcional" без учёта регистра.
func (f FieldSpec) Optional() bool {
	return strings.Contains(strings.ToLower(f.Key), optionalMarker)
}

// Template шаблон договора. RawMarkup содержит токены {{key}}.
type Template struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	RawMarkup   string      `json:"-" yaml:"markup"`
	Fields      []FieldSpec `json:"fields" yaml:"fields"`
}

// FormValues значения формы по ключу поля.
type FormValues map[string]string

// RenderedDocument готовая HTML-разметка договора.
type RenderedDocument string
