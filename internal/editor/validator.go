// Package editor проверяет заполнение формы шаблона и подставляет значения в разметку договора.
package editor

import (
	"strings"

	"github.com/magabrotheeeer/contrato-facil/internal/models"
)

// ValidationMessage текст для пользователя, когда не заполнены обязательные поля.
const ValidationMessage = "Por favor, preencha todos os campos obrigatórios assinalados em vermelho."

// Validate возвращает ключи незаполненных обязательных полей в порядке полей шаблона.
// Пустой результат означает, что форма заполнена. Проверяются все поля за один проход.
func Validate(t models.Template, v models.FormValues) []string {
	var invalid []string
	for _, f := range t.Fields {
		if f.Optional() {
			continue
		}
		if strings.TrimSpace(v[f.Key]) == "" {
			invalid = append(invalid, f.Key)
		}
	}
	return invalid
}

// ValidationError форма заполнена не полностью.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// FirstInvalid ключ первого незаполненного поля, к которому нужно прокрутить форму.
func (e *ValidationError) FirstInvalid() string {
	if len(e.Fields) == 0 {
		return ""
	}
	return e.Fields[0]
}

// Check возвращает *ValidationError, если обязательные поля не заполнены.
func Check(t models.Template, v models.FormValues) error {
	if invalid := Validate(t, v); len(invalid) > 0 {
		return &ValidationError{Fields: invalid}
	}
	return nil
}
