// Package document обслуживает редактор: выбор шаблона с проверкой квоты, проверку
// формы, предпросмотр и экспорт в PDF или Word.
package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/contrato-facil/internal/editor"
	"github.com/magabrotheeeer/contrato-facil/internal/export"
	"github.com/magabrotheeeer/contrato-facil/internal/metrics"
	"github.com/magabrotheeeer/contrato-facil/internal/models"
	"github.com/magabrotheeeer/contrato-facil/internal/services/quota"
)

// Format формат экспорта.
type Format string

// Форматы экспорта.
const (
	FormatPDF  Format = "pdf"
	FormatWord Format = "word"
)

var (
	// ErrWordRequiresPaidPlan экспорт в Word недоступен на бесплатном тарифе.
	ErrWordRequiresPaidPlan = errors.New("word export requires a paid plan")
	// ErrUnknownFormat неподдерживаемый формат экспорта.
	ErrUnknownFormat = errors.New("unknown export format")
)

// Templates источник шаблонов.
type Templates interface {
	Templates() []models.Template
	Template(id string) (models.Template, error)
}

// Profiles источник профилей.
type Profiles interface {
	Get(ctx context.Context, uid string) (*models.UserProfile, error)
}

// QuotaGate проверка квоты.
type QuotaGate interface {
	Check(p *models.UserProfile) (quota.State, models.Plan, error)
}

// Renderer подстановка значений формы.
type Renderer interface {
	Render(t models.Template, v models.FormValues, logoURL string) models.RenderedDocument
}

// PDFExporter экспорт в PDF.
type PDFExporter interface {
	PDF(ctx context.Context, doc models.RenderedDocument, quality int, w io.Writer) error
}

// Entry состояние редактора для пользователя.
type Entry struct {
	Profile   *models.UserProfile
	Plan      models.Plan
	State     quota.State
	Templates []models.Template
}

// File готовый к скачиванию документ.
type File struct {
	Filename    string
	ContentType string
}

// Service сервис редактора.
type Service struct {
	templates Templates
	profiles  Profiles
	gate      QuotaGate
	renderer  Renderer
	pdf       PDFExporter
	log       *slog.Logger
}

// NewService создает Service.
func NewService(templates Templates, profiles Profiles, gate QuotaGate, renderer Renderer,
	pdf PDFExporter, log *slog.Logger) *Service {
	return &Service{
		templates: templates,
		profiles:  profiles,
		gate:      gate,
		renderer:  renderer,
		pdf:       pdf,
		log:       log,
	}
}

// Enter возвращает шаблоны и состояние квоты пользователя. При AtLimit
// редактор не должен открываться.
func (s *Service) Enter(ctx context.Context, uid string) (*Entry, error) {
	const op = "document.Enter"
	profile, err := s.profiles.Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	state, plan, err := s.gate.Check(profile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if state == quota.AtLimit {
		metrics.QuotaRejections.WithLabelValues(string(plan.ID)).Inc()
	}
	return &Entry{
		Profile:   profile,
		Plan:      plan,
		State:     state,
		Templates: s.templates.Templates(),
	}, nil
}

// Validate возвращает ключи незаполненных обязательных полей.
func (s *Service) Validate(templateID string, values models.FormValues) ([]string, error) {
	const op = "document.Validate"
	tpl, err := s.templates.Template(templateID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return editor.Validate(tpl, values), nil
}

// Preview формирует документ. Незаполненные поля выделяются подписью.
func (s *Service) Preview(templateID string, values models.FormValues, logoURL string) (models.RenderedDocument, error) {
	const op = "document.Preview"
	tpl, err := s.templates.Template(templateID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return s.renderer.Render(tpl, values, logoURL), nil
}

// Export проверяет форму, формирует документ и пишет его в w в заданном формате.
// Word доступен только на платных тарифах.
func (s *Service) Export(ctx context.Context, uid, templateID string, values models.FormValues,
	logoURL string, format Format, w io.Writer) (*File, error) {
	const op = "document.Export"
	if format != FormatPDF && format != FormatWord {
		return nil, fmt.Errorf("%s: %w", op, ErrUnknownFormat)
	}
	tpl, err := s.templates.Template(templateID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := editor.Check(tpl, values); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if format == FormatWord {
		profile, err := s.profiles.Get(ctx, uid)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if profile.PlanType == models.PlanFree {
			metrics.Exports.WithLabelValues(string(format), metrics.ResultBlocked).Inc()
			return nil, fmt.Errorf("%s: %w", op, ErrWordRequiresPaidPlan)
		}
	}

	doc := s.renderer.Render(tpl, values, logoURL)
	file, err := s.write(ctx, tpl, doc, format, w)
	if err != nil {
		metrics.Exports.WithLabelValues(string(format), metrics.ResultError).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.Exports.WithLabelValues(string(format), metrics.ResultOK).Inc()
	return file, nil
}

func (s *Service) write(ctx context.Context, tpl models.Template, doc models.RenderedDocument,
	format Format, w io.Writer) (*File, error) {
	if format == FormatWord {
		if _, err := w.Write(export.Word(doc)); err != nil {
			return nil, err
		}
		return &File{Filename: export.WordFilename(tpl.Name), ContentType: export.WordContentType}, nil
	}

	start := time.Now()
	err := s.pdf.PDF(ctx, doc, export.QualityEditor, w)
	metrics.ExportDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	return &File{Filename: export.PDFFilename(tpl.Name), ContentType: export.PDFContentType}, nil
}
