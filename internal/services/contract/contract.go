// Package contract сохраняет договоры пользователя с учётом месячной квоты тарифа.
package contract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/contrato-facil/internal/editor"
	"github.com/magabrotheeeer/contrato-facil/internal/export"
	"github.com/magabrotheeeer/contrato-facil/internal/lib/ptdate"
	"github.com/magabrotheeeer/contrato-facil/internal/metrics"
	"github.com/magabrotheeeer/contrato-facil/internal/models"
	"github.com/magabrotheeeer/contrato-facil/internal/services/quota"
	"github.com/magabrotheeeer/contrato-facil/internal/storage"
)

// LimitError сохранение отклонено: лимит тарифа исчерпан.
type LimitError struct {
	Plan models.Plan
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("plan %s limit of %d contracts reached", e.Plan.ID, e.Plan.Limit)
}

// Unwrap позволяет сравнивать ошибку с storage.ErrQuotaExceeded.
func (e *LimitError) Unwrap() error {
	return storage.ErrQuotaExceeded
}

// Repository хранилище договоров.
type Repository interface {
	InsertContract(ctx context.Context, c models.Contract, limit int) (*models.Contract, error)
	ListContracts(ctx context.Context, userID string) ([]*models.Contract, error)
	GetContract(ctx context.Context, id, userID string) (*models.Contract, error)
	DeleteContract(ctx context.Context, id, userID string) error
}

// Templates источник шаблонов.
type Templates interface {
	Template(id string) (models.Template, error)
}

// Profiles источник профилей.
type Profiles interface {
	Get(ctx context.Context, uid string) (*models.UserProfile, error)
	Invalidate(ctx context.Context, uid string)
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

// Service сервис договоров.
type Service struct {
	repo      Repository
	templates Templates
	profiles  Profiles
	gate      QuotaGate
	renderer  Renderer
	pdf       PDFExporter
	now       func() time.Time
	log       *slog.Logger
}

// NewService создает Service. now задаёт часы для заголовка договора; nil означает time.Now.
func NewService(repo Repository, templates Templates, profiles Profiles, gate QuotaGate,
	renderer Renderer, pdf PDFExporter, now func() time.Time, log *slog.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:      repo,
		templates: templates,
		profiles:  profiles,
		gate:      gate,
		renderer:  renderer,
		pdf:       pdf,
		now:       now,
		log:       log,
	}
}

// Save проверяет форму и квоту, формирует документ и сохраняет договор со статусом finalized.
// Счётчик договоров профиля увеличивается в той же транзакции.
func (s *Service) Save(ctx context.Context, uid, templateID string, values models.FormValues, logoURL string) (*models.Contract, error) {
	const op = "contract.Save"
	tpl, err := s.templates.Template(templateID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := editor.Check(tpl, values); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

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
		return nil, fmt.Errorf("%s: %w", op, &LimitError{Plan: plan})
	}

	c := models.Contract{
		UserID:    uid,
		Title:     Title(tpl.Name, s.now()),
		Type:      tpl.ID,
		Content:   s.renderer.Render(tpl, values, logoURL),
		Status:    models.ContractFinalized,
		Variables: snapshot(values),
		LogoURL:   logoURL,
	}
	saved, err := s.repo.InsertContract(ctx, c, plan.Limit)
	if errors.Is(err, storage.ErrQuotaExceeded) {
		metrics.QuotaRejections.WithLabelValues(string(plan.ID)).Inc()
		return nil, fmt.Errorf("%s: %w", op, &LimitError{Plan: plan})
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.profiles.Invalidate(ctx, uid)

	metrics.ContractsSaved.WithLabelValues(tpl.ID).Inc()
	s.log.Info("contract saved", slog.String("uid", uid), slog.String("contract_id", saved.ID),
		slog.String("template", tpl.ID))
	return saved, nil
}

// List возвращает договоры пользователя, новые первыми.
func (s *Service) List(ctx context.Context, uid string) ([]*models.Contract, error) {
	const op = "contract.List"
	res, err := s.repo.ListContracts(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if res == nil {
		res = []*models.Contract{}
	}
	return res, nil
}

// Delete удаляет договор пользователя. Счётчик договоров не меняется.
func (s *Service) Delete(ctx context.Context, uid, id string) error {
	const op = "contract.Delete"
	if err := s.repo.DeleteContract(ctx, id, uid); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("contract deleted", slog.String("uid", uid), slog.String("contract_id", id))
	return nil
}

// PDF пишет сохранённый договор в w и возвращает имя файла для скачивания.
func (s *Service) PDF(ctx context.Context, uid, id string, w io.Writer) (string, error) {
	const op = "contract.PDF"
	c, err := s.repo.GetContract(ctx, id, uid)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	start := time.Now()
	err = s.pdf.PDF(ctx, c.Content, export.QualityDashboard, w)
	metrics.ExportDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.Exports.WithLabelValues("pdf", metrics.ResultError).Inc()
		return "", fmt.Errorf("%s: %w", op, err)
	}
	metrics.Exports.WithLabelValues("pdf", metrics.ResultOK).Inc()
	return export.ContractPDFFilename(c.Title), nil
}

// Title заголовок договора: имя шаблона и дата сохранения.
func Title(templateName string, at time.Time) string {
	return templateName + " - " + ptdate.Short(at)
}

func snapshot(values models.FormValues) models.FormValues {
	out := make(models.FormValues, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}
