// Package billing показывает тарифы и переводит пользователя на другой тариф
// с загрузкой квитанции об оплате.
package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/magabrotheeeer/contrato-facil/internal/metrics"
	"github.com/magabrotheeeer/contrato-facil/internal/models"
	"github.com/magabrotheeeer/contrato-facil/internal/storage/objectstore"
)

// UnavailableMessage ответ на выбор платного тарифа, пока оплата не подключена.
const UnavailableMessage = "Este plano estará disponível em breve. Estamos finalizando a integração bancária."

var (
	// ErrPlanUnavailable платные тарифы временно недоступны.
	ErrPlanUnavailable = errors.New("plan is not available yet")
	// ErrSamePlan пользователь уже на этом тарифе.
	ErrSamePlan = errors.New("already on this plan")
	// ErrProofTooLarge квитанция больше допустимого размера.
	ErrProofTooLarge = errors.New("payment proof is too large")
)

var pricePrinter = message.NewPrinter(language.MustParse("pt-AO"))

// Plans источник тарифов.
type Plans interface {
	Plans() []models.Plan
	Plan(id models.PlanType) (models.Plan, error)
}

// Profiles источник профилей.
type Profiles interface {
	Get(ctx context.Context, uid string) (*models.UserProfile, error)
	Invalidate(ctx context.Context, uid string)
}

// Repository смена тарифа в хранилище.
type Repository interface {
	UpdatePlan(ctx context.Context, uid string, plan models.PlanType, proofRef string) error
}

// ProofStore хранилище квитанций.
type ProofStore interface {
	UploadPaymentProof(ctx context.Context, p objectstore.Proof) (string, error)
}

// Options настройки тарифов.
type Options struct {
	PaidPlansEnabled bool
	MaxProofSize     int64
}

// PlanView тариф для отображения.
type PlanView struct {
	models.Plan
	FormattedPrice string `json:"formatted_price"`
	Available      bool   `json:"available"`
}

// Service сервис тарифов.
type Service struct {
	plans    Plans
	profiles Profiles
	repo     Repository
	proofs   ProofStore
	opts     Options
	log      *slog.Logger
}

// NewService создает Service.
func NewService(plans Plans, profiles Profiles, repo Repository, proofs ProofStore, opts Options, log *slog.Logger) *Service {
	return &Service{
		plans:    plans,
		profiles: profiles,
		repo:     repo,
		proofs:   proofs,
		opts:     opts,
		log:      log,
	}
}

// Plans возвращает каталог тарифов с ценой в кванзах.
func (s *Service) Plans() []PlanView {
	plans := s.plans.Plans()
	out := make([]PlanView, 0, len(plans))
	for _, p := range plans {
		out = append(out, PlanView{
			Plan:           p,
			FormattedPrice: FormatPrice(p.Price),
			Available:      !p.Paid() || s.opts.PaidPlansEnabled,
		})
	}
	return out
}

// Upgrade загружает квитанцию, если она передана, и переводит пользователя на тариф planID.
func (s *Service) Upgrade(ctx context.Context, uid string, planID models.PlanType, proof *objectstore.Proof) (*models.UserProfile, models.Plan, error) {
	const op = "billing.Upgrade"
	plan, err := s.plans.Plan(planID)
	if err != nil {
		return nil, models.Plan{}, fmt.Errorf("%s: %w", op, err)
	}
	if plan.Paid() && !s.opts.PaidPlansEnabled {
		metrics.PlanUpgrades.WithLabelValues(string(planID), metrics.ResultBlocked).Inc()
		return nil, plan, fmt.Errorf("%s: %w", op, ErrPlanUnavailable)
	}

	profile, err := s.profiles.Get(ctx, uid)
	if err != nil {
		return nil, plan, fmt.Errorf("%s: %w", op, err)
	}
	if profile.PlanType == planID {
		return nil, plan, fmt.Errorf("%s: %w", op, ErrSamePlan)
	}

	var ref string
	if proof != nil {
		if s.opts.MaxProofSize > 0 && proof.Size > s.opts.MaxProofSize {
			return nil, plan, fmt.Errorf("%s: %w", op, ErrProofTooLarge)
		}
		proof.UserID = uid
		ref, err = s.proofs.UploadPaymentProof(ctx, *proof)
		if err != nil {
			metrics.PlanUpgrades.WithLabelValues(string(planID), metrics.ResultError).Inc()
			return nil, plan, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := s.repo.UpdatePlan(ctx, uid, planID, ref); err != nil {
		metrics.PlanUpgrades.WithLabelValues(string(planID), metrics.ResultError).Inc()
		return nil, plan, fmt.Errorf("%s: %w", op, err)
	}
	s.profiles.Invalidate(ctx, uid)
	metrics.PlanUpgrades.WithLabelValues(string(planID), metrics.ResultOK).Inc()
	s.log.Info("plan upgraded", slog.String("uid", uid), slog.String("plan", string(planID)),
		slog.String("proof", ref))

	updated, err := s.profiles.Get(ctx, uid)
	if err != nil {
		return nil, plan, fmt.Errorf("%s: %w", op, err)
	}
	return updated, plan, nil
}

// FormatPrice форматирует цену с разделителями разрядов по правилам pt-AO.
func FormatPrice(price int) string {
	return pricePrinter.Sprintf("%d Kz", price)
}

// SuccessMessage сообщение об успешной смене тарифа.
func SuccessMessage(plan models.Plan) string {
	return fmt.Sprintf("Pagamento confirmado! Upgrade para %s realizado com sucesso.", plan.Name)
}
