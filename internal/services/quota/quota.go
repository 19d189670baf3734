// Package quota проверяет месячный лимит договоров тарифа пользователя.
package quota

import (
	"fmt"

	"github.com/magabrotheeeer/contrato-facil/internal/models"
)

// RedirectPath страница, на которую отправляется пользователь, исчерпавший лимит.
const RedirectPath = "/plans"

// State результат проверки квоты.
type State int

// Состояния квоты.
const (
	WithinLimit State = iota
	AtLimit
)

func (s State) String() string {
	if s == AtLimit {
		return "at_limit"
	}
	return "within_limit"
}

// PlanLookup источник тарифов.
type PlanLookup interface {
	Plan(id models.PlanType) (models.Plan, error)
}

// Gate сравнивает счётчик договоров профиля с лимитом его тарифа.
type Gate struct {
	plans PlanLookup
}

// NewGate создаёт Gate.
func NewGate(plans PlanLookup) *Gate {
	return &Gate{plans: plans}
}

// Check возвращает AtLimit, если contracts_created_this_month >= лимита тарифа.
// Неизвестный тариф профиля считается ошибкой.
func (g *Gate) Check(p *models.UserProfile) (State, models.Plan, error) {
	const op = "quota.Check"
	plan, err := g.plans.Plan(p.PlanType)
	if err != nil {
		return AtLimit, models.Plan{}, fmt.Errorf("%s: %w", op, err)
	}
	if p.ContractsCreatedThisMonth >= plan.Limit {
		return AtLimit, plan, nil
	}
	return WithinLimit, plan, nil
}

// LimitMessage сообщение для пользователя, исчерпавшего лимит тарифа.
func LimitMessage(plan models.Plan) string {
	return fmt.Sprintf("Você atingiu o limite de contratos do plano %s (%d). Faça upgrade para continuar.",
		plan.Name, plan.Limit)
}
