// Package models содержит доменные структуры сервиса: пользователей и их профили,
// тарифы, шаблоны договоров, сохранённые договоры и статьи блога.
package models

// PlanType тариф пользователя.
type PlanType string

// Тарифы.
const (
	PlanFree    PlanType = "free"
	PlanPremium PlanType = "premium"
	PlanGold    PlanType = "gold"
)

// Valid сообщает, известен ли тариф.
func (p PlanType) Valid() bool {
	switch p {
	case PlanFree, PlanPremium, PlanGold:
		return true
	}
	return false
}

// SubscriptionStatus состояние подписки профиля.
type SubscriptionStatus string

// Состояния подписки.
const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionInactive SubscriptionStatus = "inactive"
)

// User учётные данные, которыми владеет сервис аутентификации.
type User struct {
	UID               string
	Email             string
	PasswordHash      string
	EmailConfirmed    bool
	ConfirmationToken string
}

// UserProfile профиль пользователя. ContractsCreatedThisMonth единственный
// источник для проверки квоты и растёт ровно на 1 при каждом сохранении договора.
type UserProfile struct {
	UID                       string             `json:"uid"`
	Email                     string             `json:"email"`
	DisplayName               string             `json:"display_name"`
	PlanType                  PlanType           `json:"plan_type"`
	ContractsCreatedThisMonth int                `json:"contracts_created_this_month"`
	SubscriptionStatus        SubscriptionStatus `json:"subscription_status"`
}

// ConfirmationMessage сообщение в очередь писем подтверждения e-mail.
type ConfirmationMessage struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Token       string `json:"token"`
}
