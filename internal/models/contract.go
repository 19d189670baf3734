package models

import "time"

// ContractStatus состояние договора.
type ContractStatus string

// Состояния договора.
const (
	ContractDraft     ContractStatus = "draft"
	ContractFinalized ContractStatus = "finalized"
)

// Contract сохранённый договор. После создания не изменяется.
type Contract struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Title     string           `json:"title"`
	Type      string           `json:"type"`
	Content   RenderedDocument `json:"content"`
	CreatedAt time.Time        `json:"created_at"`
	Status    ContractStatus   `json:"status"`
	Variables FormValues       `json:"variables"`
	LogoURL   string           `json:"logo_url,omitempty"`
}
