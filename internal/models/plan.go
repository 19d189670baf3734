package models

// Plan тариф с месячным лимитом договоров и ценой в кванзах.
type Plan struct {
	ID       PlanType `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Limit    int      `json:"limit" yaml:"limit"`
	Price    int      `json:"price" yaml:"price"`
	Features []string `json:"features" yaml:"features"`
}

// Paid сообщает, платный ли тариф.
func (p Plan) Paid() bool {
	return p.Price > 0
}
