package domain

import "time"

// Variant — оформление баннера с результатом действия
type Variant string

const (
	VariantSuccess Variant = "success"
	VariantDanger  Variant = "danger"
)

// Alert — баннер с результатом отправки формы, виден до ExpiresAt.
type Alert struct {
	Message   string    `json:"message"`
	Variant   Variant   `json:"variant"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewAlert(message string, variant Variant, now time.Time, duration time.Duration) *Alert {
	return &Alert{
		Message:   message,
		Variant:   variant,
		ExpiresAt: now.Add(duration),
	}
}

// Visible сообщает, идёт ли ещё cooldown баннера.
func (a *Alert) Visible(now time.Time) bool {
	return a != nil && now.Before(a.ExpiresAt)
}

// Remaining возвращает оставшееся время показа баннера.
func (a *Alert) Remaining(now time.Time) time.Duration {
	if !a.Visible(now) {
		return 0
	}

	return a.ExpiresAt.Sub(now)
}
