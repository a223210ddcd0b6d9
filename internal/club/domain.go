// internal/club/domain.go
package club

// Category is a membership tier. It is fixed at registration; no
// category-change operation exists.
type Category string

const (
	CategoryA Category = "A" // unrestricted activity access
	CategoryB Category = "B" // exactly one selectable activity
	CategoryC Category = "C" // no activity access
)

// ParseCategory maps the external string form onto a Category.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryA, CategoryB, CategoryC:
		return Category(s), nil
	default:
		return "", ErrInvalidCategory
	}
}

// Activity is a sport a member may attend.
type Activity string

const (
	ActivitySoccer     Activity = "soccer"
	ActivityBasketball Activity = "basketball"
	ActivityRugby      Activity = "rugby"
	ActivityHockey     Activity = "hockey"
	ActivitySwimming   Activity = "swimming"
	ActivityTennis     Activity = "tennis"
	ActivityPaddle     Activity = "paddle"

	// ActivityAll is the implicit activity of category A members. It is not
	// selectable: a category B member must pick one of the seven concrete
	// activities.
	ActivityAll Activity = "all"
)

// ParseActivity resolves a concrete activity name. "all" is rejected here on
// purpose; only registration of a category A member assigns it.
func ParseActivity(s string) (Activity, error) {
	switch Activity(s) {
	case ActivitySoccer, ActivityBasketball, ActivityRugby, ActivityHockey,
		ActivitySwimming, ActivityTennis, ActivityPaddle:
		return Activity(s), nil
	default:
		return "", ErrInvalidActivity
	}
}

// Member is a registered club participant. Pending payment ids are strictly
// FIFO: only the head may transition to paid.
type Member struct {
	DNI                 uint64   `json:"dni"`
	Category            Category `json:"category"`
	Activity            Activity `json:"activity,omitempty"`
	RegisteredAt        int64    `json:"registered_at"`
	PendingPaymentIDs   []uint64 `json:"pending_payment_ids"`
	CompletedPaymentIDs []uint64 `json:"completed_payment_ids"`
	// OnTimeStreak is informational only; discount eligibility is recomputed
	// from the ledger on every renewal.
	OnTimeStreak uint64 `json:"on_time_streak"`
}

// Payment is one billing instance tied to a member. Ids are assigned from a
// global monotonic counter starting at 1 and are never reused. Timestamps are
// epoch milliseconds.
type Payment struct {
	ID         uint64 `json:"id"`
	MemberDNI  uint64 `json:"member_dni"`
	Amount     uint64 `json:"amount"`
	DueAt      int64  `json:"due_at"`
	PaidAt     int64  `json:"paid_at,omitempty"`
	Paid       bool   `json:"paid"`
	Discounted bool   `json:"discounted"`
}

// Overdue reports whether the payment was settled after its due date. An
// unpaid payment past its due date is NOT flagged here; the delinquency
// report applies its own unpaid-and-past-due check. The two predicates are
// kept separate because both behaviors are observable.
func (p Payment) Overdue() bool {
	return p.Paid && p.PaidAt > p.DueAt
}

// PaymentSummary is the query-surface projection of a payment.
type PaymentSummary struct {
	ID     uint64 `json:"id"`
	DueAt  int64  `json:"due_at"`
	Paid   bool   `json:"paid"`
	Amount uint64 `json:"amount"`
}

// Statement lists payment amounts, either for one member (dni and category
// set) or the 30 most recent payments club-wide.
type Statement struct {
	DNI      *uint64   `json:"dni,omitempty"`
	Category *Category `json:"category,omitempty"`
	Amounts  []uint64  `json:"amounts"`
}

// MemberRegisteredEvent is recorded when a new member registers.
type MemberRegisteredEvent struct {
	DNI       uint64   `json:"dni"`
	Category  Category `json:"category"`
	Activity  Activity `json:"activity,omitempty"`
	PaymentID uint64   `json:"payment_id"`
	DueAt     int64    `json:"due_at"`
}

// PaymentRecordedEvent is recorded when a pending payment is settled.
type PaymentRecordedEvent struct {
	DNI       uint64 `json:"dni"`
	PaymentID uint64 `json:"payment_id"`
	PaidAt    int64  `json:"paid_at"`
}

// PaymentIssuedEvent is recorded when a renewal payment is created.
type PaymentIssuedEvent struct {
	DNI        uint64 `json:"dni"`
	PaymentID  uint64 `json:"payment_id"`
	Amount     uint64 `json:"amount"`
	Discounted bool   `json:"discounted"`
	DueAt      int64  `json:"due_at"`
}

// PriceChangedEvent is recorded when a category price is overwritten.
type PriceChangedEvent struct {
	Category Category `json:"category"`
	Amount   uint64   `json:"amount"`
}
