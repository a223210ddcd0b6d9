// internal/club/service.go
package club

import "context"

// Service is the single mutual-exclusion domain over the membership registry
// and the payment ledger. Every operation runs to completion atomically with
// respect to the others; reads never mutate. The principal is the caller
// identity checked against the injected Authorizer.
type Service interface {
	// RegisterMember adds a member and their first pending payment, due ten
	// days after registration. Category A ignores the supplied activity and
	// gets "all"; category C gets none; category B must name one of the seven
	// concrete activities.
	RegisterMember(ctx context.Context, principal string, dni uint64, category, activity string) error

	// RecordPayment settles the head of the member's pending queue. The
	// tendered amount must match exactly: no partial payment, no overpayment.
	RecordPayment(ctx context.Context, principal string, dni, amount uint64) error

	// IssueNextPayment creates the member's renewal payment, discounted when
	// the last qualifying-months payments were all on time and undiscounted.
	IssueNextPayment(ctx context.Context, principal string, dni uint64) error

	SetPrice(ctx context.Context, principal string, category Category, amount uint64) error
	Price(ctx context.Context, principal string, category Category) (uint64, error)
	SetDiscountPercent(ctx context.Context, principal string, percent uint64) error
	SetQualifyingMonths(ctx context.Context, principal string, months uint64) error

	MemberExists(ctx context.Context, dni uint64) bool

	// ListMemberIDs returns every registered dni in registration order. An
	// unauthorized caller gets an empty slice, not an error; this is the one
	// read that degrades silently.
	ListMemberIDs(ctx context.Context, principal string) []uint64

	GetMember(ctx context.Context, principal string, dni uint64) (*Member, error)

	// PaymentsFor returns every payment ever issued to the member, in
	// insertion order.
	PaymentsFor(ctx context.Context, principal string, dni uint64) ([]PaymentSummary, error)

	// PaymentAmounts returns the member's payment amounts, or with a nil dni
	// the amounts of the 30 most recent payments club-wide.
	PaymentAmounts(ctx context.Context, principal string, dni *uint64) (*Statement, error)
}
