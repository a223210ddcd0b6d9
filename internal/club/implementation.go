// internal/club/implementation.go
package club

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"clubledger/internal/auth"
)

const (
	dayMillis         = int64(24 * 60 * 60 * 1000)
	firstDueAfterDays = 10
	renewalAfterDays  = 30

	// DefaultDiscountPercent and DefaultQualifyingMonths seed the renewal
	// engine; both are runtime-tunable through the setters.
	DefaultDiscountPercent  = 30
	DefaultQualifyingMonths = 3

	statementTailLimit = 30
)

// Journal records domain events for audit. Implementations must be safe for
// concurrent use. A nil Journal disables recording; the in-memory state stays
// authoritative either way.
type Journal interface {
	Append(ctx context.Context, eventType string, data any) error
}

// service implements the Service interface. All state lives behind one
// RW mutex: a single writer at a time, readers concurrent when no writer is
// active.
type service struct {
	mu sync.RWMutex

	members  []Member // registration order; dni lookups are linear scans
	payments []Payment
	// nextPaymentID is deliberately independent of len(payments) so ids stay
	// correct if deletion is ever introduced.
	nextPaymentID uint64

	prices           PriceTable
	discountPercent  uint64
	qualifyingMonths uint64

	authz   auth.Authorizer
	journal Journal
	now     func() time.Time
	tracer  trace.Tracer
}

// NewService creates a club service with the default price table and renewal
// settings. journal may be nil.
func NewService(authz auth.Authorizer, journal Journal) Service {
	return &service{
		nextPaymentID:    1,
		prices:           defaultPrices(),
		discountPercent:  DefaultDiscountPercent,
		qualifyingMonths: DefaultQualifyingMonths,
		authz:            authz,
		journal:          journal,
		now:              time.Now,
		tracer:           otel.Tracer("clubledger/club"),
	}
}

func (s *service) permitted(principal string) bool {
	return s.authz.IsPermitted(principal)
}

func (s *service) record(ctx context.Context, eventType string, data any) error {
	if s.journal == nil {
		return nil
	}
	if err := s.journal.Append(ctx, eventType, data); err != nil {
		return fmt.Errorf("record %s: %w", eventType, err)
	}
	return nil
}

// findMember returns the position of the member in registration order, or -1.
// Positions are ephemeral and never leave this package.
func (s *service) findMember(dni uint64) int {
	for i := range s.members {
		if s.members[i].DNI == dni {
			return i
		}
	}
	return -1
}

func (s *service) RegisterMember(ctx context.Context, principal string, dni uint64, category, activity string) error {
	ctx, span := s.tracer.Start(ctx, "club.register_member",
		trace.WithAttributes(
			attribute.Int64("member.dni", int64(dni)),
			attribute.String("member.category", category),
		),
	)
	defer span.End()

	if !s.permitted(principal) {
		return ErrNotAuthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findMember(dni) >= 0 {
		return ErrMemberExists
	}

	cat, err := ParseCategory(category)
	if err != nil {
		return err
	}

	var act Activity
	switch cat {
	case CategoryA:
		act = ActivityAll // supplied activity is ignored
	case CategoryB:
		act, err = ParseActivity(activity)
		if err != nil {
			return err
		}
	case CategoryC:
		// no activity
	}

	amount, err := s.prices.price(cat)
	if err != nil {
		return err
	}

	registeredAt := s.now().UnixMilli()
	payment := Payment{
		ID:        s.nextPaymentID,
		MemberDNI: dni,
		Amount:    amount,
		DueAt:     registeredAt + firstDueAfterDays*dayMillis,
	}

	if err := s.record(ctx, "MemberRegistered", MemberRegisteredEvent{
		DNI:       dni,
		Category:  cat,
		Activity:  act,
		PaymentID: payment.ID,
		DueAt:     payment.DueAt,
	}); err != nil {
		return err
	}

	s.nextPaymentID++
	s.payments = append(s.payments, payment)
	s.members = append(s.members, Member{
		DNI:                 dni,
		Category:            cat,
		Activity:            act,
		RegisteredAt:        registeredAt,
		PendingPaymentIDs:   []uint64{payment.ID},
		CompletedPaymentIDs: []uint64{},
	})
	return nil
}

func (s *service) RecordPayment(ctx context.Context, principal string, dni, amount uint64) error {
	ctx, span := s.tracer.Start(ctx, "club.record_payment",
		trace.WithAttributes(attribute.Int64("member.dni", int64(dni))),
	)
	defer span.End()

	if !s.permitted(principal) {
		return ErrNotAuthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findMember(dni)
	if i < 0 {
		return ErrMemberNotFound
	}
	member := &s.members[i]
	if len(member.PendingPaymentIDs) == 0 {
		return ErrNoPendingPayment
	}

	p := s.paymentByID(member.PendingPaymentIDs[0])
	if p == nil {
		return fmt.Errorf("pending payment %d missing from ledger", member.PendingPaymentIDs[0])
	}
	if p.Paid {
		// Defensive: cannot happen while the FIFO invariant holds. The
		// original treats this as a silent no-op and so do we.
		return nil
	}
	if p.Amount != amount {
		return ErrAmountMismatch
	}

	paidAt := s.now().UnixMilli()
	if err := s.record(ctx, "PaymentRecorded", PaymentRecordedEvent{
		DNI:       dni,
		PaymentID: p.ID,
		PaidAt:    paidAt,
	}); err != nil {
		return err
	}

	member.PendingPaymentIDs = member.PendingPaymentIDs[1:]
	member.CompletedPaymentIDs = append(member.CompletedPaymentIDs, p.ID)
	p.Paid = true
	p.PaidAt = paidAt
	if paidAt <= p.DueAt {
		member.OnTimeStreak++
	} else {
		member.OnTimeStreak = 0
	}
	return nil
}

func (s *service) IssueNextPayment(ctx context.Context, principal string, dni uint64) error {
	ctx, span := s.tracer.Start(ctx, "club.issue_next_payment",
		trace.WithAttributes(attribute.Int64("member.dni", int64(dni))),
	)
	defer span.End()

	if !s.permitted(principal) {
		return ErrNotAuthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findMember(dni)
	if i < 0 {
		return ErrMemberNotFound
	}
	member := &s.members[i]

	base, err := s.prices.price(member.Category)
	if err != nil {
		return err
	}

	recent := s.recentPayments(dni, s.qualifyingMonths)
	qualifying := 0
	for _, p := range recent {
		if !p.Overdue() && !p.Discounted {
			qualifying++
		}
	}
	eligible := uint64(qualifying) == s.qualifyingMonths

	amount := base
	if eligible {
		discounted, ok := applyDiscount(base, s.discountPercent)
		if ok {
			amount = discounted
		} else {
			// Arithmetic overflow in the discount chain degrades silently to
			// full price.
			eligible = false
		}
	}

	// Renewals are due thirty days after the member's most recent due date,
	// looked up independently of the qualifying window so a zero-month
	// setting cannot shift the anchor to the clock.
	dueAt := s.now().UnixMilli()
	if last := s.recentPayments(dni, 1); len(last) > 0 {
		dueAt = last[0].DueAt
	}
	dueAt += renewalAfterDays * dayMillis

	payment := Payment{
		ID:         s.nextPaymentID,
		MemberDNI:  dni,
		Amount:     amount,
		DueAt:      dueAt,
		Discounted: eligible,
	}

	if err := s.record(ctx, "PaymentIssued", PaymentIssuedEvent{
		DNI:        dni,
		PaymentID:  payment.ID,
		Amount:     payment.Amount,
		Discounted: payment.Discounted,
		DueAt:      payment.DueAt,
	}); err != nil {
		return err
	}

	s.nextPaymentID++
	s.payments = append(s.payments, payment)
	member.PendingPaymentIDs = append(member.PendingPaymentIDs, payment.ID)
	return nil
}

// applyDiscount computes base - floor(base*percent/100), reporting false on
// any overflow in the multiply/divide/subtract chain.
func applyDiscount(base, percent uint64) (uint64, bool) {
	if percent != 0 && base > math.MaxUint64/percent {
		return 0, false
	}
	discount := base * percent / 100
	if discount > base {
		return 0, false
	}
	return base - discount, true
}

// recentPayments returns up to limit payments of the member, most recent
// first.
func (s *service) recentPayments(dni, limit uint64) []Payment {
	var out []Payment
	for i := len(s.payments) - 1; i >= 0 && uint64(len(out)) < limit; i-- {
		if s.payments[i].MemberDNI == dni {
			out = append(out, s.payments[i])
		}
	}
	return out
}

func (s *service) paymentByID(id uint64) *Payment {
	for i := range s.payments {
		if s.payments[i].ID == id {
			return &s.payments[i]
		}
	}
	return nil
}

func (s *service) SetPrice(ctx context.Context, principal string, category Category, amount uint64) error {
	if !s.permitted(principal) {
		return ErrNotAuthorized
	}
	if _, err := ParseCategory(string(category)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.record(ctx, "PriceChanged", PriceChangedEvent{Category: category, Amount: amount}); err != nil {
		return err
	}
	s.prices[category] = amount
	return nil
}

func (s *service) Price(ctx context.Context, principal string, category Category) (uint64, error) {
	if !s.permitted(principal) {
		return 0, ErrNotAuthorized
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prices.price(category)
}

func (s *service) SetDiscountPercent(ctx context.Context, principal string, percent uint64) error {
	if !s.permitted(principal) {
		return ErrNotAuthorized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discountPercent = percent
	return nil
}

func (s *service) SetQualifyingMonths(ctx context.Context, principal string, months uint64) error {
	if !s.permitted(principal) {
		return ErrNotAuthorized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.qualifyingMonths = months
	return nil
}

func (s *service) MemberExists(ctx context.Context, dni uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findMember(dni) >= 0
}

func (s *service) ListMemberIDs(ctx context.Context, principal string) []uint64 {
	ids := []uint64{}
	if !s.permitted(principal) {
		// Deliberate fail-silent-to-empty policy for this one read path.
		return ids
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.members {
		ids = append(ids, s.members[i].DNI)
	}
	return ids
}

func (s *service) GetMember(ctx context.Context, principal string, dni uint64) (*Member, error) {
	if !s.permitted(principal) {
		return nil, ErrNotAuthorized
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.findMember(dni)
	if i < 0 {
		return nil, ErrMemberNotFound
	}
	m := s.members[i]
	m.PendingPaymentIDs = append([]uint64{}, s.members[i].PendingPaymentIDs...)
	m.CompletedPaymentIDs = append([]uint64{}, s.members[i].CompletedPaymentIDs...)
	return &m, nil
}

func (s *service) PaymentsFor(ctx context.Context, principal string, dni uint64) ([]PaymentSummary, error) {
	if !s.permitted(principal) {
		return nil, ErrNotAuthorized
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.findMember(dni) < 0 {
		return nil, ErrMemberNotFound
	}
	out := []PaymentSummary{}
	for _, p := range s.payments {
		if p.MemberDNI == dni {
			out = append(out, PaymentSummary{ID: p.ID, DueAt: p.DueAt, Paid: p.Paid, Amount: p.Amount})
		}
	}
	return out, nil
}

func (s *service) PaymentAmounts(ctx context.Context, principal string, dni *uint64) (*Statement, error) {
	if !s.permitted(principal) {
		return nil, ErrNotAuthorized
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := &Statement{Amounts: []uint64{}}
	if dni == nil {
		// Club-wide view: the most recent payments, newest first.
		for i := len(s.payments) - 1; i >= 0 && len(st.Amounts) < statementTailLimit; i-- {
			st.Amounts = append(st.Amounts, s.payments[i].Amount)
		}
		return st, nil
	}

	i := s.findMember(*dni)
	if i < 0 {
		return nil, ErrMemberNotFound
	}
	d := *dni
	cat := s.members[i].Category
	st.DNI = &d
	st.Category = &cat
	for _, p := range s.payments {
		if p.MemberDNI == d {
			st.Amounts = append(st.Amounts, p.Amount)
		}
	}
	return st, nil
}
