// internal/report/service.go

// Package report is the read-only consumer of the club's query surface. It
// never mutates: delinquency, activity eligibility and revenue are all
// recomputed from the ledger on every call.
package report

import (
	"context"
	"time"

	"clubledger/internal/calendar"
	"clubledger/internal/club"
)

// ClubReader is the full query surface the reporting engine consumes. The
// club service implements it in-process; clients.ClubClient implements it
// across services.
type ClubReader interface {
	MemberIDs(ctx context.Context) ([]uint64, error)
	Payments(ctx context.Context, dni uint64) ([]club.PaymentSummary, error)
	MemberProfile(ctx context.Context, dni uint64) (club.Category, club.Activity, error)
}

// Revenue is the monthly take per category. All three buckets are always
// present, zero or not.
type Revenue struct {
	A uint64 `json:"A"`
	B uint64 `json:"B"`
	C uint64 `json:"C"`
}

// Service computes the three club reports.
type Service interface {
	// DelinquentMembers lists each member with at least one unpaid payment
	// past its due date as of now. A member appears at most once.
	DelinquentMembers(ctx context.Context) ([]uint64, error)

	// EligibleForActivity lists the non-delinquent members allowed to attend
	// the named activity: category A always, category B when it is their
	// activity, category C never.
	EligibleForActivity(ctx context.Context, activity string) ([]uint64, error)

	// MonthlyRevenue buckets payment amounts by category for the given civil
	// month.
	MonthlyRevenue(ctx context.Context, month, year int) (Revenue, error)
}

type service struct {
	clubs ClubReader
	now   func() time.Time
}

// NewService creates a reporting engine over the given reader.
func NewService(clubs ClubReader) Service {
	return &service{clubs: clubs, now: time.Now}
}

func (s *service) DelinquentMembers(ctx context.Context) ([]uint64, error) {
	ids, err := s.clubs.MemberIDs(ctx)
	if err != nil {
		return nil, err
	}
	today := s.now().UnixMilli()
	out := []uint64{}
	for _, dni := range ids {
		late, err := s.delinquent(ctx, dni, today)
		if err != nil {
			return nil, err
		}
		if late {
			out = append(out, dni)
		}
	}
	return out, nil
}

// delinquent reports whether the member has any unpaid payment past due.
// Note this check is intentionally different from Payment.Overdue, which only
// flags payments that were settled late.
func (s *service) delinquent(ctx context.Context, dni uint64, today int64) (bool, error) {
	payments, err := s.clubs.Payments(ctx, dni)
	if err != nil {
		return false, err
	}
	for _, p := range payments {
		if !p.Paid && today > p.DueAt {
			return true, nil
		}
	}
	return false, nil
}

func (s *service) EligibleForActivity(ctx context.Context, activity string) ([]uint64, error) {
	// The validity check is independent of the category A shortcut: "all" is
	// not a queryable activity.
	requested, err := club.ParseActivity(activity)
	if err != nil {
		return nil, err
	}

	ids, err := s.clubs.MemberIDs(ctx)
	if err != nil {
		return nil, err
	}
	today := s.now().UnixMilli()
	out := []uint64{}
	for _, dni := range ids {
		late, err := s.delinquent(ctx, dni, today)
		if err != nil {
			return nil, err
		}
		if late {
			continue
		}
		cat, act, err := s.clubs.MemberProfile(ctx, dni)
		if err != nil {
			return nil, err
		}
		switch cat {
		case club.CategoryA:
			out = append(out, dni)
		case club.CategoryB:
			if act == requested {
				out = append(out, dni)
			}
		}
	}
	return out, nil
}

func (s *service) MonthlyRevenue(ctx context.Context, month, year int) (Revenue, error) {
	var rev Revenue
	ids, err := s.clubs.MemberIDs(ctx)
	if err != nil {
		return rev, err
	}
	for _, dni := range ids {
		cat, _, err := s.clubs.MemberProfile(ctx, dni)
		if err != nil {
			return rev, err
		}
		payments, err := s.clubs.Payments(ctx, dni)
		if err != nil {
			return rev, err
		}
		for _, p := range payments {
			// The stored due date is the payment's date anchor; unpaid dues
			// count toward the month they fall in, exactly as the source
			// system reports them.
			date := calendar.FromUnixMillis(p.DueAt)
			if date.Month != month || date.Year != year {
				continue
			}
			switch cat {
			case club.CategoryA:
				rev.A += p.Amount
			case club.CategoryB:
				rev.B += p.Amount
			case club.CategoryC:
				rev.C += p.Amount
			}
		}
	}
	return rev, nil
}
