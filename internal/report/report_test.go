// internal/report/report_test.go
package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubledger/internal/auth"
	"clubledger/internal/calendar"
	"clubledger/internal/club"
)

// fakeReader serves a canned ledger snapshot.
type fakeReader struct {
	members  []uint64
	profiles map[uint64]memberProfile
	payments map[uint64][]club.PaymentSummary
	err      error
}

type memberProfile struct {
	cat club.Category
	act club.Activity
}

func (f *fakeReader) MemberIDs(ctx context.Context) ([]uint64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.members, nil
}

func (f *fakeReader) Payments(ctx context.Context, dni uint64) ([]club.PaymentSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.payments[dni], nil
}

func (f *fakeReader) MemberProfile(ctx context.Context, dni uint64) (club.Category, club.Activity, error) {
	if f.err != nil {
		return "", "", f.err
	}
	p := f.profiles[dni]
	return p.cat, p.act, nil
}

// UTC midnights, epoch milliseconds.
const (
	jun30 = 1688083200000
	jul01 = 1688169600000
	jul03 = 1688342400000
	jul05 = 1688515200000
	jul10 = 1688947200000
	jul12 = 1689120000000
	jul15 = 1689379200000
	aug02 = 1690934400000
	aug04 = 1691107200000
	aug09 = 1691539200000

	// 2023-07-18, between jul15 and aug02.
	reportNow = 1689711702000
)

// clubFixture is a seven-member snapshot with three members behind on dues.
func clubFixture() *fakeReader {
	return &fakeReader{
		members: []uint64{44851840, 44851841, 44851842, 44851843, 44851844, 44851845, 44851846},
		profiles: map[uint64]memberProfile{
			44851840: {club.CategoryA, club.ActivityAll},
			44851841: {club.CategoryB, club.ActivitySoccer},
			44851842: {club.CategoryB, club.ActivityTennis},
			44851843: {club.CategoryB, club.ActivitySoccer},
			44851844: {club.CategoryC, ""},
			44851845: {club.CategoryA, club.ActivityAll},
			44851846: {club.CategoryC, ""},
		},
		payments: map[uint64][]club.PaymentSummary{
			44851840: {
				{ID: 1, DueAt: jul05, Paid: true, Amount: 5000},
				{ID: 2, DueAt: aug04, Paid: false, Amount: 5000},
			},
			44851841: {
				{ID: 3, DueAt: jul10, Paid: true, Amount: 3000},
				{ID: 4, DueAt: aug09, Paid: false, Amount: 3000},
			},
			44851842: {
				{ID: 5, DueAt: jul12, Paid: true, Amount: 3000},
			},
			44851843: {
				{ID: 6, DueAt: jul01, Paid: false, Amount: 3000},
			},
			44851844: {
				{ID: 7, DueAt: jul15, Paid: false, Amount: 2000},
			},
			44851845: {
				{ID: 8, DueAt: jun30, Paid: false, Amount: 5000},
			},
			44851846: {
				{ID: 9, DueAt: jul03, Paid: true, Amount: 2000},
				{ID: 10, DueAt: aug02, Paid: false, Amount: 2000},
			},
		},
	}
}

func newFixtureService(reader ClubReader) *service {
	svc := NewService(reader).(*service)
	svc.now = func() time.Time { return time.UnixMilli(reportNow) }
	return svc
}

func TestDelinquentMembers(t *testing.T) {
	svc := newFixtureService(clubFixture())

	ids, err := svc.DelinquentMembers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint64{44851843, 44851844, 44851845}, ids)
}

func TestDelinquencyIgnoresFutureDues(t *testing.T) {
	reader := clubFixture()
	svc := newFixtureService(reader)

	// Pay everything past due; only future dues remain.
	for dni, payments := range reader.payments {
		for i := range payments {
			if payments[i].DueAt < reportNow {
				payments[i].Paid = true
			}
		}
		reader.payments[dni] = payments
	}

	ids, err := svc.DelinquentMembers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestEligibleForActivity(t *testing.T) {
	svc := newFixtureService(clubFixture())
	ctx := context.Background()

	// Category A attends everything, B only its own sport, C nothing.
	// Members behind on dues are excluded regardless of category.
	ids, err := svc.EligibleForActivity(ctx, "soccer")
	require.NoError(t, err)
	assert.Equal(t, []uint64{44851840, 44851841}, ids)

	ids, err = svc.EligibleForActivity(ctx, "tennis")
	require.NoError(t, err)
	assert.Equal(t, []uint64{44851840, 44851842}, ids)

	ids, err = svc.EligibleForActivity(ctx, "rugby")
	require.NoError(t, err)
	assert.Equal(t, []uint64{44851840}, ids)
}

func TestEligibleForActivityRejectsInvalid(t *testing.T) {
	svc := newFixtureService(clubFixture())
	ctx := context.Background()

	_, err := svc.EligibleForActivity(ctx, "chess")
	assert.ErrorIs(t, err, club.ErrInvalidActivity)

	// "all" names the category A privilege, not an activity.
	_, err = svc.EligibleForActivity(ctx, "all")
	assert.ErrorIs(t, err, club.ErrInvalidActivity)
}

func TestMonthlyRevenue(t *testing.T) {
	svc := newFixtureService(clubFixture())
	ctx := context.Background()

	// Buckets follow the due date; unpaid dues count toward their month.
	rev, err := svc.MonthlyRevenue(ctx, 7, 2023)
	require.NoError(t, err)
	assert.Equal(t, Revenue{A: 5000, B: 9000, C: 4000}, rev)

	rev, err = svc.MonthlyRevenue(ctx, 6, 2023)
	require.NoError(t, err)
	assert.Equal(t, Revenue{A: 5000}, rev)

	rev, err = svc.MonthlyRevenue(ctx, 1, 2020)
	require.NoError(t, err)
	assert.Equal(t, Revenue{}, rev, "all three buckets are present even when zero")
}

func TestReaderErrorsPropagate(t *testing.T) {
	reader := &fakeReader{err: errors.New("club unreachable")}
	svc := newFixtureService(reader)
	ctx := context.Background()

	_, err := svc.DelinquentMembers(ctx)
	assert.Error(t, err)
	_, err = svc.EligibleForActivity(ctx, "soccer")
	assert.Error(t, err)
	_, err = svc.MonthlyRevenue(ctx, 7, 2023)
	assert.Error(t, err)
}

func TestLocalReaderEndToEnd(t *testing.T) {
	clubSvc := club.NewService(auth.PermitAll{}, nil)
	ctx := context.Background()

	require.NoError(t, clubSvc.RegisterMember(ctx, "owner", 543, "C", ""))
	require.NoError(t, clubSvc.RegisterMember(ctx, "owner", 544, "B", "swimming"))

	svc := NewService(NewLocalReader(clubSvc, "owner"))

	// First dues fall ten days out, so nobody is behind yet.
	ids, err := svc.DelinquentMembers(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = svc.EligibleForActivity(ctx, "swimming")
	require.NoError(t, err)
	assert.Equal(t, []uint64{544}, ids)

	// The pending registration dues land in the month they are due.
	due := calendar.FromUnixMillis(time.Now().UnixMilli() + 10*24*60*60*1000)
	rev, err := svc.MonthlyRevenue(ctx, due.Month, due.Year)
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), rev.C)
	assert.Equal(t, uint64(3000), rev.B)
}

func TestLocalReaderUnauthorizedSeesEmptyClub(t *testing.T) {
	clubSvc := club.NewService(auth.NewAllowList("owner"), nil)
	ctx := context.Background()
	require.NoError(t, clubSvc.RegisterMember(ctx, "owner", 543, "C", ""))

	// The member listing degrades to empty for unknown principals, so every
	// report comes back empty rather than erroring.
	svc := NewService(NewLocalReader(clubSvc, "stranger"))

	ids, err := svc.DelinquentMembers(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	rev, err := svc.MonthlyRevenue(ctx, 7, 2023)
	require.NoError(t, err)
	assert.Equal(t, Revenue{}, rev)
}
