// internal/report/local.go
package report

import (
	"context"

	"clubledger/internal/club"
)

// LocalReader adapts an in-process club service to the ClubReader interface,
// reading with a fixed principal.
type LocalReader struct {
	svc       club.Service
	principal string
}

func NewLocalReader(svc club.Service, principal string) *LocalReader {
	return &LocalReader{svc: svc, principal: principal}
}

func (r *LocalReader) MemberIDs(ctx context.Context) ([]uint64, error) {
	return r.svc.ListMemberIDs(ctx, r.principal), nil
}

func (r *LocalReader) Payments(ctx context.Context, dni uint64) ([]club.PaymentSummary, error) {
	return r.svc.PaymentsFor(ctx, r.principal, dni)
}

func (r *LocalReader) MemberProfile(ctx context.Context, dni uint64) (club.Category, club.Activity, error) {
	m, err := r.svc.GetMember(ctx, r.principal, dni)
	if err != nil {
		return "", "", err
	}
	return m.Category, m.Activity, nil
}
