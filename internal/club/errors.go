// internal/club/errors.go
package club

import "errors"

// Every failure surfaces as one of these values so callers can branch on the
// kind (retry an AmountMismatch with the corrected amount, treat
// MemberNotFound as terminal). Validation always precedes mutation: a failed
// operation leaves no partial state behind.
var (
	ErrNotAuthorized     = errors.New("caller is not authorized")
	ErrMemberExists      = errors.New("member already exists")
	ErrMemberNotFound    = errors.New("member not found")
	ErrInvalidCategory   = errors.New("unknown category")
	ErrInvalidActivity   = errors.New("unknown activity")
	ErrCategoryNotPriced = errors.New("no price for category")
	ErrNoPendingPayment  = errors.New("member has no pending payments")
	ErrAmountMismatch    = errors.New("tendered amount does not match the pending dues")
)
