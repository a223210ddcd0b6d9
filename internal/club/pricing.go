// internal/club/pricing.go
package club

// Default dues per category, applied when a service is constructed.
const (
	DefaultPriceA = 5000
	DefaultPriceB = 3000
	DefaultPriceC = 2000
)

// PriceTable maps every category to its current monthly dues. The table is
// never partial: all three categories carry a price from construction on and
// SetPrice only overwrites.
type PriceTable map[Category]uint64

func defaultPrices() PriceTable {
	return PriceTable{
		CategoryA: DefaultPriceA,
		CategoryB: DefaultPriceB,
		CategoryC: DefaultPriceC,
	}
}

// price looks up the dues for a category. The not-priced case should not
// occur given the no-partial-table invariant, but is kept as a defensive
// error rather than a panic.
func (t PriceTable) price(c Category) (uint64, error) {
	p, ok := t[c]
	if !ok {
		return 0, ErrCategoryNotPriced
	}
	return p, nil
}
