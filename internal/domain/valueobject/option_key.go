package valueobject

import "fmt"

// OptionKey identifies an installment option inside a quote. Two options are
// the same option when they share term length and plan kind.
type OptionKey struct {
	TermMonths int
	Campaign   bool
}

// NewOptionKey builds an OptionKey.
func NewOptionKey(termMonths int, campaign bool) OptionKey {
	return OptionKey{TermMonths: termMonths, Campaign: campaign}
}

// String renders the key as "<kind>/<term>", e.g. "campaign/6".
func (k OptionKey) String() string {
	kind := "regular"
	if k.Campaign {
		kind = "campaign"
	}
	return fmt.Sprintf("%s/%d", kind, k.TermMonths)
}
