package identity

import (
	"errors"
	"fmt"

	"github.com/mrrobot2937/mazorca-system/internal/domain"
)

var ErrUnknownNumericID = errors.New("numeric id not present in catalog")

// Resolver maps numeric ids back to original string ids by scanning a loaded
// product catalog. Different strings can hash to the same number, so the
// resolver refuses to build over a catalog with colliding ids instead of
// silently mis-resolving.
type Resolver struct {
	byNumeric map[int64]string
}

// NewResolver indexes the catalog by numeric id. It returns an error naming
// the colliding products if two distinct ids share a hash.
func NewResolver(products []domain.Product) (*Resolver, error) {
	byNumeric := make(map[int64]string, len(products))
	for _, p := range products {
		n := NumericID(p.ID)
		if existing, ok := byNumeric[n]; ok && existing != p.ID {
			return nil, fmt.Errorf("numeric id collision: %q and %q both hash to %d", existing, p.ID, n)
		}
		byNumeric[n] = p.ID
	}
	return &Resolver{byNumeric: byNumeric}, nil
}

// Resolve returns the original string id for a numeric id.
func (r *Resolver) Resolve(numericID int64) (string, error) {
	id, ok := r.byNumeric[numericID]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownNumericID, numericID)
	}
	return id, nil
}

// Len reports how many ids are indexed.
func (r *Resolver) Len() int {
	return len(r.byNumeric)
}
