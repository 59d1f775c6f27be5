package intent

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sorts.toml
var sortsTOML []byte

// DefaultSort orders by current players, highest first.
const DefaultSort SortKey = "-current"

// SortKey is a sign-prefixed sort token: "-field" is descending, a bare
// field is ascending.
type SortKey string

// Field returns the token without its direction prefix.
func (k SortKey) Field() string {
	return strings.TrimPrefix(string(k), "-")
}

func (k SortKey) Descending() bool {
	return strings.HasPrefix(string(k), "-")
}

func (k SortKey) String() string { return string(k) }

// Label returns the human readable name of the key, or the raw token when
// the key is not in the catalog.
func (k SortKey) Label() string {
	for _, opt := range catalog {
		if opt.Token == k {
			return opt.Label
		}
	}
	return string(k)
}

// Next returns the key after k in catalog order, wrapping around.
func (k SortKey) Next() SortKey { return k.step(1) }

// Prev returns the key before k in catalog order, wrapping around.
func (k SortKey) Prev() SortKey { return k.step(-1) }

func (k SortKey) step(delta int) SortKey {
	n := len(catalog)
	for i, opt := range catalog {
		if opt.Token == k {
			return catalog[((i+delta)%n+n)%n].Token
		}
	}
	return catalog[0].Token
}

// SortOption is one entry of the sort catalog.
type SortOption struct {
	Token SortKey `toml:"token"`
	Label string  `toml:"label"`
}

type sortCatalog struct {
	Sorts []SortOption `toml:"sort"`
}

var catalog = mustParseCatalog(sortsTOML)

func parseCatalog(data []byte) ([]SortOption, error) {
	var c sortCatalog
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing sorts.toml: %w", err)
	}
	if len(c.Sorts) == 0 {
		return nil, fmt.Errorf("parsing sorts.toml: no sort options")
	}

	seen := make(map[SortKey]bool, len(c.Sorts))
	for _, opt := range c.Sorts {
		if opt.Token.Field() == "" || opt.Label == "" {
			return nil, fmt.Errorf("parsing sorts.toml: incomplete option %q", opt.Token)
		}
		if seen[opt.Token] {
			return nil, fmt.Errorf("parsing sorts.toml: duplicate token %q", opt.Token)
		}
		seen[opt.Token] = true
	}
	return c.Sorts, nil
}

func mustParseCatalog(data []byte) []SortOption {
	opts, err := parseCatalog(data)
	if err != nil {
		panic(err)
	}
	return opts
}

// Sorts returns the sort catalog in cycling order.
func Sorts() []SortOption {
	out := make([]SortOption, len(catalog))
	copy(out, catalog)
	return out
}

// ParseSortKey validates s against the catalog.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.TrimSpace(s))
	for _, opt := range catalog {
		if opt.Token == k {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSort, s)
}
