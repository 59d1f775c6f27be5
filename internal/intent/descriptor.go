package intent

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DateRange bounds the sample timestamp. A zero bound is unset.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) IsZero() bool { return r.From.IsZero() && r.To.IsZero() }

func (r DateRange) Equal(o DateRange) bool {
	return r.From.Equal(o.From) && r.To.Equal(o.To)
}

// Descriptor is an immutable snapshot of the fields that determine a
// request. Two equal descriptors would fetch the same page.
type Descriptor struct {
	Query     string
	Sort      SortKey
	Page      int
	PageSize  int
	MinValue  int64
	DateRange DateRange
}

// Equal compares every field; times are compared as instants.
func (d Descriptor) Equal(o Descriptor) bool {
	return d.Query == o.Query &&
		d.Sort == o.Sort &&
		d.Page == o.Page &&
		d.PageSize == o.PageSize &&
		d.MinValue == o.MinValue &&
		d.DateRange.Equal(o.DateRange)
}

// Values returns the query parameters of GET /games. Empty query, zero
// floor and unset dates are omitted.
func (d Descriptor) Values() url.Values {
	v := url.Values{}
	if q := strings.TrimSpace(d.Query); q != "" {
		v.Set("q", q)
	}
	v.Set("sort", string(d.Sort))
	v.Set("page", strconv.Itoa(d.Page))
	v.Set("size", strconv.Itoa(d.PageSize))
	if d.MinValue > 0 {
		v.Set("min_current", strconv.FormatInt(d.MinValue, 10))
	}
	if !d.DateRange.From.IsZero() {
		v.Set("from", d.DateRange.From.UTC().Format(time.RFC3339))
	}
	if !d.DateRange.To.IsZero() {
		v.Set("to", d.DateRange.To.UTC().Format(time.RFC3339))
	}
	return v
}

// Encode returns the canonical query string, keys sorted.
func (d Descriptor) Encode() string {
	return d.Values().Encode()
}

func (d Descriptor) String() string { return d.Encode() }
