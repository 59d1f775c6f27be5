package intent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDescriptor_Values(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)

	d := Descriptor{
		Query:    "counter strike",
		Sort:     "-peak24",
		Page:     2,
		PageSize: 50,
		MinValue: 10000,
		DateRange: DateRange{
			From: time.Date(2024, 1, 1, 1, 0, 0, 0, berlin),
			To:   time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC),
		},
	}

	v := d.Values()
	assert.Equal(t, "counter strike", v.Get("q"))
	assert.Equal(t, "-peak24", v.Get("sort"))
	assert.Equal(t, "2", v.Get("page"))
	assert.Equal(t, "50", v.Get("size"))
	assert.Equal(t, "10000", v.Get("min_current"))
	assert.Equal(t, "2024-01-01T00:00:00Z", v.Get("from"))
	assert.Equal(t, "2024-01-31T23:59:59Z", v.Get("to"))
}

func TestDescriptor_ValuesOmitUnset(t *testing.T) {
	d := Descriptor{Query: "   ", Sort: DefaultSort, Page: 1, PageSize: 25}
	v := d.Values()
	for _, key := range []string{"q", "min_current", "from", "to"} {
		assert.False(t, v.Has(key), "%s should be omitted", key)
	}
}

func TestDescriptor_Equal(t *testing.T) {
	base := Descriptor{Query: "dota", Sort: DefaultSort, Page: 1, PageSize: 25}

	same := base
	assert.True(t, base.Equal(same))

	utc := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	withDate := base
	withDate.DateRange.From = utc
	otherZone := base
	otherZone.DateRange.From = utc.In(time.FixedZone("x", 3600))
	assert.True(t, withDate.Equal(otherZone), "same instant in another zone")

	changes := []func(d *Descriptor){
		func(d *Descriptor) { d.Query = "dota 2" },
		func(d *Descriptor) { d.Sort = "name" },
		func(d *Descriptor) { d.Page = 2 },
		func(d *Descriptor) { d.PageSize = 50 },
		func(d *Descriptor) { d.MinValue = 1 },
		func(d *Descriptor) { d.DateRange.To = utc },
	}
	for i, change := range changes {
		other := base
		change(&other)
		assert.False(t, base.Equal(other), "change %d", i)
	}
}

func TestDateRange_IsZero(t *testing.T) {
	assert.True(t, DateRange{}.IsZero())
	assert.False(t, DateRange{To: time.Now()}.IsZero())
}
