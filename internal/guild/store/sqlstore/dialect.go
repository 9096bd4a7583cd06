package sqlstore

import (
	"strconv"
	"strings"
)

// Dialect captures what differs between the SQL engines we run on. Queries
// are written with '?' placeholders and rebound per dialect.
type Dialect struct {
	Name string

	// Numbered placeholders ($1, $2...) instead of '?'.
	Numbered bool

	// IsUniqueViolation reports whether err is a unique constraint failure.
	IsUniqueViolation func(error) bool
}

// Rebind rewrites '?' placeholders for the dialect.
func (d Dialect) Rebind(query string) string {
	if !d.Numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
