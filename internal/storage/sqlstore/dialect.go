package sqlstore

import (
	"strconv"
	"strings"
)

// Dialect captures what differs between SQL backends.
type Dialect interface {
	// Rebind rewrites '?' placeholders into the backend's syntax.
	Rebind(query string) string

	// LockClause is appended to a SELECT to hold the selected rows until the
	// transaction ends. Empty when the backend locks at transaction start.
	LockClause() string

	// ClassifyError maps uniqueness violations onto storage sentinels and
	// returns any other error unchanged.
	ClassifyError(err error) error
}

// QuestionRebind leaves '?' placeholders as they are.
func QuestionRebind(query string) string {
	return query
}

// DollarRebind rewrites '?' placeholders as $1, $2, ...
func DollarRebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
