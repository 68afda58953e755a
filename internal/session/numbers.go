package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	receiptPrefix = "RE-"

	// receiptModulus keeps the last eight digits of the millisecond clock.
	receiptModulus = 100_000_000
)

// Numberer hands out receipt numbers: "RE-" followed by the last eight
// digits of the millisecond clock. A number follows the last one this
// Numberer issued, wrapping past 99999999, and never equals an issued or
// observed one.
type Numberer struct {
	last   int64
	issued bool
	used   map[int64]bool
}

// NewNumberer returns a Numberer with no history.
func NewNumberer() *Numberer {
	return &Numberer{used: make(map[int64]bool)}
}

// Observe records a number that already exists, e.g. from the payment log.
// Values that are not receipt numbers are ignored.
func (n *Numberer) Observe(number string) {
	if v, ok := parseReceiptNumber(number); ok {
		n.used[v] = true
	}
}

// Next returns a fresh receipt number for the given instant.
func (n *Numberer) Next(now time.Time) string {
	v := now.UnixMilli() % receiptModulus
	if n.issued && v <= n.last {
		v = n.last + 1
	}
	for n.used[v%receiptModulus] {
		v++
	}
	v %= receiptModulus

	n.last = v
	n.issued = true
	n.used[v] = true
	return fmt.Sprintf("%s%08d", receiptPrefix, v)
}

func parseReceiptNumber(s string) (int64, bool) {
	digits, ok := strings.CutPrefix(strings.TrimSpace(s), receiptPrefix)
	if !ok || digits == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v % receiptModulus, true
}
