package billing

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// numberPrefixLen is how much of the user ID seeds the invoice number.
const numberPrefixLen = 4

// lastIssuedMilli guards against two calls landing in the same
// millisecond: the timestamp component is bumped forward when the clock
// has not advanced, so one process can never mint duplicate defaults.
var lastIssuedMilli atomic.Int64

// InvoiceNumber returns the supplied number verbatim, or derives a
// default from the user ID and the current instant:
// first four ID characters uppercased, a dash, then epoch milliseconds.
func InvoiceNumber(userID, supplied string, now time.Time) string {
	if supplied != "" {
		return supplied
	}

	ms := now.UnixMilli()
	for {
		last := lastIssuedMilli.Load()
		if ms <= last {
			ms = last + 1
		}
		if lastIssuedMilli.CompareAndSwap(last, ms) {
			break
		}
	}

	prefix := userID
	if len(prefix) > numberPrefixLen {
		prefix = prefix[:numberPrefixLen]
	}

	return strings.ToUpper(prefix) + "-" + strconv.FormatInt(ms, 10)
}
