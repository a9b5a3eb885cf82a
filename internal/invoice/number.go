package invoice

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var trailingDigitsRe = regexp.MustCompile(`(\d+)$`)

// NextNumber derives the next document number from the saved records:
// the highest trailing digit run plus one, zero-padded to at least three
// digits, stamped with the current year and month.
//
// It is recomputed from data on every call; two callers working from the
// same snapshot get the same number.
func NextNumber(prefix string, records []*Record, now time.Time) string {
	var highest int64

	for _, r := range records {
		if r == nil {
			continue
		}

		m := trailingDigitsRe.FindString(r.Number)
		if m == "" {
			continue
		}

		n, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}

		highest = max(highest, n)
	}

	return fmt.Sprintf("%s-%s-%s-%03d", prefix, now.Format("2006"), now.Format("01"), highest+1)
}
