package report

import (
	"fmt"
	"time"
)

// TimestampedName prefixes base with the scan time and account so
// repeated runs never clobber each other's output files.
func TimestampedName(base, accountID string, t time.Time) string {
	stamp := t.Format("20060102-150405")
	if accountID == "" {
		return fmt.Sprintf("%s-%s", stamp, base)
	}
	return fmt.Sprintf("%s-%s_%s", stamp, accountID, base)
}
