package compare

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AndreyAkinshin/convtest/internal/results"
)

// defaultMaxDetails bounds the discrepancies listed in a failure detail.
const defaultMaxDetails = 20

// discrepancies collects differences found during a comparison.
type discrepancies struct {
	items []string
}

func (d *discrepancies) addf(format string, args ...any) {
	d.items = append(d.items, fmt.Sprintf(format, args...))
}

func (d *discrepancies) empty() bool { return len(d.items) == 0 }

// outcome returns a passing outcome when nothing was collected, otherwise a
// comparison failure listing the sorted discrepancies, truncated to limit.
func (d *discrepancies) outcome(limit int) results.FileOutcome {
	if d.empty() {
		return results.Pass()
	}
	if limit <= 0 {
		limit = defaultMaxDetails
	}
	items := append([]string(nil), d.items...)
	sort.Strings(items)

	shown := items
	if len(items) > limit {
		shown = items[:limit]
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d discrepanc%s: %s", len(items), plural(len(items)), strings.Join(shown, "; "))
	if rest := len(items) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "; and %d more", rest)
	}
	return results.ComparisonFailure(b.String())
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
