package compare

import (
	"fmt"
	"math"

	"github.com/AndreyAkinshin/convtest/internal/config"
	"github.com/AndreyAkinshin/convtest/internal/graph"
)

// equalValues compares two scalar attribute values. Numbers of any type
// compare numerically within the configured tolerance; NaN equals NaN.
func (b base) equalValues(expected, actual any) bool {
	expF, expNum := graph.ToFloat(expected)
	actF, actNum := graph.ToFloat(actual)
	if expNum || actNum {
		return expNum && actNum && b.equalFloats(expF, actF)
	}
	switch exp := expected.(type) {
	case nil:
		return actual == nil
	case string:
		act, ok := actual.(string)
		return ok && exp == act
	case bool:
		act, ok := actual.(bool)
		return ok && exp == act
	default:
		return false
	}
}

func (b base) equalFloats(expected, actual float64) bool {
	if math.IsNaN(expected) || math.IsNaN(actual) {
		return math.IsNaN(expected) && math.IsNaN(actual)
	}
	if math.IsInf(expected, 0) || math.IsInf(actual, 0) {
		return expected == actual
	}
	if expected == actual {
		return true
	}
	switch b.opts.ToleranceMode {
	case config.ToleranceModeAbsolute:
		return math.Abs(expected-actual) <= b.opts.FloatTolerance
	default:
		return isWithinRelativeTolerance(expected, actual, b.opts.FloatTolerance)
	}
}

// isWithinRelativeTolerance checks if actual is within relative tolerance of expected.
// For expected == 0, uses absolute comparison to avoid division by zero.
func isWithinRelativeTolerance(expected, actual, tolerance float64) bool {
	if expected == 0 {
		return math.Abs(actual) <= tolerance
	}
	return math.Abs((expected-actual)/expected) <= tolerance
}

// formatValue renders an attribute value for discrepancy messages.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// diffAttrs reports every difference between expected and actual attributes.
func (b base) diffAttrs(owner string, expected, actual map[string]any, d *discrepancies) {
	for _, key := range unionKeys(expected, actual) {
		if b.ignore[key] {
			continue
		}
		expVal, inExp := expected[key]
		actVal, inAct := actual[key]
		switch {
		case !inAct:
			d.addf("%s: missing attribute %q", owner, key)
		case !inExp:
			d.addf("%s: unexpected attribute %q", owner, key)
		case !b.equalValues(expVal, actVal):
			d.addf("%s: attribute %q: expected %s, got %s", owner, key, formatValue(expVal), formatValue(actVal))
		}
	}
}

// conflictingAttrs reports attributes present on both sides whose values disagree.
func (b base) conflictingAttrs(owner string, expected, actual map[string]any, d *discrepancies) {
	for _, key := range graph.SortedKeys(actual) {
		if b.ignore[key] {
			continue
		}
		expVal, ok := expected[key]
		if !ok {
			continue
		}
		if actVal := actual[key]; !b.equalValues(expVal, actVal) {
			d.addf("%s: attribute %q: expected %s, got %s", owner, key, formatValue(expVal), formatValue(actVal))
		}
	}
}

// compatibleAttrs reports whether every shared attribute agrees.
func (b base) compatibleAttrs(expected, actual map[string]any) bool {
	for key, actVal := range actual {
		if b.ignore[key] {
			continue
		}
		if expVal, ok := expected[key]; ok && !b.equalValues(expVal, actVal) {
			return false
		}
	}
	return true
}

func unionKeys(a, b map[string]any) []string {
	merged := make(map[string]any, len(a)+len(b))
	for k := range a {
		merged[k] = nil
	}
	for k := range b {
		merged[k] = nil
	}
	return graph.SortedKeys(merged)
}
