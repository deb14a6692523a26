// Package bytecap enforces byte-exact size budgets on strings, slices, and
// serialized objects. All sizes are measured in UTF-8 encoded bytes, not runes.
package bytecap

import (
	"encoding/json"
	"fmt"
)

// ellipsisBytes is the UTF-8 encoded size of the truncation marker "…".
const ellipsisBytes = 3

// minFieldCap is the floor applied when SerializeWithCap halves per-field budgets.
const minFieldCap = 256

// CapString returns input unchanged when it fits within maxBytes. Otherwise it
// returns the largest rune-aligned prefix whose byte length leaves room for a
// trailing "…" marker. The result never exceeds maxBytes and never splits a
// multi-byte character.
func CapString(input string, maxBytes int) string {
	if len(input) <= maxBytes {
		return input
	}

	runes := []rune(input)

	// Binary search over rune positions for the largest prefix that fits.
	lo, hi := 0, len(runes)
	best := 0
	for lo <= hi {
		mid := (lo + hi) / 2
		if len(string(runes[:mid])) <= maxBytes-ellipsisBytes {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}

	return string(runes[:best]) + "…"
}

// CapArray greedily includes items in original order while the running total of
// their serialized sizes (plus one separator byte per subsequent item and two
// bytes for the enclosing brackets) stays within maxBytes. It stops at the first
// item that would overflow and never reorders; the result is always a contiguous
// prefix of items.
func CapArray[T any](items []T, toSerializable func(T) any, maxBytes int) ([]T, error) {
	result := make([]T, 0, len(items))
	total := 2 // enclosing brackets

	for _, item := range items {
		data, err := json.Marshal(toSerializable(item))
		if err != nil {
			return nil, fmt.Errorf("marshal item: %w", err)
		}

		separator := 0
		if len(result) > 0 {
			separator = 1
		}

		if total+len(data)+separator > maxBytes {
			break
		}

		result = append(result, item)
		total += len(data) + separator
	}

	return result, nil
}

// SerializeWithCap marshals obj to JSON with per-field string caps applied
// first. If the serialized form still exceeds totalCapBytes, each capped
// field's budget is halved (floored at 256 bytes) and the object is
// re-serialized. As a last resort the serialized text itself is truncated via
// CapString. Normal operation should only exercise the first branch.
func SerializeWithCap(obj any, perFieldCaps map[string]int, totalCapBytes int) (string, error) {
	raw, err := json.Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("marshal object: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", fmt.Errorf("object is not a JSON object: %w", err)
	}

	capFields(fields, perFieldCaps, 1)

	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("marshal capped object: %w", err)
	}
	if len(data) <= totalCapBytes {
		return string(data), nil
	}

	// Still over budget: halve every per-field cap and re-apply.
	capFields(fields, perFieldCaps, 2)

	data, err = json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("marshal reduced object: %w", err)
	}
	if len(data) <= totalCapBytes {
		return string(data), nil
	}

	return CapString(string(data), totalCapBytes), nil
}

// capFields applies per-field caps divided by divisor to every string-valued
// field named in caps.
func capFields(fields map[string]any, caps map[string]int, divisor int) {
	for name, maxBytes := range caps {
		s, ok := fields[name].(string)
		if !ok {
			continue
		}

		budget := maxBytes / divisor
		if divisor > 1 && budget < minFieldCap {
			budget = minFieldCap
		}
		fields[name] = CapString(s, budget)
	}
}
