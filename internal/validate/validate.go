// Package validate checks and scrubs receipt fields before they are sent
// to the backend, so extraction artifacts like "1,234.50" or "$12" never
// reach the wire.
package validate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// SanitizeNumber coerces a value to a float64. Numbers pass through
// (NaN becomes 0). Strings are stripped of everything except digits, the
// decimal point and a minus sign before parsing; anything unparseable
// becomes 0. Already-clean numbers come back unchanged.
func SanitizeNumber(value any) float64 {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) {
			return 0
		}
		return v
	case float32:
		return SanitizeNumber(float64(v))
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		cleaned := strings.Map(func(r rune) rune {
			switch {
			case r >= '0' && r <= '9', r == '.', r == '-':
				return r
			}
			return -1
		}, v)
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

// ItemDraft is one unchecked line item.
type ItemDraft struct {
	Name     string
	Quantity any
	Price    any
}

// ReceiptDraft is the unchecked form input for a receipt.
type ReceiptDraft struct {
	StoreName string
	Date      string
	Total     any
	Items     []ItemDraft
}

// Item is a sanitized line item.
type Item struct {
	Name     string
	Quantity float64
	Price    float64
}

// CleanReceipt is the sanitized result, safe to submit.
type CleanReceipt struct {
	StoreName string
	Date      string
	Total     float64
	Items     []Item
}

// ValidateReceipt checks a draft and returns the sanitized receipt, or the
// list of human-readable problems when anything fails.
func ValidateReceipt(draft ReceiptDraft) (*CleanReceipt, []string) {
	var errs []string

	if strings.TrimSpace(draft.StoreName) == "" {
		errs = append(errs, "Store name is required")
	}

	if draft.Date != "" && !datePattern.MatchString(draft.Date) {
		errs = append(errs, "Date must be in YYYY-MM-DD format")
	}

	total := SanitizeNumber(draft.Total)
	if total < 0 {
		errs = append(errs, "Total amount cannot be negative")
	}

	items := make([]Item, 0, len(draft.Items))
	for i, item := range draft.Items {
		quantity := SanitizeNumber(item.Quantity)
		price := SanitizeNumber(item.Price)

		if strings.TrimSpace(item.Name) == "" {
			errs = append(errs, fmt.Sprintf("Item %d: Name is required", i+1))
		}
		if quantity <= 0 {
			errs = append(errs, fmt.Sprintf("Item %d: Quantity must be greater than 0", i+1))
		}
		if price < 0 {
			errs = append(errs, fmt.Sprintf("Item %d: Price cannot be negative", i+1))
		}

		items = append(items, Item{Name: item.Name, Quantity: quantity, Price: price})
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &CleanReceipt{
		StoreName: draft.StoreName,
		Date:      draft.Date,
		Total:     total,
		Items:     items,
	}, nil
}
