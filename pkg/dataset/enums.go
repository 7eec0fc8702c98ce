package dataset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownSystem is returned for an operating system other than IOS or ANDROID.
	ErrUnknownSystem = errors.New("unknown system")
	// ErrUnknownCategory is returned for a category that folds to neither gaming nor consumer.
	ErrUnknownCategory = errors.New("unknown category")
)

// System is the mobile operating system of a row.
type System string

// Known systems.
const (
	SystemIOS     System = "IOS"
	SystemAndroid System = "ANDROID"
)

// ParseSystem parses an operating system name case-insensitively.
func ParseSystem(s string) (System, error) {
	switch System(strings.ToUpper(strings.TrimSpace(s))) {
	case SystemIOS:
		return SystemIOS, nil
	case SystemAndroid:
		return SystemAndroid, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSystem, s)
	}
}

// Category splits apps into gaming and consumer (non-gaming).
type Category string

// Known categories.
const (
	CategoryGaming   Category = "gaming"
	CategoryConsumer Category = "consumer"
)

// VerticalAll is the aggregate vertical of a category.
const VerticalAll = "all"

// categorySynonyms folds source spellings to canonical categories.
var categorySynonyms = map[string]Category{
	"gaming":     CategoryGaming,
	"consumer":   CategoryConsumer,
	"non-gaming": CategoryConsumer,
	"non gaming": CategoryConsumer,
	"nongaming":  CategoryConsumer,
}

// verticalSynonyms folds per-category aggregate spellings to "all".
var verticalSynonyms = map[string]string{
	"all":          VerticalAll,
	"consumer-all": VerticalAll,
	"gaming-all":   VerticalAll,
}

// ParseCategory folds a source category to its canonical value.
func ParseCategory(s string) (Category, error) {
	c, ok := categorySynonyms[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}

	return c, nil
}

// FoldVertical lower-cases and trims a vertical and folds aggregate synonyms to "all".
func FoldVertical(s string) string {
	v := strings.ToLower(strings.TrimSpace(s))
	if folded, ok := verticalSynonyms[v]; ok {
		return folded
	}

	return v
}
