package classify

import (
	"errors"
	"fmt"
	"maps"
	"strings"
)

// Tier expresses how confidently a category can be deleted without review.
type Tier string

// Safety tiers in report order.
const (
	TierSafe  Tier = "safe"
	TierCheck Tier = "check"
	TierAdmin Tier = "admin"
)

// Tiers lists every tier in report order.
var Tiers = []Tier{TierSafe, TierCheck, TierAdmin}

// ErrInvalidTier indicates that the tier string could not be parsed.
var ErrInvalidTier = errors.New("invalid safety tier")

// ParseTier parses a string into a Tier.
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierSafe:
		return TierSafe, nil
	case TierCheck:
		return TierCheck, nil
	case TierAdmin:
		return TierAdmin, nil
	default:
		return TierCheck, fmt.Errorf("%w: %q", ErrInvalidTier, s)
	}
}

// SafetyTable maps category names to tiers.
type SafetyTable map[string]Tier

// DefaultSafety returns the built-in tier table.
func DefaultSafety() SafetyTable {
	return SafetyTable{
		CategoryTemp:      TierSafe,
		CategoryCache:     TierSafe,
		CategoryDev:       TierSafe,
		CategoryBrowser:   TierSafe,
		CategoryLog:       TierCheck,
		CategoryBackup:    TierCheck,
		CategorySystem:    TierCheck,
		CategoryRecycle:   TierCheck,
		CategoryDownload:  TierCheck,
		CategoryDuplicate: TierCheck,
		CategoryWindows:   TierAdmin,
	}
}

// Tier returns the tier of category. Unmapped categories need a check.
func (t SafetyTable) Tier(category string) Tier {
	if tier, ok := t[category]; ok {
		return tier
	}
	return TierCheck
}

// With returns a copy of t with overrides applied. t is not modified.
func (t SafetyTable) With(overrides map[string]string) (SafetyTable, error) {
	merged := maps.Clone(t)
	if merged == nil {
		merged = SafetyTable{}
	}
	for category, value := range overrides {
		tier, err := ParseTier(value)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", category, err)
		}
		merged[strings.ToLower(category)] = tier
	}
	return merged, nil
}
