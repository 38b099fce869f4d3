package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"bloompal-backend/internal/model"
)

var (
	spaceRe       = regexp.MustCompile(`\s+`)
	plantSuffixRe = regexp.MustCompile(`(?i)\s+plant$`)
	digitsRe      = regexp.MustCompile(`^\d+$`)
)

// normalize lowercases raw, collapses whitespace and drops a trailing "plant"
// so that "Flowering Plant", "flowering" and " FLOWERING  plant " compare equal.
func normalize(raw string) string {
	s := strings.TrimSpace(spaceRe.ReplaceAllString(raw, " "))
	s = plantSuffixRe.ReplaceAllString(s, "")
	return strings.ToLower(s)
}

type kind interface {
	~string
	DisplayName() string
}

func matchKind[T kind](field, raw string, values []T, def T) (T, error) {
	n := normalize(raw)
	if n == "" {
		return def, nil
	}
	for _, v := range values {
		if n == normalize(string(v)) || n == normalize(v.DisplayName()) {
			return v, nil
		}
	}
	return def, fmt.Errorf("unknown %s: %q", field, raw)
}

// PlantType parses a plant type from its key or display name. Blank input
// yields the foliage default.
func PlantType(raw string) (model.PlantType, error) {
	return matchKind("plant type", raw, model.PlantTypes, model.PlantTypeFoliage)
}

// PlantCategory parses a category from its key or display name. Blank input
// yields the common default.
func PlantCategory(raw string) (model.PlantCategory, error) {
	return matchKind("plant category", raw, model.PlantCategories, model.PlantCategoryCommon)
}

// PlantLocation parses a location from its key or display name. Blank input
// yields the indoor default.
func PlantLocation(raw string) (model.PlantLocation, error) {
	return matchKind("plant location", raw, model.PlantLocations, model.PlantLocationIndoor)
}

// IntervalDays parses the "water every N days" form field. Blank input yields
// def. The value is not range-checked here; the care engine rejects intervals
// below one day.
func IntervalDays(raw string, def int) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return def, nil
	}
	if !digitsRe.MatchString(s) {
		return 0, fmt.Errorf("watering interval must contain digits only: %q", raw)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("watering interval out of range: %q", raw)
	}
	return n, nil
}
