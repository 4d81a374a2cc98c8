// Package shopping consolidates the ingredient rows of a user's cart into
// one line per (ingredient name, measurement unit).
package shopping

import (
	"fmt"
	"sort"
	"strings"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
)

// Line is one consolidated ingredient.
type Line struct {
	Name   string `json:"name"`
	Unit   string `json:"measurement_unit"`
	Amount int64  `json:"amount"`
}

// String renders the line as "<name> (<unit>) — <amount>".
func (l Line) String() string {
	return fmt.Sprintf("%s (%s) — %d", l.Name, l.Unit, l.Amount)
}

// Download renders the line as "<name> — <amount> <unit>".
func (l Line) Download() string {
	return fmt.Sprintf("%s — %d %s", l.Name, l.Amount, l.Unit)
}

type key struct {
	name string
	unit string
}

// Consolidate sums amounts per (name, unit) and orders the result by name
// then unit. Rows of the same ingredient coming from different recipes are
// added, never overwritten.
func Consolidate(items []models.RecipeIngredient) []Line {
	totals := make(map[key]int64, len(items))
	for _, item := range items {
		k := key{name: item.Ingredient.Name, unit: item.Ingredient.MeasurementUnit}
		totals[k] += int64(item.Amount)
	}
	lines := make([]Line, 0, len(totals))
	for k, amount := range totals {
		lines = append(lines, Line{Name: k.name, Unit: k.unit, Amount: amount})
	}
	Sort(lines)
	return lines
}

// FromTotals adapts rows summed by the store.
func FromTotals(totals []models.IngredientTotal) []Line {
	lines := make([]Line, 0, len(totals))
	for _, t := range totals {
		lines = append(lines, Line{Name: t.Name, Unit: t.MeasurementUnit, Amount: t.Amount})
	}
	Sort(lines)
	return lines
}

// Sort orders lines by name then unit using byte-wise comparison, the same
// order SQLite's default BINARY collation produces.
func Sort(lines []Line) {
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Name != lines[j].Name {
			return lines[i].Name < lines[j].Name
		}
		return lines[i].Unit < lines[j].Unit
	})
}

// Text joins the lines with newlines using the given renderer.
func Text(lines []Line, render func(Line) string) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = render(l)
	}
	return strings.Join(out, "\n")
}
