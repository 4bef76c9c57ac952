// Package report turns a product snapshot into the statistics view: chart
// slices, an ordered summary, stock figures, a pie chart image and the
// exported report documents.
package report

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strconv"
	"strings"

	"github.com/talkincode/bodega/internal/domain"
)

// ChartSlice is one entry of the statistics pie chart.
type ChartSlice struct {
	Label string `json:"label"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// ColorScheme picks the display color of a slice.
type ColorScheme func(label string, index int) string

// HashColors derives the color from the label, so a product keeps its color
// across refreshes.
func HashColors(label string, _ int) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(label))
	return fmt.Sprintf("#%06x", h.Sum32()&0xffffff)
}

// RandomColors assigns a fresh random color on every call.
func RandomColors(string, int) string {
	return fmt.Sprintf("#%06x", rand.Intn(0x1000000))
}

// SchemeByName maps the report.colors setting to a scheme; unknown names get HashColors.
func SchemeByName(name string) ColorScheme {
	if strings.EqualFold(strings.TrimSpace(name), "random") {
		return RandomColors
	}
	return HashColors
}

// Aggregate maps each product to a slice in input order.
func Aggregate(products []domain.Product, colors ColorScheme) []ChartSlice {
	if colors == nil {
		colors = HashColors
	}
	slices := make([]ChartSlice, 0, len(products))
	for i, p := range products {
		slices = append(slices, ChartSlice{
			Label: p.Name,
			Value: p.Quantity,
			Color: colors(p.Name, i),
		})
	}
	return slices
}

// Summarize lists "name: quantity" lines in input order.
func Summarize(products []domain.Product) []string {
	lines := make([]string, 0, len(products))
	for _, p := range products {
		lines = append(lines, p.Name+": "+strconv.Itoa(p.Quantity))
	}
	return lines
}
