package ai

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// formatCurrency renders an amount as US dollars with thousands separators.
// Cents are shown only when the amount is not whole.
func formatCurrency(amount float64) string {
	p := message.NewPrinter(language.English)

	cents := math.Round(amount * 100)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	if math.Mod(cents, 100) == 0 {
		return sign + "$" + p.Sprintf("%.0f", cents/100)
	}
	return sign + "$" + p.Sprintf("%.2f", cents/100)
}

func formatCount(value int) string {
	return message.NewPrinter(language.English).Sprintf("%d", value)
}

func formatPercent(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}
