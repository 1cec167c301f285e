package service

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatRupiah renders a price as whole rupiah with dot thousands
// separators, e.g. "Rp 1.250.000.000".
func FormatRupiah(v float64) string {
	return "Rp " + strings.ReplaceAll(humanize.Commaf(math.Round(v)), ",", ".")
}

// FormatRupiahRange renders a confidence interval
func FormatRupiahRange(lower, upper float64) string {
	return FormatRupiah(lower) + " - " + FormatRupiah(upper)
}
