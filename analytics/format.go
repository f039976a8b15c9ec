package analytics

import (
	"math"
	"strconv"
	"strings"
	"time"
)

var monthsShort = [...]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

// FormatCurrency renders an amount as whole Rupiah, e.g. "Rp 15.000".
func FormatCurrency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "Rp 0"
	}
	neg := v < 0
	s := FormatNumber(math.Abs(v))
	if neg {
		return "-Rp " + s
	}
	return "Rp " + s
}

// FormatNumber rounds to an integer and groups thousands with dots.
func FormatNumber(v float64) string {
	n := int64(math.Round(v))
	neg := n < 0
	if neg {
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatDate renders a YYYY-MM-DD day as "2 Jan 2024". Unparseable input is
// returned unchanged.
func FormatDate(day string) string {
	t, err := time.Parse(DateLayout, day)
	if err != nil {
		return day
	}
	return strconv.Itoa(t.Day()) + " " + monthsShort[t.Month()-1] + " " + strconv.Itoa(t.Year())
}

var labels = map[string]string{
	TrendUp:        "naik",
	TrendDown:      "turun",
	TrendStable:    "stabil",
	StockCritical:  "kritis",
	StockLow:       "rendah",
	StockNormal:    "normal",
	StockOverstock: "berlebih",
	PeriodDaily:    "harian",
	PeriodWeekly:   "mingguan",
	PeriodMonthly:  "bulanan",
}

// Label is the display name of a trend, stock status or forecast period.
// Unknown codes are returned unchanged.
func Label(code string) string {
	if l, ok := labels[code]; ok {
		return l
	}
	return code
}
