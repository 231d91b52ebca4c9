package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseMonto converts decimal-string amounts coming from the DB/JSON boundary
// ("12500.00", "$ 1,250.50", "") into float64. Empty input means zero.
// Monetary fields cross through here exactly once, at the boundary.
func ParseMonto(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("monto no válido: %q", s)
	}
	return v, nil
}

// FormatMoney keeps consistent decimal formatting for currency fields.
// Rounding to two decimals happens only here, at the presentation boundary.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// FormatCurrency renders an amount with thousand separators for PDF/display use.
func FormatCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	whole := int64(amount)
	cents := int64((amount-float64(whole))*100 + 0.5)
	if cents >= 100 {
		whole++
		cents -= 100
	}
	return fmt.Sprintf("%s$%s.%02d", sign, formatThousand(whole), cents)
}

func formatThousand(n int64) string {
	if n == 0 {
		return "0"
	}
	str := strconv.FormatInt(n, 10)
	var out strings.Builder
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String()
}
