package properties

import "fmt"

// Percentify renders a fractional rate as a percentage.
// Rates below 0.01 keep two decimals: 0.12 renders as "12%" and 0.005
// as "0.50%". A nil rate renders as "".
func Percentify(n *float64) string {
	if n == nil {
		return ""
	}
	if *n < 0.01 {
		return fmt.Sprintf("%.2f%%", *n*100)
	}
	return fmt.Sprintf("%.0f%%", *n*100)
}
