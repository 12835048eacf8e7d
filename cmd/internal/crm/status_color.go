package crm

// Numeric customer columns the status-color endpoint may aggregate over.
// The column name is interpolated into SQL, so the allow list is the
// injection boundary.
var allowedNumericColumns = map[string]bool{
	"balance":        true,
	"campaign":       true,
	"previous":       true,
	"duration":       true,
	"cons_price_idx": true,
	"cons_conf_idx":  true,
}

// AllowedNumericColumn reports whether column may be aggregated.
func AllowedNumericColumn(column string) bool {
	return allowedNumericColumns[column]
}

// StatusColor maps a customer's value for a numeric column onto a traffic
// light class, relative to the column's population average and total.
func StatusColor(value, average, total float64) string {
	if average == 0 || total == 0 {
		// No comparison possible.
		return "bg-yellow-400"
	}

	ratio := (value / total) / average

	switch {
	case ratio >= 0.9:
		return "bg-green-500"
	case ratio >= 0.7:
		return "bg-red-500"
	default:
		return "bg-yellow-400"
	}
}
