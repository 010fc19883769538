package dispatch

import "strings"

// MapSeverity folds upstream priority text into the downstream severity
// scale (critical, error, warning, info). Unrecognized priorities land on
// info.
func MapSeverity(priority string) string {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case "p0", "sev0", "urgent", "critical", "high":
		return "critical"
	case "p1", "sev1", "medium":
		return "error"
	case "p2", "sev2", "low":
		return "warning"
	}
	return "info"
}
