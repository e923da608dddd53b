package domain

import "strings"

// DOI status buckets. A record with zero velocity and stock on hand never
// sells down, so it lands in StatusOverstock; zero velocity with zero stock
// lands in StatusLow.
const (
	StatusLow       = "low"
	StatusNormal    = "normal"
	StatusOverstock = "overstock"
)

var doiStatusLabels = map[string]string{
	StatusLow:       "Low",
	StatusNormal:    "Normal",
	StatusOverstock: "Overstock",
}

// DOIStatuses lists the valid status values in display order.
func DOIStatuses() []string {
	return []string{StatusLow, StatusNormal, StatusOverstock}
}

// DOIStatusLabel returns a human-readable label for a DOI status value.
func DOIStatusLabel(status string) string {
	if label, ok := doiStatusLabels[strings.ToLower(status)]; ok {
		return label
	}

	return "Unknown"
}

// ParseDOIStatus normalizes a status value (case-insensitive) and reports
// whether it is one of the known buckets.
func ParseDOIStatus(value string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	_, ok := doiStatusLabels[normalized]

	return normalized, ok
}
