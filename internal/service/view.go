package service

import (
	"strings"

	"github.com/atinyakov/ReportKeeper/internal/models"
)

// FilterByTitle keeps the reports whose title contains query, ignoring case.
// Order is preserved and an empty query keeps everything.
func FilterByTitle(list []models.Report, query string) []models.Report {
	q := strings.ToLower(query)
	out := make([]models.Report, 0, len(list))
	for _, r := range list {
		if strings.Contains(strings.ToLower(r.Title), q) {
			out = append(out, r)
		}
	}
	return out
}
