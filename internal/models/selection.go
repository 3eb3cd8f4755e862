package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the only accepted form date format.
const DateLayout = "2006-01-02"

// PreviewJobCode is the sm_code every preview query filters on.
const PreviewJobCode = "TL"

// SelectionForm is the form posted to /selection.
type SelectionForm struct {
	Country   string `form:"country" binding:"required"`
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date" binding:"required"`
	Labels    string `form:"labels"`
	Request   string `form:"request"`
}

// Selection is the operator's parsed filter.
type Selection struct {
	Country     string
	CountryCode string
	StartDate   time.Time
	EndDate     time.Time
	Labels      []string
	Request     string
}

// LabelsDisplay joins labels the way the confirmation page shows them.
func (s Selection) LabelsDisplay() string {
	return strings.Join(s.Labels, ", ")
}

// Row is one untyped record from the message table.
type Row map[string]any

// RowSet is the full result of a message query.
type RowSet []Row

// MessageSummary is what the preview page reports.
type MessageSummary struct {
	DateCount map[string]int
	Total     int
}

// DateKey normalises a driver-specific date value to YYYY-MM-DD.
func DateKey(v any) string {
	switch d := v.(type) {
	case time.Time:
		return d.Format(DateLayout)
	case []byte:
		return trimDate(string(d))
	case string:
		return trimDate(d)
	case nil:
		return ""
	default:
		return fmt.Sprint(d)
	}
}

func trimDate(s string) string {
	if len(s) >= len(DateLayout) {
		if _, err := time.Parse(DateLayout, s[:len(DateLayout)]); err == nil {
			return s[:len(DateLayout)]
		}
	}
	return s
}
