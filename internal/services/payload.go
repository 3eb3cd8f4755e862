package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tlmonitor/dashboard/internal/models"
)

// ErrInvalidDate is returned for dates not in YYYY-MM-DD form.
var ErrInvalidDate = errors.New("invalid date")

// ParseSelection validates the preview form.
func ParseSelection(form models.SelectionForm) (models.Selection, error) {
	start, err := parseDate("start_date", form.StartDate)
	if err != nil {
		return models.Selection{}, err
	}
	end, err := parseDate("end_date", form.EndDate)
	if err != nil {
		return models.Selection{}, err
	}

	code, err := models.LookupCountryCode(form.Country)
	if err != nil {
		return models.Selection{}, err
	}

	return models.Selection{
		Country:     form.Country,
		CountryCode: code,
		StartDate:   start,
		EndDate:     end,
		Labels:      SplitLabels(form.Labels),
		Request:     form.Request,
	}, nil
}

func parseDate(field, value string) (time.Time, error) {
	d, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s=%q, expected YYYY-MM-DD", ErrInvalidDate, field, value)
	}
	return d, nil
}

// SplitLabels splits the preview label list on commas without trimming.
func SplitLabels(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return strings.Split(raw, ",")
}

// Summarize counts rows per date and in total. A row only counts toward
// its date when it has an ID.
func Summarize(rows models.RowSet) models.MessageSummary {
	summary := models.MessageSummary{
		DateCount: make(map[string]int),
		Total:     len(rows),
	}
	for _, row := range rows {
		if row["ID"] == nil {
			continue
		}
		date, ok := row["date"]
		if !ok || date == nil {
			continue
		}
		summary.DateCount[models.DateKey(date)]++
	}
	return summary
}

// BuildJobPayload turns the submission form into the downstream body. It
// also returns the country name and raw request, which are removed from
// the payload.
func BuildJobPayload(form map[string]string) (payload models.JobPayload, country, request string, err error) {
	payload = make(models.JobPayload, len(form)+2)
	for k, v := range form {
		payload[k] = v
	}

	if raw, ok := form["labels"]; ok {
		if raw != "" {
			labels := strings.Split(raw, ",")
			for i := range labels {
				labels[i] = strings.TrimSpace(labels[i])
			}
			payload["labels"] = labels
			payload["multi_label"] = true
		} else {
			delete(payload, "labels")
		}
	}

	country = form["country"]
	code, err := models.LookupCountryCode(country)
	if err != nil {
		return nil, "", "", err
	}
	request = form["request"]

	payload["country_code"] = code
	payload["config_file"] = ConfigFileName(country, request)
	delete(payload, "country")
	delete(payload, "request")

	return payload, country, request, nil
}

// ConfigFileName is the config the downstream service loads for a job.
func ConfigFileName(country, request string) string {
	return country + "_" + request + ".yaml"
}
