package enum

import "fmt"

// ReportPeriod is the bucket size of a sales report.
type ReportPeriod string

const (
	ReportDaily   ReportPeriod = "daily"
	ReportWeekly  ReportPeriod = "weekly"
	ReportMonthly ReportPeriod = "monthly"
)

func (p ReportPeriod) IsValid() bool {
	switch p {
	case ReportDaily, ReportWeekly, ReportMonthly:
		return true
	}
	return false
}

// ParseReportPeriod parses a period name; an empty string means daily.
func ParseReportPeriod(s string) (ReportPeriod, error) {
	if s == "" {
		return ReportDaily, nil
	}
	p := ReportPeriod(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid report period: %q", s)
	}
	return p, nil
}
