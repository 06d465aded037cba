package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidReportStatus(t *testing.T) {
	for _, status := range []ReportStatus{
		ReportStatusPending,
		ReportStatusUnderInvestigation,
		ReportStatusResolved,
		ReportStatusRejected,
	} {
		assert.True(t, ValidReportStatus(status), "%s should be valid", status)
	}

	assert.False(t, ValidReportStatus("ARCHIVED"))
	assert.False(t, ValidReportStatus(""))
	assert.False(t, ValidReportStatus("pending"))
}

func TestValidReportType(t *testing.T) {
	assert.True(t, ValidReportType(ReportTypeRedFlag))
	assert.True(t, ValidReportType(ReportTypeIntervention))
	assert.False(t, ValidReportType("COMPLAINT"))
}

func TestLocationValid(t *testing.T) {
	cases := []struct {
		name string
		loc  Location
		want bool
	}{
		{"origin", Location{0, 0}, true},
		{"extremes", Location{90, 180}, true},
		{"negative extremes", Location{-90, -180}, true},
		{"latitude too high", Location{90.0001, 0}, false},
		{"latitude too low", Location{-91, 0}, false},
		{"longitude too high", Location{0, 180.5}, false},
		{"longitude too low", Location{0, -181}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.loc.Valid())
		})
	}
}

func TestReportEditable(t *testing.T) {
	report := &Report{Status: ReportStatusPending}
	assert.True(t, report.Editable())

	for _, status := range []ReportStatus{ReportStatusUnderInvestigation, ReportStatusResolved, ReportStatusRejected} {
		report.Status = status
		assert.False(t, report.Editable(), "%s should not be editable", status)
	}
}
