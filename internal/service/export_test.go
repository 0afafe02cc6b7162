package service_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/visionify/partner-api/internal/domain"
	"github.com/visionify/partner-api/internal/service"
)

func TestWriteDealsCSV(t *testing.T) {
	rq := require.New(t)

	partnerID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	email := "lee@grainco.example"
	cameras := 42
	closeDate := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	created := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)

	deals := []domain.Deal{
		{
			PartnerID:         &partnerID,
			Status:            domain.DealStatusApproved,
			CustomerName:      "Grain Co",
			ContactName:       "Lee Park",
			ContactEmail:      &email,
			OpportunityAmount: 12500.5,
			CameraCount:       &cameras,
			ExpectedCloseDate: closeDate,
			CreatedAt:         created,
		},
		{
			Status:            domain.DealStatusNew,
			CustomerName:      "Mill Works",
			ContactName:       "Rita Chen",
			OpportunityAmount: 900,
			ExpectedCloseDate: closeDate,
			CreatedAt:         created,
		},
	}

	resolve := func(id uuid.UUID) string {
		if id == partnerID {
			return "Acme Integrations"
		}
		return "Unknown partner"
	}

	var buf bytes.Buffer
	rq.NoError(service.WriteDealsCSV(&buf, deals, resolve))

	records, err := csv.NewReader(&buf).ReadAll()
	rq.NoError(err)
	rq.Len(records, 3)

	rq.Equal([]string{
		"customer", "contact", "email", "phone", "partner", "status",
		"opportunity_amount", "camera_count", "expected_close_date", "created_at",
	}, records[0])

	rq.Equal("Grain Co", records[1][0])
	rq.Equal("lee@grainco.example", records[1][2])
	rq.Equal("Acme Integrations", records[1][4])
	rq.Equal("approved", records[1][5])
	rq.Equal("12500.50", records[1][6])
	rq.Equal("42", records[1][7])
	rq.Equal(closeDate.Format(time.RFC3339), records[1][8])

	// Unassigned deal exports an empty partner label and empty optionals.
	rq.Equal("", records[2][4])
	rq.Equal("", records[2][2])
	rq.Equal("", records[2][7])
}

func TestWriteDealsCSVEmpty(t *testing.T) {
	rq := require.New(t)

	var buf bytes.Buffer
	rq.NoError(service.WriteDealsCSV(&buf, nil, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	rq.NoError(err)
	rq.Len(records, 1)
}
