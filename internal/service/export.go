package service

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/visionify/partner-api/internal/domain"
	"github.com/visionify/partner-api/internal/pipeline"
)

var exportHeader = []string{
	"customer", "contact", "email", "phone", "partner", "status",
	"opportunity_amount", "camera_count", "expected_close_date", "created_at",
}

// WriteDealsCSV streams the deal list as CSV. The partner column uses the
// resolver; unassigned deals export an empty label.
func WriteDealsCSV(w io.Writer, deals []domain.Deal, resolve pipeline.PartnerResolver) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(exportHeader); err != nil {
		return err
	}

	for _, deal := range deals {
		partner := ""
		if deal.PartnerID != nil && resolve != nil {
			partner = resolve(*deal.PartnerID)
		}

		email := ""
		if deal.ContactEmail != nil {
			email = *deal.ContactEmail
		}
		phone := ""
		if deal.ContactPhone != nil {
			phone = *deal.ContactPhone
		}
		cameras := ""
		if deal.CameraCount != nil {
			cameras = strconv.Itoa(*deal.CameraCount)
		}

		record := []string{
			deal.CustomerName,
			deal.ContactName,
			email,
			phone,
			partner,
			string(deal.Status),
			strconv.FormatFloat(deal.OpportunityAmount, 'f', 2, 64),
			cameras,
			deal.ExpectedCloseDate.Format(time.RFC3339),
			deal.CreatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
