package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bibliograph/internal/storage"
	"bibliograph/internal/util"
	"bibliograph/pkg/common"
	"bibliograph/pkg/discovery"
	"bibliograph/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ExportMessage requests an offline discovery run whose report is stored in
// object storage.
type ExportMessage struct {
	ReportID  string            `json:"report_id"`
	ConceptA  string            `json:"concept_a"`
	ConceptC  string            `json:"concept_c"`
	Limit     int               `json:"limit"`
	TimeSlice *common.TimeSlice `json:"time_slice,omitempty"`
}

// DiscoveryReport is the stored export format.
type DiscoveryReport struct {
	ReportID   string              `json:"report_id"`
	ConceptA   string              `json:"concept_a"`
	ConceptC   string              `json:"concept_c"`
	TimeSlice  *common.TimeSlice   `json:"time_slice,omitempty"`
	Hypotheses []common.Hypothesis `json:"hypotheses"`
	Count      int                 `json:"count"`
	CreatedAt  time.Time           `json:"created_at"`
}

// ProcessExportMessage runs the requested discovery and uploads the JSON
// report. The upload is retried since object storage hiccups are transient.
func ProcessExportMessage(
	ctx context.Context,
	s3Client *s3.Client,
	discoveryClient *discovery.Client,
	body string,
) error {
	var msg ExportMessage
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		return fmt.Errorf("failed to decode export message: %w", err)
	}

	hypotheses, err := discoveryClient.DiscoverHypotheses(ctx, msg.ConceptA, msg.ConceptC, msg.TimeSlice, msg.Limit)
	if err != nil {
		return fmt.Errorf("failed to run discovery for export: %w", err)
	}

	report := DiscoveryReport{
		ReportID:   msg.ReportID,
		ConceptA:   msg.ConceptA,
		ConceptC:   msg.ConceptC,
		TimeSlice:  msg.TimeSlice,
		Hypotheses: hypotheses,
		Count:      len(hypotheses),
		CreatedAt:  time.Now().UTC(),
	}
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	err = util.RetryErrWithContext(ctx, 3, func(ctx context.Context) error {
		_, putErr := storage.PutReport(ctx, s3Client, msg.ReportID, data)
		return putErr
	})
	if err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}

	logger.Info("[Queue] Discovery report exported", "report_id", msg.ReportID, "hypotheses", len(hypotheses))
	return nil
}
