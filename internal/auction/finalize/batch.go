package finalize

import (
	"context"
	"fmt"
	"sort"
)

// ParticipantError records a non-fatal failure while settling one participant.
type ParticipantError struct {
	ParticipantID string
	Err           error
}

func (e ParticipantError) Error() string {
	return fmt.Sprintf("participant %s: %v", e.ParticipantID, e.Err)
}

func (e ParticipantError) Unwrap() error {
	return e.Err
}

// BatchReport summarizes one pass over the participant queue.
type BatchReport struct {
	Total     int
	Processed int
	// ResumeAfter is the last successfully processed participant ID. Passing
	// it to the next run continues the batch where this one ended.
	ResumeAfter string
	Errors     []ParticipantError
}

// RunBatch settles participants one at a time in lexicographic ID order.
//
// A non-empty resumeAfter skips through and past that participant, so a run
// interrupted by an external time limit can be continued without reprocessing
// settled participants. Failures are accumulated per participant and never
// abort the loop; re-invocation is safe because settlement is idempotent.
func RunBatch(
	ctx context.Context,
	participantIDs []string,
	resumeAfter string,
	process func(ctx context.Context, participantID string) error,
) BatchReport {
	queue := make([]string, len(participantIDs))
	copy(queue, participantIDs)
	sort.Strings(queue)

	report := BatchReport{Total: len(queue), ResumeAfter: resumeAfter}
	for _, participantID := range queue {
		if resumeAfter != "" && participantID <= resumeAfter {
			continue
		}
		if err := process(ctx, participantID); err != nil {
			report.Errors = append(report.Errors, ParticipantError{
				ParticipantID: participantID,
				Err:           err,
			})
			continue
		}
		report.Processed++
		report.ResumeAfter = participantID
	}
	return report
}
