// Package errors provides structured error handling for the finalization engine.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Configuration errors (fatal, reject the whole run)
	CodeConfigGameNotFound      Code = "CONFIGURATION_GAME_NOT_FOUND"
	CodeConfigUnsupportedFormat Code = "CONFIGURATION_UNSUPPORTED_FORMAT"
	CodeConfigUnknownPeriod     Code = "CONFIGURATION_UNKNOWN_PERIOD"

	// Integrity errors (fatal, signal possible data loss)
	CodeIntegrityPeriodListShrank Code = "INTEGRITY_PERIOD_LIST_SHRANK"
	CodeIntegrityPeriodNameLost   Code = "INTEGRITY_PERIOD_NAME_LOST"

	// Bid errors
	CodeBidInvalidStatusTransition Code = "BID_INVALID_STATUS_TRANSITION"
	CodeBidEmptyGameID             Code = "BID_EMPTY_GAME_ID"
	CodeBidEmptyParticipantID      Code = "BID_EMPTY_PARTICIPANT_ID"
	CodeBidEmptyRiderID            Code = "BID_EMPTY_RIDER_ID"

	// Participant errors
	CodeParticipantEmptyGameID Code = "PARTICIPANT_EMPTY_GAME_ID"
	CodeParticipantNotFound    Code = "PARTICIPANT_NOT_FOUND"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeConfigUnsupportedFormat,
		CodeConfigUnknownPeriod,
		CodeBidEmptyGameID,
		CodeBidEmptyParticipantID,
		CodeBidEmptyRiderID,
		CodeParticipantEmptyGameID:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeBidInvalidStatusTransition:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeNotFound,
		CodeConfigGameNotFound,
		CodeParticipantNotFound:
		return codes.NotFound

	// DataLoss - a structural invariant was violated mid-write
	case CodeIntegrityPeriodListShrank,
		CodeIntegrityPeriodNameLost:
		return codes.DataLoss

	default:
		return codes.Internal
	}
}
