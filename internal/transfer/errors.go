package transfer

import "errors"

var (
	// ErrQueueItemNotFound indicates the queue row does not exist.
	ErrQueueItemNotFound = errors.New("transfer: queue item not found")
	// ErrQueueItemNotPending indicates an execute call against a row that
	// already advanced past pending.
	ErrQueueItemNotPending = errors.New("transfer: queue item not pending")
	// ErrNotResubmittable indicates a resubmit of a non-failed item.
	ErrNotResubmittable = errors.New("transfer: only failed items can be resubmitted")
	// ErrTransferInFlight indicates another worker holds the item's lock.
	ErrTransferInFlight = errors.New("transfer: item is being processed elsewhere")
	// ErrUnknownType indicates a transfer type outside the closed set.
	ErrUnknownType = errors.New("transfer: unknown transfer type")
	// ErrInvalidInput indicates a create request that fails domain validation.
	ErrInvalidInput = errors.New("transfer: invalid input")

	// errSourceNotFound and errNoAvailableFunds steer the failure path; they
	// terminate the queue item rather than surfacing to the caller as errors.
	errSourceNotFound      = errors.New("transfer: source account not found")
	errDestinationNotFound = errors.New("transfer: destination wallet not found")
	errNoAvailableFunds    = errors.New("transfer: source has no available balance")
)
