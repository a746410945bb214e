package notify

import "time"

// EventKind enumerates the staff broadcast events. Keeping this a closed
// enum (instead of free-form string keys) means a subscriber can never see
// an event it does not know how to decode.
type EventKind string

const (
	// EventSystemShutdown tells every staff tab to drop its credential and
	// return to the login screen.
	EventSystemShutdown EventKind = "system_shutdown_request"

	// EventTableCheckedOut announces a completed checkout so hall tabs can
	// flag the table's clear control without waiting for the next poll.
	EventTableCheckedOut EventKind = "last_checked_out_table"
)

type Event struct {
	Kind EventKind       `json:"event"`
	Data *CheckoutNotice `json:"data,omitempty"`
}

// CheckoutNotice is the payload of EventTableCheckedOut.
type CheckoutNotice struct {
	TableID   uint      `json:"table_id"`
	Timestamp time.Time `json:"timestamp"`
}
