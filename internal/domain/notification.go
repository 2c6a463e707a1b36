package domain

type NotifyReason string

const (
	NotifyFull      NotifyReason = "full"
	NotifyThreshold NotifyReason = "threshold"
	NotifyReset     NotifyReason = "reset"
)

// Notification is an alert raised when a resource crosses a watched
// boundary.
type Notification struct {
	Kind      Kind         `json:"kind"`
	Reason    NotifyReason `json:"reason"`
	Value     int          `json:"value"`
	Threshold int          `json:"threshold,omitempty"`
	TS        int64        `json:"ts"`
}
