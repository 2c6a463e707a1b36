package domain

// ResourceStatus is the fully derived view of one resource at an
// instant: live value plus every analytic the surfaces show. Built per
// poll, never persisted.
type ResourceStatus struct {
	Kind       Kind          `json:"kind"`
	Label      string        `json:"label"`
	Value      int           `json:"value"`
	Cap        int           `json:"cap"`
	RateMs     int64         `json:"rateMs"`
	NextPoint  int64         `json:"nextPoint"`
	FullAt     int64         `json:"fullAt"`
	Wasted     WastedInfo    `json:"wasted"`
	Milestones map[int]int64 `json:"milestones,omitempty"`
	NextReset  int64         `json:"nextReset"`
}

// OverlaySnapshot is the document republished to overlay surfaces on
// every poll.
type OverlaySnapshot struct {
	TS        int64            `json:"ts"`
	Resources []ResourceStatus `json:"resources"`
	Notices   []Notification   `json:"notices,omitempty"`
}
