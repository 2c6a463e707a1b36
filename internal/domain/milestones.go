package domain

// MilestoneTimes estimates when each target value will be reached.
// Targets already met map to now.
func MilestoneTimes(cur CurrentResource, rateMs int64, milestones []int, now int64) map[int]int64 {
	out := make(map[int]int64, len(milestones))
	for _, target := range milestones {
		out[target] = etaTo(cur, rateMs, target, now)
	}

	return out
}

// TimeToFull estimates the instant the resource hits cap. Matches the
// FullAt field ComputeCurrent derives.
func TimeToFull(cur CurrentResource, rateMs int64, capVal int, now int64) int64 {
	return etaTo(cur, rateMs, capVal, now)
}

func etaTo(cur CurrentResource, rateMs int64, target int, now int64) int64 {
	if rateMs <= 0 {
		rateMs = fallbackRateMs
	}

	need := int64(target - cur.Value)
	if need <= 0 {
		return now
	}

	return now + (cur.NextPoint - now) + (need-1)*rateMs
}
