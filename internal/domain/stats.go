package domain

// DownloadStats is a snapshot of the download counters.
// Total always equals AIOptimized + Traditional.
type DownloadStats struct {
	Total       int64 `json:"total"`
	AIOptimized int64 `json:"aiOptimized"`
	Traditional int64 `json:"traditional"`
}

// Count returns the counter for v, or 0 for an invalid variant.
func (s DownloadStats) Count(v Variant) int64 {
	switch v {
	case VariantAIOptimized:
		return s.AIOptimized
	case VariantTraditional:
		return s.Traditional
	default:
		return 0
	}
}

// Consistent reports whether the total matches the per-variant breakdown.
func (s DownloadStats) Consistent() bool {
	return s.Total == s.AIOptimized+s.Traditional
}
