package services

import "fmt"

// NextID returns the first "{prefix}-NNNN" not present in existing, scanning suffixes
// upward from 1. Gaps left by deletions are reused. Not safe for concurrent allocation.
func NextID(prefix string, existing []string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		taken[id] = struct{}{}
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s-%04d", prefix, n)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}
