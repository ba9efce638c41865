package services

import (
	"testing"
)

func TestNextUnlockedCount(t *testing.T) {
	tests := []struct {
		name      string
		current   int
		postCount int
		want      int
	}{
		{"first unlock large region", 0, 25, 10},
		{"first unlock tiny region", 0, 3, 3},
		{"first unlock empty region", 0, 0, 0},
		{"second unlock", 10, 25, 20},
		{"caps at post count", 20, 25, 25},
		{"already fully unlocked", 25, 25, 25},
		{"exact step boundary", 10, 20, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextUnlockedCount(tt.current, tt.postCount); got != tt.want {
				t.Errorf("nextUnlockedCount(%d, %d) = %d, want %d",
					tt.current, tt.postCount, got, tt.want)
			}
		})
	}
}

func TestNextUnlockedCountMonotonic(t *testing.T) {
	// Repeated unlocks never decrease the window, whatever the post count.
	count := 0
	for _, postCount := range []int{25, 25, 17, 40, 40, 40} {
		next := nextUnlockedCount(count, postCount)
		if next < count {
			t.Fatalf("window shrank: %d -> %d (postCount %d)", count, next, postCount)
		}
		count = next
	}
}
