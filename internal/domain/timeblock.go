package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeBlock is one of six fixed 4-hour windows in the reference timezone.
type TimeBlock string

// The six time blocks, labelled by start and end hour.
const (
	Block00to04 TimeBlock = "00-04"
	Block04to08 TimeBlock = "04-08"
	Block08to12 TimeBlock = "08-12"
	Block12to16 TimeBlock = "12-16"
	Block16to20 TimeBlock = "16-20"
	Block20to24 TimeBlock = "20-24"
)

// AllTimeBlocks lists every block in chronological order.
var AllTimeBlocks = []TimeBlock{
	Block00to04,
	Block04to08,
	Block08to12,
	Block12to16,
	Block16to20,
	Block20to24,
}

// ParseTimeBlock validates s as a block label.
func ParseTimeBlock(s string) (TimeBlock, error) {
	b := TimeBlock(strings.TrimSpace(s))
	if !b.Valid() {
		return "", fmt.Errorf("unknown time block %q", s)
	}
	return b, nil
}

// Valid reports whether b is one of the six block labels.
func (b TimeBlock) Valid() bool {
	for _, known := range AllTimeBlocks {
		if b == known {
			return true
		}
	}
	return false
}

// Hours returns the start and end hour of the block. End may be 24.
func (b TimeBlock) Hours() (start, end int) {
	parts := strings.SplitN(string(b), "-", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	start, _ = strconv.Atoi(parts[0])
	end, _ = strconv.Atoi(parts[1])
	return start, end
}

// BlockStats is the historical viewer/streamer ratio for one block.
type BlockStats struct {
	AvgRatio    float64 `json:"avg_ratio"`
	SampleCount int     `json:"sample_count"`
}

// BlockStatus is the qualitative recommendation for a block.
type BlockStatus string

// Block status values.
const (
	StatusGood    BlockStatus = "good"
	StatusOK      BlockStatus = "ok"
	StatusAvoid   BlockStatus = "avoid"
	StatusUnknown BlockStatus = "unknown"
)

// Valid reports whether s is a known status.
func (s BlockStatus) Valid() bool {
	switch s {
	case StatusGood, StatusOK, StatusAvoid, StatusUnknown:
		return true
	default:
		return false
	}
}
