package timeblock

import "github.com/streamscoutapp/streamscout-server/internal/domain"

const okThreshold = 0.75

// Classification is the computed status of one block.
type Classification struct {
	Block  domain.TimeBlock   `json:"block"`
	Status domain.BlockStatus `json:"status"`
	IsBest bool               `json:"is_best"`
	Stats  *domain.BlockStats `json:"stats,omitempty"`
}

// Classify rates all six blocks in chronological order against the mean
// ratio of the blocks that are present. A missing block is always avoid.
// The best block is flagged but keeps its computed status.
func Classify(blocks map[domain.TimeBlock]domain.BlockStats, best domain.TimeBlock) []Classification {
	mean, _ := Mean(blocks)

	out := make([]Classification, 0, len(domain.AllTimeBlocks))
	for _, block := range domain.AllTimeBlocks {
		c := Classification{
			Block:  block,
			Status: domain.StatusAvoid,
			IsBest: block == best,
		}
		if stats, ok := blocks[block]; ok {
			c.Stats = &stats
			c.Status = Status(stats.AvgRatio, mean)
		}
		out = append(out, c)
	}
	return out
}

// Status rates a single ratio: good at or above the mean, ok at or above
// three quarters of it, otherwise avoid.
func Status(ratio, mean float64) domain.BlockStatus {
	switch {
	case ratio >= mean:
		return domain.StatusGood
	case ratio >= okThreshold*mean:
		return domain.StatusOK
	default:
		return domain.StatusAvoid
	}
}

// Mean averages avg_ratio over the known blocks present in the map.
// It reports false when no block is present.
func Mean(blocks map[domain.TimeBlock]domain.BlockStats) (float64, bool) {
	var sum float64
	var n int
	for _, block := range domain.AllTimeBlocks {
		if stats, ok := blocks[block]; ok {
			sum += stats.AvgRatio
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
