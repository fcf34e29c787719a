package mining

import (
	"github.com/zzhertzmon/veil/accumulator"
	"github.com/zzhertzmon/veil/model/consensus"
	"github.com/zzhertzmon/veil/util"
)

// RefreshAccumulatorCheckpoint implements spec §4.3 step 14: on every
// 10th height, recompute the privacy-scheme accumulator checkpoint map;
// otherwise copy it forward from the previous block. Grounded on
// original_source/src/miner.cpp's CalculateAccumulatorCheckpoint call
// site, wired to the accumulator.Accumulator collaborator.
func RefreshAccumulatorCheckpoint(acc accumulator.Accumulator, height int32, previous map[uint32]util.Hash) (map[uint32]util.Hash, error) {
	if height%consensus.AccumulatorCheckpointInterval != 0 {
		return copyCheckpoints(previous), nil
	}
	checkpoints := copyCheckpoints(previous)
	if err := acc.CalculateCheckpoint(height, checkpoints); err != nil {
		return nil, err
	}
	return checkpoints, nil
}

func copyCheckpoints(src map[uint32]util.Hash) map[uint32]util.Hash {
	dst := make(map[uint32]util.Hash, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
