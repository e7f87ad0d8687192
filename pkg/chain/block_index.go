package chain

import (
	"fmt"

	"github.com/iotaledger/zerostake/pkg/model"
)

// BlockIndex is the consensus relevant header data of a block.
type BlockIndex struct {
	Height model.Height
	ID     model.Identifier
	PrevID model.Identifier
	// Time is the block timestamp in unix seconds.
	Time int64
	// Bits is the compact difficulty target.
	Bits uint32
	// StakeModifier is the modifier that was in effect when the block was created.
	StakeModifier uint64
	// ProofOfStake marks blocks that were created by staking.
	ProofOfStake bool
}

func (b *BlockIndex) String() string {
	return fmt.Sprintf("BlockIndex(height=%d, id=%s, time=%d)", b.Height, b.ID.Alias(), b.Time)
}
