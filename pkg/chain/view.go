package chain

import (
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/zerostake/pkg/model"
)

// ErrBlockNotFound is returned if a block is not part of the active chain.
var ErrBlockNotFound = ierrors.New("block not found")

// View is a read-only view on the active chain.
type View interface {
	// Tip returns the latest block of the active chain, nil if the chain is empty.
	Tip() *BlockIndex
	BlockByHeight(height model.Height) (*BlockIndex, error)
	BlockByID(id model.Identifier) (*BlockIndex, error)
	// Next returns the successor of the block in the active chain.
	Next(block *BlockIndex) (*BlockIndex, error)
	// AdjustedTime is the network adjusted current time in unix seconds.
	AdjustedTime() int64
}

// TipHeight returns the height of the tip, 0 for an empty chain.
func TipHeight(view View) model.Height {
	if tip := view.Tip(); tip != nil {
		return tip.Height
	}

	return 0
}
