package chain

import (
	"time"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/runtime/event"
	"github.com/iotaledger/hive.go/runtime/syncutils"
	"github.com/iotaledger/zerostake/pkg/model"
)

// ErrNotConnecting is returned if a block does not extend the current tip.
var ErrNotConnecting = ierrors.New("block does not connect to the tip")

// Events contains the events of the chain index.
type Events struct {
	TipChanged *event.Event1[*BlockIndex]
}

// NewEvents creates the chain index events.
func NewEvents() *Events {
	return &Events{
		TipChanged: event.New1[*BlockIndex](),
	}
}

// Index is an in-memory View of the active chain.
type Index struct {
	Events *Events

	blocks     []*BlockIndex
	blocksByID map[model.Identifier]*BlockIndex
	timeOffset time.Duration
	now        func() time.Time
	mutex      syncutils.RWMutex
}

func NewIndex() *Index {
	return &Index{
		Events:     NewEvents(),
		blocksByID: make(map[model.Identifier]*BlockIndex),
		now:        time.Now,
	}
}

// AddBlock appends a block to the active chain. The first block is the genesis block and may have any height.
func (i *Index) AddBlock(block *BlockIndex) error {
	if err := i.addBlock(block); err != nil {
		return err
	}

	i.Events.TipChanged.Trigger(block)

	return nil
}

func (i *Index) addBlock(block *BlockIndex) error {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	if len(i.blocks) != 0 {
		tip := i.blocks[len(i.blocks)-1]
		if block.PrevID != tip.ID || block.Height != tip.Height+1 {
			return ierrors.Wrapf(ErrNotConnecting, "%s on top of %s", block, tip)
		}
	}

	i.blocks = append(i.blocks, block)
	i.blocksByID[block.ID] = block

	return nil
}

// RemoveTip disconnects the tip of the active chain.
func (i *Index) RemoveTip() (*BlockIndex, error) {
	removed, newTip, err := i.removeTip()
	if err != nil {
		return nil, err
	}

	if newTip != nil {
		i.Events.TipChanged.Trigger(newTip)
	}

	return removed, nil
}

func (i *Index) removeTip() (removed *BlockIndex, newTip *BlockIndex, err error) {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	if len(i.blocks) == 0 {
		return nil, nil, ierrors.Wrap(ErrBlockNotFound, "chain is empty")
	}

	removed = i.blocks[len(i.blocks)-1]
	i.blocks = i.blocks[:len(i.blocks)-1]
	delete(i.blocksByID, removed.ID)

	if len(i.blocks) != 0 {
		newTip = i.blocks[len(i.blocks)-1]
	}

	return removed, newTip, nil
}

func (i *Index) Tip() *BlockIndex {
	i.mutex.RLock()
	defer i.mutex.RUnlock()

	if len(i.blocks) == 0 {
		return nil
	}

	return i.blocks[len(i.blocks)-1]
}

func (i *Index) BlockByHeight(height model.Height) (*BlockIndex, error) {
	i.mutex.RLock()
	defer i.mutex.RUnlock()

	return i.blockByHeightWithoutLocking(height)
}

func (i *Index) blockByHeightWithoutLocking(height model.Height) (*BlockIndex, error) {
	if len(i.blocks) == 0 || height < i.blocks[0].Height {
		return nil, ierrors.Wrapf(ErrBlockNotFound, "height %d", height)
	}

	offset := int(height - i.blocks[0].Height)
	if offset >= len(i.blocks) {
		return nil, ierrors.Wrapf(ErrBlockNotFound, "height %d", height)
	}

	return i.blocks[offset], nil
}

func (i *Index) BlockByID(id model.Identifier) (*BlockIndex, error) {
	i.mutex.RLock()
	defer i.mutex.RUnlock()

	block, exists := i.blocksByID[id]
	if !exists {
		return nil, ierrors.Wrapf(ErrBlockNotFound, "id %s", id.Alias())
	}

	return block, nil
}

func (i *Index) Next(block *BlockIndex) (*BlockIndex, error) {
	i.mutex.RLock()
	defer i.mutex.RUnlock()

	if _, exists := i.blocksByID[block.ID]; !exists {
		return nil, ierrors.Wrapf(ErrBlockNotFound, "%s is not part of the active chain", block)
	}

	return i.blockByHeightWithoutLocking(block.Height + 1)
}

// SetTimeOffset sets the median offset of the peer clocks to the local clock.
func (i *Index) SetTimeOffset(offset time.Duration) {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	i.timeOffset = offset
}

// SetClock replaces the local clock.
func (i *Index) SetClock(now func() time.Time) {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	i.now = now
}

func (i *Index) AdjustedTime() int64 {
	i.mutex.RLock()
	defer i.mutex.RUnlock()

	return i.now().Add(i.timeOffset).Unix()
}

var _ View = &Index{}
