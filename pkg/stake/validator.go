package stake

import (
	"math/big"

	"github.com/iotaledger/hive.go/ds/shrinkingmap"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/runtime/syncutils"
	"github.com/iotaledger/zerostake/pkg/chain"
	"github.com/iotaledger/zerostake/pkg/model"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
)

var (
	// ErrDuplicateStake is returned if an input already staked a block of the active chain.
	ErrDuplicateStake = ierrors.New("stake input was already used")
	// ErrCheckpointMismatch is returned if a staked coin is not proven against the first checkpoint after its mint.
	ErrCheckpointMismatch = ierrors.New("stake checkpoint does not match the mint height")
)

// MemberIndex resolves the height a commitment was accumulated at.
type MemberIndex interface {
	MemberHeight(commitment *big.Int) (model.Height, error)
}

// Validator checks the proof of stake of blocks and keeps the uniqueness keys of all inputs that
// staked connected blocks.
type Validator struct {
	kernel  *Kernel
	members MemberIndex
	seen    *shrinkingmap.ShrinkingMap[string, model.Height]
	mutex   syncutils.RWMutex
}

func NewValidator(kernel *Kernel, members MemberIndex) *Validator {
	return &Validator{
		kernel:  kernel,
		members: members,
		seen:    shrinkingmap.New[string, model.Height](),
	}
}

// CheckProofOfStake validates the kernel of a block staked by the given input.
func (v *Validator) CheckProofOfStake(block *chain.BlockIndex, input Input) (model.Identifier, error) {
	v.mutex.RLock()
	height, seen := v.seen.Get(string(input.Uniqueness()))
	v.mutex.RUnlock()

	if seen && height != block.Height {
		return model.EmptyIdentifier, ierrors.Wrapf(ErrDuplicateStake, "input staked block %d before", height)
	}

	if shielded, isShielded := input.(*ShieldedInput); isShielded && shielded.CoinSpend() != nil {
		if err := v.checkStakedCheckpoint(shielded.CoinSpend()); err != nil {
			return model.EmptyIdentifier, err
		}
	}

	return v.kernel.Check(input, block.Bits, block.Time)
}

// checkStakedCheckpoint pins the source block of a staked coin to the first checkpoint that contains it.
func (v *Validator) checkStakedCheckpoint(coinSpend *zerocoin.CoinSpend) error {
	mintHeight, err := v.members.MemberHeight(coinSpend.Commitment)
	if err != nil {
		return ierrors.Join(ErrNoSourceBlock, err)
	}

	if expected := FirstCheckpointHeight(mintHeight, v.kernel.params.CheckpointInterval); coinSpend.CheckpointHeight != expected {
		return ierrors.Wrapf(ErrCheckpointMismatch, "coin minted at %d stakes from checkpoint %d instead of %d", mintHeight, coinSpend.CheckpointHeight, expected)
	}

	return nil
}

// ConnectBlock records the input that staked a connected block.
func (v *Validator) ConnectBlock(block *chain.BlockIndex, input Input) error {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	key := string(input.Uniqueness())
	if height, seen := v.seen.Get(key); seen {
		return ierrors.Wrapf(ErrDuplicateStake, "input staked block %d before", height)
	}

	v.seen.Set(key, block.Height)

	return nil
}

// DisconnectBlock forgets the input of a disconnected block.
func (v *Validator) DisconnectBlock(input Input) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	v.seen.Delete(string(input.Uniqueness()))
}

// HasSeen returns whether the input already staked a connected block.
func (v *Validator) HasSeen(input Input) bool {
	v.mutex.RLock()
	defer v.mutex.RUnlock()

	return v.seen.Has(string(input.Uniqueness()))
}

// Size returns the number of tracked inputs.
func (v *Validator) Size() int {
	return v.seen.Size()
}
