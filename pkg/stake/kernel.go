package stake

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/zerostake/pkg/chain"
	"github.com/iotaledger/zerostake/pkg/model"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
)

// KernelHash hashes the stake modifier, the source block time, the uniqueness key of the input and the
// time of the candidate block.
func KernelHash(modifier uint64, sourceTime int64, uniqueness []byte, candidateTime int64) model.Identifier {
	data := make([]byte, 0, 8+8+len(uniqueness)+8)
	data = binary.LittleEndian.AppendUint64(data, modifier)
	data = binary.LittleEndian.AppendUint64(data, uint64(sourceTime))
	data = append(data, uniqueness...)
	data = binary.LittleEndian.AppendUint64(data, uint64(candidateTime))

	return blake2b.Sum256(data)
}

// NextStakeModifier derives the modifier of the next block from the previous modifier and the hash of the
// block containing the selected kernel.
func NextStakeModifier(previous uint64, kernelBlockHash model.Identifier) uint64 {
	data := binary.LittleEndian.AppendUint64(make([]byte, 0, 8+model.IdentifierLength), previous)
	data = append(data, kernelBlockHash[:]...)

	hash := blake2b.Sum256(data)

	return binary.LittleEndian.Uint64(hash[:8])
}

// Kernel checks stake inputs against the active chain.
type Kernel struct {
	view   chain.View
	params *zerocoin.Parameters
}

func NewKernel(view chain.View, params *zerocoin.Parameters) *Kernel {
	return &Kernel{
		view:   view,
		params: params,
	}
}

func (k *Kernel) View() chain.View {
	return k.view
}

// Check returns the kernel hash of the input for a block with the given difficulty and time, or one of
// ErrNoSourceBlock, ErrImmatureInput and ErrKernelMismatch.
func (k *Kernel) Check(input Input, bits uint32, candidateTime int64) (model.Identifier, error) {
	from, err := input.IndexFrom(k.view)
	if err != nil {
		return model.EmptyIdentifier, err
	}

	if depth := from.Height.Depth(chain.TipHeight(k.view)); depth < k.params.StakeMinDepth {
		return model.EmptyIdentifier, ierrors.Wrapf(ErrImmatureInput, "depth %d below %d", depth, k.params.StakeMinDepth)
	}

	if candidateTime < from.Time {
		return model.EmptyIdentifier, ierrors.Wrapf(ErrKernelMismatch, "candidate time %d before source time %d", candidateTime, from.Time)
	}

	modifier, err := input.Modifier(k.view, k.params.StakeModifierInterval)
	if err != nil {
		return model.EmptyIdentifier, err
	}

	kernelHash := KernelHash(modifier, from.Time, input.Uniqueness(), candidateTime)
	if !MeetsTarget(kernelHash, bits, input.Value()) {
		return kernelHash, ErrKernelMismatch
	}

	return kernelHash, nil
}

// IsExpectedFailure reports whether err is one of the non-fatal outcomes of a kernel check.
func IsExpectedFailure(err error) bool {
	return ierrors.Is(err, ErrKernelMismatch) || ierrors.Is(err, ErrImmatureInput) || ierrors.Is(err, ErrNoSourceBlock)
}
