package accumulator

import (
	"math/big"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/zerostake/pkg/model"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
)

var (
	// ErrWitnessMismatch is returned if a witness does not prove membership in the referenced checkpoint.
	ErrWitnessMismatch = ierrors.New("witness mismatch")
	// ErrDenominationMismatch is returned if a witness was built for another denomination.
	ErrDenominationMismatch = ierrors.New("denomination mismatch")
)

// VerifyRequest is a membership claim of a commitment in a checkpoint, together with the opening that
// binds the revealed serial to the commitment.
type VerifyRequest struct {
	Commitment       *big.Int
	Serial           *big.Int
	Randomness       *big.Int
	Denomination     zerocoin.Denomination
	CheckpointHeight model.Height
	Witness          []byte
}

// Verifier checks accumulator witnesses against the locally known checkpoints. It never mutates state.
type Verifier struct {
	store     *Store
	tipHeight func() model.Height
}

func NewVerifier(store *Store, tipHeight func() model.Height) *Verifier {
	return &Verifier{
		store:     store,
		tipHeight: tipHeight,
	}
}

// Verify returns nil if the commitment is a member of the checkpoint and was derived from the serial.
func (v *Verifier) Verify(req *VerifyRequest) error {
	if !req.Denomination.IsValid() {
		return ierrors.Wrapf(ErrDenominationMismatch, "invalid denomination %d", req.Denomination)
	}

	if err := v.store.AccumulatorParameters().ValidateCommitment(req.Commitment); err != nil {
		return err
	}

	denomination, height, witness, err := zerocoin.DecodeWitness(v.store.AccumulatorParameters(), req.Commitment, req.Witness)
	if err != nil {
		return ierrors.Join(ErrWitnessMismatch, err)
	}

	if denomination != req.Denomination {
		return ierrors.Wrapf(ErrDenominationMismatch, "witness for %s used with %s", denomination, req.Denomination)
	}

	if height != req.CheckpointHeight {
		return ierrors.Wrapf(ErrWitnessMismatch, "witness accumulated to height %d, spend references %d", height, req.CheckpointHeight)
	}

	if age := req.CheckpointHeight.Depth(v.tipHeight()); age > v.store.Parameters().MaxCheckpointAge {
		return ierrors.Wrapf(ErrCheckpointTooOld, "checkpoint at height %d is %d blocks old", req.CheckpointHeight, age)
	}

	checkpoint, err := v.store.CheckpointAt(req.Denomination, req.CheckpointHeight)
	if err != nil {
		return err
	}

	if !witness.VerifyWitness(checkpoint.Value) {
		return ierrors.Wrapf(ErrWitnessMismatch, "commitment %s not in %s", zerocoin.CommitmentID(req.Commitment).Alias(), checkpoint)
	}

	if err := zerocoin.VerifyCommitment(req.Serial, req.Randomness, req.Commitment); err != nil {
		return ierrors.Wrapf(err, "commitment %s", zerocoin.CommitmentID(req.Commitment).Alias())
	}

	return nil
}
