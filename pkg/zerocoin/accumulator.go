package zerocoin

import (
	"math/big"

	"github.com/iotaledger/hive.go/ierrors"
)

// rsa2048 is the RSA-2048 factoring challenge number. Its factorization is unknown, which makes it
// usable as a modulus without a trusted setup.
const rsa2048 = "25195908475657893494027183240048398571429282126204032027777137836043662020707595556264018525880784406918290641249515082189298559149176184502808489120072844992687392807287776735971418347270261896375014971824691165077613379859095700097330459748808428401797429100642458691817195118746121515172654632282216869987549182422433637259085141865462043576798423387184774447920739934236584823824281198163815010674810451660377306056201619676256133844143603833904414952634432190114657544454178424020924616515723350778707749817125772467962926386356373289912154831438167899885040445364023527381951378636564391212010397122822120720357"

// ErrInvalidCommitment is returned if a value can not be accumulated.
var ErrInvalidCommitment = ierrors.New("invalid coin commitment")

// AccumulatorParams are the public parameters of the RSA accumulator.
type AccumulatorParams struct {
	Modulus *big.Int
	Base    *big.Int
}

// DefaultAccumulatorParams uses the RSA-2048 challenge modulus and the base 961.
var DefaultAccumulatorParams = func() *AccumulatorParams {
	modulus, ok := new(big.Int).SetString(rsa2048, 10)
	if !ok {
		panic("failed to parse accumulator modulus")
	}

	return &AccumulatorParams{
		Modulus: modulus,
		Base:    big.NewInt(961),
	}
}()

// ValidateCommitment checks that a commitment is a prime in the range accepted by the accumulator.
func (p *AccumulatorParams) ValidateCommitment(commitment *big.Int) error {
	if commitment == nil || commitment.Sign() <= 0 || commitment.Cmp(p.Modulus) >= 0 {
		return ierrors.Wrap(ErrInvalidCommitment, "commitment out of range")
	}
	if !commitment.ProbablyPrime(20) {
		return ierrors.Wrap(ErrInvalidCommitment, "commitment is not prime")
	}

	return nil
}

// Accumulator aggregates coin commitments of a single denomination.
type Accumulator struct {
	params *AccumulatorParams
	value  *big.Int
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator(params *AccumulatorParams) *Accumulator {
	return &Accumulator{
		params: params,
		value:  new(big.Int).Set(params.Base),
	}
}

// AccumulatorFromValue restores an accumulator from a previously computed value.
func AccumulatorFromValue(params *AccumulatorParams, value *big.Int) *Accumulator {
	return &Accumulator{
		params: params,
		value:  new(big.Int).Set(value),
	}
}

// Accumulate adds a commitment to the accumulator.
func (a *Accumulator) Accumulate(commitment *big.Int) error {
	if err := a.params.ValidateCommitment(commitment); err != nil {
		return err
	}

	a.value.Exp(a.value, commitment, a.params.Modulus)

	return nil
}

// Value returns a copy of the current accumulator value.
func (a *Accumulator) Value() *big.Int {
	return new(big.Int).Set(a.value)
}

// Witness proves that a commitment is a member of an accumulator. It is the accumulation of all
// other members.
type Witness struct {
	params     *AccumulatorParams
	commitment *big.Int
	value      *big.Int
}

// NewWitness creates an empty witness for the given commitment.
func NewWitness(params *AccumulatorParams, commitment *big.Int) *Witness {
	return &Witness{
		params:     params,
		commitment: new(big.Int).Set(commitment),
		value:      new(big.Int).Set(params.Base),
	}
}

// WitnessFromValue restores a witness from its serialized value.
func WitnessFromValue(params *AccumulatorParams, commitment *big.Int, value *big.Int) *Witness {
	return &Witness{
		params:     params,
		commitment: new(big.Int).Set(commitment),
		value:      new(big.Int).Set(value),
	}
}

// AddElement accumulates another member into the witness. The witnessed commitment itself is skipped.
func (w *Witness) AddElement(commitment *big.Int) {
	if commitment.Cmp(w.commitment) == 0 {
		return
	}

	w.value.Exp(w.value, commitment, w.params.Modulus)
}

// Value returns a copy of the witness value.
func (w *Witness) Value() *big.Int {
	return new(big.Int).Set(w.value)
}

// VerifyWitness checks that the witnessed commitment is a member of the accumulator.
func (w *Witness) VerifyWitness(accumulator *big.Int) bool {
	return new(big.Int).Exp(w.value, w.commitment, w.params.Modulus).Cmp(accumulator) == 0
}
