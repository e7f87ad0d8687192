package zerocoin

import (
	"github.com/iotaledger/hive.go/runtime/options"
	"github.com/iotaledger/zerostake/pkg/model"
)

const (
	// CoinVersionV1 coins predate the public key coin format and must be spent with full security.
	CoinVersionV1 uint8 = 1
	// CoinVersionPubKey is the first coin version that can be spent at lower security levels.
	CoinVersionPubKey uint8 = 2
	// CurrentCoinVersion is the version of newly minted coins.
	CurrentCoinVersion = CoinVersionPubKey

	// MaxSecurityLevel accumulates the witness up to the latest checkpoint.
	MaxSecurityLevel = 100
)

// Parameters contains the consensus constants of the shielded subsystem.
type Parameters struct {
	// MaxSpendsPerTransaction is the maximum number of coin spends in a single transaction.
	MaxSpendsPerTransaction int
	// MintRequiredConfirmations is the depth a mint needs before it counts as confirmed.
	MintRequiredConfirmations model.Height
	// CheckpointInterval is the distance in blocks between two accumulator checkpoints.
	CheckpointInterval model.Height
	// MaxCheckpointAge is the maximum depth of a checkpoint that is still accepted for spends.
	MaxCheckpointAge model.Height
	// StakeMinDepth is the depth a coin needs before it is eligible for staking.
	StakeMinDepth model.Height
	// StakeModifierInterval is the time in seconds that has to pass after the source block of a stake
	// input until the stake modifier used for its kernel is selected.
	StakeModifierInterval int64

	maturity map[Denomination]model.Height
}

// NewParameters creates the default parameters.
func NewParameters(opts ...options.Option[Parameters]) *Parameters {
	return options.Apply(&Parameters{
		MaxSpendsPerTransaction:   7,
		MintRequiredConfirmations: 20,
		CheckpointInterval:        10,
		MaxCheckpointAge:          10_000,
		StakeMinDepth:             200,
		StakeModifierInterval:     60 * 60,
		maturity:                  make(map[Denomination]model.Height),
	}, opts)
}

// Maturity returns the depth a mint of the given denomination needs before it is mature.
// Denominations without an explicit setting need two checkpoints on top of the required confirmations.
func (p *Parameters) Maturity(denomination Denomination) model.Height {
	if maturity, exists := p.maturity[denomination]; exists {
		return maturity
	}

	return p.MintRequiredConfirmations + 2*p.CheckpointInterval
}

// RequiresFullSecurity returns whether coins of the given version can only be spent at MaxSecurityLevel.
func (p *Parameters) RequiresFullSecurity(version uint8) bool {
	return version < CoinVersionPubKey
}

func WithMaxSpendsPerTransaction(maxSpends int) options.Option[Parameters] {
	return func(p *Parameters) {
		p.MaxSpendsPerTransaction = maxSpends
	}
}

func WithMintRequiredConfirmations(confirmations model.Height) options.Option[Parameters] {
	return func(p *Parameters) {
		p.MintRequiredConfirmations = confirmations
	}
}

func WithCheckpointInterval(interval model.Height) options.Option[Parameters] {
	return func(p *Parameters) {
		p.CheckpointInterval = interval
	}
}

func WithMaxCheckpointAge(age model.Height) options.Option[Parameters] {
	return func(p *Parameters) {
		p.MaxCheckpointAge = age
	}
}

func WithStakeMinDepth(depth model.Height) options.Option[Parameters] {
	return func(p *Parameters) {
		p.StakeMinDepth = depth
	}
}

func WithStakeModifierInterval(seconds int64) options.Option[Parameters] {
	return func(p *Parameters) {
		p.StakeModifierInterval = seconds
	}
}

// WithMaturity overrides the maturity depth of a single denomination.
func WithMaturity(denomination Denomination, depth model.Height) options.Option[Parameters] {
	return func(p *Parameters) {
		p.maturity[denomination] = depth
	}
}
