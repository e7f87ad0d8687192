package spend

import (
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/zerostake/pkg/model"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
)

// SerialChecker tells whether a serial was already revealed on chain.
type SerialChecker interface {
	IsSpent(serialHash model.Identifier) (bool, error)
}

// CoinSpendValidator checks coin spends contained in blocks.
type CoinSpendValidator struct {
	gate     MaintenanceGate
	serials  SerialChecker
	verifier WitnessVerifier
}

func NewCoinSpendValidator(gate MaintenanceGate, serials SerialChecker, verifier WitnessVerifier) *CoinSpendValidator {
	return &CoinSpendValidator{
		gate:     gate,
		serials:  serials,
		verifier: verifier,
	}
}

// ValidateCoinSpend returns nil if the coin spend may be included in a block.
func (v *CoinSpendValidator) ValidateCoinSpend(coinSpend *zerocoin.CoinSpend) error {
	if v.gate.ShieldedMaintenance() {
		return ErrMaintenanceMode
	}

	if !coinSpend.Denomination.IsValid() {
		return ierrors.Wrapf(zerocoin.ErrInvalidDenomination, "coin spend with denomination tag %d", coinSpend.Denomination)
	}

	if coinSpend.Serial == nil || coinSpend.Serial.Sign() <= 0 {
		return ierrors.New("coin spend without serial")
	}

	if coinSpend.SecurityLevel < zerocoin.MaxSecurityLevel && coinSpend.Version < zerocoin.CoinVersionPubKey {
		return ierrors.Wrapf(ErrVersionSecurityMismatch, "coin version %d spent at security level %d", coinSpend.Version, coinSpend.SecurityLevel)
	}

	spent, err := v.serials.IsSpent(coinSpend.SerialHash())
	if err != nil {
		return ierrors.Wrap(err, "failed to check serial")
	}
	if spent {
		return ierrors.Wrapf(ErrSerialSpent, "serial %s", coinSpend.SerialHash().Alias())
	}

	return v.verifier.Verify(coinSpendRequest(coinSpend))
}
