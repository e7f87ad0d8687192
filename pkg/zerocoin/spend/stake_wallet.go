package spend

import (
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/zerostake/pkg/model"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
)

// StakeWallet creates the shielded parts of coinstake transactions.
type StakeWallet struct {
	engine *Engine
}

// NewStakeWallet creates a stake wallet that spends coins through the given engine.
func NewStakeWallet(engine *Engine) *StakeWallet {
	return &StakeWallet{
		engine: engine,
	}
}

func (s *StakeWallet) NewAddress() (model.Address, error) {
	return s.engine.wallet.NewAddress()
}

// CreateStakeSpend spends a mint against the checkpoint its stake kernel was computed from. Stake
// spends always use the maximum security level.
func (s *StakeWallet) CreateStakeSpend(mint *zerocoin.Mint, checkpointHeight model.Height, txOutHash model.Identifier) (*zerocoin.CoinSpend, error) {
	if s.engine.gate.ShieldedMaintenance() {
		return nil, ErrMaintenanceMode
	}

	coinSpend, _, err := s.engine.coinSpendAt(mint, checkpointHeight, zerocoin.MaxSecurityLevel, txOutHash)
	if err != nil {
		return nil, ierrors.Wrapf(err, "failed to spend coin %s as stake", mint.ID().Alias())
	}

	spent, err := s.engine.serials.IsSpent(mint.SerialHash)
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to check serial")
	}
	if spent {
		return nil, ierrors.Wrapf(ErrSerialSpent, "coin %s", mint.ID().Alias())
	}

	if err := s.engine.verifier.Verify(coinSpendRequest(coinSpend)); err != nil {
		return nil, err
	}

	return coinSpend, nil
}

// CreateMintOutputs mints total into new coins, the part below one coin is paid to a fresh address.
// The mints are recorded unconfirmed.
func (s *StakeWallet) CreateMintOutputs(total int64) ([]*model.TxOut, error) {
	if total <= 0 {
		return nil, ierrors.Wrapf(zerocoin.ErrInvalidAmount, "cannot mint stake reward of %d", total)
	}

	var outputs []*model.TxOut
	if total >= zerocoin.Coin {
		denominations, err := zerocoin.DenominationsForAmount(total / zerocoin.Coin)
		if err != nil {
			return nil, err
		}

		mintOuts, mints, err := mintOutputs(denominations)
		if err != nil {
			return nil, ierrors.Wrap(err, "failed to generate coins")
		}

		for _, mint := range mints {
			if err := s.engine.ledger.RecordMint(mint); err != nil {
				return nil, ierrors.Wrapf(err, "failed to record stake mint %s", mint.ID().Alias())
			}
		}

		outputs = mintOuts
	}

	if remainder := total % zerocoin.Coin; remainder > 0 {
		address, err := s.engine.wallet.NewAddress()
		if err != nil {
			return nil, ierrors.Wrap(err, "failed to create address for stake remainder")
		}

		outputs = append(outputs, &model.TxOut{Value: remainder, Address: address})
	}

	return outputs, nil
}
