package spend

import (
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/log"
	"github.com/iotaledger/hive.go/runtime/syncutils"
	"github.com/iotaledger/zerostake/pkg/model"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
	"github.com/iotaledger/zerostake/pkg/zerocoin/mintledger"
)

// CoinControl restricts the transparent inputs a mint transaction may use.
type CoinControl struct {
	Inputs []model.OutPoint
}

// MintEngine converts transparent value into shielded coins.
type MintEngine struct {
	ledger *mintledger.Manager
	gate   MaintenanceGate
	wallet Wallet

	mutex syncutils.Mutex

	log.Logger
}

func NewMintEngine(logger log.Logger, ledger *mintledger.Manager, gate MaintenanceGate, wallet Wallet) *MintEngine {
	return &MintEngine{
		ledger: ledger,
		gate:   gate,
		wallet: wallet,
		Logger: logger,
	}
}

// Mint creates a transaction minting amount into the largest possible denominations. The part of the
// amount below one coin can not be minted and is left to the transaction as fee. The created mints
// are recorded unconfirmed once the wallet committed the transaction.
func (m *MintEngine) Mint(amount int64, coinControl *CoinControl) (*Transaction, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.gate.ShieldedMaintenance() {
		return nil, ErrMaintenanceMode
	}

	if m.wallet.IsLocked() {
		return nil, ErrWalletLocked
	}

	if amount <= 0 {
		return nil, ierrors.Wrapf(zerocoin.ErrInvalidAmount, "cannot mint %d", amount)
	}

	denominations, err := zerocoin.DenominationsForAmount(amount / zerocoin.Coin)
	if err != nil {
		return nil, err
	}

	outputs, mints, err := mintOutputs(denominations)
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to generate coins")
	}

	var inputs []model.OutPoint
	if coinControl != nil {
		inputs = coinControl.Inputs
	}

	transaction := newTransaction(inputs, nil, outputs, mints, amount%zerocoin.Coin)
	if err := m.wallet.CommitTransaction(transaction); err != nil {
		return nil, ierrors.Wrap(err, "failed to commit mint transaction")
	}

	for _, mint := range mints {
		if err := m.ledger.RecordMint(mint); err != nil {
			return nil, ierrors.Wrapf(err, "transaction %s committed but mint %s could not be recorded", transaction.ID, mint.ID().Alias())
		}
	}

	m.LogInfo("minted coins", "tx", transaction.ID, "mints", len(mints), "fee", transaction.Fee)

	return transaction, nil
}
