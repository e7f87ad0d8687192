package shielded

import (
	"sync/atomic"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/iotaledger/hive.go/ds/shrinkingmap"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/runtime/event"
	"github.com/iotaledger/zerostake/pkg/model"
	"github.com/iotaledger/zerostake/pkg/zerocoin/spend"
)

// WalletEvents contains the events of the node wallet.
type WalletEvents struct {
	// TransactionCommitted is triggered for every transaction that is handed over for relay.
	TransactionCommitted *event.Event1[*spend.Transaction]
}

// Wallet keeps the keys of the addresses it handed out in memory and hands committed transactions over
// to the relay through its events.
type Wallet struct {
	Events *WalletEvents

	keys   *shrinkingmap.ShrinkingMap[model.Address, *secp256k1.PrivateKey]
	locked atomic.Bool
}

func NewWallet(locked bool) *Wallet {
	w := &Wallet{
		Events: &WalletEvents{
			TransactionCommitted: event.New1[*spend.Transaction](),
		},
		keys: shrinkingmap.New[model.Address, *secp256k1.PrivateKey](),
	}
	w.locked.Store(locked)

	return w
}

func (w *Wallet) IsLocked() bool {
	return w.locked.Load()
}

func (w *Wallet) Lock() {
	w.locked.Store(true)
}

func (w *Wallet) Unlock() {
	w.locked.Store(false)
}

// NewAddress creates a new key and returns the hash of its public key as address.
func (w *Wallet) NewAddress() (model.Address, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return "", ierrors.Wrap(err, "failed to generate key")
	}

	address := model.Address(model.IdentifierFromData(key.PubKey().SerializeCompressed()).String())
	w.keys.Set(address, key)

	return address, nil
}

// Owns returns whether the address was created by the wallet.
func (w *Wallet) Owns(address model.Address) bool {
	return w.keys.Has(address)
}

func (w *Wallet) CommitTransaction(transaction *spend.Transaction) error {
	if w.IsLocked() {
		return spend.ErrWalletLocked
	}

	w.Events.TransactionCommitted.Trigger(transaction)

	return nil
}
