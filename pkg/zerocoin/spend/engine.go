package spend

import (
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/log"
	"github.com/iotaledger/hive.go/runtime/event"
	"github.com/iotaledger/hive.go/runtime/options"
	"github.com/iotaledger/hive.go/runtime/syncutils"
	"github.com/iotaledger/zerostake/pkg/model"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
	"github.com/iotaledger/zerostake/pkg/zerocoin/accumulator"
	"github.com/iotaledger/zerostake/pkg/zerocoin/mintledger"
)

// Wallet is the part of the wallet the spend engine depends on.
type Wallet interface {
	IsLocked() bool
	// NewAddress returns a fresh address of the wallet.
	NewAddress() (model.Address, error)
	// CommitTransaction adds the transaction to the wallet and relays it.
	CommitTransaction(transaction *Transaction) error
}

// WitnessVerifier checks accumulator membership of a coin.
type WitnessVerifier interface {
	Verify(req *accumulator.VerifyRequest) error
}

// MaintenanceGate tells whether shielded operations are disabled.
type MaintenanceGate interface {
	ShieldedMaintenance() bool
}

// Request describes a spend attempt.
type Request struct {
	// Amount is the value to send in base units.
	Amount        int64
	SecurityLevel int
	// SerialHashes selects the mints to spend explicitly instead of letting the engine choose.
	SerialHashes []model.Identifier
	// Destination receives the amount, a fresh wallet address is used if it is empty.
	Destination model.Address
	// MintChange mints the change into new shielded coins instead of a transparent output.
	MintChange     bool
	MinimizeChange bool
}

// Events contains the events of the spend engine.
type Events struct {
	SpendAttempted *event.Event1[*Receipt]
}

func NewEvents() *Events {
	return &Events{
		SpendAttempted: event.New1[*Receipt](),
	}
}

// Engine turns spend requests into verified coin spends.
type Engine struct {
	Events *Events

	ledger      *mintledger.Manager
	checkpoints *accumulator.Store
	serials     *accumulator.SerialIndex
	verifier    WitnessVerifier
	gate        MaintenanceGate
	wallet      Wallet
	params      *zerocoin.Parameters

	// spend attempts are serialized so two attempts never select the same mints
	mutex syncutils.Mutex

	optsMaxSpendsPerTransaction int

	log.Logger
}

func NewEngine(logger log.Logger, ledger *mintledger.Manager, checkpoints *accumulator.Store, serials *accumulator.SerialIndex, verifier WitnessVerifier, gate MaintenanceGate, wallet Wallet, opts ...options.Option[Engine]) *Engine {
	return options.Apply(&Engine{
		Events:                      NewEvents(),
		ledger:                      ledger,
		checkpoints:                 checkpoints,
		serials:                     serials,
		verifier:                    verifier,
		gate:                        gate,
		wallet:                      wallet,
		params:                      ledger.Parameters(),
		optsMaxSpendsPerTransaction: ledger.Parameters().MaxSpendsPerTransaction,
		Logger:                      logger,
	}, opts)
}

// Spend performs a spend attempt. All coin spends of the attempt are verified before the transaction is
// committed and the mints are marked spent, a failed attempt never changes the ledger.
func (e *Engine) Spend(req *Request) *Receipt {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	receipt := e.spend(req)
	if receipt.IsSuccess() {
		e.LogInfo("spend succeeded", "receipt", receipt)
	} else {
		e.LogDebug("spend failed", "receipt", receipt)
	}

	e.Events.SpendAttempted.Trigger(receipt)

	return receipt
}

func (e *Engine) spend(req *Request) *Receipt {
	builder := newReceiptBuilder()

	if e.gate.ShieldedMaintenance() {
		return builder.fail(StatusMaintenanceMode, "shielded spends are temporarily disabled for maintenance")
	}

	if e.wallet.IsLocked() {
		return builder.fail(StatusWalletLocked, "wallet is locked")
	}

	if req.Amount <= 0 {
		return builder.fail(StatusInvalidAmount, "invalid amount %d", req.Amount)
	}

	if req.SecurityLevel < 1 || req.SecurityLevel > zerocoin.MaxSecurityLevel {
		return builder.fail(StatusError, "security level %d out of range 1-%d", req.SecurityLevel, zerocoin.MaxSecurityLevel)
	}

	selected, receipt := e.selectMints(builder, req)
	if receipt != nil {
		return receipt
	}

	for _, mint := range selected {
		if e.params.RequiresFullSecurity(mint.Version) && req.SecurityLevel < zerocoin.MaxSecurityLevel {
			return builder.fail(StatusVersionSecurityMismatch, "coin version %d requires security level %d, requested %d", mint.Version, zerocoin.MaxSecurityLevel, req.SecurityLevel)
		}
	}

	builder.setNeededSpends(len(selected))
	if len(selected) > e.optsMaxSpendsPerTransaction {
		return builder.fail(StatusTooManySpendsNeeded, "%d coin spends needed, a transaction can hold at most %d, use higher denominations", len(selected), e.optsMaxSpendsPerTransaction)
	}

	outputs, changeMints, receipt := e.createOutputs(builder, req, selected.Value())
	if receipt != nil {
		return receipt
	}
	txOutHash := model.OutputsHash(outputs)

	coinSpends := make([]*zerocoin.CoinSpend, 0, len(selected))
	for _, mint := range selected {
		coinSpend, info, receipt := e.createCoinSpend(builder, mint, req.SecurityLevel, txOutHash)
		if receipt != nil {
			return receipt
		}

		coinSpends = append(coinSpends, coinSpend)
		builder.addSpend(info)
	}

	transaction := newTransaction(nil, coinSpends, outputs, changeMints, 0)
	if err := e.wallet.CommitTransaction(transaction); err != nil {
		e.LogError("failed to commit spend transaction", "tx", transaction.ID, "err", err)

		return builder.fail(StatusCommitFailed, "failed to commit transaction: %s", err)
	}

	serialHashes := make([]model.Identifier, len(selected))
	for i, mint := range selected {
		serialHashes[i] = mint.SerialHash
	}

	if err := e.ledger.ApplySpend(serialHashes, changeMints); err != nil {
		e.LogError("transaction committed but the ledger could not be updated", "tx", transaction.ID, "err", err)

		return builder.fail(StatusError, "transaction %s committed but the ledger update failed: %s", transaction.ID, err)
	}

	return builder.succeed(transaction)
}

func (e *Engine) selectMints(builder *receiptBuilder, req *Request) (mintledger.Mints, *Receipt) {
	if len(req.SerialHashes) == 0 {
		spendable, err := e.ledger.ListSpendable(e.params.MintRequiredConfirmations)
		if err != nil {
			return nil, builder.fail(StatusError, "failed to list spendable mints: %s", err)
		}

		selected := SelectMints(spendable, req.Amount, req.MinimizeChange)
		if selected == nil {
			return nil, builder.fail(StatusFundsProblems, "insufficient mature shielded funds, %d available for %d", spendable.Value(), req.Amount)
		}

		return selected, nil
	}

	tip, err := e.ledger.TipHeight()
	if err != nil {
		return nil, builder.fail(StatusError, "failed to load tip height: %s", err)
	}

	selected := make(mintledger.Mints, 0, len(req.SerialHashes))
	for _, serialHash := range req.SerialHashes {
		mint, err := e.ledger.MintBySerialHash(serialHash)
		if err != nil {
			if ierrors.Is(err, mintledger.ErrUnknownSerial) {
				return nil, builder.fail(StatusInvalidCoin, "unknown coin %s", serialHash.Alias())
			}

			return nil, builder.fail(StatusError, "failed to load coin %s: %s", serialHash.Alias(), err)
		}

		if mint.Spent {
			return nil, builder.fail(StatusSpentUsed, "coin %s is already spent", serialHash.Alias())
		}

		if !e.ledger.IsMintSpendable(mint, tip, e.params.MintRequiredConfirmations) {
			return nil, builder.fail(StatusInvalidCoin, "coin %s does not have %d confirmations", serialHash.Alias(), e.params.MintRequiredConfirmations)
		}

		selected = append(selected, mint)
	}

	if selected.Value() < req.Amount {
		return nil, builder.fail(StatusFundsProblems, "selected coins are worth %d, requested %d", selected.Value(), req.Amount)
	}

	return selected, nil
}

// createOutputs pays the amount to the destination and returns the change to the wallet.
func (e *Engine) createOutputs(builder *receiptBuilder, req *Request, selectedValue int64) ([]*model.TxOut, []*zerocoin.Mint, *Receipt) {
	destination := req.Destination
	if destination == "" {
		address, err := e.wallet.NewAddress()
		if err != nil {
			return nil, nil, builder.fail(StatusTransactionCreate, "failed to create destination address: %s", err)
		}
		destination = address
	}

	outputs := []*model.TxOut{{Value: req.Amount, Address: destination}}

	change := selectedValue - req.Amount
	var changeMints []*zerocoin.Mint
	if change >= zerocoin.Coin && req.MintChange {
		denominations, err := zerocoin.DenominationsForAmount(change / zerocoin.Coin)
		if err != nil {
			return nil, nil, builder.fail(StatusTransactionChange, "failed to split change: %s", err)
		}

		mintOuts, mints, err := mintOutputs(denominations)
		if err != nil {
			return nil, nil, builder.fail(StatusTransactionChange, "failed to mint change: %s", err)
		}

		outputs = append(outputs, mintOuts...)
		changeMints = mints
		change %= zerocoin.Coin
	}

	if change > 0 {
		address, err := e.wallet.NewAddress()
		if err != nil {
			return nil, nil, builder.fail(StatusTransactionChange, "failed to create change address: %s", err)
		}

		outputs = append(outputs, &model.TxOut{Value: change, Address: address})
	}

	return outputs, changeMints, nil
}

// createCoinSpend proves the membership of a mint and checks that its serial is unused.
func (e *Engine) createCoinSpend(builder *receiptBuilder, mint *zerocoin.Mint, securityLevel int, txOutHash model.Identifier) (*zerocoin.CoinSpend, *CoinSpendInfo, *Receipt) {
	coinSpend, checkpoint, err := e.proveMembership(mint, securityLevel, txOutHash)
	if err != nil {
		if ierrors.Is(err, mintledger.ErrUnknownCommitment) {
			return nil, nil, builder.fail(StatusInvalidCoin, "coin %s is missing its secret: %s", mint.ID().Alias(), err)
		}

		return nil, nil, builder.fail(StatusAccumulatorInitFailed, "failed to accumulate coin %s: %s", mint.ID().Alias(), err)
	}

	if err := e.verifier.Verify(coinSpendRequest(coinSpend)); err != nil {
		e.LogWarn("witness verification failed", "mint", mint.ID().Alias(), "err", err)

		return nil, nil, builder.fail(StatusInvalidWitness, "witness of coin %s is invalid: %s", mint.ID().Alias(), err)
	}

	spent, err := e.serials.IsSpent(mint.SerialHash)
	if err != nil {
		return nil, nil, builder.fail(StatusError, "failed to check serial of coin %s: %s", mint.ID().Alias(), err)
	}
	if spent {
		return nil, nil, builder.fail(StatusSpentUsed, "serial of coin %s is already spent on chain", mint.ID().Alias())
	}

	return coinSpend, &CoinSpendInfo{
		Denomination:     mint.Denomination,
		SerialHash:       mint.SerialHash,
		CheckpointHeight: checkpoint.Height,
		MintCount:        checkpoint.MemberCount,
	}, nil
}

func (e *Engine) proveMembership(mint *zerocoin.Mint, securityLevel int, txOutHash model.Identifier) (*zerocoin.CoinSpend, *accumulator.Checkpoint, error) {
	checkpoint, err := e.checkpoints.CheckpointForSpend(mint.Denomination, mint.Height, securityLevel)
	if err != nil {
		return nil, nil, err
	}

	return e.coinSpendAt(mint, checkpoint.Height, securityLevel, txOutHash)
}

func (e *Engine) coinSpendAt(mint *zerocoin.Mint, checkpointHeight model.Height, securityLevel int, txOutHash model.Identifier) (*zerocoin.CoinSpend, *accumulator.Checkpoint, error) {
	privateCoin, hasSecret := mint.PrivateCoin()
	if !hasSecret {
		return nil, nil, ierrors.Wrap(mintledger.ErrUnknownCommitment, "mint was recorded without its secret")
	}

	witness, checkpoint, err := e.checkpoints.Witness(mint.Commitment, mint.Denomination, checkpointHeight)
	if err != nil {
		return nil, nil, err
	}

	return &zerocoin.CoinSpend{
		Denomination:     mint.Denomination,
		Serial:           privateCoin.Serial,
		Randomness:       privateCoin.Randomness,
		Commitment:       privateCoin.PublicCoin.Value,
		CheckpointHeight: checkpoint.Height,
		Witness:          zerocoin.EncodeWitness(mint.Denomination, checkpoint.Height, witness),
		Version:          mint.Version,
		SecurityLevel:    securityLevel,
		MintCount:        checkpoint.MemberCount,
		TxOutHash:        txOutHash,
	}, checkpoint, nil
}

func coinSpendRequest(coinSpend *zerocoin.CoinSpend) *accumulator.VerifyRequest {
	return &accumulator.VerifyRequest{
		Commitment:       coinSpend.Commitment,
		Serial:           coinSpend.Serial,
		Randomness:       coinSpend.Randomness,
		Denomination:     coinSpend.Denomination,
		CheckpointHeight: coinSpend.CheckpointHeight,
		Witness:          coinSpend.Witness,
	}
}

// WithMaxSpendsPerTransaction overrides the maximum number of coin spends per transaction.
func WithMaxSpendsPerTransaction(maxSpends int) options.Option[Engine] {
	return func(e *Engine) {
		e.optsMaxSpendsPerTransaction = maxSpends
	}
}
