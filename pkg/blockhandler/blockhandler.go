package blockhandler

import (
	"math/big"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/log"
	"github.com/iotaledger/hive.go/runtime/event"
	"github.com/iotaledger/hive.go/runtime/syncutils"
	"github.com/iotaledger/zerostake/pkg/chain"
	"github.com/iotaledger/zerostake/pkg/model"
	"github.com/iotaledger/zerostake/pkg/spork"
	"github.com/iotaledger/zerostake/pkg/stake"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
	"github.com/iotaledger/zerostake/pkg/zerocoin/accumulator"
	"github.com/iotaledger/zerostake/pkg/zerocoin/mintledger"
)

var (
	ErrMissingStakeInput = ierrors.New("proof of stake block without stake input")
	ErrInvalidStakeInput = ierrors.New("invalid stake input")
	ErrTransparentStake  = ierrors.New("transparent stake inputs are disabled")
	ErrDuplicateSerial   = ierrors.New("serial revealed twice in block")
	ErrInvalidMintOutput = ierrors.New("invalid mint output")
	ErrNotTip            = ierrors.New("block is not the tip of the active chain")
	ErrBelowCheckpoint   = ierrors.New("block is covered by a checkpoint")
)

// Ingest is the entry point for blocks and sporks received from the network.
type Ingest interface {
	ConnectBlock(block *Block) error
	DisconnectBlock(block *Block) error
	ProcessSporkMessage(message *spork.Message) (spork.Verdict, error)
}

// Accumulator is the part of the accumulator store that follows the active chain.
type Accumulator interface {
	AccumulatorParameters() *zerocoin.AccumulatorParams
	AddMint(coin *zerocoin.PublicCoin, height model.Height) error
	MemberHeight(commitment *big.Int) (model.Height, error)
	Checkpoint(height model.Height) error
	LatestCheckpointHeight() (model.Height, error)
	Rollback(height model.Height) error
}

// SerialIndex records the serials revealed on chain.
type SerialIndex interface {
	AddSpend(serialHash model.Identifier, txID model.Identifier, height model.Height) error
	RemoveSpend(serialHash model.Identifier) error
}

// MintLedger is the wallet's record of its own mints.
type MintLedger interface {
	MintBySerialHash(serialHash model.Identifier) (*zerocoin.Mint, error)
	ConfirmMint(commitmentID model.Identifier, height model.Height) error
	MarkSpentBatch(serialHashes []model.Identifier) error
}

// CoinSpendValidator checks coin spends before they are accepted into a block.
type CoinSpendValidator interface {
	ValidateCoinSpend(coinSpend *zerocoin.CoinSpend) error
}

// StakeValidator checks the proof of stake of blocks and tracks used stake inputs.
type StakeValidator interface {
	CheckProofOfStake(block *chain.BlockIndex, input stake.Input) (model.Identifier, error)
	ConnectBlock(block *chain.BlockIndex, input stake.Input) error
	DisconnectBlock(input stake.Input)
}

// Sporks provides the network wide switches and processes spork messages.
type Sporks interface {
	IsActive(id spork.ID) bool
	ProcessSpork(message *spork.Message) (spork.Verdict, error)
}

// Events contains the events of the block handler.
type Events struct {
	BlockConnected    *event.Event1[*Block]
	BlockDisconnected *event.Event1[*Block]
	BlockRejected     *event.Event2[*Block, error]
}

func NewEvents() *Events {
	return &Events{
		BlockConnected:    event.New1[*Block](),
		BlockDisconnected: event.New1[*Block](),
		BlockRejected:     event.New2[*Block, error](),
	}
}

// BlockHandler validates blocks against the shielded state and applies them to the accumulator, the
// serial index, the mint ledger and the chain index.
type BlockHandler struct {
	Events *Events

	chainIndex  *chain.Index
	params      *zerocoin.Parameters
	checkpoints Accumulator
	serials     SerialIndex
	ledger      MintLedger
	coinSpends  CoinSpendValidator
	stakes      StakeValidator
	sporks      Sporks

	mutex syncutils.Mutex

	log.Logger
}

func New(logger log.Logger, chainIndex *chain.Index, params *zerocoin.Parameters, checkpoints Accumulator, serials SerialIndex, ledger MintLedger, coinSpends CoinSpendValidator, stakes StakeValidator, sporks Sporks) *BlockHandler {
	return &BlockHandler{
		Events:      NewEvents(),
		chainIndex:  chainIndex,
		params:      params,
		checkpoints: checkpoints,
		serials:     serials,
		ledger:      ledger,
		coinSpends:  coinSpends,
		stakes:      stakes,
		sporks:      sporks,
		Logger:      logger,
	}
}

// ConnectBlock validates a block on top of the tip and applies it. A rejected block leaves all state
// untouched.
func (h *BlockHandler) ConnectBlock(block *Block) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	spends, mints, err := h.validateBlock(block)
	if err != nil {
		h.LogDebug("rejected block", "block", block.Index, "err", err)
		h.Events.BlockRejected.Trigger(block, err)

		return err
	}

	if err := h.applyBlock(block, spends, mints); err != nil {
		h.LogError("failed to apply block", "block", block.Index, "err", err)

		return ierrors.Wrapf(err, "failed to apply %s", block.Index)
	}

	h.LogDebug("connected block", "block", block.Index, "spends", len(spends), "mints", len(mints))
	h.Events.BlockConnected.Trigger(block)

	return nil
}

// DisconnectBlock reverts the tip. Blocks at or below the latest checkpoint are final.
func (h *BlockHandler) DisconnectBlock(block *Block) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	tip := h.chainIndex.Tip()
	if tip == nil || tip.ID != block.Index.ID {
		return ierrors.Wrapf(ErrNotTip, "%s", block.Index)
	}

	latest, err := h.checkpoints.LatestCheckpointHeight()
	if err != nil {
		return err
	}
	if block.Index.Height <= latest {
		return ierrors.Wrapf(ErrBelowCheckpoint, "%s is covered by checkpoint %d", block.Index, latest)
	}

	spends, err := block.coinSpends()
	if err != nil {
		return err
	}

	mints, err := block.mintOutputs()
	if err != nil {
		return err
	}

	if err := h.checkpoints.Rollback(block.Index.Height - 1); err != nil {
		return ierrors.Wrap(err, "failed to roll back accumulator")
	}

	for _, revealed := range spends {
		if err := h.serials.RemoveSpend(revealed.coinSpend.SerialHash()); err != nil {
			return ierrors.Wrap(err, "failed to remove serial")
		}
	}

	for _, mint := range mints {
		if err := h.ledger.ConfirmMint(zerocoin.CommitmentID(mint.coin.Value), 0); err != nil && !ierrors.Is(err, mintledger.ErrUnknownCommitment) {
			return ierrors.Wrap(err, "failed to unconfirm mint")
		}
	}

	if block.Index.ProofOfStake {
		h.stakes.DisconnectBlock(block.StakeInput)
	}

	if _, err := h.chainIndex.RemoveTip(); err != nil {
		return err
	}

	h.LogDebug("disconnected block", "block", block.Index)
	h.Events.BlockDisconnected.Trigger(block)

	return nil
}

// ProcessSporkMessage hands a spork message received from a peer to the spork manager.
func (h *BlockHandler) ProcessSporkMessage(message *spork.Message) (spork.Verdict, error) {
	verdict, err := h.sporks.ProcessSpork(message)
	if err != nil {
		h.LogError("failed to process spork", "spork", message, "verdict", verdict, "err", err)

		return verdict, err
	}

	h.LogDebug("processed spork", "spork", message, "verdict", verdict)

	return verdict, nil
}

func (h *BlockHandler) validateBlock(block *Block) ([]*revealedSerial, []*mintOutput, error) {
	if tip := h.chainIndex.Tip(); tip != nil {
		if block.Index.PrevID != tip.ID || block.Index.Height != tip.Height+1 {
			return nil, nil, ierrors.Wrapf(chain.ErrNotConnecting, "%s on top of %s", block.Index, tip)
		}
	}

	if err := h.validateStake(block); err != nil {
		return nil, nil, err
	}

	spends, err := block.coinSpends()
	if err != nil {
		return nil, nil, err
	}

	revealed := make(map[model.Identifier]struct{}, len(spends))
	for _, revealedSpend := range spends {
		serialHash := revealedSpend.coinSpend.SerialHash()
		if _, exists := revealed[serialHash]; exists {
			return nil, nil, ierrors.Wrapf(ErrDuplicateSerial, "serial %s", serialHash.Alias())
		}
		revealed[serialHash] = struct{}{}

		if err := h.coinSpends.ValidateCoinSpend(revealedSpend.coinSpend); err != nil {
			return nil, nil, ierrors.Wrapf(err, "coin spend in %s", revealedSpend.txID.Alias())
		}
	}

	mints, err := block.mintOutputs()
	if err != nil {
		return nil, nil, err
	}

	created := make(map[model.Identifier]struct{}, len(mints))
	for _, mint := range mints {
		if err := h.checkpoints.AccumulatorParameters().ValidateCommitment(mint.coin.Value); err != nil {
			return nil, nil, ierrors.Join(ErrInvalidMintOutput, err)
		}

		id := zerocoin.CommitmentID(mint.coin.Value)
		if _, exists := created[id]; exists {
			return nil, nil, ierrors.Wrapf(ErrInvalidMintOutput, "commitment %s minted twice", id.Alias())
		}
		created[id] = struct{}{}

		if _, err := h.checkpoints.MemberHeight(mint.coin.Value); err == nil {
			return nil, nil, ierrors.Wrapf(ErrInvalidMintOutput, "commitment %s is already an accumulator member", id.Alias())
		} else if !ierrors.Is(err, accumulator.ErrUnknownMember) {
			return nil, nil, err
		}
	}

	return spends, mints, nil
}

func (h *BlockHandler) validateStake(block *Block) error {
	if !block.Index.ProofOfStake {
		if block.StakeInput != nil {
			return ierrors.Wrap(ErrInvalidStakeInput, "proof of work block with stake input")
		}

		return nil
	}

	if block.StakeInput == nil {
		return ErrMissingStakeInput
	}

	if !block.StakeInput.IsShielded() && h.sporks.IsActive(spork.IDStakeRequireShieldedInputs) {
		return ErrTransparentStake
	}

	if _, err := h.stakes.CheckProofOfStake(block.Index, block.StakeInput); err != nil {
		return ierrors.Join(ErrInvalidStakeInput, err)
	}

	return nil
}

// applyBlock writes a validated block. The stores are updated one after another, a failure in between
// is reported and leaves the node to be resynced.
func (h *BlockHandler) applyBlock(block *Block, spends []*revealedSerial, mints []*mintOutput) error {
	height := block.Index.Height

	ownedSerials := make([]model.Identifier, 0)
	for _, revealed := range spends {
		serialHash := revealed.coinSpend.SerialHash()
		if err := h.serials.AddSpend(serialHash, revealed.txID, height); err != nil {
			return ierrors.Wrap(err, "failed to index serial")
		}

		if _, err := h.ledger.MintBySerialHash(serialHash); err == nil {
			ownedSerials = append(ownedSerials, serialHash)
		} else if !ierrors.Is(err, mintledger.ErrUnknownSerial) {
			return err
		}
	}

	if len(ownedSerials) != 0 {
		if err := h.ledger.MarkSpentBatch(ownedSerials); err != nil {
			return ierrors.Wrap(err, "failed to mark own mints spent")
		}
	}

	for _, mint := range mints {
		if err := h.checkpoints.AddMint(mint.coin, height); err != nil {
			return ierrors.Wrap(err, "failed to accumulate mint")
		}

		if err := h.ledger.ConfirmMint(zerocoin.CommitmentID(mint.coin.Value), height); err != nil && !ierrors.Is(err, mintledger.ErrUnknownCommitment) {
			return ierrors.Wrap(err, "failed to confirm own mint")
		}
	}

	if height != 0 && h.params.CheckpointInterval != 0 && height%h.params.CheckpointInterval == 0 {
		if err := h.checkpoints.Checkpoint(height); err != nil {
			return ierrors.Wrap(err, "failed to create checkpoint")
		}

		h.LogDebug("created checkpoint", "height", height)
	}

	if block.Index.ProofOfStake {
		if err := h.stakes.ConnectBlock(block.Index, block.StakeInput); err != nil {
			return err
		}
	}

	return h.chainIndex.AddBlock(block.Index)
}

var _ Ingest = &BlockHandler{}
