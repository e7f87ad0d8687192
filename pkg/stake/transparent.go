package stake

import (
	"github.com/iotaledger/zerostake/pkg/chain"
	"github.com/iotaledger/zerostake/pkg/model"
)

// TransparentInput stakes an unspent transaction output.
type TransparentInput struct {
	OutPoint model.OutPoint
	Output   *model.TxOut
	// BlockID is the block that contains the transaction of the output.
	BlockID model.Identifier
}

func NewTransparentInput(outPoint model.OutPoint, output *model.TxOut, blockID model.Identifier) *TransparentInput {
	return &TransparentInput{
		OutPoint: outPoint,
		Output:   output,
		BlockID:  blockID,
	}
}

func (t *TransparentInput) IndexFrom(view chain.View) (*chain.BlockIndex, error) {
	return sourceBlockByID(view, t.BlockID)
}

func (t *TransparentInput) Value() int64 {
	return t.Output.Value
}

func (t *TransparentInput) Modifier(view chain.View, interval int64) (uint64, error) {
	from, err := t.IndexFrom(view)
	if err != nil {
		return 0, err
	}

	return modifierFrom(view, from, interval)
}

func (t *TransparentInput) Uniqueness() []byte {
	return append([]byte{uniquenessDomainTransparent}, t.OutPoint.Bytes()...)
}

func (t *TransparentInput) CreateTxIn(_ Wallet, _ model.Identifier) (*TxIn, error) {
	outPoint := t.OutPoint

	return &TxIn{PrevOut: &outPoint}, nil
}

// CreateTxOuts pays the stake and the reward back to the address of the staked output.
func (t *TransparentInput) CreateTxOuts(_ Wallet, total int64) ([]*model.TxOut, error) {
	return []*model.TxOut{{Value: total, Address: t.Output.Address}}, nil
}

func (t *TransparentInput) IsShielded() bool {
	return false
}

var _ Input = &TransparentInput{}
