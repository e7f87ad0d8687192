package spend

import (
	"fmt"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/zerostake/pkg/model"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
)

// CoinSpendInfo describes a single coin spend of a successful spend attempt.
type CoinSpendInfo struct {
	Denomination     zerocoin.Denomination
	SerialHash       model.Identifier
	CheckpointHeight model.Height
	// MintCount is the number of accumulator members the spend is one of.
	MintCount uint64
}

func (c *CoinSpendInfo) String() string {
	return fmt.Sprintf("denomination %s, serial %s, 1 of %d mints at checkpoint %d", c.Denomination, c.SerialHash.Alias(), c.MintCount, c.CheckpointHeight)
}

// Receipt is the immutable result of a spend attempt.
type Receipt struct {
	status       Status
	spends       []*CoinSpendInfo
	neededSpends int
	message      string
	transaction  *Transaction
}

func (r *Receipt) Status() Status {
	return r.status
}

// Spends returns the coin spends performed, empty unless the attempt succeeded.
func (r *Receipt) Spends() []*CoinSpendInfo {
	spends := make([]*CoinSpendInfo, len(r.spends))
	copy(spends, r.spends)

	return spends
}

// NeededSpends is the number of coin spends the requested amount needs.
func (r *Receipt) NeededSpends() int {
	return r.neededSpends
}

func (r *Receipt) Message() string {
	return r.message
}

// Transaction returns the committed transaction of a successful attempt.
func (r *Receipt) Transaction() *Transaction {
	return r.transaction
}

func (r *Receipt) IsSuccess() bool {
	return r.status == StatusSuccess
}

// Err returns nil for successful attempts and an error describing the failure otherwise.
func (r *Receipt) Err() error {
	if r.IsSuccess() {
		return nil
	}

	if err, exists := statusErrors[r.status]; exists {
		return ierrors.Wrap(err, r.message)
	}

	return ierrors.Errorf("%s: %s", r.status, r.message)
}

func (r *Receipt) String() string {
	return fmt.Sprintf("Receipt(status=%s, spends=%d, needed=%d, message=%q)", r.status, len(r.spends), r.neededSpends, r.message)
}

// receiptBuilder collects the outcome of a spend attempt and creates the receipt once.
type receiptBuilder struct {
	spends       []*CoinSpendInfo
	neededSpends int
}

func newReceiptBuilder() *receiptBuilder {
	return &receiptBuilder{}
}

func (b *receiptBuilder) setNeededSpends(neededSpends int) *receiptBuilder {
	b.neededSpends = neededSpends

	return b
}

func (b *receiptBuilder) addSpend(info *CoinSpendInfo) *receiptBuilder {
	b.spends = append(b.spends, info)

	return b
}

// fail creates a receipt without coin spends.
func (b *receiptBuilder) fail(status Status, format string, args ...any) *Receipt {
	return &Receipt{
		status:       status,
		neededSpends: b.neededSpends,
		message:      fmt.Sprintf(format, args...),
	}
}

func (b *receiptBuilder) succeed(transaction *Transaction) *Receipt {
	return &Receipt{
		status:       StatusSuccess,
		spends:       b.spends,
		neededSpends: b.neededSpends,
		message:      fmt.Sprintf("spent %d coins in transaction %s", len(b.spends), transaction.ID),
		transaction:  transaction,
	}
}
