package spend

import (
	"github.com/iotaledger/hive.go/ierrors"
)

var (
	// ErrMaintenanceMode is returned if shielded operations are disabled by spork.
	ErrMaintenanceMode = ierrors.New("shielded operations are in maintenance mode")
	// ErrVersionSecurityMismatch is returned if a coin version requires a higher security level.
	ErrVersionSecurityMismatch = ierrors.New("coin version requires maximum security level")
	// ErrTooManySpendsNeeded is returned if an amount needs more coin spends than a transaction may hold.
	ErrTooManySpendsNeeded = ierrors.New("too many spends needed")
	// ErrSerialSpent is returned if the serial of a coin was already revealed on chain.
	ErrSerialSpent = ierrors.New("serial already spent")
	// ErrWalletLocked is returned if the wallet has to be unlocked first.
	ErrWalletLocked = ierrors.New("wallet is locked")
)

// Status is the outcome of a spend attempt.
type Status uint8

const (
	StatusSuccess Status = iota
	StatusError
	StatusWalletLocked
	StatusCommitFailed
	StatusFundsProblems
	StatusTransactionCreate
	StatusTransactionChange
	StatusInvalidCoin
	StatusAccumulatorInitFailed
	StatusInvalidWitness
	StatusSpentUsed
	StatusTooManySpendsNeeded
	StatusVersionSecurityMismatch
	StatusMaintenanceMode
	StatusInvalidAmount
)

var statusNames = map[Status]string{
	StatusSuccess:                 "success",
	StatusError:                   "error",
	StatusWalletLocked:            "wallet locked",
	StatusCommitFailed:            "commit failed",
	StatusFundsProblems:           "funds problems",
	StatusTransactionCreate:       "transaction create",
	StatusTransactionChange:       "transaction change",
	StatusInvalidCoin:             "invalid coin",
	StatusAccumulatorInitFailed:   "accumulator init failed",
	StatusInvalidWitness:          "invalid witness",
	StatusSpentUsed:               "spent used",
	StatusTooManySpendsNeeded:     "too many spends needed",
	StatusVersionSecurityMismatch: "version security mismatch",
	StatusMaintenanceMode:         "maintenance mode",
	StatusInvalidAmount:           "invalid amount",
}

var statusErrors = map[Status]error{
	StatusVersionSecurityMismatch: ErrVersionSecurityMismatch,
	StatusTooManySpendsNeeded:     ErrTooManySpendsNeeded,
	StatusMaintenanceMode:         ErrMaintenanceMode,
	StatusSpentUsed:               ErrSerialSpent,
	StatusWalletLocked:            ErrWalletLocked,
}

// Statuses returns all statuses in ascending order.
func Statuses() []Status {
	statuses := make([]Status, 0, len(statusNames))
	for status := StatusSuccess; status <= StatusInvalidAmount; status++ {
		statuses = append(statuses, status)
	}

	return statuses
}

func (s Status) String() string {
	if name, exists := statusNames[s]; exists {
		return name
	}

	return "unknown"
}
