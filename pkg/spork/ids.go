package spork

import (
	"strconv"
)

// ID identifies a spork.
type ID int32

const (
	IDSwiftTx                    ID = 10001
	IDSwiftTxBlockFiltering      ID = 10002
	IDMaxValue                   ID = 10004
	IDMasternodeScanning         ID = 10006
	IDMasternodePaymentEnforce   ID = 10007
	IDMasternodeBudgetEnforce    ID = 10008
	IDMasternodePayUpdatedNodes  ID = 10009
	IDNewProtocolEnforcement     ID = 10013
	IDNewProtocolEnforcement2    ID = 10014
	IDShieldedMaintenanceMode    ID = 10015
	IDStakeRequireShieldedInputs ID = 10016
)

// DefaultValueOff is a timestamp far in the future which keeps time based sporks inactive.
const DefaultValueOff int64 = 4070908800

var (
	knownIDs = map[ID]string{
		IDSwiftTx:                    "SPORK_2_SWIFTTX",
		IDSwiftTxBlockFiltering:      "SPORK_3_SWIFTTX_BLOCK_FILTERING",
		IDMaxValue:                   "SPORK_5_MAX_VALUE",
		IDMasternodeScanning:         "SPORK_7_MASTERNODE_SCANNING",
		IDMasternodePaymentEnforce:   "SPORK_8_MASTERNODE_PAYMENT_ENFORCEMENT",
		IDMasternodeBudgetEnforce:    "SPORK_9_MASTERNODE_BUDGET_ENFORCEMENT",
		IDMasternodePayUpdatedNodes:  "SPORK_10_MASTERNODE_PAY_UPDATED_NODES",
		IDNewProtocolEnforcement:     "SPORK_14_NEW_PROTOCOL_ENFORCEMENT",
		IDNewProtocolEnforcement2:    "SPORK_15_NEW_PROTOCOL_ENFORCEMENT_2",
		IDShieldedMaintenanceMode:    "SPORK_16_ZEROCOIN_MAINTENANCE_MODE",
		IDStakeRequireShieldedInputs: "SPORK_17_STAKE_REQUIRE_ZEROCOIN",
	}

	defaultValues = map[ID]int64{
		IDMaxValue: 1000,
	}
)

// IDs returns all known spork ids in ascending order.
func IDs() []ID {
	return []ID{
		IDSwiftTx,
		IDSwiftTxBlockFiltering,
		IDMaxValue,
		IDMasternodeScanning,
		IDMasternodePaymentEnforce,
		IDMasternodeBudgetEnforce,
		IDMasternodePayUpdatedNodes,
		IDNewProtocolEnforcement,
		IDNewProtocolEnforcement2,
		IDShieldedMaintenanceMode,
		IDStakeRequireShieldedInputs,
	}
}

func (id ID) IsKnown() bool {
	_, exists := knownIDs[id]

	return exists
}

// DefaultValue is the value of a spork that was never received.
func (id ID) DefaultValue() int64 {
	if value, exists := defaultValues[id]; exists {
		return value
	}

	return DefaultValueOff
}

func (id ID) String() string {
	if name, exists := knownIDs[id]; exists {
		return name
	}

	return "SPORK_UNKNOWN_" + strconv.FormatInt(int64(id), 10)
}

// IDFromName resolves the name of a known spork.
func IDFromName(name string) (ID, bool) {
	for id, knownName := range knownIDs {
		if knownName == name {
			return id, true
		}
	}

	return 0, false
}
