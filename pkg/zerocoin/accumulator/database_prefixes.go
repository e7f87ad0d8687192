package accumulator

const (
	StoreKeyPrefixLatestCheckpoint byte = 0

	// StoreKeyPrefixMember defines the prefix for the append-only member list of a denomination.
	StoreKeyPrefixMember byte = 1

	// StoreKeyPrefixMemberLookup defines the prefix to find a member by its commitment.
	StoreKeyPrefixMemberLookup byte = 2

	// StoreKeyPrefixRunningState defines the prefix for the current accumulator value of a denomination.
	StoreKeyPrefixRunningState byte = 3

	// StoreKeyPrefixCheckpoint defines the prefix for accumulator checkpoints.
	StoreKeyPrefixCheckpoint byte = 4

	// StoreKeyPrefixSerial defines the prefix for spent serials.
	StoreKeyPrefixSerial byte = 5
)

/*
   Accumulator Database

   Latest checkpoint:
   ==================
   Key:
       StoreKeyPrefixLatestCheckpoint
                 1 byte

   Value:
       model.Height
         4 bytes

   Member:
   =======
   Key:
       StoreKeyPrefixMember + Denomination + MemberIndex
              1 byte        +    1 byte    +   8 bytes

   Value:
       Commitment (length prefixed)  + model.Height
            4 bytes + X bytes        +    4 bytes

   Member lookup:
   ==============
   Key:
       StoreKeyPrefixMemberLookup + CommitmentID
                1 byte            +   32 bytes

   Value:
       Denomination + MemberIndex + model.Height
          1 byte    +   8 bytes   +    4 bytes

   Running state:
   ==============
   Key:
       StoreKeyPrefixRunningState + Denomination
                1 byte            +    1 byte

   Value:
       AccumulatorValue (length prefixed) + MemberCount + LastMemberHeight
              4 bytes + X bytes           +   8 bytes   +     4 bytes

   Checkpoint:
   ===========
   Key:
       StoreKeyPrefixCheckpoint + Denomination + model.Height
               1 byte           +    1 byte    +    4 bytes

   Value:
       Denomination + model.Height + AccumulatorValue (length prefixed) + MemberCount
          1 byte    +    4 bytes   +        4 bytes + X bytes           +   8 bytes

   Spent serial:
   =============
   Key:
       StoreKeyPrefixSerial + SerialHash
              1 byte        +  32 bytes

   Value:
       TransactionID + model.Height
          32 bytes   +    4 bytes

*/
