package spork_test

import (
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/kvstore/mapdb"
	"github.com/iotaledger/hive.go/log"
	"github.com/iotaledger/zerostake/pkg/spork"
)

type fixedClock int64

func (c *fixedClock) AdjustedTime() int64 {
	return int64(*c)
}

type testFramework struct {
	t *testing.T

	kvStore kvstore.KVStore
	clock   *fixedClock
	signer  *spork.Signer
	manager *spork.Manager
}

func newTestFramework(t *testing.T) *testFramework {
	key, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)

	clock := fixedClock(1_000)
	tf := &testFramework{
		t:       t,
		kvStore: mapdb.NewMapDB(),
		clock:   &clock,
		signer:  spork.NewSigner(key),
	}
	tf.manager = tf.newManager()

	return tf
}

func (tf *testFramework) newManager() *spork.Manager {
	return spork.NewManager(log.NewLogger(), spork.NewStore(tf.kvStore), tf.clock,
		spork.WithPublicKeys(tf.signer.PublicKey()),
		spork.WithSigner(tf.signer),
	)
}

func (tf *testFramework) message(id spork.ID, value int64, timeSigned int64) *spork.Message {
	message := &spork.Message{
		ID:         id,
		Value:      value,
		TimeSigned: timeSigned,
	}
	tf.signer.Sign(message)

	return message
}

func (tf *testFramework) requireVerdict(message *spork.Message, expected spork.Verdict) {
	verdict, err := tf.manager.ProcessSpork(message)
	require.NoError(tf.t, err)
	require.Equal(tf.t, expected, verdict)
}

func TestManager_AcceptanceIsMonotonic(t *testing.T) {
	tf := newTestFramework(t)

	a := tf.message(spork.IDShieldedMaintenanceMode, 1, 100)
	b := tf.message(spork.IDShieldedMaintenanceMode, 2, 50)
	c := tf.message(spork.IDShieldedMaintenanceMode, 3, 150)

	tf.requireVerdict(a, spork.VerdictAccepted)
	tf.requireVerdict(b, spork.VerdictStale)

	stored, err := spork.NewStore(tf.kvStore).Get(spork.IDShieldedMaintenanceMode)
	require.NoError(t, err)
	require.Equal(t, a, stored)

	// equal timestamps are not newer
	tf.requireVerdict(tf.message(spork.IDShieldedMaintenanceMode, 4, 100), spork.VerdictStale)

	tf.requireVerdict(c, spork.VerdictAccepted)

	stored, err = spork.NewStore(tf.kvStore).Get(spork.IDShieldedMaintenanceMode)
	require.NoError(t, err)
	require.Equal(t, c, stored)
	require.EqualValues(t, 3, tf.manager.Value(spork.IDShieldedMaintenanceMode))

	require.EqualValues(t, 2, tf.manager.AcceptedCount())
	require.EqualValues(t, 2, tf.manager.StaleCount())
}

func TestManager_RejectsInvalidSignatures(t *testing.T) {
	tf := newTestFramework(t)

	otherKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)

	forged := &spork.Message{ID: spork.IDMaxValue, Value: 5, TimeSigned: 100}
	spork.NewSigner(otherKey).Sign(forged)
	tf.requireVerdict(forged, spork.VerdictInvalidSignature)

	tampered := tf.message(spork.IDMaxValue, 5, 100)
	tampered.Value = 6
	tf.requireVerdict(tampered, spork.VerdictInvalidSignature)

	garbage := tf.message(spork.IDMaxValue, 5, 100)
	garbage.Signature = []byte{1, 2, 3}
	tf.requireVerdict(garbage, spork.VerdictInvalidSignature)

	exists, err := spork.NewStore(tf.kvStore).Exists(spork.IDMaxValue)
	require.NoError(t, err)
	require.False(t, exists)
	require.EqualValues(t, 3, tf.manager.InvalidSignatureCount())
	require.Equal(t, spork.IDMaxValue.DefaultValue(), tf.manager.Value(spork.IDMaxValue))

	tf.requireVerdict(tf.message(spork.ID(42), 5, 100), spork.VerdictUnknownSpork)
}

func TestManager_Persistence(t *testing.T) {
	tf := newTestFramework(t)

	tf.requireVerdict(tf.message(spork.IDSwiftTx, 10, 100), spork.VerdictAccepted)
	tf.requireVerdict(tf.message(spork.IDMaxValue, 20, 100), spork.VerdictAccepted)

	reopened := tf.newManager()
	require.Equal(t, spork.IDSwiftTx.DefaultValue(), reopened.Value(spork.IDSwiftTx))
	require.NoError(t, reopened.Load())
	require.EqualValues(t, 10, reopened.Value(spork.IDSwiftTx))
	require.EqualValues(t, 20, reopened.Value(spork.IDMaxValue))

	messages := reopened.Messages()
	require.Len(t, messages, 2)
	require.Equal(t, spork.IDSwiftTx, messages[0].ID)
	require.Equal(t, spork.IDMaxValue, messages[1].ID)

	require.NoError(t, reopened.Reindex())
	require.Empty(t, reopened.Messages())

	exists, err := spork.NewStore(tf.kvStore).Exists(spork.IDSwiftTx)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestManager_ShieldedMaintenance(t *testing.T) {
	tf := newTestFramework(t)

	var accepted []*spork.Message
	tf.manager.Events.SporkAccepted.Hook(func(message *spork.Message) {
		accepted = append(accepted, message)
	})

	require.False(t, tf.manager.ShieldedMaintenance())
	require.False(t, tf.manager.IsActive(spork.IDShieldedMaintenanceMode))

	message, err := tf.manager.UpdateSpork(spork.IDShieldedMaintenanceMode, 900)
	require.NoError(t, err)
	require.EqualValues(t, 1_000, message.TimeSigned)
	require.True(t, tf.manager.ShieldedMaintenance())

	// a second update within the same second still supersedes the first one
	message, err = tf.manager.UpdateSpork(spork.IDShieldedMaintenanceMode, 2_000)
	require.NoError(t, err)
	require.EqualValues(t, 1_001, message.TimeSigned)
	require.False(t, tf.manager.ShieldedMaintenance())

	*tf.clock = 2_001
	require.True(t, tf.manager.ShieldedMaintenance())
	require.True(t, tf.manager.IsActive(spork.IDShieldedMaintenanceMode))

	require.Len(t, accepted, 2)
}

func TestManager_UpdateWithoutSigner(t *testing.T) {
	tf := newTestFramework(t)

	manager := spork.NewManager(log.NewLogger(), spork.NewStore(mapdb.NewMapDB()), tf.clock, spork.WithPublicKeys(tf.signer.PublicKey()))
	_, err := manager.UpdateSpork(spork.IDSwiftTx, 1)
	require.ErrorIs(t, err, spork.ErrNoSigningKey)
}

type failingStore struct {
	kvstore.KVStore
}

func (f *failingStore) Set(kvstore.Key, kvstore.Value) error {
	return ierrors.New("disk full")
}

func TestManager_PersistFailure(t *testing.T) {
	tf := newTestFramework(t)
	tf.kvStore = &failingStore{KVStore: mapdb.NewMapDB()}
	tf.manager = tf.newManager()

	verdict, err := tf.manager.ProcessSpork(tf.message(spork.IDShieldedMaintenanceMode, 1, 100))
	require.Error(t, err)
	require.Equal(t, spork.VerdictPersistFailed, verdict)
	require.Equal(t, "persist failed", verdict.String())

	_, exists := tf.manager.Message(spork.IDShieldedMaintenanceMode)
	require.False(t, exists)

	_, err = tf.manager.UpdateSpork(spork.IDShieldedMaintenanceMode, 1)
	require.Error(t, err)
}
