package spork

import (
	"sort"
	"sync/atomic"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/iotaledger/hive.go/ds/shrinkingmap"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/log"
	"github.com/iotaledger/hive.go/runtime/event"
	"github.com/iotaledger/hive.go/runtime/options"
	"github.com/iotaledger/hive.go/runtime/syncutils"
)

// Verdict is the outcome of processing a spork message.
type Verdict uint8

const (
	// VerdictAccepted means the message replaced the previous value of its spork.
	VerdictAccepted Verdict = iota
	// VerdictStale means a message with the same or a newer timestamp is already known.
	VerdictStale
	// VerdictInvalidSignature means the message was not signed by an accepted key.
	VerdictInvalidSignature
	// VerdictUnknownSpork means the spork id is not known to this node.
	VerdictUnknownSpork
	// VerdictPersistFailed means the message is valid but could not be stored and was not applied.
	VerdictPersistFailed
)

func (v Verdict) String() string {
	switch v {
	case VerdictAccepted:
		return "accepted"
	case VerdictStale:
		return "stale"
	case VerdictInvalidSignature:
		return "invalid signature"
	case VerdictUnknownSpork:
		return "unknown spork"
	case VerdictPersistFailed:
		return "persist failed"
	default:
		return "unknown verdict"
	}
}

// Clock provides the network adjusted time in unix seconds.
type Clock interface {
	AdjustedTime() int64
}

// Events contains the events of the spork manager.
type Events struct {
	SporkAccepted *event.Event1[*Message]
}

func NewEvents() *Events {
	return &Events{
		SporkAccepted: event.New1[*Message](),
	}
}

// Manager decides which spork messages are authoritative and serves their values.
type Manager struct {
	Events *Events

	store        *Store
	clock        Clock
	acceptedKeys []*secp256k1.PublicKey
	signer       *Signer
	messages     *shrinkingmap.ShrinkingMap[ID, *Message]
	mutex        syncutils.Mutex

	acceptedCount         atomic.Uint64
	staleCount            atomic.Uint64
	invalidSignatureCount atomic.Uint64

	log.Logger
}

func NewManager(logger log.Logger, store *Store, clock Clock, opts ...options.Option[Manager]) *Manager {
	return options.Apply(&Manager{
		Events:   NewEvents(),
		store:    store,
		clock:    clock,
		messages: shrinkingmap.New[ID, *Message](),
		Logger:   logger,
	}, opts)
}

// Load fills the cache from the store. Messages that do not verify against the accepted keys are skipped.
func (m *Manager) Load() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.store.ForEach(func(message *Message) bool {
		if err := VerifySignature(message, m.acceptedKeys); err != nil {
			m.LogWarn("skipping stored spork", "spork", message, "err", err)

			return true
		}

		m.messages.Set(message.ID, message)

		return true
	})
}

// Reindex wipes all stored messages, they are received again from peers.
func (m *Manager) Reindex() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := m.store.Wipe(); err != nil {
		return ierrors.Wrap(err, "failed to wipe spork store")
	}

	for _, id := range m.messages.Keys() {
		m.messages.Delete(id)
	}

	return nil
}

// ProcessSpork accepts a message if it is signed by an accepted key and newer than the known message of
// its spork. Rejections are expected under gossip and are reported as verdict, the error is only set
// together with VerdictPersistFailed.
func (m *Manager) ProcessSpork(message *Message) (Verdict, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if !message.ID.IsKnown() {
		m.LogDebug("ignoring unknown spork", "id", int32(message.ID))

		return VerdictUnknownSpork, nil
	}

	if current, exists := m.messages.Get(message.ID); exists && message.TimeSigned <= current.TimeSigned {
		m.staleCount.Add(1)
		m.LogDebug("ignoring stale spork", "spork", message, "current", current)

		return VerdictStale, nil
	}

	if err := VerifySignature(message, m.acceptedKeys); err != nil {
		m.invalidSignatureCount.Add(1)
		m.LogWarn("rejecting spork", "spork", message, "err", err)

		return VerdictInvalidSignature, nil
	}

	if err := m.store.Put(message); err != nil {
		m.LogError("failed to persist spork", "spork", message, "err", err)

		return VerdictPersistFailed, err
	}

	m.messages.Set(message.ID, message)
	m.acceptedCount.Add(1)
	m.LogInfo("spork accepted", "spork", message)

	m.Events.SporkAccepted.Trigger(message)

	return VerdictAccepted, nil
}

// UpdateSpork signs a new value with the local spork key and processes it.
func (m *Manager) UpdateSpork(id ID, value int64) (*Message, error) {
	if m.signer == nil {
		return nil, ErrNoSigningKey
	}

	if !id.IsKnown() {
		return nil, ierrors.Errorf("unknown spork %d", id)
	}

	message := &Message{
		ID:         id,
		Value:      value,
		TimeSigned: m.clock.AdjustedTime(),
	}
	if current, exists := m.Message(id); exists && message.TimeSigned <= current.TimeSigned {
		message.TimeSigned = current.TimeSigned + 1
	}
	m.signer.Sign(message)

	verdict, err := m.ProcessSpork(message)
	if err != nil {
		return nil, err
	}
	if verdict != VerdictAccepted {
		return nil, ierrors.Errorf("spork update was not accepted: %s", verdict)
	}

	return message, nil
}

// Message returns the currently authoritative message of a spork.
func (m *Manager) Message(id ID) (*Message, bool) {
	return m.messages.Get(id)
}

// Messages returns all authoritative messages ordered by spork id, used to sync peers.
func (m *Manager) Messages() []*Message {
	messages := m.messages.Values()
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].ID < messages[j].ID
	})

	return messages
}

// Value returns the value of a spork or its default if no message was accepted.
func (m *Manager) Value(id ID) int64 {
	if message, exists := m.messages.Get(id); exists {
		return message.Value
	}

	return id.DefaultValue()
}

// IsActive returns whether a time based spork is in effect.
func (m *Manager) IsActive(id ID) bool {
	return m.Value(id) < m.clock.AdjustedTime()
}

// ShieldedMaintenance returns whether shielded mints and spends are disabled, which is the case
// once the adjusted time exceeds the value of the maintenance spork.
func (m *Manager) ShieldedMaintenance() bool {
	return m.clock.AdjustedTime() > m.Value(IDShieldedMaintenanceMode)
}

func (m *Manager) AcceptedCount() uint64 {
	return m.acceptedCount.Load()
}

func (m *Manager) StaleCount() uint64 {
	return m.staleCount.Load()
}

func (m *Manager) InvalidSignatureCount() uint64 {
	return m.invalidSignatureCount.Load()
}

// WithPublicKeys sets the keys of the spork authority.
func WithPublicKeys(keys ...*secp256k1.PublicKey) options.Option[Manager] {
	return func(m *Manager) {
		m.acceptedKeys = append(m.acceptedKeys, keys...)
	}
}

// WithSigner allows the node to issue spork updates.
func WithSigner(signer *Signer) options.Option[Manager] {
	return func(m *Manager) {
		m.signer = signer
	}
}
