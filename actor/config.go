package actor

import (
	"sync"

	"github.com/hedisam/backoffactor/internal/mailbox"
)

type MailboxConfig struct {
	// Kind is ringbuffer (bounded, default) or mpsc (unbounded)
	Kind string
	// Capacity of bounded mailboxes, rounded up to a power of two
	Capacity uint64
}

var (
	configMu      sync.RWMutex
	mailboxConfig = MailboxConfig{Kind: string(mailbox.RingBuffer), Capacity: mailbox.DefaultCapacity}
)

// SetMailboxConfig changes the mailbox used by processes spawned afterwards
func SetMailboxConfig(cfg MailboxConfig) error {
	// fail early on unknown kinds
	if _, err := mailbox.New(mailbox.Kind(cfg.Kind), 1); err != nil {
		return err
	}
	configMu.Lock()
	mailboxConfig = cfg
	configMu.Unlock()
	return nil
}

func newMailbox() mailbox.Mailbox {
	configMu.RLock()
	cfg := mailboxConfig
	configMu.RUnlock()

	m, err := mailbox.New(mailbox.Kind(cfg.Kind), cfg.Capacity)
	if err != nil {
		m, _ = mailbox.New(mailbox.RingBuffer, cfg.Capacity)
	}
	return m
}
