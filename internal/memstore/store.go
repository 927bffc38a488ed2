// Package memstore is an in-memory implementation of every repository port.
// It backs the service tests and `bitwork serve --memory`, and mirrors the
// constraints of the Postgres schema: unique pairs, foreign keys and their
// delete actions.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Abraxas-365/bitwork/marketplace/application"
	"github.com/Abraxas-365/bitwork/marketplace/job"
	"github.com/Abraxas-365/bitwork/marketplace/message"
	"github.com/Abraxas-365/bitwork/marketplace/notification"
	"github.com/Abraxas-365/bitwork/marketplace/profile"
	"github.com/Abraxas-365/bitwork/pkg/dbx"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
)

// errForeignKey is returned where Postgres would raise a foreign key
// violation that the repository does not map to a domain error.
var errForeignKey = errors.New("memstore: foreign key violation")

type state struct {
	profiles      map[kernel.UserID]profile.Profile
	preferences   map[kernel.UserID]profile.Preferences
	jobs          map[kernel.JobID]job.Job
	saved         map[kernel.SavedJobID]job.SavedJob
	applications  map[kernel.ApplicationID]application.Application
	notifications map[kernel.NotificationID]notification.Notification
	messages      map[kernel.MessageID]message.Message

	// journal is set only while a transactional write runs.
	journal *journal
}

func newState() state {
	return state{
		profiles:      make(map[kernel.UserID]profile.Profile),
		preferences:   make(map[kernel.UserID]profile.Preferences),
		jobs:          make(map[kernel.JobID]job.Job),
		saved:         make(map[kernel.SavedJobID]job.SavedJob),
		applications:  make(map[kernel.ApplicationID]application.Application),
		notifications: make(map[kernel.NotificationID]notification.Notification),
		messages:      make(map[kernel.MessageID]message.Message),
	}
}

// journal records how to undo each row a transaction wrote.
type journal struct {
	undo []func()
}

func (j *journal) rollback() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

// set stores a row, journaling its previous value inside a transaction.
func set[K comparable, V any](d *state, m map[K]V, k K, v V) {
	remember(d, m, k)
	m[k] = v
}

// del removes a row, journaling its previous value inside a transaction.
func del[K comparable, V any](d *state, m map[K]V, k K) {
	remember(d, m, k)
	delete(m, k)
}

func remember[K comparable, V any](d *state, m map[K]V, k K) {
	if d.journal == nil {
		return
	}
	old, existed := m[k]
	d.journal.undo = append(d.journal.undo, func() {
		if existed {
			m[k] = old
		} else {
			delete(m, k)
		}
	})
}

// Store holds all marketplace state in memory. It is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data state

	// txMu serializes transactions.
	txMu sync.Mutex
}

func New() *Store {
	return &Store{data: newState()}
}

type txKey struct{}

// WithinTx implements dbx.Transactor. Transactions run one at a time and
// roll back by undoing only the rows written through the transaction
// context. Writes made outside it are kept. Nested calls join the outer
// transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	j := &journal{}
	defer func() {
		if p := recover(); p != nil {
			s.undo(j)
			panic(p)
		}
		if err != nil {
			s.undo(j)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, j))
}

func (s *Store) undo(j *journal) {
	s.mu.Lock()
	j.rollback()
	s.mu.Unlock()
}

func (s *Store) read(fn func(d *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&s.data)
}

// write runs fn under the store lock. A transaction context makes fn's
// row writes undoable.
func (s *Store) write(ctx context.Context, fn func(d *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := ctx.Value(txKey{}).(*journal); ok {
		s.data.journal = j
		defer func() { s.data.journal = nil }()
	}
	return fn(&s.data)
}

func (d *state) requireProfile(id kernel.UserID, column string) error {
	if _, ok := d.profiles[id]; !ok {
		return fmt.Errorf("%w: %s %s", errForeignKey, column, id)
	}
	return nil
}

func (d *state) summary(id kernel.UserID) *profile.Summary {
	p, ok := d.profiles[id]
	if !ok {
		return nil
	}
	return p.Summary()
}

var (
	_ dbx.Transactor                = (*Store)(nil)
	_ profile.Repository            = (*ProfileRepository)(nil)
	_ profile.PreferencesRepository = (*PreferencesRepository)(nil)
	_ job.Repository                = (*JobRepository)(nil)
	_ job.SavedJobRepository        = (*SavedJobRepository)(nil)
	_ job.StatsRepository           = (*StatsRepository)(nil)
	_ job.ListingCache              = (*ListingCache)(nil)
	_ application.Repository        = (*ApplicationRepository)(nil)
	_ notification.Repository       = (*NotificationRepository)(nil)
	_ message.Repository            = (*MessageRepository)(nil)
)
