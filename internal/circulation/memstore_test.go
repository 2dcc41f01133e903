// internal/circulation/memstore_test.go
package circulation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"bookstack/internal/catalog"
)

// memInventory is an in-memory BookStore + Ledger honoring the same
// contracts as the SQL-backed implementations.
type memInventory struct {
	mu    sync.Mutex
	books map[uuid.UUID]*catalog.Book
}

func newMemInventory() *memInventory {
	return &memInventory{books: make(map[uuid.UUID]*catalog.Book)}
}

func (m *memInventory) add(title string, copies int) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	book := catalog.NewBook(title, "", "", 0, copies)
	book.AvailableCopies = copies // allow zero-copy fixtures
	m.books[book.ID] = book
	return book.ID
}

func (m *memInventory) available(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.books[id].AvailableCopies
}

func (m *memInventory) FindByID(_ context.Context, id uuid.UUID) (*catalog.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.books[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	snapshot := *book
	return &snapshot, nil
}

func (m *memInventory) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make(map[uuid.UUID]*catalog.Book, len(ids))
	for _, id := range ids {
		if book, ok := m.books[id]; ok {
			snapshot := *book
			result[id] = &snapshot
		}
	}
	return result, nil
}

func (m *memInventory) DecrementAvailableCopies(_ context.Context, id uuid.UUID) (*catalog.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.books[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	if book.AvailableCopies <= 0 {
		return nil, ErrBookUnavailable
	}
	book.AvailableCopies--
	snapshot := *book
	return &snapshot, nil
}

func (m *memInventory) IncrementAvailableCopies(_ context.Context, id uuid.UUID) (*catalog.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.books[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	book.AvailableCopies++
	snapshot := *book
	return &snapshot, nil
}

// memLoans is an in-memory LoanStore.
type memLoans struct {
	mu    sync.Mutex
	loans []*Loan

	failCreate error // when set, Create fails with this error
}

func newMemLoans() *memLoans {
	return &memLoans{}
}

func (m *memLoans) Create(_ context.Context, loan *Loan) (*Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate != nil {
		return nil, m.failCreate
	}
	for _, existing := range m.loans {
		if existing.BookID == loan.BookID && existing.UserID == loan.UserID && existing.Active() {
			return nil, ErrAlreadyBorrowed
		}
	}
	stored := *loan
	m.loans = append(m.loans, &stored)
	snapshot := stored
	return &snapshot, nil
}

func (m *memLoans) FindActive(_ context.Context, bookID, userID uuid.UUID) (*Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, loan := range m.loans {
		if loan.BookID == bookID && loan.UserID == userID && loan.Active() {
			snapshot := *loan
			return &snapshot, nil
		}
	}
	return nil, ErrLoanNotFound
}

func (m *memLoans) HasReturned(_ context.Context, bookID, userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, loan := range m.loans {
		if loan.BookID == bookID && loan.UserID == userID && loan.Status == StatusReturned {
			return true, nil
		}
	}
	return false, nil
}

func (m *memLoans) MarkReturned(_ context.Context, loanID uuid.UUID) (*Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, loan := range m.loans {
		if loan.ID == loanID {
			if err := loan.MarkReturned(time.Now()); err != nil {
				return nil, err
			}
			snapshot := *loan
			return &snapshot, nil
		}
	}
	return nil, ErrLoanNotFound
}

func (m *memLoans) ListByUser(_ context.Context, userID uuid.UUID) ([]*Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*Loan
	for _, loan := range m.loans {
		if loan.UserID == userID {
			snapshot := *loan
			result = append(result, &snapshot)
		}
	}
	return result, nil
}
