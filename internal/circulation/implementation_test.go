// internal/circulation/implementation_test.go
package circulation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstack/internal/apperr"
	"bookstack/internal/catalog"
)

func newTestService() (Service, *memInventory, *memLoans) {
	inventory := newMemInventory()
	loans := newMemLoans()
	return NewService(inventory, inventory, loans), inventory, loans
}

func TestBorrowBook(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a borrowed loan and claims a copy", func(t *testing.T) {
		svc, inventory, _ := newTestService()
		bookID := inventory.add("Pride and Prejudice", 3)
		userID := uuid.New()

		loan, err := svc.BorrowBook(ctx, bookID, userID)
		require.NoError(t, err)
		assert.Equal(t, StatusBorrowed, loan.Status)
		assert.Equal(t, bookID, loan.BookID)
		assert.Equal(t, userID, loan.UserID)
		assert.False(t, loan.BorrowDate.IsZero())
		assert.Nil(t, loan.ReturnDate)
		assert.Equal(t, 2, inventory.available(bookID))
	})

	t.Run("fails for an unknown book", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.BorrowBook(ctx, uuid.New(), uuid.New())
		require.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("fails without state change when no copies are left", func(t *testing.T) {
		svc, inventory, loans := newTestService()
		bookID := inventory.add("Out of Stock", 0)

		_, err := svc.BorrowBook(ctx, bookID, uuid.New())
		require.ErrorIs(t, err, ErrBookUnavailable)
		assert.Equal(t, 0, inventory.available(bookID))
		assert.Empty(t, loans.loans)
	})

	t.Run("rejects a second simultaneous borrow of the same book", func(t *testing.T) {
		svc, inventory, _ := newTestService()
		bookID := inventory.add("Dune", 5)
		userID := uuid.New()

		_, err := svc.BorrowBook(ctx, bookID, userID)
		require.NoError(t, err)

		_, err = svc.BorrowBook(ctx, bookID, userID)
		require.ErrorIs(t, err, ErrAlreadyBorrowed)
		assert.Equal(t, 4, inventory.available(bookID), "failed borrow must release the claimed copy")
	})

	t.Run("releases the copy when the loan cannot be recorded", func(t *testing.T) {
		svc, inventory, loans := newTestService()
		bookID := inventory.add("Flaky", 2)
		loans.failCreate = apperr.Wrap(apperr.Internal, "Error creating Transaction", errors.New("connection reset"))

		_, err := svc.BorrowBook(ctx, bookID, uuid.New())
		require.Error(t, err)
		assert.Equal(t, apperr.Internal, apperr.KindOf(err))
		assert.Equal(t, 2, inventory.available(bookID))
	})
}

func TestReturnBook(t *testing.T) {
	ctx := context.Background()

	t.Run("restores availability and marks the loan returned", func(t *testing.T) {
		svc, inventory, _ := newTestService()
		bookID := inventory.add("Emma", 2)
		userID := uuid.New()

		_, err := svc.BorrowBook(ctx, bookID, userID)
		require.NoError(t, err)
		require.Equal(t, 1, inventory.available(bookID))

		loan, err := svc.ReturnBook(ctx, bookID, userID)
		require.NoError(t, err)
		assert.Equal(t, StatusReturned, loan.Status)
		require.NotNil(t, loan.ReturnDate)
		assert.Equal(t, 2, inventory.available(bookID))
	})

	t.Run("second return fails with already returned", func(t *testing.T) {
		svc, inventory, _ := newTestService()
		bookID := inventory.add("Persuasion", 1)
		userID := uuid.New()

		_, err := svc.BorrowBook(ctx, bookID, userID)
		require.NoError(t, err)
		_, err = svc.ReturnBook(ctx, bookID, userID)
		require.NoError(t, err)

		_, err = svc.ReturnBook(ctx, bookID, userID)
		require.ErrorIs(t, err, ErrAlreadyReturned)
		assert.Equal(t, 1, inventory.available(bookID), "failed return must not change availability")
	})

	t.Run("return without a prior borrow fails with not found", func(t *testing.T) {
		svc, inventory, _ := newTestService()
		bookID := inventory.add("Never Borrowed", 1)

		_, err := svc.ReturnBook(ctx, bookID, uuid.New())
		require.ErrorIs(t, err, ErrLoanNotFound)
	})
}

// The scenario from the availability contract: one copy cycling between two
// users.
func TestSingleCopyCycle(t *testing.T) {
	ctx := context.Background()
	svc, inventory, _ := newTestService()
	bookID := inventory.add("The Great Gatsby", 1)
	u1, u2 := uuid.New(), uuid.New()

	_, err := svc.BorrowBook(ctx, bookID, u1)
	require.NoError(t, err)
	assert.Equal(t, 0, inventory.available(bookID))

	_, err = svc.BorrowBook(ctx, bookID, u2)
	require.ErrorIs(t, err, ErrBookUnavailable)

	_, err = svc.ReturnBook(ctx, bookID, u1)
	require.NoError(t, err)
	assert.Equal(t, 1, inventory.available(bookID))

	_, err = svc.BorrowBook(ctx, bookID, u2)
	require.NoError(t, err)
	assert.Equal(t, 0, inventory.available(bookID))
}

func TestConcurrentBorrowsNeverOversell(t *testing.T) {
	ctx := context.Background()
	svc, inventory, _ := newTestService()
	const copies = 3
	bookID := inventory.add("Limited Edition", copies)

	var wg sync.WaitGroup
	successes := make(chan struct{}, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.BorrowBook(ctx, bookID, uuid.New()); err == nil {
				successes <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(successes)

	assert.Equal(t, copies, len(successes), "exactly one borrow per copy should succeed")
	assert.Equal(t, 0, inventory.available(bookID))
}

func TestListUserLoans(t *testing.T) {
	ctx := context.Background()

	t.Run("returns all loans in creation order with book snapshots", func(t *testing.T) {
		svc, inventory, _ := newTestService()
		first := inventory.add("First", 1)
		second := inventory.add("Second", 1)
		userID := uuid.New()

		_, err := svc.BorrowBook(ctx, first, userID)
		require.NoError(t, err)
		_, err = svc.ReturnBook(ctx, first, userID)
		require.NoError(t, err)
		_, err = svc.BorrowBook(ctx, second, userID)
		require.NoError(t, err)

		list, err := svc.ListUserLoans(ctx, userID)
		require.NoError(t, err)
		require.Len(t, list, 2, "returned loans remain in the listing")

		assert.Equal(t, first, list[0].BookID)
		assert.Equal(t, StatusReturned, list[0].Status)
		require.NotNil(t, list[0].Book)
		assert.Equal(t, "First", list[0].Book.Title)

		assert.Equal(t, second, list[1].BookID)
		assert.Equal(t, StatusBorrowed, list[1].Status)
		require.NotNil(t, list[1].Book)
		assert.Equal(t, "Second", list[1].Book.Title)
	})

	t.Run("tolerates a deleted book", func(t *testing.T) {
		svc, inventory, _ := newTestService()
		bookID := inventory.add("Ephemeral", 1)
		userID := uuid.New()

		_, err := svc.BorrowBook(ctx, bookID, userID)
		require.NoError(t, err)

		inventory.mu.Lock()
		delete(inventory.books, bookID)
		inventory.mu.Unlock()

		list, err := svc.ListUserLoans(ctx, userID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Nil(t, list[0].Book)
	})

	t.Run("empty for a user with no loans", func(t *testing.T) {
		svc, _, _ := newTestService()

		list, err := svc.ListUserLoans(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
