package loan

import (
	"context"
	"testing"
	"time"

	"libraryapi/internal/book"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, strict bool) (*Service, *MockRepository, *MockBookResolver) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockRepo := NewMockRepository(ctrl)
	mockBooks := NewMockBookResolver(ctrl)
	return NewService(mockRepo, mockBooks, strict), mockRepo, mockBooks
}

func boolPtr(b bool) *bool { return &b }

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		service, mockRepo, mockBooks := newTestService(t, false)
		today := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
		service.now = func() time.Time { return today }

		mockBooks.EXPECT().GetByISBN(ctx, "001").Return(book.Book{ID: 7, ISBN: "001"}, nil)
		mockRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, l *Loan) error {
			assert.Equal(t, int64(7), l.BookID)
			assert.Equal(t, "Jhon Doe", l.Customer)
			assert.Equal(t, "jhon@example.com", l.CustomerEmail)
			assert.Equal(t, today, l.LoanDate)
			assert.Nil(t, l.Returned)
			l.ID = 42
			return nil
		})

		id, err := service.Create(ctx, "001", "Jhon Doe", "jhon@example.com")

		require.NoError(t, err)
		assert.Equal(t, int64(42), id)
	})

	t.Run("unknown isbn", func(t *testing.T) {
		service, _, mockBooks := newTestService(t, false)
		mockBooks.EXPECT().GetByISBN(ctx, "999").Return(book.Book{}, book.ErrNotFound)

		id, err := service.Create(ctx, "999", "Jhon Doe", "jhon@example.com")

		assert.ErrorIs(t, err, book.ErrNotFound)
		assert.Zero(t, id)
	})

	t.Run("book already loaned", func(t *testing.T) {
		service, mockRepo, mockBooks := newTestService(t, false)
		mockBooks.EXPECT().GetByISBN(ctx, "001").Return(book.Book{ID: 7, ISBN: "001"}, nil)
		mockRepo.EXPECT().Create(ctx, gomock.Any()).Return(ErrBookAlreadyLoaned)

		id, err := service.Create(ctx, "001", "Jhon Doe", "jhon@example.com")

		assert.ErrorIs(t, err, ErrBookAlreadyLoaned)
		assert.Zero(t, id)
	})
}

func TestService_Return(t *testing.T) {
	ctx := context.Background()

	t.Run("marks returned", func(t *testing.T) {
		service, mockRepo, _ := newTestService(t, false)
		mockRepo.EXPECT().GetByID(ctx, int64(3)).Return(Loan{ID: 3, BookID: 7}, nil)
		mockRepo.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, l *Loan) error {
			require.NotNil(t, l.Returned)
			assert.True(t, *l.Returned)
			return nil
		})

		assert.NoError(t, service.Return(ctx, 3, true))
	})

	t.Run("not found", func(t *testing.T) {
		service, mockRepo, _ := newTestService(t, false)
		mockRepo.EXPECT().GetByID(ctx, int64(9)).Return(Loan{}, ErrNotFound)

		assert.ErrorIs(t, service.Return(ctx, 9, true), ErrNotFound)
	})

	t.Run("re-marking allowed by default", func(t *testing.T) {
		service, mockRepo, _ := newTestService(t, false)
		mockRepo.EXPECT().GetByID(ctx, int64(3)).Return(Loan{ID: 3, Returned: boolPtr(true)}, nil)
		mockRepo.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, l *Loan) error {
			require.NotNil(t, l.Returned)
			assert.False(t, *l.Returned)
			return nil
		})

		assert.NoError(t, service.Return(ctx, 3, false))
	})

	t.Run("strict policy rejects re-marking", func(t *testing.T) {
		service, mockRepo, _ := newTestService(t, true)
		mockRepo.EXPECT().GetByID(ctx, int64(3)).Return(Loan{ID: 3, Returned: boolPtr(true)}, nil)

		assert.ErrorIs(t, service.Return(ctx, 3, false), ErrAlreadyReturned)
	})

	t.Run("strict policy still allows first return", func(t *testing.T) {
		service, mockRepo, _ := newTestService(t, true)
		mockRepo.EXPECT().GetByID(ctx, int64(3)).Return(Loan{ID: 3}, nil)
		mockRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)

		assert.NoError(t, service.Return(ctx, 3, true))
	})
}

func TestService_Find(t *testing.T) {
	ctx := context.Background()

	t.Run("enriches loans with books", func(t *testing.T) {
		service, mockRepo, mockBooks := newTestService(t, false)
		q := Query{Customer: "Jhon", Limit: 10, Offset: 0}
		loans := []Loan{
			{ID: 1, Customer: "Jhon Doe", BookID: 7},
			{ID: 2, Customer: "Jhon Smith", BookID: 8},
			{ID: 3, Customer: "Jhon Doe", BookID: 7, Returned: boolPtr(true)},
		}
		mockRepo.EXPECT().List(ctx, q).Return(loans, 3, nil)
		// Each distinct book resolves once per page.
		mockBooks.EXPECT().GetByID(ctx, int64(7)).Return(book.Book{ID: 7, ISBN: "001"}, nil).Times(1)
		mockBooks.EXPECT().GetByID(ctx, int64(8)).Return(book.Book{ID: 8, ISBN: "002"}, nil).Times(1)

		got, total, err := service.Find(ctx, q)

		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, got, 3)
		assert.Equal(t, "001", got[0].Book.ISBN)
		assert.Equal(t, "002", got[1].Book.ISBN)
		assert.Equal(t, "001", got[2].Book.ISBN)
	})

	t.Run("book lookup failure propagates", func(t *testing.T) {
		service, mockRepo, mockBooks := newTestService(t, false)
		mockRepo.EXPECT().List(ctx, gomock.Any()).Return([]Loan{{ID: 1, BookID: 7}}, 1, nil)
		mockBooks.EXPECT().GetByID(ctx, int64(7)).Return(book.Book{}, assert.AnError)

		_, _, err := service.Find(ctx, Query{})

		assert.Error(t, err)
	})
}

func TestService_ListOverdue(t *testing.T) {
	ctx := context.Background()
	service, mockRepo, _ := newTestService(t, false)

	cutoff := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	want := []Loan{{ID: 1, LoanDate: cutoff.AddDate(0, 0, -1)}}
	mockRepo.EXPECT().ListOverdue(ctx, cutoff).Return(want, nil)

	got, err := service.ListOverdue(ctx, cutoff)

	assert.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoan_Active(t *testing.T) {
	assert.True(t, Loan{}.Active())
	assert.True(t, Loan{Returned: boolPtr(false)}.Active())
	assert.False(t, Loan{Returned: boolPtr(true)}.Active())
}
