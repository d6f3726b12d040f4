package notifier

import (
	"context"
	"testing"
	"time"

	"libraryapi/internal/loan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLoanSource struct {
	mock.Mock
}

func (m *mockLoanSource) ListOverdue(ctx context.Context, cutoff time.Time) ([]loan.Loan, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]loan.Loan), args.Error(1)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(subject, body string, recipients []string) error {
	args := m.Called(subject, body, recipients)
	return args.Error(0)
}

func newTestJob(loans LoanSource, mailer Mailer, now time.Time) *Job {
	j := NewJob(loans, mailer, Config{
		GraceDays: 4,
		Subject:   "Overdue book loan",
		Message:   "Please return the book.",
	})
	j.now = func() time.Time { return now }
	return j
}

func TestJob_Run(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)
	wantCutoff := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	t.Run("sends one batch to all overdue customers", func(t *testing.T) {
		loans := new(mockLoanSource)
		mails := new(mockMailer)
		job := newTestJob(loans, mails, now)

		overdue := []loan.Loan{
			{ID: 1, Customer: "Jhon Doe", CustomerEmail: "jhon@example.com", LoanDate: now.AddDate(0, 0, -5)},
			{ID: 2, Customer: "No Mail", CustomerEmail: "", LoanDate: now.AddDate(0, 0, -10)},
		}
		loans.On("ListOverdue", ctx, wantCutoff).Return(overdue, nil)
		// Addresses pass through unvalidated, empty ones included.
		mails.On("Send", "Overdue book loan", "Please return the book.", []string{"jhon@example.com", ""}).Return(nil)

		err := job.Run(ctx)

		require.NoError(t, err)
		loans.AssertExpectations(t)
		mails.AssertExpectations(t)
	})

	t.Run("no overdue loans skips the mail", func(t *testing.T) {
		loans := new(mockLoanSource)
		mails := new(mockMailer)
		job := newTestJob(loans, mails, now)

		loans.On("ListOverdue", ctx, wantCutoff).Return([]loan.Loan{}, nil)

		err := job.Run(ctx)

		require.NoError(t, err)
		mails.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		loans := new(mockLoanSource)
		mails := new(mockMailer)
		job := newTestJob(loans, mails, now)

		loans.On("ListOverdue", ctx, wantCutoff).Return(nil, assert.AnError)

		err := job.Run(ctx)

		assert.Error(t, err)
		mails.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("mail failure propagates", func(t *testing.T) {
		loans := new(mockLoanSource)
		mails := new(mockMailer)
		job := newTestJob(loans, mails, now)

		loans.On("ListOverdue", ctx, wantCutoff).Return([]loan.Loan{
			{ID: 1, CustomerEmail: "jhon@example.com", LoanDate: now.AddDate(0, 0, -5)},
		}, nil)
		mails.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

		err := job.Run(ctx)

		assert.Error(t, err)
	})
}

func TestJob_Cutoff(t *testing.T) {
	job := newTestJob(nil, nil, time.Date(2026, 9, 1, 23, 59, 0, 0, time.UTC))

	// Grace of 4 days: a loan made today or within the window is not overdue.
	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), job.cutoff())
}
