// Package notifier implements the scheduled job that mails customers
// holding overdue loans.
package notifier

import (
	"context"
	"log"
	"time"

	"libraryapi/internal/loan"
)

// LoanSource is the slice of the loan service the job reads from.
type LoanSource interface {
	ListOverdue(ctx context.Context, cutoff time.Time) ([]loan.Loan, error)
}

// Mailer delivers one message to a batch of recipients.
type Mailer interface {
	Send(subject, body string, recipients []string) error
}

type Config struct {
	GraceDays int
	Subject   string
	Message   string
}

// Job finds loans older than the grace period that were not returned and
// sends a single batch notification.
type Job struct {
	loans  LoanSource
	mailer Mailer
	cfg    Config
	now    func() time.Time
}

func NewJob(loans LoanSource, mailer Mailer, cfg Config) *Job {
	return &Job{loans: loans, mailer: mailer, cfg: cfg, now: time.Now}
}

func (j *Job) Run(ctx context.Context) error {
	cutoff := j.cutoff()
	overdue, err := j.loans.ListOverdue(ctx, cutoff)
	if err != nil {
		return err
	}
	if len(overdue) == 0 {
		log.Printf("overdue notifier: no overdue loans before %s", cutoff.Format("2006-01-02"))
		return nil
	}

	// Addresses pass through as stored; an empty customer email stays in the list.
	recipients := make([]string, 0, len(overdue))
	for _, l := range overdue {
		recipients = append(recipients, l.CustomerEmail)
	}

	log.Printf("overdue notifier: notifying %d customer(s)", len(recipients))
	return j.mailer.Send(j.cfg.Subject, j.cfg.Message, recipients)
}

// cutoff is the start of today minus the grace period; a loan made today
// never counts as overdue.
func (j *Job) cutoff() time.Time {
	now := j.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return today.AddDate(0, 0, -j.cfg.GraceDays)
}
