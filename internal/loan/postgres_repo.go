package loan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Partial unique index on loans(book_id) WHERE returned IS NOT TRUE.
const activeLoanConstraint = "loans_active_book_key"

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// Create inserts the loan and assigns its id. The active-loan pre-check gives
// a precise error; the partial unique index is the authoritative guard
// against concurrent writers.
func (r *PostgresRepo) Create(ctx context.Context, l *Loan) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var active bool
	if err := r.db.QueryRow(timeoutCtx,
		`SELECT EXISTS (SELECT 1 FROM loans WHERE book_id = $1 AND returned IS NOT TRUE)`,
		l.BookID).Scan(&active); err != nil {
		return err
	}
	if active {
		return ErrBookAlreadyLoaned
	}

	const query = `
		INSERT INTO loans (customer, customer_email, book_id, loan_date, returned)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	err := r.db.QueryRow(timeoutCtx2, query,
		l.Customer, l.CustomerEmail, l.BookID, l.LoanDate, l.Returned).Scan(&l.ID)
	if isUniqueViolation(err, activeLoanConstraint) {
		return ErrBookAlreadyLoaned
	}
	return err
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Loan, error) {
	const query = `
		SELECT id, customer, customer_email, book_id, loan_date, returned
		FROM loans
		WHERE id = $1`

	var l Loan
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).
		Scan(&l.ID, &l.Customer, &l.CustomerEmail, &l.BookID, &l.LoanDate, &l.Returned)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Loan{}, ErrNotFound
		}
		return Loan{}, err
	}
	return l, nil
}

func (r *PostgresRepo) Update(ctx context.Context, l *Loan) error {
	const query = `
		UPDATE loans
		SET customer = $2, customer_email = $3, returned = $4
		WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, l.ID, l.Customer, l.CustomerEmail, l.Returned)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Loan, int, error) {
	clauses := []string{}
	args := []any{}
	argn := 1

	if q.ISBN != "" {
		clauses = append(clauses, fmt.Sprintf("b.isbn = $%d", argn))
		args = append(args, q.ISBN)
		argn++
	}

	if q.Customer != "" {
		clauses = append(clauses, fmt.Sprintf("l.customer ILIKE $%d", argn))
		args = append(args, "%"+q.Customer+"%")
		argn++
	}

	// Matches the original lookup: isbn OR customer, all loans when both empty.
	where := "WHERE 1=1"
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " OR ")
	}

	from := "FROM loans l JOIN books b ON b.id = l.book_id"

	countSQL := fmt.Sprintf("SELECT COUNT(*) %s %s", from, where)
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := fmt.Sprintf(`
		SELECT l.id, l.customer, l.customer_email, l.book_id, l.loan_date, l.returned
		%s
		%s
		ORDER BY l.loan_date DESC, l.id DESC
		LIMIT $%d OFFSET $%d`, from, where, argn, argn+1)

	argsWithPage := append([]any{}, args...)
	argsWithPage = append(argsWithPage, q.Limit, q.Offset)
	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, argsWithPage...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Loan
	for rows.Next() {
		var l Loan
		if err := rows.Scan(&l.ID, &l.Customer, &l.CustomerEmail, &l.BookID, &l.LoanDate, &l.Returned); err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) ListOverdue(ctx context.Context, cutoff time.Time) ([]Loan, error) {
	const query = `
		SELECT id, customer, customer_email, book_id, loan_date, returned
		FROM loans
		WHERE loan_date < $1 AND returned IS NOT TRUE
		ORDER BY loan_date, id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Loan
	for rows.Next() {
		var l Loan
		if err := rows.Scan(&l.ID, &l.Customer, &l.CustomerEmail, &l.BookID, &l.LoanDate, &l.Returned); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}
