package datastores

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS contacts (
    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    name TEXT NOT NULL,
    phone TEXT NOT NULL,
    email TEXT NOT NULL,
    type TEXT NOT NULL
)`

// ContactsPostgres implements [ContactsStore] on top of a PostgreSQL pool.
type ContactsPostgres struct {
	pool *pgxpool.Pool
	q    contactsQueries
}

var _ ContactsStore = (*ContactsPostgres)(nil)

// OpenContactsPostgres connects to dsn and creates the contacts table if needed.
func OpenContactsPostgres(ctx context.Context, dsn string) (*ContactsPostgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create contacts table: %w", err)
	}
	return &ContactsPostgres{pool: pool, q: newContactsQueries(sq.Dollar)}, nil
}

func (s *ContactsPostgres) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *ContactsPostgres) Close() error {
	s.pool.Close()
	return nil
}

func (s *ContactsPostgres) Create(ctx context.Context, c *Contact) (ContactID, error) {
	query, args, err := s.q.insert(c)
	if err != nil {
		return 0, err
	}
	var id ContactID
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("create contact: %w", err)
	}
	c.ID = id
	return id, nil
}

func (s *ContactsPostgres) List(ctx context.Context) ([]*Contact, error) {
	query, args, err := s.q.list()
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	contacts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Contact, error) {
		return scanContact(row)
	})
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	if contacts == nil {
		contacts = []*Contact{}
	}
	return contacts, nil
}

func (s *ContactsPostgres) Get(ctx context.Context, id ContactID) (*Contact, error) {
	query, args, err := s.q.get(id)
	if err != nil {
		return nil, err
	}
	c, err := scanContact(s.pool.QueryRow(ctx, query, args...))
	switch {
	case err == nil:
		return c, nil
	case errors.Is(err, pgx.ErrNoRows):
		return nil, ErrObjectNotFound
	default:
		return nil, fmt.Errorf("get contact: %w", err)
	}
}

func (s *ContactsPostgres) Update(ctx context.Context, id ContactID, c *Contact) error {
	query, args, err := s.q.update(id, c)
	if err != nil {
		return err
	}
	if err := s.exec(ctx, query, args); err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	c.ID = id
	return nil
}

func (s *ContactsPostgres) Delete(ctx context.Context, id ContactID) error {
	query, args, err := s.q.delete(id)
	if err != nil {
		return err
	}
	if err := s.exec(ctx, query, args); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}

func (s *ContactsPostgres) exec(ctx context.Context, query string, args []any) error {
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrObjectNotFound
	}
	return nil
}
