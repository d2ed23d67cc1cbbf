package datastores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/Luq02/lab6/datastores/migrations"
)

const sqliteMemory = ":memory:"

// ContactsSQLite implements [ContactsStore] on top of a SQLite database.
type ContactsSQLite struct {
	db *sql.DB
	q  contactsQueries
}

var _ ContactsStore = (*ContactsSQLite)(nil)

// OpenContactsSQLite opens the database at path and applies the embedded
// migrations. The special path ":memory:" opens a private in-memory database.
func OpenContactsSQLite(ctx context.Context, path string) (*ContactsSQLite, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	dsn := sqliteMemory
	if path != sqliteMemory {
		dsn = filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == sqliteMemory {
		// every connection to :memory: is a distinct database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &ContactsSQLite{db: db, q: newContactsQueries(sq.Question)}, nil
}

// Ping reports whether the database is reachable.
func (s *ContactsSQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database handle.
func (s *ContactsSQLite) Close() error {
	return s.db.Close()
}

func (s *ContactsSQLite) Create(ctx context.Context, c *Contact) (ContactID, error) {
	query, args, err := s.q.insert(c)
	if err != nil {
		return 0, err
	}
	var id ContactID
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("create contact: %w", err)
	}
	c.ID = id
	return id, nil
}

func (s *ContactsSQLite) List(ctx context.Context) ([]*Contact, error) {
	query, args, err := s.q.list()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []*Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

func (s *ContactsSQLite) Get(ctx context.Context, id ContactID) (*Contact, error) {
	query, args, err := s.q.get(id)
	if err != nil {
		return nil, err
	}
	c, err := scanContact(s.db.QueryRowContext(ctx, query, args...))
	switch {
	case err == nil:
		return c, nil
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrObjectNotFound
	default:
		return nil, fmt.Errorf("get contact: %w", err)
	}
}

func (s *ContactsSQLite) Update(ctx context.Context, id ContactID, c *Contact) error {
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

func (s *ContactsSQLite) Delete(ctx context.Context, id ContactID) error {
	query, args, err := s.q.delete(id)
	if err != nil {
		return err
	}
	if err := s.exec(ctx, query, args); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}

// exec runs a statement targeting a single row and returns
// [ErrObjectNotFound] when no row was affected.
func (s *ContactsSQLite) exec(ctx context.Context, query string, args []any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrObjectNotFound
	}
	return nil
}
