package datastores

import (
	sq "github.com/Masterminds/squirrel"
)

const contactsTable = "contacts"

var contactColumns = []string{"id", "name", "phone", "email", "type"}

// contactsQueries builds the statements shared by the SQL backends, which
// differ only in their placeholder format.
type contactsQueries struct {
	sb sq.StatementBuilderType
}

func newContactsQueries(format sq.PlaceholderFormat) contactsQueries {
	return contactsQueries{sb: sq.StatementBuilder.PlaceholderFormat(format)}
}

func (q contactsQueries) insert(c *Contact) (string, []any, error) {
	return q.sb.Insert(contactsTable).
		Columns(contactColumns[1:]...).
		Values(c.Name, c.Phone, c.Email, c.Type).
		Suffix("RETURNING id").
		ToSql()
}

func (q contactsQueries) list() (string, []any, error) {
	return q.sb.Select(contactColumns...).
		From(contactsTable).
		OrderBy("id").
		ToSql()
}

func (q contactsQueries) get(id ContactID) (string, []any, error) {
	return q.sb.Select(contactColumns...).
		From(contactsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func (q contactsQueries) update(id ContactID, c *Contact) (string, []any, error) {
	return q.sb.Update(contactsTable).
		Set("name", c.Name).
		Set("phone", c.Phone).
		Set("email", c.Email).
		Set("type", c.Type).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func (q contactsQueries) delete(id ContactID) (string, []any, error) {
	return q.sb.Delete(contactsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
}

// rowScanner is satisfied by database/sql and pgx rows alike.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*Contact, error) {
	var c Contact
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Type); err != nil {
		return nil, err
	}
	return &c, nil
}
