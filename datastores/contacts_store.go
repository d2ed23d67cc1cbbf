package datastores

import (
	"context"
	"errors"
)

type (
	ContactID = int64
	Contact   struct {
		ID    ContactID
		Name  string
		Phone string
		Email string
		Type  string
	}
)

// ContactsStore persists contacts. Implementations assign IDs on Create and
// never reuse an ID once it has been deleted.
type ContactsStore interface {
	Create(context.Context, *Contact) (ContactID, error)
	List(context.Context) ([]*Contact, error)
	Get(context.Context, ContactID) (*Contact, error)
	Update(context.Context, ContactID, *Contact) error
	Delete(context.Context, ContactID) error
}

var ErrObjectNotFound = errors.New("store: object not found")

// clone returns a copy of c so that callers never share memory with a store.
func (c *Contact) clone() *Contact {
	cc := *c
	return &cc
}
