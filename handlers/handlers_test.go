package handlers

import (
	"context"
	"errors"

	ds "github.com/Luq02/lab6/datastores"
)

var errStoreDown = errors.New("store down")

// failingStore fails every operation with errStoreDown.
type failingStore struct{}

func (failingStore) Create(context.Context, *ds.Contact) (ds.ContactID, error) {
	return 0, errStoreDown
}
func (failingStore) List(context.Context) ([]*ds.Contact, error) { return nil, errStoreDown }
func (failingStore) Get(context.Context, ds.ContactID) (*ds.Contact, error) {
	return nil, errStoreDown
}
func (failingStore) Update(context.Context, ds.ContactID, *ds.Contact) error { return errStoreDown }
func (failingStore) Delete(context.Context, ds.ContactID) error               { return errStoreDown }

// errorRecorder collects the errors passed to an ErrorHandler.
type errorRecorder struct{ errs []error }

func (r *errorRecorder) handle(_ context.Context, err error) { r.errs = append(r.errs, err) }

func sampleStore() *ds.ContactsInmem {
	return ds.NewContactsInmem(&ds.Contact{
		Name:  "John Doe",
		Phone: "1234567890",
		Email: "john@example.com",
		Type:  "Personal",
	})
}
