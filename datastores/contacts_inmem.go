package datastores

import (
	"context"
	"sync"
)

// ContactsInmem implements [ContactsStore].
//
// Deleted contacts leave a nil slot behind so that positions in the index
// stay valid and List keeps insertion order.
type ContactsInmem struct {
	mu       sync.Mutex
	lastID   ContactID
	index    map[ContactID]int
	contacts []*Contact
}

var _ ContactsStore = (*ContactsInmem)(nil)

// NewContactsInmem returns a store holding cs, which get IDs assigned in order.
func NewContactsInmem(cs ...*Contact) *ContactsInmem {
	s := &ContactsInmem{
		index:    make(map[ContactID]int, len(cs)),
		contacts: make([]*Contact, 0, len(cs)),
	}
	for _, c := range cs {
		s.insert(c)
	}
	return s
}

func (s *ContactsInmem) insert(c *Contact) ContactID {
	s.lastID++
	c.ID = s.lastID
	s.index[c.ID] = len(s.contacts)
	s.contacts = append(s.contacts, c.clone())
	return c.ID
}

func (s *ContactsInmem) Create(ctx context.Context, c *Contact) (ContactID, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(c), nil
}

func (s *ContactsInmem) List(ctx context.Context) ([]*Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	contacts := make([]*Contact, 0, len(s.index))
	for _, c := range s.contacts {
		if c != nil {
			contacts = append(contacts, c.clone())
		}
	}
	return contacts, nil
}

func (s *ContactsInmem) Get(ctx context.Context, id ContactID) (*Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	index, ok := s.index[id]
	if !ok || s.contacts[index] == nil {
		return nil, ErrObjectNotFound
	}
	return s.contacts[index].clone(), nil
}

func (s *ContactsInmem) Update(ctx context.Context, id ContactID, c *Contact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	index, ok := s.index[id]
	if !ok || s.contacts[index] == nil {
		return ErrObjectNotFound
	}
	c.ID = id
	s.contacts[index] = c.clone()
	return nil
}

func (s *ContactsInmem) Delete(ctx context.Context, id ContactID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	index, ok := s.index[id]
	if !ok {
		return ErrObjectNotFound
	}
	delete(s.index, id)
	s.contacts[index] = nil
	return nil
}
