package datastores

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSeed is returned by [LoadSeed] for an entry with a blank field.
var ErrInvalidSeed = errors.New("store: invalid seed contact")

type seedContact struct {
	Name  string `yaml:"name"`
	Phone string `yaml:"phone"`
	Email string `yaml:"email"`
	Type  string `yaml:"type"`
}

// LoadSeed decodes a YAML sequence of contacts such as:
//
//	- name: John Doe
//	  phone: "1234567890"
//	  email: john@example.com
//	  type: Personal
//
// Every field of every entry must be non-blank.
func LoadSeed(r io.Reader) ([]*Contact, error) {
	var entries []seedContact
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	contacts := make([]*Contact, 0, len(entries))
	for i, e := range entries {
		if missing := e.missing(); len(missing) > 0 {
			return nil, fmt.Errorf("%w: entry %d: missing %s", ErrInvalidSeed, i, strings.Join(missing, ", "))
		}
		contacts = append(contacts, &Contact{
			Name:  e.Name,
			Phone: e.Phone,
			Email: e.Email,
			Type:  e.Type,
		})
	}
	return contacts, nil
}

func (e seedContact) missing() []string {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", e.Name},
		{"phone", e.Phone},
		{"email", e.Email},
		{"type", e.Type},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Seed creates contacts in store unless it already holds some.
// It returns the number of contacts created.
func Seed(ctx context.Context, store ContactsStore, contacts []*Contact) (int, error) {
	existing, err := store.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for i, c := range contacts {
		if _, err := store.Create(ctx, c); err != nil {
			return i, fmt.Errorf("seed contact %q: %w", c.Name, err)
		}
	}
	return len(contacts), nil
}
