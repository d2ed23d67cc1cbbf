package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	ds "github.com/Luq02/lab6/datastores"
	"github.com/Luq02/lab6/views"
)

// ContactPages serves the HTML interface of the contacts store.
type ContactPages struct {
	Store        ds.ContactsStore
	ErrorHandler func(context.Context, error)

	// Middleware, when set, wraps every page handler.
	Middleware func(http.Handler) http.Handler
}

// Register mounts the pages on mux.
func (p *ContactPages) Register(mux *http.ServeMux) {
	for _, route := range []struct {
		pattern string
		handler http.HandlerFunc
	}{
		{"GET /{$}", p.index},
		{"GET /add", p.addForm},
		{"POST /add", p.add},
		{"GET /contact/{id}", p.detail},
		{"GET /update/{id}", p.updateForm},
		{"POST /update/{id}", p.update},
		{"POST /delete/{id}", p.remove},
	} {
		var h http.Handler = route.handler
		if p.Middleware != nil {
			h = p.Middleware(h)
		}
		mux.Handle(route.pattern, h)
	}
}

func newContactView(c *ds.Contact) views.Contact {
	return views.Contact{
		ID:    c.ID,
		Name:  c.Name,
		Phone: c.Phone,
		Email: c.Email,
		Type:  c.Type,
	}
}

func newAddForm(values ContactFields, missing []string) views.Form {
	return views.Form{
		Action:  "/add",
		Submit:  "Add",
		Values:  views.Contact{Name: values.Name, Phone: values.Phone, Email: values.Email, Type: values.Type},
		Missing: missing,
	}
}

func newUpdateForm(id ds.ContactID, values ContactFields, missing []string) views.Form {
	return views.Form{
		Action:  "/update/" + strconv.FormatInt(id, 10),
		Submit:  "Update",
		Values:  views.Contact{ID: id, Name: values.Name, Phone: values.Phone, Email: values.Email, Type: values.Type},
		Missing: missing,
	}
}

func (p *ContactPages) render(w http.ResponseWriter, r *http.Request, status int, title string, body templ.Component) {
	templ.Handler(views.Page(title, body), templ.WithStatus(status)).ServeHTTP(w, r)
}

func (p *ContactPages) notFound(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, http.StatusNotFound, "Not found",
		views.Message("Contact not found", "The contact you are looking for does not exist."))
}

func (p *ContactPages) fail(w http.ResponseWriter, r *http.Request, err error) {
	if p.ErrorHandler != nil {
		p.ErrorHandler(r.Context(), err)
	}
	p.render(w, r, http.StatusInternalServerError, "Error",
		views.Message("Something went wrong", "The request could not be completed, please try again."))
}

// contactID reads the id path value. A malformed id cannot match any
// contact and reports false.
func contactID(r *http.Request) (ds.ContactID, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil
}

func formFields(r *http.Request) ContactFields {
	return ContactFields{
		Name:  r.PostFormValue("name"),
		Phone: r.PostFormValue("phone"),
		Email: r.PostFormValue("email"),
		Type:  r.PostFormValue("type"),
	}
}

func (p *ContactPages) index(w http.ResponseWriter, r *http.Request) {
	contacts, err := p.Store.List(r.Context())
	if err != nil {
		p.fail(w, r, err)
		return
	}

	list := make([]views.Contact, 0, len(contacts))
	for _, c := range contacts {
		list = append(list, newContactView(c))
	}
	p.render(w, r, http.StatusOK, "Contacts", views.Index(list, newAddForm(ContactFields{}, nil)))
}

func (p *ContactPages) addForm(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, http.StatusOK, "Add contact", views.ContactForm(newAddForm(ContactFields{}, nil)))
}

func (p *ContactPages) add(w http.ResponseWriter, r *http.Request) {
	fields := formFields(r)
	if v := ValidateContact(fields); !v.Valid() {
		p.render(w, r, http.StatusBadRequest, "Add contact", views.ContactForm(newAddForm(fields, v.Missing)))
		return
	}

	if _, err := p.Store.Create(r.Context(), fields.contact()); err != nil {
		p.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (p *ContactPages) detail(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(r)
	if !ok {
		p.notFound(w, r)
		return
	}

	contact, err := p.Store.Get(r.Context(), id)
	switch {
	case err == nil:
		p.render(w, r, http.StatusOK, contact.Name, views.Detail(newContactView(contact)))
	case errors.Is(err, ds.ErrObjectNotFound):
		p.notFound(w, r)
	default:
		p.fail(w, r, err)
	}
}

func (p *ContactPages) updateForm(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(r)
	if !ok {
		p.notFound(w, r)
		return
	}

	contact, err := p.Store.Get(r.Context(), id)
	switch {
	case err == nil:
		values := ContactFields{Name: contact.Name, Phone: contact.Phone, Email: contact.Email, Type: contact.Type}
		p.render(w, r, http.StatusOK, "Edit "+contact.Name, views.ContactForm(newUpdateForm(id, values, nil)))
	case errors.Is(err, ds.ErrObjectNotFound):
		p.notFound(w, r)
	default:
		p.fail(w, r, err)
	}
}

func (p *ContactPages) update(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(r)
	if !ok {
		p.notFound(w, r)
		return
	}

	fields := formFields(r)
	if v := ValidateContact(fields); !v.Valid() {
		p.render(w, r, http.StatusBadRequest, "Edit contact", views.ContactForm(newUpdateForm(id, fields, v.Missing)))
		return
	}

	err := p.Store.Update(r.Context(), id, fields.contact())
	switch {
	case err == nil:
		http.Redirect(w, r, "/contact/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
	case errors.Is(err, ds.ErrObjectNotFound):
		p.notFound(w, r)
	default:
		p.fail(w, r, err)
	}
}

func (p *ContactPages) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(r)
	if ok {
		err := p.Store.Delete(r.Context(), id)
		if err != nil && !errors.Is(err, ds.ErrObjectNotFound) {
			p.fail(w, r, err)
			return
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
