package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	ds "github.com/Luq02/lab6/datastores"
)

// Contacts serves the JSON API of the contacts store.
type Contacts struct {
	Store        ds.ContactsStore
	ErrorHandler func(context.Context, error)
}

type ContactModel struct {
	ID ds.ContactID `json:"id" example:"12" readOnly:"true"`

	Name  string `json:"name"  example:"John Doe"`
	Phone string `json:"phone" example:"1234567890"`
	Email string `json:"email" example:"john@example.com"`
	Type  string `json:"type"  example:"Personal"`
}

func newContactModel(c *ds.Contact) ContactModel {
	return ContactModel{
		ID:    c.ID,
		Name:  c.Name,
		Phone: c.Phone,
		Email: c.Email,
		Type:  c.Type,
	}
}

func (h *Contacts) RegisterList(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, "/contacts",
		handlerWithErrorHandler(h.list, h.ErrorHandler),
		opErrors(http.StatusInternalServerError),
	)
}

type ContactsListOutput struct {
	Body []ContactModel
}

func (h *Contacts) list(ctx context.Context, _ *struct{}) (*ContactsListOutput, error) {
	contacts, err := h.Store.List(ctx)
	if err != nil {
		return nil, err
	}

	body := make([]ContactModel, 0, len(contacts))
	for _, contact := range contacts {
		body = append(body, newContactModel(contact))
	}

	return &ContactsListOutput{Body: body}, nil
}

func (h *Contacts) RegisterGet(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, "/contacts/{id}",
		handlerWithErrorHandler(h.get, h.ErrorHandler),
		opErrors(http.StatusNotFound, http.StatusInternalServerError),
	)
}

type ContactOutput struct {
	Body ContactModel
}

func (h *Contacts) get(ctx context.Context, input *struct {
	ID ds.ContactID `path:"id" example:"12" doc:"ID of the contact to get"`
}) (*ContactOutput, error) {
	contact, err := h.Store.Get(ctx, input.ID)
	switch {
	case err == nil:
		return &ContactOutput{Body: newContactModel(contact)}, nil

	case errors.Is(err, ds.ErrObjectNotFound):
		return nil, huma.Error404NotFound("id not found", err)

	default:
		return nil, err
	}
}

func (h *Contacts) RegisterPost(api huma.API) { // called by [huma.AutoRegister]
	huma.Post(api, "/contacts",
		handlerWithErrorHandler(h.post, h.ErrorHandler),
		opErrors(http.StatusBadRequest, http.StatusInternalServerError),
		func(o *huma.Operation) { o.DefaultStatus = http.StatusCreated },
	)
}

func (h *Contacts) post(ctx context.Context, input *struct {
	Body ContactFields
}) (*ContactOutput, error) {
	if v := ValidateContact(input.Body); !v.Valid() {
		return nil, huma.Error400BadRequest(v.Error(), v.details()...)
	}

	contact := input.Body.contact()
	if _, err := h.Store.Create(ctx, contact); err != nil {
		return nil, err
	}

	return &ContactOutput{Body: newContactModel(contact)}, nil
}

func (h *Contacts) RegisterPut(api huma.API) { // called by [huma.AutoRegister]
	huma.Put(api, "/contacts/{id}",
		handlerWithErrorHandler(h.put, h.ErrorHandler),
		opErrors(http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError),
	)
}

func (h *Contacts) put(ctx context.Context, input *struct {
	ID   ds.ContactID `path:"id" example:"12" doc:"ID of the contact to replace"`
	Body ContactFields
}) (*ContactOutput, error) {
	if v := ValidateContact(input.Body); !v.Valid() {
		return nil, huma.Error400BadRequest(v.Error(), v.details()...)
	}

	contact := input.Body.contact()
	err := h.Store.Update(ctx, input.ID, contact)
	switch {
	case err == nil:
		return &ContactOutput{Body: newContactModel(contact)}, nil

	case errors.Is(err, ds.ErrObjectNotFound):
		return nil, huma.Error404NotFound("id not found", err)

	default:
		return nil, err
	}
}

func (h *Contacts) RegisterDelete(api huma.API) { // called by [huma.AutoRegister]
	huma.Delete(api, "/contacts/{id}",
		handlerWithErrorHandler(h.del, h.ErrorHandler),
		opErrors(http.StatusNotFound, http.StatusInternalServerError),
	)
}

func (h *Contacts) del(ctx context.Context, input *struct {
	ID ds.ContactID `path:"id" example:"12" doc:"ID of the contact to delete"`
}) (*struct{}, error) {
	err := h.Store.Delete(ctx, input.ID)
	if errors.Is(err, ds.ErrObjectNotFound) {
		return nil, huma.Error404NotFound("id not found", err)
	}
	return nil, err
}
