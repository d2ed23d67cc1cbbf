// Package views renders the HTML pages of the contacts web interface.
//
// Components are written against the templ runtime directly, every user
// supplied value goes through [templ.EscapeString].
package views

import (
	"context"
	"io"
	"slices"
	"strconv"

	"github.com/a-h/templ"
)

// Contact is the view of a stored contact.
type Contact struct {
	ID    int64
	Name  string
	Phone string
	Email string
	Type  string
}

// Form describes a contact form and the values it is prefilled with.
type Form struct {
	Action  string
	Submit  string
	Values  Contact
	Missing []string
}

// html accumulates the first write error so that components can be
// written as a flat sequence of calls.
type html struct {
	w   io.Writer
	err error
}

// raw writes trusted markup.
func (h *html) raw(parts ...string) {
	for _, s := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, s)
	}
}

// text writes s escaped.
func (h *html) text(s string) { h.raw(templ.EscapeString(s)) }

func contactPath(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10)
}

// Page wraps body in the document layout.
func Page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		h.text(title)
		h.raw(`</title></head><body><header><a href="/">Contacts</a></header><main>`)
		if h.err != nil {
			return h.err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</main></body></html>`)
		return h.err
	})
}

// Index lists contacts followed by the form adding a new one.
func Index(contacts []Contact, add Form) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h1>Contacts</h1>`)
		if len(contacts) == 0 {
			h.raw(`<p>No contacts yet.</p>`)
		} else {
			h.raw(`<table><thead><tr><th>Name</th><th>Phone</th><th>Email</th><th>Type</th><th></th></tr></thead><tbody>`)
			for _, c := range contacts {
				h.raw(`<tr><td><a href="`, contactPath("/contact/", c.ID), `">`)
				h.text(c.Name)
				h.raw(`</a></td><td>`)
				h.text(c.Phone)
				h.raw(`</td><td>`)
				h.text(c.Email)
				h.raw(`</td><td>`)
				h.text(c.Type)
				h.raw(`</td><td><a href="`, contactPath("/update/", c.ID), `">Edit</a> `)
				h.raw(`<form method="post" action="`, contactPath("/delete/", c.ID), `"><button type="submit">Delete</button></form>`)
				h.raw(`</td></tr>`)
			}
			h.raw(`</tbody></table>`)
		}
		h.raw(`<h2>Add contact</h2>`)
		if h.err != nil {
			return h.err
		}
		return ContactForm(add).Render(ctx, w)
	})
}

// Detail shows every field of a contact.
func Detail(c Contact) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h1>`)
		h.text(c.Name)
		h.raw(`</h1><dl>`)
		for _, f := range [...]struct{ label, value string }{
			{"Name", c.Name},
			{"Phone", c.Phone},
			{"Email", c.Email},
			{"Type", c.Type},
		} {
			h.raw(`<dt>`, f.label, `</dt><dd>`)
			h.text(f.value)
			h.raw(`</dd>`)
		}
		h.raw(`</dl><p><a href="`, contactPath("/update/", c.ID), `">Edit</a></p>`)
		h.raw(`<form method="post" action="`, contactPath("/delete/", c.ID), `"><button type="submit">Delete</button></form>`)
		return h.err
	})
}

// ContactForm renders the four contact inputs. Fields listed in
// f.Missing are flagged.
func ContactForm(f Form) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		if len(f.Missing) > 0 {
			h.raw(`<p class="error">Please fill in every field.</p>`)
		}
		h.raw(`<form method="post" action="`)
		h.text(f.Action)
		h.raw(`">`)
		for _, in := range [...]struct{ name, label, kind, value string }{
			{"name", "Name", "text", f.Values.Name},
			{"phone", "Phone", "tel", f.Values.Phone},
			{"email", "Email", "email", f.Values.Email},
			{"type", "Type", "text", f.Values.Type},
		} {
			h.raw(`<label>`, in.label, ` <input type="`, in.kind, `" name="`, in.name, `" value="`)
			h.text(in.value)
			h.raw(`" required></label>`)
			if slices.Contains(f.Missing, in.name) {
				h.raw(`<span class="error">`, in.label, ` is required</span>`)
			}
		}
		h.raw(`<button type="submit" name="submit" value="`)
		h.text(f.Submit)
		h.raw(`">`)
		h.text(f.Submit)
		h.raw(`</button></form>`)
		return h.err
	})
}

// Message renders a heading and a short explanation, used for error pages.
func Message(title, text string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h1>`)
		h.text(title)
		h.raw(`</h1><p>`)
		h.text(text)
		h.raw(`</p>`)
		return h.err
	})
}
