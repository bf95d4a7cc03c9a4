// Package forms holds the immutable questionnaire catalog. Forms are
// registered at process start and never change afterwards: a question
// index always maps to the same prompt for the lifetime of the process.
package forms

import (
	"fmt"
)

// Form describes one questionnaire: a stable identifier, the display title
// used as the sink worksheet name, the menu button label, and the ordered
// question list.
type Form struct {
	ID        string
	Title     string
	Button    string
	Questions []string
}

// MetaHeaders returns the fixed metadata columns that precede the question
// columns in every worksheet.
func MetaHeaders() []string {
	return []string{"timestamp_utc", "telegram_user_id", "telegram_username"}
}

// Headers computes the expected worksheet header row for the form:
// metadata columns followed by the question texts in order.
func (f *Form) Headers() []string {
	headers := MetaHeaders()
	return append(headers, f.Questions...)
}

// Catalog is a read-only registry of forms, resolvable by ID and by menu
// button label.
type Catalog struct {
	order    []string
	byID     map[string]*Form
	byButton map[string]*Form
}

// NewCatalog builds a catalog from the given forms. Form order is kept for
// menu building and startup worksheet reconciliation.
func NewCatalog(defs []Form) (*Catalog, error) {
	c := &Catalog{
		byID:     make(map[string]*Form, len(defs)),
		byButton: make(map[string]*Form, len(defs)),
	}

	for i := range defs {
		form := defs[i]
		if form.ID == "" || form.Title == "" || len(form.Questions) == 0 {
			return nil, fmt.Errorf("form %q is incomplete", form.ID)
		}
		if _, exists := c.byID[form.ID]; exists {
			return nil, fmt.Errorf("duplicate form id %q", form.ID)
		}
		if _, exists := c.byButton[form.Button]; form.Button != "" && exists {
			return nil, fmt.Errorf("duplicate form button %q", form.Button)
		}

		c.order = append(c.order, form.ID)
		c.byID[form.ID] = &form
		if form.Button != "" {
			c.byButton[form.Button] = &form
		}
	}

	return c, nil
}

// DefaultCatalog returns the built-in camp questionnaire catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultForms)
	if err != nil {
		// The built-in definitions are static; a failure here is a
		// programming error.
		panic(fmt.Sprintf("invalid built-in form catalog: %v", err))
	}
	return c
}

// IDs enumerates all form ids in registration order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	return ids
}

// Get resolves a form id.
func (c *Catalog) Get(id string) (*Form, bool) {
	form, ok := c.byID[id]
	return form, ok
}

// ByButton resolves a menu button label to its form.
func (c *Catalog) ByButton(label string) (*Form, bool) {
	form, ok := c.byButton[label]
	return form, ok
}
