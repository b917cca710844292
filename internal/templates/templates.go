// Package templates provides named text templates for the generator.
//
// Templates are looked up by name through a Store. The built-in sets are
// compiled into the binary; a directory on disk can override them.
package templates

import (
	"errors"
	"fmt"
	"io"
)

// Template names the generator requires.
const (
	EnumExtensionTemplate = "EnumExtensionTemplate"
	EnumValueInit         = "EnumValueInit"
)

// Ext is the file extension of template resources.
const Ext = ".tmpl"

// ErrTemplateNotFound matches every *NotFoundError.
var ErrTemplateNotFound = errors.New("template not found")

// NotFoundError reports a template missing from a store.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template %q not found", e.Name)
}

func (e *NotFoundError) Unwrap() error { return ErrTemplateNotFound }

// Template is an immutable template text.
type Template struct {
	Name string
	Text string
}

// Store opens templates by name. Open reports a missing template with *NotFoundError.
type Store interface {
	Open(name string) (io.ReadCloser, error)
}

// Load reads a whole template from store. The resource is closed before Load returns.
func Load(store Store, name string) (tpl Template, err error) {
	rc, err := store.Open(name)
	if err != nil {
		return Template{}, err
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close template %q: %w", name, cerr)
		}
	}()
	data, err := io.ReadAll(rc)
	if err != nil {
		return Template{}, fmt.Errorf("read template %q: %w", name, err)
	}
	return Template{Name: name, Text: string(data)}, nil
}
