package form

import (
	"net/url"
	"strings"

	"github.com/asaskevich/govalidator"

	"skajny/internal/models"
)

// Contact is the state of the public contact form.
type Contact struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// With implements State.
func (c Contact) With(field, value string) Contact {
	switch field {
	case FieldName:
		c.Name = value
	case FieldEmail:
		c.Email = value
	case FieldSubject:
		c.Subject = value
	case FieldMessage:
		c.Message = value
	}
	return c
}

// ParseContact builds the form state from submitted values.
func ParseContact(v url.Values) Contact {
	var c Contact
	for _, field := range []string{FieldName, FieldEmail, FieldSubject, FieldMessage} {
		c = Reduce(c, field, strings.TrimSpace(v.Get(field)))
	}
	return c
}

// Validate checks required fields and the email format only.
func (c Contact) Validate() Errors {
	errs := Errors{}
	required(errs, FieldName, c.Name)
	required(errs, FieldEmail, c.Email)
	required(errs, FieldSubject, c.Subject)
	required(errs, FieldMessage, c.Message)
	if _, ok := errs[FieldEmail]; !ok && !govalidator.IsEmail(c.Email) {
		errs[FieldEmail] = "Zadejte platnou e-mailovou adresu."
	}
	return errs
}

// NewMessage converts the form into the fields of a new message.
func (c Contact) NewMessage() models.NewMessage {
	return models.NewMessage{Name: c.Name, Email: c.Email, Subject: c.Subject, Body: c.Message}
}
