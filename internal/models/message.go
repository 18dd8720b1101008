// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a contact-form submission. It is only ever created by the
// public contact form and read by the admin inbox; Read is written false
// at creation and never toggled.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Body      string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	Read      bool      `json:"read"`
}

// NewMessage holds the visitor-supplied fields of a contact submission.
type NewMessage struct {
	Name    string
	Email   string
	Subject string
	Body    string
}
