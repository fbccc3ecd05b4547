// Package forms validates and acknowledges the contact and reference forms.
// Submissions are acknowledged with a receipt; nothing is sent or stored.
package forms

import (
	"fmt"
	"log/slog"
	"net/mail"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ResetAfter is how long the success message stays before the form resets.
const ResetAfter = 3 * time.Second

const (
	maxShort = 200
	maxLong  = 5000
)

// ValidationError maps form fields to messages.
type ValidationError map[string]string

func (v ValidationError) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + v[f]
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

func (v ValidationError) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func (v ValidationError) maxLen(field, value string, n int) {
	if _, set := v[field]; !set && utf8.RuneCountInString(value) > n {
		v[field] = fmt.Sprintf("must be at most %d characters", n)
	}
}

func (v ValidationError) email(field, value string) {
	if _, set := v[field]; set {
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != strings.TrimSpace(value) {
		v[field] = "must be a valid email address"
	}
}

func (v ValidationError) err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// Contact is the "get in touch" form.
type Contact struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Subject string `form:"subject" json:"subject"`
	Message string `form:"message" json:"message"`
}

// Validate returns a ValidationError listing every bad field, or nil.
func (c Contact) Validate() error {
	v := ValidationError{}
	v.required("name", c.Name)
	v.required("email", c.Email)
	v.required("message", c.Message)
	v.email("email", c.Email)
	v.maxLen("name", c.Name, maxShort)
	v.maxLen("subject", c.Subject, maxShort)
	v.maxLen("message", c.Message, maxLong)
	return v.err()
}

// Reference is the "leave a reference" form.
type Reference struct {
	Name     string `form:"name" json:"name"`
	Role     string `form:"role" json:"role"`
	Email    string `form:"email" json:"email"`
	Feedback string `form:"feedback" json:"feedback"`
	Rating   int    `form:"rating" json:"rating"`
}

// Validate returns a ValidationError listing every bad field, or nil.
func (r Reference) Validate() error {
	v := ValidationError{}
	v.required("name", r.Name)
	v.required("role", r.Role)
	v.required("email", r.Email)
	v.required("feedback", r.Feedback)
	v.email("email", r.Email)
	v.maxLen("name", r.Name, maxShort)
	v.maxLen("role", r.Role, maxShort)
	v.maxLen("feedback", r.Feedback, maxLong)
	if r.Rating < 1 || r.Rating > 5 {
		v["rating"] = "pick between 1 and 5 stars"
	}
	return v.err()
}

// Receipt acknowledges an accepted submission.
type Receipt struct {
	ID         string        `json:"id"`
	Kind       string        `json:"kind"`
	Status     string        `json:"status"`
	ReceivedAt time.Time     `json:"received_at"`
	ResetAfter time.Duration `json:"reset_after"`
}

// Desk accepts form submissions.
type Desk struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewDesk returns a desk that logs accepted submissions to logger.
func NewDesk(logger *slog.Logger) *Desk {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Desk{logger: logger, now: time.Now}
}

// SubmitContact validates c and returns a receipt for it.
func (d *Desk) SubmitContact(c Contact) (Receipt, error) {
	if err := c.Validate(); err != nil {
		return Receipt{}, err
	}
	r := d.receipt("contact")
	d.logger.Info("contact message received", "receipt", r.ID, "subject", c.Subject)
	return r, nil
}

// SubmitReference validates r and returns a receipt for it.
func (d *Desk) SubmitReference(ref Reference) (Receipt, error) {
	if err := ref.Validate(); err != nil {
		return Receipt{}, err
	}
	r := d.receipt("reference")
	d.logger.Info("reference received", "receipt", r.ID, "rating", ref.Rating)
	return r, nil
}

func (d *Desk) receipt(kind string) Receipt {
	return Receipt{
		ID:         uuid.NewString(),
		Kind:       kind,
		Status:     "success",
		ReceivedAt: d.now(),
		ResetAfter: ResetAfter,
	}
}
