package model

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Snowflake is a Discord id. It is written as a JSON integer, like the
// original data files, and read from either an integer or a string.
type Snowflake string

var ErrInvalidSnowflake = errors.New("invalid snowflake")

// Validate checks that s is an unsigned decimal id.
func (s Snowflake) Validate() error {
	if _, err := strconv.ParseUint(string(s), 10, 64); err != nil {
		return fmt.Errorf("%w: %q is not numeric", ErrInvalidSnowflake, string(s))
	}
	return nil
}

func (s Snowflake) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte("null"), nil
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func (s *Snowflake) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		if str != "" {
			if err := Snowflake(str).Validate(); err != nil {
				return err
			}
		}
		*s = Snowflake(str)
		return nil
	}
	if err := Snowflake(data).Validate(); err != nil {
		return err
	}
	*s = Snowflake(data)
	return nil
}

// CheckIDs reports whether the id and author of s can be persisted.
func (s *Submission) CheckIDs() error {
	if s.ID == "" {
		return errors.New("submission has no id")
	}
	if err := Snowflake(s.ID).Validate(); err != nil {
		return fmt.Errorf("submission id: %w", err)
	}
	if err := Snowflake(s.Author.ID).Validate(); err != nil {
		return fmt.Errorf("author id: %w", err)
	}
	return nil
}

// Record is the persisted form of a Submission. Which optional fields are
// present depends on the store: posts carry type and values, questions a
// body, tickets a body and the closed flag.
type Record struct {
	ID     Snowflake `json:"id"`
	Title  string    `json:"title"`
	Author Snowflake `json:"author"`
	Status string    `json:"status,omitempty"`
	Type   string    `json:"type,omitempty"`
	Values Sections  `json:"values,omitempty"`
	Body   *string   `json:"body,omitempty"`
	Closed *bool     `json:"closed,omitempty"`
}

// ToRecord maps the submission to its persisted form.
func (s *Submission) ToRecord() Record {
	spec := s.Kind.Spec()
	rec := Record{
		ID:     Snowflake(s.ID),
		Title:  s.Title,
		Author: Snowflake(s.Author.ID),
		Status: string(s.Status),
	}
	if spec.Typed {
		rec.Type = string(s.Kind)
	}
	if spec.SingleBody {
		body, _ := s.Content.Get(BodyLabel)
		rec.Body = &body
	} else {
		rec.Values = s.Content.Clone()
	}
	if spec.Lifecycle == LifecycleTicket {
		closed := s.Status != StatusOpen
		rec.Closed = &closed
	}
	return rec
}

// FromRecord rebuilds a submission, resolving the author through dir.
// defaultKind is used for records that carry no type field.
func FromRecord(ctx context.Context, rec Record, defaultKind Kind, dir UserDirectory) (*Submission, error) {
	kind := defaultKind
	if rec.Type != "" {
		k, err := ParseKind(rec.Type)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		kind = k
	}
	spec := kind.Spec()

	var status Status
	switch {
	case rec.Status != "":
		st, err := spec.Lifecycle.ParseStatus(rec.Status)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		status = st
	case rec.Closed != nil && *rec.Closed:
		status = StatusClosed
	default:
		status = spec.Lifecycle.Initial()
	}

	var content Sections
	if spec.SingleBody {
		var body string
		if rec.Body != nil {
			body = *rec.Body
		}
		content = Body(body)
	} else {
		content = rec.Values.Clone()
	}

	author, err := dir.Resolve(ctx, string(rec.Author))
	if err != nil {
		var resolveErr *UserResolutionError
		if errors.As(err, &resolveErr) {
			return nil, err
		}
		return nil, &UserResolutionError{UserID: string(rec.Author), Err: err}
	}

	return &Submission{
		ID:      string(rec.ID),
		Kind:    kind,
		Title:   rec.Title,
		Content: content,
		Author:  author,
		Status:  status,
	}, nil
}
