package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Section is one labelled part of a submission body.
type Section struct {
	Label string
	Text  string
}

// Sections is an ordered label→text mapping. Labels are unique and the order
// is the display order. It encodes as a JSON object that keeps that order.
type Sections []Section

// Body builds the single-section content used by question and ticket kinds.
func Body(text string) Sections {
	return Sections{{Label: BodyLabel, Text: text}}
}

func (s Sections) Get(label string) (string, bool) {
	for _, sec := range s {
		if sec.Label == label {
			return sec.Text, true
		}
	}
	return "", false
}

// Set replaces the text of an existing label or appends a new section.
func (s *Sections) Set(label, text string) {
	for i := range *s {
		if (*s)[i].Label == label {
			(*s)[i].Text = text
			return
		}
	}
	*s = append(*s, Section{Label: label, Text: text})
}

func (s Sections) Clone() Sections {
	if s == nil {
		return nil
	}
	return append(Sections(nil), s...)
}

func (s Sections) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sec := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sec.Label)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(sec.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Sections) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("sections: expected object, got %v", tok)
	}
	var out Sections
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := tok.(string)
		if !ok {
			return fmt.Errorf("sections: expected string key, got %v", tok)
		}
		var text string
		if err := dec.Decode(&text); err != nil {
			return fmt.Errorf("sections: value of %q: %w", label, err)
		}
		out.Set(label, text)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}
