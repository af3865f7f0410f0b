package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Kind tags what a submission is. It only affects the form, the store and the
// destination channel; the lifecycle is chosen by KindSpec.Lifecycle.
type Kind string

const (
	KindFeedback  Kind = "FEEDBACK_QUESTION"
	KindBugReport Kind = "BUG_REPORT"
	KindQuestion  Kind = "QUESTION"
	KindTicket    Kind = "TICKET"
)

// BodyLabel is the section label used by kinds that carry a single body.
const BodyLabel = "Body"

var ErrInvalidSubmission = errors.New("invalid submission")

// Field describes one text input of a submission form.
type Field struct {
	Label       string
	Placeholder string
	MinLength   int
	MaxLength   int
	Paragraph   bool
	Optional    bool
}

// KindSpec is the static description of a kind.
type KindSpec struct {
	Kind       Kind
	Noun       string
	ListNoun   string
	Store      string
	ChannelKey string
	FormTitle  string
	PanelLabel string
	PanelEmoji string
	Title      Field
	Fields     []Field
	SingleBody bool
	Typed      bool
	Lifecycle  Lifecycle
}

var kindOrder = []Kind{KindFeedback, KindBugReport, KindQuestion, KindTicket}

var kindSpecs = map[Kind]*KindSpec{
	KindFeedback: {
		Kind:       KindFeedback,
		Noun:       "Post",
		ListNoun:   "Posts",
		Store:      "posts",
		ChannelKey: "IAF_CHANNEL_ID",
		FormTitle:  "Ask a question/Give feedback",
		PanelLabel: "Create Post",
		PanelEmoji: "📝",
		Title: Field{
			Label:       "Post/Feedback Title",
			Placeholder: "Enter a concise, specific title",
			MinLength:   10,
			MaxLength:   100,
		},
		Fields: []Field{{
			Label:       "Post/Feedback Body",
			Placeholder: "You can add more details here! You can add images when the post has been improved.",
			MinLength:   10,
			MaxLength:   2000,
			Paragraph:   true,
		}},
		Typed:     true,
		Lifecycle: LifecycleReview,
	},
	KindBugReport: {
		Kind:       KindBugReport,
		Noun:       "Bug report",
		ListNoun:   "Posts",
		Store:      "posts",
		ChannelKey: "BUG_REPORT_CHANNEL_ID",
		FormTitle:  "Create a bug report",
		PanelLabel: "Create Bug Report",
		PanelEmoji: "🪲",
		Title: Field{
			Label:       "Issue Title",
			Placeholder: "Enter a brief description of the error.",
			MaxLength:   100,
		},
		Fields: []Field{
			{Label: "Steps to reproduce the issue", Placeholder: "What do you need for the issue to arise?", MaxLength: 1024, Paragraph: true},
			{Label: "What is the expected result?", Placeholder: "Please enter the expected result, even if it's obvious :)", MaxLength: 1024, Paragraph: true},
			{Label: "What's the actual result?", Placeholder: "Please enter the actual result here", MaxLength: 1024, Paragraph: true},
			{Label: "Additional Details", Placeholder: "Is there anything more you want to add?", MaxLength: 1024, Paragraph: true, Optional: true},
		},
		Typed:     true,
		Lifecycle: LifecycleReview,
	},
	KindQuestion: {
		Kind:       KindQuestion,
		Noun:       "Question",
		ListNoun:   "Questions",
		Store:      "questions",
		ChannelKey: "IAF_CHANNEL_ID",
		FormTitle:  "Ask a question/Give feedback",
		PanelLabel: "Ask a Question",
		PanelEmoji: "❓",
		Title: Field{
			Label:       "Question/Feedback Title",
			Placeholder: "Enter a concise, specific title",
			MinLength:   10,
			MaxLength:   100,
		},
		Fields: []Field{{
			Label:       "Question/Feedback Body",
			Placeholder: "You can add more details here! You can add images when the question has been improved.",
			MinLength:   10,
			MaxLength:   2000,
			Paragraph:   true,
		}},
		SingleBody: true,
		Lifecycle:  LifecycleReview,
	},
	KindTicket: {
		Kind:       KindTicket,
		Noun:       "Ticket",
		ListNoun:   "Tickets",
		Store:      "tickets",
		FormTitle:  "Create a ticket",
		PanelLabel: "Open a Ticket",
		PanelEmoji: "🎫",
		Title: Field{
			Label:       "Ticket title",
			Placeholder: "Enter a concise, specific title detailing the problem",
			MinLength:   10,
			MaxLength:   100,
		},
		Fields: []Field{{
			Label:       "Ticket Body",
			Placeholder: "You can elaborate on the problem here",
			MinLength:   10,
			MaxLength:   2000,
			Paragraph:   true,
		}},
		SingleBody: true,
		Lifecycle:  LifecycleTicket,
	},
}

// Kinds returns every kind in panel order.
func Kinds() []Kind {
	return append([]Kind(nil), kindOrder...)
}

// ParseKind accepts the persisted enum name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := kindSpecs[k]; !ok {
		return "", fmt.Errorf("unknown submission kind %q", s)
	}
	return k, nil
}

// Spec returns the static description of k. Unknown kinds panic; every Kind
// value in circulation comes from ParseKind or the constants above.
func (k Kind) Spec() *KindSpec {
	spec, ok := kindSpecs[k]
	if !ok {
		panic(fmt.Sprintf("model: unknown kind %q", string(k)))
	}
	return spec
}

// SectionLabel is the Sections label used for the i-th form field.
func (s *KindSpec) SectionLabel(i int) string {
	if s.SingleBody {
		return BodyLabel
	}
	return s.Fields[i].Label
}

// Validate checks that required fields are present and that no field is
// longer than its form allows. Minimum lengths are enforced by the form.
func (s *KindSpec) Validate(title string, content Sections) error {
	if err := s.Title.check(title); err != nil {
		return err
	}
	for i, f := range s.Fields {
		text, _ := content.Get(s.SectionLabel(i))
		if err := f.check(text); err != nil {
			return err
		}
	}
	return nil
}

func (f Field) check(value string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	switch {
	case n == 0 && f.Optional:
		return nil
	case n == 0:
		return fmt.Errorf("%w: %s is required", ErrInvalidSubmission, f.Label)
	case f.MaxLength > 0 && n > f.MaxLength:
		return fmt.Errorf("%w: %s must be at most %d characters", ErrInvalidSubmission, f.Label, f.MaxLength)
	}
	return nil
}
