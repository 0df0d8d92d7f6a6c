package edit

import (
	"errors"
	"fmt"
)

// Kind classifies edit failures for telemetry and for tailored remediation
// messages. Callers match on the kind, never on error text.
type Kind string

const (
	// KindNoMatch - the matcher found zero matches after all strategies
	// and the deletion fallback retry.
	KindNoMatch Kind = "noMatchFound"
	// KindMultipleMatches - the matcher found ambiguous candidates.
	KindMultipleMatches Kind = "multipleMatches"
	// KindNoChange - the computed update equals the original content.
	KindNoChange Kind = "noChange"
	// KindContentFormat - creation was requested but the file has content.
	KindContentFormat Kind = "contentFormat"
	// KindUnknown - any other unexpected failure, e.g. filesystem errors.
	KindUnknown Kind = "unknownError"
)

// Error is the typed failure returned by the applier. The matcher itself
// never produces errors; only the applier converts an unsuccessful match
// into one.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the classification of err, or KindUnknown for errors that
// did not originate here. Returns "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func noMatchError(suggestion string) *Error {
	msg := "search text not found in file"
	if suggestion != "" {
		msg += ": " + suggestion
	}
	return &Error{Kind: KindNoMatch, Message: msg}
}

func multipleMatchesError(count int, strategy string) *Error {
	return &Error{
		Kind:    KindMultipleMatches,
		Message: fmt.Sprintf("search text matches %d locations (%s strategy); add more surrounding context to make it unique", count, strategy),
	}
}

func noChangeError() *Error {
	return &Error{Kind: KindNoChange, Message: "edit produced no change to the file"}
}

func contentFormatError(path string) *Error {
	return &Error{
		Kind:    KindContentFormat,
		Message: fmt.Sprintf("cannot create %s: file already has content; use a non-empty search string to edit it", path),
	}
}

func wrapUnknown(err error) *Error {
	return &Error{Kind: KindUnknown, Message: "edit failed", Err: err}
}
