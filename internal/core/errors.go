package core

// errors.go defines the pipeline failure taxonomy.
//
// Every error leaving Run or Service.Process is an *Error carrying a Kind.
// KindInsufficientData never halts: it is returned as Outcome.Warning.
// All other kinds stop the pipeline at the component that raised them.

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies pipeline failures.
type Kind int

const (
	// KindParse: the upload is not a readable workbook, or a cell of the
	// selected item holds a value that cannot be used.
	KindParse Kind = iota + 1
	// KindSchema: a required column is missing.
	KindSchema
	// KindInsufficientData: fewer observations than the policy threshold.
	KindInsufficientData
	// KindModelFit: the model could not be fitted or produced unusable values.
	KindModelFit
	// KindInvalidInput: the caller selected an unknown item or a horizon out of range.
	KindInvalidInput
)

// String returns the kind name used in logs and API responses.
func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse_error"
	case KindSchema:
		return "schema_error"
	case KindInsufficientData:
		return "insufficient_data"
	case KindModelFit:
		return "model_fit_error"
	case KindInvalidInput:
		return "invalid_input"
	default:
		return "unknown"
	}
}

// User-visible messages.
const (
	MsgLoaded           = "Fichier chargé avec succès !"
	MsgSchema           = "Le fichier doit contenir les colonnes suivantes : Année, Article, Ventes."
	MsgInsufficientData = "Pas assez de données pour faire une prévision fiable (minimum 4 années)."
	msgReadPrefix       = "Erreur lors de la lecture du fichier : "
)

// Error is a classified pipeline failure.
type Error struct {
	Kind    Kind
	Message string // French message shown to the user
	Err     error  // Underlying technical error, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Halts reports whether the pipeline stops on this error.
func (e *Error) Halts() bool {
	return e.Kind != KindInsufficientData
}

// parseError wraps a reading failure; the message carries the raw error text
// the way the upload page has always shown it.
func parseError(err error) *Error {
	return &Error{Kind: KindParse, Message: msgReadPrefix + err.Error(), Err: err}
}

func schemaError(missing []string) *Error {
	return &Error{
		Kind:    KindSchema,
		Message: MsgSchema,
		Err:     fmt.Errorf("missing required columns: %s", strings.Join(missing, ", ")),
	}
}

func insufficientData(item string, have, need int) *Error {
	return &Error{
		Kind:    KindInsufficientData,
		Message: MsgInsufficientData,
		Err:     fmt.Errorf("item %q has %d observations, need %d", item, have, need),
	}
}

func modelFitError(err error) *Error {
	return &Error{
		Kind:    KindModelFit,
		Message: msgReadPrefix + err.Error(),
		Err:     fmt.Errorf("model fit: %w", err),
	}
}

func invalidInput(message string, err error) *Error {
	return &Error{Kind: KindInvalidInput, Message: message, Err: err}
}

// KindOf classifies any error. Errors that did not come from the pipeline are
// reported as parse errors, the catch-all for anything that went wrong while
// reading the upload.
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindParse
}

// AsError returns err as an *Error, classifying unknown errors as KindParse.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return parseError(err)
}
