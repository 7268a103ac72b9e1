package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindParse, "parse_error"},
		{KindSchema, "schema_error"},
		{KindInsufficientData, "insufficient_data"},
		{KindModelFit, "model_fit_error"},
		{KindInvalidInput, "invalid_input"},
		{Kind(0), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("zip: not a valid zip file")
	err := fmt.Errorf("load: %w", parseError(cause))

	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the underlying cause")
	}
	if KindOf(err) != KindParse {
		t.Errorf("KindOf = %v, want %v", KindOf(err), KindParse)
	}
}

func TestError_Halts(t *testing.T) {
	if insufficientData("A", 1, 4).Halts() {
		t.Error("insufficient data should not halt")
	}
	for _, err := range []*Error{
		parseError(errors.New("x")),
		schemaError([]string{"Ventes"}),
		modelFitError(errors.New("x")),
		invalidInput("x", nil),
	} {
		if !err.Halts() {
			t.Errorf("%s should halt", err.Kind)
		}
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(nil) != 0 {
		t.Error("KindOf(nil) should be 0")
	}
	if KindOf(errors.New("plain")) != KindParse {
		t.Error("unclassified errors are parse errors")
	}
	if KindOf(modelFitError(errors.New("x"))) != KindModelFit {
		t.Error("KindOf should read the kind of *Error")
	}
}

func TestAsError(t *testing.T) {
	if AsError(nil) != nil {
		t.Error("AsError(nil) should be nil")
	}

	pe := AsError(errors.New("unexpected EOF"))
	if pe.Kind != KindParse || pe.Message != msgReadPrefix+"unexpected EOF" {
		t.Errorf("AsError = %+v", pe)
	}

	orig := schemaError([]string{"Ventes"})
	if AsError(fmt.Errorf("wrap: %w", orig)) != orig {
		t.Error("AsError should return the wrapped *Error")
	}
}

func TestError_Error(t *testing.T) {
	err := invalidInput("Article inconnu", nil)
	if got := err.Error(); got != "invalid_input: Article inconnu" {
		t.Errorf("Error() = %q", got)
	}
}
