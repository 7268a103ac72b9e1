package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/IbrahimaBalde09/Prediction-des-ventes/internal/forecast"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "file too large maps correctly",
			err:         fmt.Errorf("%w: limit is 10 bytes", ErrFileTooLarge),
			wantCode:    "FILE001",
			wantMessage: "Le fichier dépasse la taille maximale autorisée",
		},
		{
			name:        "busy maps correctly",
			err:         ErrTooManyRuns,
			wantCode:    "UPL002",
			wantMessage: "Le service est occupé",
		},
		{
			name:        "deadline maps correctly",
			err:         context.DeadlineExceeded,
			wantCode:    "UPL005",
			wantMessage: "Le traitement a pris trop de temps",
		},
		{
			name:        "cancel maps correctly",
			err:         context.Canceled,
			wantCode:    "UPL004",
			wantMessage: "La requête a été annulée",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Trop de requêtes",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("something completely unexpected"),
			wantCode:    "ERR000",
			wantMessage: "Une erreur inattendue est survenue",
		},

		// Pipeline errors keep their own message
		{
			name:        "schema error",
			err:         schemaError([]string{"Ventes"}),
			wantCode:    "VAL001",
			wantMessage: MsgSchema,
		},
		{
			name:        "invalid quantity",
			err:         parseError(errors.New(`row 3, column Ventes: invalid number "douze"`)),
			wantCode:    "VAL002",
			wantMessage: `Erreur lors de la lecture du fichier : row 3, column Ventes: invalid number "douze"`,
		},
		{
			name:        "duplicate year",
			err:         parseError(errors.New(`duplicate year 2019 for item "A" (rows 2 and 4)`)),
			wantCode:    "VAL004",
			wantMessage: `Erreur lors de la lecture du fichier : duplicate year 2019 for item "A" (rows 2 and 4)`,
		},
		{
			name:        "unreadable workbook",
			err:         parseError(errors.New("open workbook: zip: not a valid zip file")),
			wantCode:    "FILE002",
			wantMessage: "Erreur lors de la lecture du fichier : open workbook: zip: not a valid zip file",
		},
		{
			name:        "parse error without pattern uses kind default",
			err:         parseError(errors.New("unexpected EOF")),
			wantCode:    "FILE002",
			wantMessage: "Erreur lors de la lecture du fichier : unexpected EOF",
		},
		{
			name:        "insufficient data",
			err:         insufficientData("B", 2, 4),
			wantCode:    "FC001",
			wantMessage: MsgInsufficientData,
		},
		{
			name:        "model fit",
			err:         modelFitError(forecast.ErrDegenerateSeries),
			wantCode:    "FC002",
			wantMessage: "Erreur lors de la lecture du fichier : " + forecast.ErrDegenerateSeries.Error(),
		},
		{
			name:        "horizon out of range",
			err:         invalidInput("Le nombre d'années à prédire doit être compris entre 1 et 5.", fmt.Errorf("%w: 6 not in [1, 5]", errHorizon)),
			wantCode:    "VAL006",
			wantMessage: "Le nombre d'années à prédire doit être compris entre 1 et 5.",
		},
		{
			name:        "wrapped pipeline error",
			err:         fmt.Errorf("handler: %w", schemaError([]string{"Année"})),
			wantCode:    "VAL001",
			wantMessage: MsgSchema,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError().Code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError().Message = %q, want %q", got.Message, tt.wantMessage)
			}
			if tt.err != nil && got.Action == "" {
				t.Error("MapError().Action should not be empty")
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(ErrTooManyRuns)
	want := "Le service est occupé (Code: UPL002). Réessayez dans quelques instants"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pipeline error", schemaError([]string{"Ventes"}), true},
		{"known pattern", ErrTooManyRuns, true},
		{"unknown", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorPatterns_Codes(t *testing.T) {
	for _, ep := range errorPatterns {
		if ep.pattern != strings.ToLower(ep.pattern) {
			t.Errorf("pattern %q must be lower case", ep.pattern)
		}
		if ep.msg.Code == "" || ep.msg.Message == "" || ep.msg.Action == "" {
			t.Errorf("pattern %q has an incomplete message: %+v", ep.pattern, ep.msg)
		}
	}
}
