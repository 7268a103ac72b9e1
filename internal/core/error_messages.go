package core

// error_messages.go maps technical errors to user-friendly messages with a
// code for support reference.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large       Patterns: "file too large", "request body too large"
//	FILE002 - Not a workbook       Patterns: "open workbook", "read sheet"
//	FILE004 - No file              Patterns: "no file provided"
//	FILE005 - Empty workbook       Patterns: "empty file"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Missing column        Patterns: "missing required column"
//	VAL002 - Invalid quantity      Patterns: "invalid number"
//	VAL003 - Invalid year          Patterns: "invalid year"
//	VAL004 - Duplicate year        Patterns: "duplicate year"
//	VAL005 - Unknown item          Patterns: "unknown item"
//	VAL006 - Horizon out of range  Patterns: "horizon out of range"
//
// # Forecast Errors (FC001-FC099)
//
//	FC001 - Not enough history     Patterns: "observations, need"
//	FC002 - Model fit failed       Patterns: "model fit"
//
// # Run Errors (UPL001-UPL099)
//
//	UPL002 - System busy           Patterns: "too many concurrent runs"
//	UPL004 - Request cancelled     Patterns: "context canceled"
//	UPL005 - Request timeout       Patterns: "context deadline exceeded"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests    Patterns: "rate limit"
//
// ERR000 is the fallback when nothing matches.
//
// Patterns are matched case-insensitively with strings.Contains, first match
// wins. For a pipeline *Error the French message of the error is kept and only
// the action and code come from the table.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// File errors
	{"file too large", UserMessage{
		Message: "Le fichier dépasse la taille maximale autorisée",
		Action:  "Réduisez le fichier ou découpez-le",
		Code:    "FILE001",
	}},
	{"request body too large", UserMessage{
		Message: "Le fichier dépasse la taille maximale autorisée",
		Action:  "Réduisez le fichier ou découpez-le",
		Code:    "FILE001",
	}},
	{"no file provided", UserMessage{
		Message: "Aucun fichier sélectionné",
		Action:  "Choisissez un fichier Excel (.xlsx)",
		Code:    "FILE004",
	}},
	{"empty file", UserMessage{
		Message: "Le fichier est vide",
		Action:  "Ajoutez une ligne d'en-tête et des données",
		Code:    "FILE005",
	}},
	{"open workbook", UserMessage{
		Message: "Le fichier n'est pas un classeur Excel valide",
		Action:  "Enregistrez le fichier au format .xlsx",
		Code:    "FILE002",
	}},
	{"read sheet", UserMessage{
		Message: "La feuille n'a pas pu être lue",
		Action:  "Vérifiez que la première feuille contient le tableau des ventes",
		Code:    "FILE002",
	}},

	// Validation errors
	{"missing required column", UserMessage{
		Message: MsgSchema,
		Action:  "Renommez les colonnes en Année, Article et Ventes",
		Code:    "VAL001",
	}},
	{"invalid number", UserMessage{
		Message: "Une valeur de Ventes n'est pas un nombre",
		Action:  "Corrigez la cellule indiquée",
		Code:    "VAL002",
	}},
	{"invalid year", UserMessage{
		Message: "Une valeur d'Année n'est pas une année entière",
		Action:  "Corrigez la cellule indiquée",
		Code:    "VAL003",
	}},
	{"duplicate year", UserMessage{
		Message: "Une année apparaît plusieurs fois pour cet article",
		Action:  "Regroupez les ventes de l'année sur une seule ligne",
		Code:    "VAL004",
	}},
	{"unknown item", UserMessage{
		Message: "Article inconnu",
		Action:  "Choisissez un article présent dans le fichier",
		Code:    "VAL005",
	}},
	{"horizon out of range", UserMessage{
		Message: "Nombre d'années à prédire invalide",
		Action:  "Choisissez une valeur entre 1 et 5",
		Code:    "VAL006",
	}},

	// Forecast errors
	{"observations, need", UserMessage{
		Message: MsgInsufficientData,
		Action:  "Ajoutez des années d'historique pour cet article",
		Code:    "FC001",
	}},
	{"model fit", UserMessage{
		Message: "Le modèle n'a pas pu être ajusté sur cette série",
		Action:  "Vérifiez que les ventes varient d'une année à l'autre",
		Code:    "FC002",
	}},

	// Run errors
	{"too many concurrent runs", UserMessage{
		Message: "Le service est occupé",
		Action:  "Réessayez dans quelques instants",
		Code:    "UPL002",
	}},
	{"context canceled", UserMessage{
		Message: "La requête a été annulée",
		Action:  "Réessayez",
		Code:    "UPL004",
	}},
	{"context deadline exceeded", UserMessage{
		Message: "Le traitement a pris trop de temps",
		Action:  "Réessayez avec un fichier plus petit",
		Code:    "UPL005",
	}},

	// Rate limiting
	{"rate limit", UserMessage{
		Message: "Trop de requêtes",
		Action:  "Patientez un moment avant de réessayer",
		Code:    "RATE001",
	}},
}

// defaultMessage is returned when no pattern matches.
var defaultMessage = UserMessage{
	Message: "Une erreur inattendue est survenue",
	Action:  "Réessayez ou contactez le support",
	Code:    "ERR000",
}

// kindDefaults gives a code to pipeline errors whose text matches no pattern.
var kindDefaults = map[Kind]UserMessage{
	KindParse:            {Action: "Vérifiez le fichier et réessayez", Code: "FILE002"},
	KindSchema:           {Action: "Renommez les colonnes en Année, Article et Ventes", Code: "VAL001"},
	KindInsufficientData: {Action: "Ajoutez des années d'historique pour cet article", Code: "FC001"},
	KindModelFit:         {Action: "Vérifiez que les ventes varient d'une année à l'autre", Code: "FC002"},
	KindInvalidInput:     {Action: "Corrigez la sélection et réessayez", Code: "VAL000"},
}

// MapError converts a technical error to a user-friendly message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	msg, matched := matchPattern(err)

	var pe *Error
	if errors.As(err, &pe) {
		if !matched {
			msg = kindDefaults[pe.Kind]
		}
		msg.Message = pe.Message
		return msg
	}

	if !matched {
		return defaultMessage
	}
	return msg
}

func matchPattern(err error) (UserMessage, bool) {
	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg, true
		}
	}
	return UserMessage{}, false
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
