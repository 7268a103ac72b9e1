// Package templates renders the HTML pages of the forecasting UI as templ
// components. Edit the .templ files and run `templ generate`.
package templates

// Page titles and labels.
const (
	AppTitle      = "Prédiction des Ventes"
	PageHeading   = "Prédiction des Ventes par Article"
	UploadHint    = "Téléverse un fichier Excel contenant les ventes annuelles par article."
	UploadLabel   = "Choisir un fichier Excel"
	ItemLabel     = "Sélectionne un article à prédire :"
	HorizonLabel  = "Nombre d'années à prédire :"
	HistoryTitle  = "Ventes historiques"
	ForecastTitle = "Prévisions"
	DownloadTitle = "Télécharger le fichier avec prévisions"
	DownloadLabel = "Télécharger le fichier Excel"
)
