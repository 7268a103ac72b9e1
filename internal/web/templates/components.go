package templates

import "strconv"

// Alert levels.
const (
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Alert is a message box shown above the page content.
type Alert struct {
	Level   string
	Message string
	Action  string
	Code    string
}

// alertClass maps a level to its CSS class; an empty level is an error.
func alertClass(level string) string {
	if level == "" {
		level = LevelError
	}
	return "alert-" + level
}

// horizons lists the selectable horizons 1..max.
func horizons(max int) []int {
	out := make([]int, 0, max)
	for n := 1; n <= max; n++ {
		out = append(out, n)
	}
	return out
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
