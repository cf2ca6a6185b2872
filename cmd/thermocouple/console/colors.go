package console

import "github.com/fatih/color"

// Available ANSI colors
var (
	Yellow = color.New(color.FgYellow).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	Cyan   = color.New(color.FgCyan).SprintFunc()
	White  = color.New(color.FgHiWhite).SprintFunc()
	Bold   = color.New(color.Bold).SprintFunc()
)

// Celsius formats a temperature, colored by how hot it is.
func Celsius(value float64) string {
	s := formatCelsius(value)
	switch {
	case value < 0:
		return Cyan(s)
	case value >= 100:
		return Red(s)
	case value >= 50:
		return Yellow(s)
	default:
		return White(s)
	}
}
