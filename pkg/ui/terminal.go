package ui

import "fmt"

// ASCII logo for the application
const ASCIILogo = `
    ╔═══╦═══╦═══╗
    ║ N ║ Y ║ T ║   nytxword
    ╠═══╬═══╬═══╣   crossword puzzle downloader
    ║ X ║■■■║ W ║
    ╠═══╬═══╬═══╣
    ║ O ║ R ║ D ║
    ╚═══╩═══╩═══╝
`

// Color functions for terminal output
var (
	Cyan   = colorize("\033[36m%s\033[0m")
	Yellow = colorize("\033[33m%s\033[0m")
	Red    = colorize("\033[31m%s\033[0m")
	Green  = colorize("\033[32m%s\033[0m")
	Dim    = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		return fmt.Sprintf(colorString, text)
	}
}

var quietMode bool

// SetQuietMode suppresses informational output
func SetQuietMode(quiet bool) {
	quietMode = quiet
}

// IsQuietMode reports whether quiet mode is active
func IsQuietMode() bool {
	return quietMode
}

// PrintLogo prints the ASCII logo with color
func PrintLogo() {
	if quietMode {
		return
	}
	fmt.Print(Cyan(ASCIILogo))
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Println(Red(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	fmt.Println(Green(msg))
}

// PrintInfo prints a labeled info line
func PrintInfo(label string, value string) {
	if quietMode {
		return
	}
	fmt.Printf("%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string) {
	fmt.Println(Yellow(msg))
}

// PrintDownloaded prints the per-puzzle success line with the normalized
// date, puzzle id and destination path.
func PrintDownloaded(date string, id int, path string) {
	fmt.Printf("Downloaded %s puzzle (ID: %d) to: %s\n", date, id, path)
}

// PrintSummary prints the two closing lines of a range download: total
// elapsed time and time spent sleeping for rate-limit pacing.
func PrintSummary(elapsedSeconds, waitedSeconds float64) {
	fmt.Printf("Finished downloading date range in %.02f seconds.\n", elapsedSeconds)
	fmt.Printf("%.02f seconds of that was spent waiting to avoid rate limits.\n", waitedSeconds)
}
