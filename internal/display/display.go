// Package display prints tagged banners, build headers and per-function
// statistics to the terminal.
package display

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"github.com/indutny/wasm-cfg/internal/cfg"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// PrintErrorMessage prints a standard Go error to the console
func PrintErrorMessage(tag string, err error) {
	ErrorStyleBG.Print(tag)
	ErrorColorFG.Println(" " + err.Error())
}

// PrintWarningMessage prints a warning message to the console
func PrintWarningMessage(tag, msg string) {
	WarnStyleBG.Print(tag)
	WarnColorFG.Println(" " + msg)
}

// PrintInfoMessage prints an informational message to the user
func PrintInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// PrintHeader prints the tool version and the file being translated
func PrintHeader(version, path string) {
	fmt.Print("wasmcfg ")
	InfoColorFG.Print("v" + version)
	fmt.Print(" -- input: ")
	InfoColorFG.Println(path)
}

// StatsTable tabulates the shape of every translated function
func StatsTable(fns []*cfg.Function) pterm.TableData {
	data := pterm.TableData{{"#", "Function", "Signature", "Blocks", "Nodes", "Effects"}}
	for _, fn := range fns {
		data = append(data, []string{
			strconv.Itoa(fn.Index),
			fn.Name,
			fn.Signature.String(),
			strconv.Itoa(len(fn.CFG.Blocks)),
			strconv.Itoa(fn.CFG.NodeCount()),
			fn.Effects.String(),
		})
	}
	return data
}

// PrintStats renders StatsTable
func PrintStats(fns []*cfg.Function) error {
	return pterm.DefaultTable.WithHasHeader().WithData(StatsTable(fns)).Render()
}

// PrintSuccess reports a finished command with its duration
func PrintSuccess(msg string, d time.Duration) {
	SuccessStyleBG.Print("Done")
	SuccessColorFG.Println(" " + msg + " in " + FormatDuration(d))
}

// PrintFailure reports a failed command with its duration
func PrintFailure(msg string, d time.Duration) {
	ErrorStyleBG.Print("Fail")
	ErrorColorFG.Println(" " + msg + " after " + FormatDuration(d))
}

// FormatDuration renders d with a unit matching its magnitude
func FormatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
