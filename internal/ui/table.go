package ui

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/pterm/pterm"
)

// PrintTable writes data as a boxed table to w. The first row is the header.
func PrintTable(data [][]string, w io.Writer) {
	if len(data) == 0 {
		return
	}

	table := pterm.DefaultTable.
		WithBoxed().
		WithHasHeader().
		WithData(data)

	str, err := table.Srender()
	if err != nil {
		slog.Error("rendering table failed", slog.Any("error", err))
		pterm.Error.Printfln("Failed to render table: %s", err.Error())

		return
	}

	fmt.Fprintln(w, str)
}
