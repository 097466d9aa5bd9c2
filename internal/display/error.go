package display

import (
	"fmt"
	"io"
)

// FormatError writes err to w as a single "Error: ..." line, colorized
// when useColor is true. It is the CLI's sole place that turns an error
// value into user-facing text.
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())
}
