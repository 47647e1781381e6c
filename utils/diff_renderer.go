package utils

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// RenderAndPrintDiff prints a textual patch for one stale block. Added and
// removed lines get plain green/red coloring; context lines go through
// chroma so embedded markdown stays readable in the terminal.
func RenderAndPrintDiff(diff string, theme string) error {
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			fmt.Println("\x1b[92m" + line + "\x1b[0m")
		case strings.HasPrefix(line, "-"):
			fmt.Println("\x1b[91m" + line + "\x1b[0m")
		case strings.HasPrefix(line, "@@"):
			fmt.Println("\x1b[96m" + line + "\x1b[0m")
		default:
			var buf bytes.Buffer
			if err := quick.Highlight(&buf, line+"\n", "markdown", "terminal256", theme); err != nil {
				return err
			}
			fmt.Print(buf.String())
		}
	}
	return nil
}
