package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/docbind/docbind/constants/lipgloss"
)

// ConfirmPrompt asks a yes/no question and returns true only on an explicit
// yes.
func ConfirmPrompt(reader *bufio.Reader, question string) (bool, error) {
	fmt.Print(lipgloss.BlueSky.Render(question + " (y/N): "))

	answer, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("error reading input: %w", err)
	}

	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes", nil
}
