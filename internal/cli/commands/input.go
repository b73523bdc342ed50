package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// errNoInput is returned when a command has no SQL to work on.
var errNoInput = errors.New("no SQL given (pass it as an argument, with --input, or on stdin)")

// readSQL picks the SQL source for a command: arguments first, then the
// --input file, then piped stdin. It returns errNoInput when stdin is a
// terminal and nothing else was given.
func readSQL(cmd *cobra.Command, args []string, inputFile string) (string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case inputFile != "":
		content, err := os.ReadFile(inputFile)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(content), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && isTerminal(f) {
		return "", errNoInput
	}
	content, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	if strings.TrimSpace(string(content)) == "" {
		return "", errNoInput
	}
	return string(content), nil
}

// isTerminal checks if the file is a terminal.
func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// trimStatement strips surrounding space and one trailing semicolon.
func trimStatement(query string) string {
	query = strings.TrimSpace(query)
	query = strings.TrimSuffix(query, ";")
	return strings.TrimSpace(query)
}
