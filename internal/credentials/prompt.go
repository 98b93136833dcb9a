package credentials

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// TokenSource supplies an API token entered by the operator.
type TokenSource interface {
	ReadToken() (string, error)
}

// TerminalTokenSource reads a token from stdin with echo disabled when
// stdin is a terminal, and falls back to a plain line read otherwise so
// piped input still works.
type TerminalTokenSource struct{}

func (TerminalTokenSource) ReadToken() (string, error) {
	fd := int(os.Stdin.Fd())

	fmt.Print("Enter your n8n API token: ")
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// StaticTokenSource returns a fixed token. Used by tests.
type StaticTokenSource string

func (s StaticTokenSource) ReadToken() (string, error) {
	return string(s), nil
}
