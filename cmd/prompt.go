package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// interactive reports whether menus can be shown.
func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// prompt prints question and returns the trimmed answer.
func prompt(in *bufio.Reader, out io.Writer, question string) (string, error) {
	fmt.Fprint(out, question)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// menu lists options numbered from 1 and returns the chosen one. An empty
// answer selects def; an invalid answer returns ok=false.
func menu(in *bufio.Reader, out io.Writer, title string, options []string, def int) (string, bool, error) {
	fmt.Fprintf(out, "\n--- %s ---\n", title)
	for i, o := range options {
		fmt.Fprintf(out, "  %d. %s\n", i+1, o)
	}
	answer, err := prompt(in, out, fmt.Sprintf("Select (1-%d): ", len(options)))
	if err != nil {
		return "", false, err
	}
	if answer == "" && def > 0 {
		return options[def-1], true, nil
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(options) {
		return "", false, nil
	}
	return options[n-1], true, nil
}
