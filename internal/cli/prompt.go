package cli

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// prompter asks the interactive questions. Reader and writer are fields so
// tests can script the dialogue.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

func (p *prompter) readLine() (string, error) {
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// askInt asks until the answer is an integer in [min, max]. An empty answer
// returns the default.
func (p *prompter) askInt(question string, def, min, max int) (int, error) {
	for {
		fmt.Fprintf(p.out, "%s [%d]: ", question, def)
		line, err := p.readLine()
		if err != nil {
			return 0, err
		}
		if line == "" {
			return def, nil
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < min || n > max {
			fmt.Fprintf(p.out, "%s\n", errorStyle.Render(
				fmt.Sprintf("Please enter a number between %d and %d", min, max)))
			continue
		}
		return n, nil
	}
}

// askChoice presents a numbered menu of id -> label pairs and returns the
// chosen id. When zeroLabel is non-empty, 0 is offered and returns "".
func (p *prompter) askChoice(title string, options map[string]string, zeroLabel string) (string, error) {
	ids := make([]string, 0, len(options))
	for id := range options {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Fprintf(p.out, "\n%s\n", headerStyle.Render(title))
	if zeroLabel != "" {
		fmt.Fprintf(p.out, "  0. %s\n", zeroLabel)
	}
	for i, id := range ids {
		if options[id] == id {
			fmt.Fprintf(p.out, "  %d. %s\n", i+1, id)
		} else {
			fmt.Fprintf(p.out, "  %d. %s (%s)\n", i+1, options[id], id)
		}
	}

	low := 1
	if zeroLabel != "" {
		low = 0
	}
	n, err := p.askInt("Choice", low, low, len(ids))
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	return ids[n-1], nil
}
