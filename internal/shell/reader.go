package shell

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// LineReader yields input lines after showing a prompt. *readline.Instance
// satisfies it for terminals.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

type promptReader struct {
	prompt string
	in     *bufio.Reader
	out    io.Writer
}

// NewLineReader reads lines from r, writing the prompt to w before each one.
func NewLineReader(r io.Reader, w io.Writer) LineReader {
	return &promptReader{
		in:  bufio.NewReader(r),
		out: w,
	}
}

func (p *promptReader) SetPrompt(prompt string) {
	p.prompt = prompt
}

func (p *promptReader) Readline() (string, error) {
	fmt.Fprint(p.out, p.prompt)

	line, err := p.in.ReadString('\n')
	if err != nil {
		// last line without a trailing newline
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
