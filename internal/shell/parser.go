package shell

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

var (
	ErrUnclosedQuote      = errors.New("unclosed quote")
	ErrUnescapedCharacter = errors.New("unescaped character")
)

type Parser interface {
	Parse(line string) ([]string, error)
}

// QuoteParser splits a line on whitespace. Single quotes keep everything
// literal, double quotes allow \" and \\ escapes, and outside quotes a
// backslash escapes the next character.
type QuoteParser struct{}

func (QuoteParser) Parse(line string) ([]string, error) {
	var (
		args    = []string{}
		word    strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)

	for _, ch := range line {
		switch {
		case escaped:
			if quote == '"' && ch != '"' && ch != '\\' {
				word.WriteRune('\\')
			}
			word.WriteRune(ch)
			escaped = false

		case quote == '\'':
			if ch == '\'' {
				quote = 0
			} else {
				word.WriteRune(ch)
			}

		case ch == '\\':
			escaped = true
			inWord = true

		case quote == '"':
			if ch == '"' {
				quote = 0
			} else {
				word.WriteRune(ch)
			}

		case ch == '\'' || ch == '"':
			quote = ch
			inWord = true

		case unicode.IsSpace(ch):
			if inWord {
				args = append(args, word.String())
				word.Reset()
				inWord = false
			}

		default:
			word.WriteRune(ch)
			inWord = true
		}
	}

	if quote != 0 {
		return nil, ErrUnclosedQuote
	}
	if escaped {
		return nil, ErrUnescapedCharacter
	}
	if inWord {
		args = append(args, word.String())
	}
	return args, nil
}
