package shell

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestQuoteParser_Parse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    []string
		expectedErr error
	}{
		{name: "simple command", input: "cd docs", expected: []string{"cd", "docs"}},
		{name: "several arguments", input: "cal 2024 2", expected: []string{"cal", "2024", "2"}},
		{name: "tabs and repeated spaces", input: "cal\t 2024    2", expected: []string{"cal", "2024", "2"}},
		{name: "single quoted path", input: "cd 'my docs'", expected: []string{"cd", "my docs"}},
		{name: "double quoted path", input: `cd "my docs"`, expected: []string{"cd", "my docs"}},
		{name: "escaped space", input: `cd my\ docs`, expected: []string{"cd", "my docs"}},
		{name: "escaped quote in double quotes", input: `ls "a \"b\""`, expected: []string{"ls", `a "b"`}},
		{name: "other escape in double quotes kept", input: `ls "a\nb"`, expected: []string{"ls", `a\nb`}},
		{name: "single quotes are literal", input: `ls 'a\"b'`, expected: []string{"ls", `a\"b`}},
		{name: "adjacent quoted words", input: `ls "a"'b'c`, expected: []string{"ls", "abc"}},
		{name: "empty quotes give empty argument", input: `cd ""`, expected: []string{"cd", ""}},
		{name: "empty input", input: "", expected: []string{}},
		{name: "only whitespace", input: " \t ", expected: []string{}},
		{name: "unclosed single quote", input: "cd 'docs", expectedErr: ErrUnclosedQuote},
		{name: "unclosed double quote", input: `cd "docs`, expectedErr: ErrUnclosedQuote},
		{name: "trailing backslash", input: `cd docs\`, expectedErr: ErrUnescapedCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := QuoteParser{}.Parse(tt.input)
			if tt.expectedErr != nil {
				assert.True(t, errors.Is(err, tt.expectedErr), "expected %v got %v", tt.expectedErr, err)
				assert.Nil(t, res)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, res)
		})
	}
}
