// Package minify shrinks generated stylesheets by dropping comments and
// whitespace that carries no meaning. It works at the token level and never
// rewrites values.
package minify

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ErrMalformed is returned for input the lexer cannot tokenize cleanly
// (unterminated strings or urls).
var ErrMalformed = errors.New("malformed css")

// CSS returns the minified form of src.
func CSS(src string) (string, error) {
	lexer := css.NewLexer(parse.NewInputString(src))

	var b strings.Builder
	b.Grow(len(src))

	prev := css.LeftBraceToken // behaves like start of input: no space needed
	pendingSpace := false
	pendingSemicolon := false

	for {
		tt, text := lexer.Next()
		switch tt {
		case css.ErrorToken:
			if err := lexer.Err(); err != nil && err != io.EOF {
				return "", fmt.Errorf("minify: %w", err)
			}
			if pendingSemicolon {
				b.WriteByte(';')
			}
			return b.String(), nil

		case css.BadStringToken, css.BadURLToken:
			return "", fmt.Errorf("minify: %w: %q", ErrMalformed, text)

		case css.CommentToken:
			continue

		case css.WhitespaceToken:
			pendingSpace = true
			continue

		case css.SemicolonToken:
			// Written lazily: the last declaration of a block needs none.
			pendingSemicolon = true
			pendingSpace = false
			prev = tt
			continue
		}

		if pendingSemicolon {
			if tt != css.RightBraceToken {
				b.WriteByte(';')
			}
			pendingSemicolon = false
		}
		if pendingSpace && needsSpace(prev, tt) {
			b.WriteByte(' ')
		}
		pendingSpace = false

		b.Write(text)
		prev = tt
	}
}

// needsSpace reports whether whitespace between two tokens is significant.
// Whitespace next to block and list punctuation never is; whitespace before a
// colon is kept because it separates a descendant pseudo selector (a :hover).
func needsSpace(prev, next css.TokenType) bool {
	switch prev {
	case css.LeftBraceToken, css.RightBraceToken, css.SemicolonToken, css.CommaToken, css.ColonToken:
		return false
	}
	switch next {
	case css.LeftBraceToken, css.RightBraceToken, css.SemicolonToken, css.CommaToken:
		return false
	}
	return true
}
