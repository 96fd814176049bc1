package parser

import "fmt"

// attempt records the current position and runs the sub-parse. On success
// the value is returned with the cursor left where the sub-parse left it.
// On failure the recorded position is restored and attempt reports no
// match; the failure never propagates. This is the only way the cursor
// moves backward.
func attempt[T any](p *Parser, parse func() (T, *ParseError)) (T, bool) {
	saved := p.pos
	v, err := parse()
	if err != nil {
		p.pos = saved
		var zero T
		return zero, false
	}
	return v, true
}

// orElse tries the first alternative and, if it did not match, re-parses
// the second from the original position. The second alternative re-parses
// from scratch, so callers should keep the discriminating lookahead of the
// first alternative cheap.
func orElse[T any](p *Parser, first, second func() (T, *ParseError)) (T, *ParseError) {
	if v, ok := attempt(p, first); ok {
		return v, nil
	}
	return second()
}

// require runs the sub-parse and, on failure, rewraps the failure message
// with the given description. Kind and position are preserved so the root
// cause is never suppressed.
func require[T any](p *Parser, description string, parse func() (T, *ParseError)) (T, *ParseError) {
	v, err := parse()
	if err != nil {
		return v, &ParseError{
			Kind: err.Kind,
			Pos:  err.Pos,
			Msg:  fmt.Sprintf("expected %s but failed: %s", description, err.Msg),
		}
	}
	return v, nil
}
