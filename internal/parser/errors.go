package parser

import "github.com/adalang/adac/internal/token"

// Error is one syntax diagnostic. One syntax fault can yield more than
// one Error: when resynchronization consumes the `;` that ends the
// faulty construct, the following check for that `;` reports too.
type Error struct {
	Message string
	Pos     token.Position
}

func (e Error) Error() string { return e.Pos.String() + ": " + e.Message }
