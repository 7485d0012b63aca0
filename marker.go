package blockx

import "github.com/hengadev/blockx/universe"

// Disallowed is a ready-made marker. Embed it in a struct declaration and
// pass TypeOf[Disallowed]() to Builder.Markers to block every such type:
//
//	type Credentials struct {
//	    blockx.Disallowed
//	    Token string
//	}
//
// It has no fields, so it adds nothing to the encoding of types that are not
// blocked. It is registered in the default universe so configuration can
// name it as "github.com/hengadev/blockx.Disallowed".
type Disallowed struct{}

func init() {
	universe.Register(TypeOf[Disallowed]())
}
