package compiler

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/langfeat/internal/feature"
)

//go:embed builtin.cue
var builtinCUE []byte

// BuiltinSource returns the CUE source of the built-in catalog.
func BuiltinSource() []byte {
	return append([]byte(nil), builtinCUE...)
}

var builtinOnce = sync.OnceValues(func() (*feature.Catalog, error) {
	v := cuecontext.New().CompileBytes(builtinCUE, cue.Filename("builtin.cue"))
	catalog, err := CompileCatalog(v)
	if err != nil {
		return nil, fmt.Errorf("compiling builtin catalog: %w", err)
	}
	return catalog, nil
})

// Builtin returns the catalog compiled from the embedded builtin.cue.
// The catalog is compiled once and shared; it is immutable.
func Builtin() (*feature.Catalog, error) {
	return builtinOnce()
}
