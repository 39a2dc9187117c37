package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/langfeat/internal/compiler"
	"github.com/roach88/langfeat/internal/feature"
)

// LoadMode controls how errors are handled during catalog loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the results of loading a catalog.
type LoadResult struct {
	Catalog   *feature.Catalog // nil if compilation failed
	CUEValue  cue.Value        // The raw CUE value for additional processing
	FileCount int              // Number of CUE files found (0 for the builtin catalog)
	Builtin   bool             // True if the embedded catalog was used
}

// LoadError represents an error that occurred during catalog loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadCatalog loads and compiles the CUE catalog in dir. An empty dir
// selects the builtin catalog.
//
// If mode is LoadModeFailFast, returns on the first compile error.
// If mode is LoadModeCollectAll, runs full validation first and returns
// every problem as a compiler.ValidationError.
func LoadCatalog(dir string, mode LoadMode) (*LoadResult, []error) {
	if dir == "" {
		return loadBuiltin(mode)
	}

	// Verify directory exists
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("registry directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing registry directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	// Find CUE files
	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	// Load CUE instances
	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}

	// Check for load errors
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	// Build value from instance
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{
		CUEValue:  value,
		FileCount: len(cueFiles),
	}
	return compileLoaded(result, mode)
}

func loadBuiltin(mode LoadMode) (*LoadResult, []error) {
	value := cuecontext.New().CompileBytes(compiler.BuiltinSource(), cue.Filename("builtin.cue"))
	result := &LoadResult{CUEValue: value, Builtin: true}
	return compileLoaded(result, mode)
}

// compileLoaded turns the loaded CUE value into a catalog.
func compileLoaded(result *LoadResult, mode LoadMode) (*LoadResult, []error) {
	if mode == LoadModeCollectAll {
		// Validation problems are returned as compiler.ValidationError values
		var errs []error
		for _, v := range compiler.Validate(result.CUEValue) {
			errs = append(errs, v)
		}
		if len(errs) > 0 {
			return result, errs
		}
	}

	catalog, err := compiler.CompileCatalog(result.CUEValue)
	if err != nil {
		return result, []error{convertCompileError(err, "catalog")}
	}
	result.Catalog = catalog
	return result, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    compiler.MapFieldToCode(compileErr.Field),
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// loadCatalogOrExit loads the catalog fail-fast, reporting the first error
// through formatter as a command error.
func loadCatalogOrExit(formatter *OutputFormatter, dir string) (*feature.Catalog, error) {
	result, errs := LoadCatalog(dir, LoadModeFailFast)
	if len(errs) > 0 {
		code, message := ErrCodeGeneric, errs[0].Error()
		var loadErr *LoadError
		if errors.As(errs[0], &loadErr) {
			code, message = loadErr.Code, loadErr.Message
			if loadErr.Pos.IsValid() {
				message = fmt.Sprintf("%s:%d: %s", loadErr.Pos.Filename(), loadErr.Pos.Line(), message)
			}
		}
		_ = formatter.Error(code, message, nil)
		return nil, WrapExitError(ExitCommandError, "failed to load registry", errs[0])
	}
	if result.Builtin {
		formatter.VerboseLog("Using builtin catalog (%d features)", result.Catalog.Len())
	} else {
		formatter.VerboseLog("Loaded %d feature(s) from %d CUE file(s) in %s",
			result.Catalog.Len(), result.FileCount, dir)
	}
	return result.Catalog, nil
}

// Error code constants - unified across all CLI commands.
// Catalog errors reuse the compiler's E2xx validation codes.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeScanError    = "E002" // Directory scan error
	ErrCodeNoFiles      = "E003" // No CUE files found
	ErrCodeLoadFailed   = "E004" // CUE load failed
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeBuildFailed  = "E006" // CUE build failed
	ErrCodeWriteFailed  = "E007" // File write error
	ErrCodeInvalidMode  = "E008" // --language-version does not parse or is not in the catalog
	ErrCodeDiagnostics  = "E009" // Warnings reported under --werror
	ErrCodeTestFailed   = "E010" // One or more scenarios failed
	ErrCodeInvalidInput = "E011" // Bad command arguments
)
