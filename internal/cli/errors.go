package cli

import (
	"errors"
	"io/fs"

	"github.com/roach88/tbgen/internal/config"
	"github.com/roach88/tbgen/internal/dut"
	"github.com/roach88/tbgen/internal/protocol"
	"github.com/roach88/tbgen/internal/store"
	"github.com/roach88/tbgen/internal/tags"
	"github.com/roach88/tbgen/internal/vhdl"
	"github.com/roach88/tbgen/internal/writer"
)

// Error codes for CLI responses.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E002" // Path not found
	ErrCodeSyntax      = "E003" // No well-formed entity in the source
	ErrCodeTagFormat   = "E004" // Malformed $$ ... $$ region or tag entry
	ErrCodeMissingTag  = "E005" // Required tag absent
	ErrCodeUnknownType = "E006" // Port type without an initial value rule
	ErrCodeExists      = "E007" // Output file exists and overwrite is off
	ErrCodeWriteFailed = "E008" // File write error
	ErrCodeConfig      = "E009" // Invalid configuration file
	ErrCodeManifest    = "E010" // Manifest database error
	ErrCodeNoRuns      = "E011" // Nothing recorded for the destination
	ErrCodeDrift       = "E012" // Generated files modified or missing
	ErrCodeProtocol    = "E100" // Generated protocol is inconsistent (internal)
)

// Classify maps an error to its response code and exit code.
func Classify(err error) (code string, exit int) {
	switch {
	case vhdl.IsSyntaxError(err):
		return ErrCodeSyntax, ExitCommandError
	case tags.IsFormatError(err), tags.IsUnknownTagError(err):
		return ErrCodeTagFormat, ExitCommandError
	case dut.IsMissingTagError(err):
		return ErrCodeMissingTag, ExitCommandError
	case dut.IsUnknownTypeError(err):
		return ErrCodeUnknownType, ExitCommandError
	case writer.IsExistsError(err):
		return ErrCodeExists, ExitCommandError
	case config.IsInvalidError(err):
		return ErrCodeConfig, ExitCommandError
	case errors.Is(err, store.ErrNoRuns):
		return ErrCodeNoRuns, ExitCommandError
	case protocol.IsViolation(err):
		return ErrCodeProtocol, ExitFailure
	case errors.Is(err, fs.ErrNotExist):
		return ErrCodeNotFound, ExitCommandError
	}
	return ErrCodeGeneric, ExitCommandError
}
