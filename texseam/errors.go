// Package texseam fixes texture seams introduced by lossy UV unwrapping and
// BC1 block compression, so that sampling either side of a 3D edge's two UV
// images yields (nearly) identical colors.
package texseam

import "errors"

// ErrorCode classifies the ways a seam-fixing operation can fail.
type ErrorCode uint32

const (
	// Success indicates no error.
	Success ErrorCode = 0

	// ErrBadDimensions means an image's width or height was not a multiple
	// of 4 for a compressed operation, or a compressed image and its
	// source image differ in size.
	ErrBadDimensions ErrorCode = 1

	// ErrMeshParse means the OBJ/MTL text could not be parsed.
	ErrMeshParse ErrorCode = 2

	// ErrNotSPD means the least-squares normal matrix was not symmetric
	// positive definite and could not be factorized.
	ErrNotSPD ErrorCode = 3

	// ErrUnknownMask means a compressed-block quantization bitmask did not
	// match any of the four BC1 palette entries.
	ErrUnknownMask ErrorCode = 4

	// ErrIO wraps an underlying file read/write failure.
	ErrIO ErrorCode = 5
)

// ErrorString returns a short name for code, or "" for an unknown code.
func ErrorString(code ErrorCode) string {
	switch code {
	case Success:
		return "SUCCESS"
	case ErrBadDimensions:
		return "ERR_BAD_DIMENSIONS"
	case ErrMeshParse:
		return "ERR_MESH_PARSE"
	case ErrNotSPD:
		return "ERR_NOT_SPD"
	case ErrUnknownMask:
		return "ERR_UNKNOWN_MASK"
	case ErrIO:
		return "ERR_IO"
	default:
		return ""
	}
}

// Error is a typed error carrying a stable code, following the errors
// returned throughout this module's packages.
type Error struct {
	Code ErrorCode
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg != "" {
		return e.Msg
	}
	if s := ErrorString(e.Code); s != "" {
		return "texseam: " + s
	}
	return "texseam: error"
}

// ErrorCodeOf returns the code carried by err, or Success for nil.
//
// For errors not produced by this module it returns ErrIO as a conservative
// fallback.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrIO
}

func newError(code ErrorCode, msg string) error {
	return &Error{Code: code, Msg: msg}
}
