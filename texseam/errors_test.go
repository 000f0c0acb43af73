package texseam_test

import (
	"errors"
	"testing"

	"github.com/a-sokolov/texseam/texseam"
)

func TestErrorString_KnownCodes(t *testing.T) {
	cases := []struct {
		code texseam.ErrorCode
		want string
	}{
		{texseam.Success, "SUCCESS"},
		{texseam.ErrBadDimensions, "ERR_BAD_DIMENSIONS"},
		{texseam.ErrMeshParse, "ERR_MESH_PARSE"},
		{texseam.ErrNotSPD, "ERR_NOT_SPD"},
		{texseam.ErrUnknownMask, "ERR_UNKNOWN_MASK"},
		{texseam.ErrIO, "ERR_IO"},
	}

	for _, c := range cases {
		if got := texseam.ErrorString(c.code); got != c.want {
			t.Fatalf("ErrorString(%d): got %q want %q", uint32(c.code), got, c.want)
		}
	}

	if got := texseam.ErrorString(texseam.ErrorCode(0xDEAD)); got != "" {
		t.Fatalf("ErrorString(unknown): got %q want %q", got, "")
	}
}

func TestErrorCodeOf(t *testing.T) {
	if got := texseam.ErrorCodeOf(nil); got != texseam.Success {
		t.Fatalf("ErrorCodeOf(nil): got %v want %v", got, texseam.Success)
	}

	_, err := texseam.NewCompressedImage(texseam.NewImage(5, 5), 0)
	if err == nil {
		t.Fatalf("NewCompressedImage(5x5): got nil error, want error")
	}
	if got := texseam.ErrorCodeOf(err); got != texseam.ErrBadDimensions {
		t.Fatalf("ErrorCodeOf(bad dims): got %v want %v", got, texseam.ErrBadDimensions)
	}

	if got := texseam.ErrorCodeOf(errors.New("some other error")); got != texseam.ErrIO {
		t.Fatalf("ErrorCodeOf(non-texseam): got %v want %v", got, texseam.ErrIO)
	}
}
