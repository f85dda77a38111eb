package mapcode

import (
	"errors"
	"fmt"

	"github.com/siohaza/recursedit/pkg/tilechars"
)

var (
	ErrInvalidName      = errors.New("invalid room name")
	ErrUnknownTileset   = errors.New("unknown tileset")
	ErrUnsupportedTile  = errors.New("unsupported tile type")
	ErrTooManyTileKinds = tilechars.ErrTooManyTileKinds
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomExists       = errors.New("room already exists")
	ErrReservedName     = errors.New("reserved room name")
	ErrMissingPayload   = errors.New("item payload required")
)

// ParseError reports the line a fatal decode failure was found on.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type EncodingError struct {
	Room string
	Err  error
}

func (e *EncodingError) Error() string {
	if e.Room == "" {
		return fmt.Sprintf("encode: %v", e.Err)
	}
	return fmt.Sprintf("encode room %s: %v", e.Room, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}
