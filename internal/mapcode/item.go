package mapcode

import (
	"fmt"
	"math"
)

type Kind string

const (
	KindChest    Kind = "chest"
	KindCauldron Kind = "cauldron"
	KindRecord   Kind = "record"
	KindBird     Kind = "bird"
	KindCrystal  Kind = "crystal"
	KindRuby     Kind = "ruby"
	KindGeneric  Kind = "generic"
	KindFan      Kind = "fan"
	KindLock     Kind = "lock"
	KindPlayer   Kind = "player"
	KindYield    Kind = "yield"
	KindKey      Kind = "key"
	KindDiamond  Kind = "diamond"
)

var knownKinds = map[Kind]bool{
	KindChest: true, KindCauldron: true, KindRecord: true, KindBird: true,
	KindCrystal: true, KindRuby: true, KindGeneric: true, KindFan: true,
	KindLock: true, KindPlayer: true, KindYield: true, KindKey: true,
	KindDiamond: true,
}

// Known reports whether the kind belongs to the editor's item palette.
func (k Kind) Known() bool {
	return knownKinds[k]
}

type PayloadShape int

const (
	PayloadNone PayloadShape = iota
	PayloadRoom
	PayloadTrack
	PayloadToken
)

func (k Kind) PayloadShape() PayloadShape {
	switch k {
	case KindChest, KindCauldron:
		return PayloadRoom
	case KindRecord:
		return PayloadTrack
	case KindBird:
		return PayloadToken
	default:
		return PayloadNone
	}
}

// Payload is the kind-specific extra argument of an item. The concrete
// types are RoomLink, Track and Token.
type Payload interface {
	Text() string
	quoted() bool
}

// RoomLink names the room a chest or cauldron leads into.
type RoomLink struct {
	Room string
}

func (p RoomLink) Text() string { return p.Room }
func (p RoomLink) quoted() bool { return true }

// Track names the sound file a record plays.
type Track struct {
	File string
}

func (p Track) Text() string { return p.File }
func (p Track) quoted() bool { return true }

// Token is an unquoted script expression, kept verbatim.
type Token struct {
	Raw string
}

func (p Token) Text() string { return p.Raw }
func (p Token) quoted() bool { return false }

type Item struct {
	Kind    Kind
	X, Y    float64
	Global  bool
	Payload Payload
}

// NewItem builds an item with the payload variant its kind requires.
// Payload text given to a kind that takes none is dropped.
func NewItem(kind Kind, x, y float64, global bool, payload string) (Item, error) {
	item := Item{Kind: kind, X: x, Y: y, Global: global}

	shape := kind.PayloadShape()
	if shape != PayloadNone && payload == "" {
		return Item{}, fmt.Errorf("%w: %s", ErrMissingPayload, kind)
	}

	switch shape {
	case PayloadRoom:
		item.Payload = RoomLink{Room: payload}
	case PayloadTrack:
		item.Payload = Track{File: payload}
	case PayloadToken:
		item.Payload = Token{Raw: payload}
	}
	return item, nil
}

// PayloadText returns the payload text, or "" for kinds without one.
func (it Item) PayloadText() string {
	if it.Payload == nil {
		return ""
	}
	return it.Payload.Text()
}

// Identical compares items by kind, position, global flag and payload.
func Identical(a, b Item) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.X != b.X || a.Y != b.Y {
		return false
	}
	if a.Global != b.Global {
		return false
	}
	return a.Payload == b.Payload
}

func (it Item) String() string {
	call := "Spawn"
	if it.Global {
		call = "Global"
	}
	return call + formatItemArgs(it)
}

// SnapPosition rounds v down to the editor grid of 1/snap tiles.
func SnapPosition(v float64, snap int) float64 {
	if snap <= 0 {
		return v
	}
	return math.Floor(v*float64(snap)) / float64(snap)
}
