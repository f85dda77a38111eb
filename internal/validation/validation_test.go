package validation

import (
	"math"
	"strings"
	"testing"

	"github.com/siohaza/recursedit/internal/mapcode"
	"github.com/siohaza/recursedit/internal/tiledef"
)

func TestIsValidItemPosition(t *testing.T) {
	tests := []struct {
		x, y float64
		want bool
	}{
		{0, 0, true},
		{10, 7.5, true},
		{20, 15, true},
		{-0.5, 3, false},
		{3, 15.25, false},
		{math.NaN(), 1, false},
		{1, math.Inf(1), false},
	}
	for _, tt := range tests {
		if got := IsValidItemPosition(tt.x, tt.y); got != tt.want {
			t.Errorf("IsValidItemPosition(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestCheck(t *testing.T) {
	doc := mapcode.NewDocument()
	if warnings := Check(doc); len(warnings) != 1 || !strings.Contains(warnings[0], "empty") {
		t.Fatalf("expected empty start warning, got %v", warnings)
	}

	start, _ := doc.Room("start")
	start.Dry.AddItem(mapcode.Item{Kind: mapcode.KindChest, X: 1, Y: 1, Payload: mapcode.RoomLink{Room: "vault"}})
	start.Dry.AddItem(mapcode.Item{Kind: mapcode.KindPlayer, X: 2, Y: 2})
	start.Dry.AddItem(mapcode.Item{Kind: mapcode.KindPlayer, X: 3, Y: 2})
	start.Wet.AddItem(mapcode.Item{Kind: "spring", X: 25, Y: 2})

	warnings := Check(doc)
	want := []string{
		`start/dry: chest leads to missing room "vault"`,
		"start/dry: 2 player items",
		`start/wet: unknown item kind "spring"`,
		"start/wet: spring outside the room at (25, 2)",
	}
	for _, w := range want {
		found := false
		for _, got := range warnings {
			if got == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing warning %q in %v", w, warnings)
		}
	}
	if len(warnings) != len(want) {
		t.Fatalf("unexpected warnings %v", warnings)
	}

	if _, err := doc.CreateRoom("vault"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	for _, got := range Check(doc) {
		if strings.Contains(got, "vault") {
			t.Fatalf("link should resolve now: %v", got)
		}
	}
}

func TestCheckTiles(t *testing.T) {
	ts, err := tiledef.Parse("wall = {frame = 1}\n", 64)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	doc := mapcode.NewDocument()
	start, _ := doc.Room("start")
	start.Dry.SetTile(0, 0, "wall")
	start.Wet.SetTile(0, 0, "lava")

	warnings := CheckTiles(doc, ts)
	if len(warnings) != 1 || !strings.Contains(warnings[0], "lava") {
		t.Fatalf("unexpected warnings %v", warnings)
	}
}
