package structs

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{"up": Up, "DOWN": Down, " left ": Left, "Right": Right} {
		got, err := ParseDirection(in)
		if err != nil || got != want {
			t.Fatalf("ParseDirection(%q)=%v, %v want %v", in, got, err, want)
		}
	}
	if _, err := ParseDirection("north"); !errors.Is(err, ErrUnknownDirection) {
		t.Fatalf("err=%v want ErrUnknownDirection", err)
	}
}

func TestDirectionDeltasOfOppositesCancel(t *testing.T) {
	pairs := map[Direction]Direction{Right: Left, Left: Right, Up: Down, Down: Up}
	for d, want := range pairs {
		dx, dy := d.Delta()
		ox, oy := want.Delta()
		if dx+ox != 0 || dy+oy != 0 {
			t.Fatalf("deltas of %v and %v do not cancel", d, want)
		}
	}
}

func TestSnapshotJSONUsesNames(t *testing.T) {
	b, err := json.Marshal(Snapshot{Body: []Cell{{X: 1, Y: 2}}, Direction: Down, Phase: Terminated})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, `"direction":"down"`) || !strings.Contains(s, `"phase":"terminated"`) {
		t.Fatalf("unexpected json %s", s)
	}

	var back Snapshot
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Direction != Down || back.Phase != Terminated || back.Body[0] != (Cell{X: 1, Y: 2}) {
		t.Fatalf("decoded %+v", back)
	}
}
