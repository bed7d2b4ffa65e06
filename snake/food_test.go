package snake

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/hoshinonyaruko/snake-in-grid/gate"
	"github.com/hoshinonyaruko/snake-in-grid/structs"
)

func TestRespawnFood_SecondCallWithinIntervalIsNoop(t *testing.T) {
	g, clock := restoreGame(t, structs.Snapshot{
		Width: 10, Height: 10,
		Body:      cells(5, 5),
		Direction: structs.Right,
		Foods: []structs.Food{
			{Cell: structs.Cell{X: 1, Y: 1}, Score: 1},
			{Cell: structs.Cell{X: 2, Y: 2}, Score: 0},
		},
	})

	// seeding call
	g.respawnFood()
	if !slices.Equal(g.Foods(), []structs.Food{{Cell: structs.Cell{X: 1, Y: 1}, Score: 1}, {Cell: structs.Cell{X: 2, Y: 2}}}) {
		t.Fatalf("seeding call changed food: %v", g.Foods())
	}

	clock.Advance(DefaultSettings.FoodRespawn)
	if err := g.respawnFood(); err != nil {
		t.Fatalf("respawnFood: %v", err)
	}
	first := g.Foods()
	for _, f := range first {
		if f.Score != 1 || f.Cell == g.Head() {
			t.Fatalf("bad respawned food %+v", f)
		}
	}
	if first[0].Cell == first[1].Cell {
		t.Fatalf("two foods share %v", first[0].Cell)
	}

	clock.Advance(DefaultSettings.FoodRespawn - time.Millisecond)
	g.respawnFood()
	if !slices.Equal(g.Foods(), first) {
		t.Fatalf("second call within interval changed food: %v -> %v", first, g.Foods())
	}
}

func TestRespawnFood_OnlyEatenSlots(t *testing.T) {
	clock := gate.NewManualClock(time.Unix(0, 0))
	s := testSettings()
	s.RespawnAll = false
	g, err := Restore(s, structs.Snapshot{
		Width: 10, Height: 10,
		Body: cells(5, 5),
		Foods: []structs.Food{
			{Cell: structs.Cell{X: 8, Y: 8}, Score: 1},
			{Cell: structs.Cell{X: 1, Y: 1}, Score: 0},
		},
	}, WithClock(clock))
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	g.respawnFood()
	clock.Advance(s.FoodRespawn)
	g.respawnFood()

	foods := g.Foods()
	if foods[0] != (structs.Food{Cell: structs.Cell{X: 8, Y: 8}, Score: 1}) {
		t.Fatalf("active food moved: %+v", foods[0])
	}
	if !foods[1].Active() {
		t.Fatalf("eaten slot not refilled: %+v", foods[1])
	}
}

func TestRespawnFood_BoardFullLeavesSlotInactive(t *testing.T) {
	g, clock := restoreGame(t, structs.Snapshot{
		Width: 2, Height: 1,
		Body:      cells(0, 0, 1, 0),
		Direction: structs.Right,
		Foods:     []structs.Food{{Cell: structs.Cell{X: 1, Y: 0}, Score: 0}},
	})
	g.respawnFood()
	clock.Advance(DefaultSettings.FoodRespawn)
	if err := g.respawnFood(); !errors.Is(err, ErrBoardFull) {
		t.Fatalf("err=%v want ErrBoardFull", err)
	}
	if len(g.ActiveFoods()) != 0 {
		t.Fatalf("food placed on a full board: %v", g.Foods())
	}
}

func TestTick_RespawnsAfterInterval(t *testing.T) {
	g, clock := restoreGame(t, structs.Snapshot{
		Width: 10, Height: 10,
		Body:      cells(5, 5),
		Direction: structs.Right,
		Foods:     []structs.Food{{Cell: structs.Cell{X: 6, Y: 5}, Score: 1}},
	})
	g.Tick()
	clock.Advance(DefaultSpeed.Max)
	g.Tick() // eats
	if len(g.ActiveFoods()) != 0 {
		t.Fatalf("food still active after eating")
	}

	clock.Advance(DefaultSettings.FoodRespawn)
	g.Tick()
	active := g.ActiveFoods()
	if len(active) != 1 || slices.Contains(g.Snake(), active[0].Cell) {
		t.Fatalf("respawned food %v overlaps snake %v", active, g.Snake())
	}
}
