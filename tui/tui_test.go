package tui

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hoshinonyaruko/snake-in-grid/gate"
	"github.com/hoshinonyaruko/snake-in-grid/snake"
	"github.com/hoshinonyaruko/snake-in-grid/structs"
)

func testGame(t *testing.T) (*snake.Game, *gate.ManualClock) {
	t.Helper()
	clock := gate.NewManualClock(time.Unix(1_700_000_000, 0))
	s := snake.DefaultSettings
	g, err := snake.Restore(s, structs.Snapshot{
		Width:     5,
		Height:    3,
		Body:      []structs.Cell{{X: 1, Y: 1}},
		Direction: structs.Right,
		Foods:     []structs.Food{{Cell: structs.Cell{X: 4, Y: 0}, Score: 1}},
		Obstacles: []structs.Cell{{X: 0, Y: 2}},
	}, snake.WithClock(clock), snake.WithRand(rand.New(rand.NewSource(1))))
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	return g, clock
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestView_DrawsBoard(t *testing.T) {
	g, _ := testGame(t)
	view := New(g, time.Millisecond).View()

	want := "····*\n·@···\n#····\n"
	if !strings.HasPrefix(view, want) {
		t.Fatalf("view:\n%s\nwant prefix:\n%s", view, want)
	}
	if !strings.Contains(view, "Score: 0") {
		t.Fatalf("score missing:\n%s", view)
	}
}

func TestUpdate_KeyMovesSnake(t *testing.T) {
	g, _ := testGame(t)
	m := New(g, time.Millisecond)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if cmd != nil {
		t.Fatalf("arrow key returned a command")
	}
	if head := g.Head(); head != (structs.Cell{X: 1, Y: 0}) {
		t.Fatalf("head %v want (1,0)", head)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if head := g.Head(); head != (structs.Cell{X: 0, Y: 0}) {
		t.Fatalf("head %v want (0,0)", head)
	}
}

func TestUpdate_TickAdvancesAndStopsOnCollision(t *testing.T) {
	g, clock := testGame(t)
	m := New(g, time.Millisecond)

	// first tick seeds the movement gate
	if _, cmd := m.Update(TickMsg(time.Now())); cmd == nil || isQuit(cmd) {
		t.Fatalf("tick should schedule the next frame")
	}
	clock.Advance(150 * time.Millisecond)
	m.Update(TickMsg(time.Now()))
	if head := g.Head(); head != (structs.Cell{X: 2, Y: 1}) {
		t.Fatalf("head %v want (2,1)", head)
	}

	// steer into the obstacle at (0,2): down from (0,1)
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if _, cmd := m.Update(TickMsg(time.Now())); !isQuit(cmd) {
		t.Fatalf("collision did not quit, head %v", g.Head())
	}
	if !strings.Contains(m.View(), "GAME OVER") {
		t.Fatalf("view does not show game over")
	}
}

func TestUpdate_QuitKey(t *testing.T) {
	g, _ := testGame(t)
	_, cmd := New(g, time.Millisecond).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !isQuit(cmd) || !g.Terminated() {
		t.Fatalf("q should quit and terminate")
	}
}
