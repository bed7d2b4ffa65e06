package snake

import (
	"slices"

	"github.com/hoshinonyaruko/snake-in-grid/structs"
)

// ApplyDirection moves the snake one cell in d right away, as a player
// key press does. The move is dropped when it would turn straight back
// into the neck. Collisions and food are resolved by the next Tick.
func (g *Game) ApplyDirection(d structs.Direction) {
	if g.Terminated() {
		return
	}
	g.move(d, true)
}

// Tick advances the game by one loop iteration: the automatic move when
// the movement interval has elapsed, the collision check, eating, and the
// food respawn. It reports whether the game ended during this call.
func (g *Game) Tick() bool {
	if g.Terminated() {
		return false
	}

	g.move(g.dir, false)
	if g.Collided() {
		g.phase = structs.Terminated
		return true
	}

	if i := g.foodAtHead(); i >= 0 {
		g.eat(i)
		// growth puts a new head one cell further, which may be blocked
		if g.Collided() {
			g.phase = structs.Terminated
			return true
		}
	}

	_ = g.respawnFood() // ErrBoardFull leaves slots inactive
	return false
}

// Quit ends the game on an external signal.
func (g *Game) Quit() {
	g.phase = structs.Terminated
}

// move is gated by the movement interval; manual moves skip the wait but
// still restart it. It reports whether the snake moved.
func (g *Game) move(d structs.Direction, manual bool) bool {
	if !g.moveGate.Admit(g.interval, manual) {
		return false
	}
	if g.phase == structs.Idle {
		g.phase = structs.Running
	}

	next := g.grid.Step(g.Head(), d)
	n := len(g.body)
	// the gate has already admitted, so a rejected reversal still restarts
	// the interval; holding the reverse key stalls the snake
	if n >= 2 && next == g.body[n-2] {
		return false
	}

	copy(g.body, g.body[1:])
	g.body[n-1] = next
	g.dir = d
	return true
}

// Collided reports whether the head sits on an obstacle or on a body
// segment other than itself and the neck.
func (g *Game) Collided() bool {
	head := g.Head()
	if n := len(g.body); n > 2 && slices.Contains(g.body[:n-2], head) {
		return true
	}
	return slices.Contains(g.obstacles, head)
}

func (g *Game) foodAtHead() int {
	head := g.Head()
	for i, f := range g.foods {
		if f.Active() && f.Cell == head {
			return i
		}
	}
	return -1
}

// eat credits the food, marks it eaten in place and grows the snake by
// appending a head one step further in the current direction.
func (g *Game) eat(i int) {
	g.score += g.foods[i].Score
	g.foods[i].Score = 0
	g.body = append(g.body, g.grid.Step(g.Head(), g.dir))
	g.interval = Interval(g.score, g.settings.Speed)
}
