// Package tui plays a game in the terminal with Bubble Tea.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hoshinonyaruko/snake-in-grid/snake"
	"github.com/hoshinonyaruko/snake-in-grid/structs"
)

// TickMsg drives one game loop iteration.
type TickMsg time.Time

func tickCmd(frame time.Duration) tea.Cmd {
	return tea.Tick(frame, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

var keys = map[string]structs.Direction{
	"up": structs.Up, "w": structs.Up,
	"down": structs.Down, "s": structs.Down,
	"left": structs.Left, "a": structs.Left,
	"right": structs.Right, "d": structs.Right,
}

const (
	emptyRune    = '·'
	bodyRune     = 'o'
	headRune     = '@'
	foodRune     = '*'
	obstacleRune = '#'
)

type model struct {
	game  *snake.Game
	frame time.Duration
}

func New(game *snake.Game, frame time.Duration) tea.Model {
	return model{game: game, frame: frame}
}

func (m model) Init() tea.Cmd {
	return tickCmd(m.frame)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if key == "q" || key == "ctrl+c" || key == "esc" {
			m.game.Quit()
			return m, tea.Quit
		}
		if d, ok := keys[key]; ok {
			m.game.ApplyDirection(d)
		}
	case TickMsg:
		if m.game.Tick() || m.game.Terminated() {
			return m, tea.Quit
		}
		return m, tickCmd(m.frame)
	}
	return m, nil
}

func (m model) View() string {
	g := m.game
	board := make([][]rune, g.Height())
	for y := range board {
		board[y] = []rune(strings.Repeat(string(emptyRune), g.Width()))
	}
	for _, c := range g.Obstacles() {
		board[c.Y][c.X] = obstacleRune
	}
	for _, f := range g.ActiveFoods() {
		board[f.Cell.Y][f.Cell.X] = foodRune
	}
	body := g.Snake()
	for i, c := range body {
		if i == len(body)-1 {
			board[c.Y][c.X] = headRune
		} else {
			board[c.Y][c.X] = bodyRune
		}
	}

	var s strings.Builder
	for _, row := range board {
		s.WriteString(string(row))
		s.WriteByte('\n')
	}
	s.WriteString(fmt.Sprintf("\nScore: %d  Speed: %s\n", g.Score(), g.Interval()))
	if g.Terminated() {
		s.WriteString("GAME OVER\n")
	}
	s.WriteString("Arrows or WASD to move, q to quit.\n")
	return s.String()
}

// Run blocks until the game ends or the player quits.
func Run(game *snake.Game, frame time.Duration) error {
	p := tea.NewProgram(New(game, frame), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
