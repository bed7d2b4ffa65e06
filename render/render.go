// Package render draws a board to an image with gg.
package render

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fogleman/gg"
	"github.com/hoshinonyaruko/snake-in-grid/memimg"
	"github.com/hoshinonyaruko/snake-in-grid/structs"
)

const (
	BackgroundColor = "#000000"
	GridColor       = "#1A1A1A"
	SnakeColor      = "#EE72F1"
	HeadColor       = "#F7B9F8"
	FoodColor       = "#77B28C"
	ObstacleColor   = "#964B00"
	ScoreColor      = "#FFFFFF"
)

// Board is the read-only view the renderer needs. *snake.Game satisfies it.
type Board interface {
	Width() int
	Height() int
	Snake() []structs.Cell
	ActiveFoods() []structs.Food
	Obstacles() []structs.Cell
	Score() int
	Terminated() bool
}

// Sprites supplies optional images per entity; nil means plain colours.
type Sprites interface {
	Sprite(name string) (image.Image, bool)
}

// 背景网格缓存，key 为 宽_高_格子大小
var backgroundCache sync.Map

func background(width, height, blockSize int) image.Image {
	key := fmt.Sprintf("%d_%d_%d", width, height, blockSize)
	if cached, ok := backgroundCache.Load(key); ok {
		return cached.(image.Image)
	}

	canvasWidth, canvasHeight := width*blockSize, height*blockSize
	dc := gg.NewContext(canvasWidth, canvasHeight)
	dc.SetHexColor(BackgroundColor)
	dc.Clear()
	renderGrid(dc, canvasWidth, canvasHeight, blockSize)

	img := dc.Image()
	backgroundCache.Store(key, img)
	return img
}

func renderGrid(dc *gg.Context, width, height, blockSize int) {
	dc.SetHexColor(GridColor)
	dc.SetLineWidth(1)
	for x := 0; x <= width; x += blockSize {
		dc.DrawLine(float64(x), 0, float64(x), float64(height))
		dc.Stroke()
	}
	for y := 0; y <= height; y += blockSize {
		dc.DrawLine(0, float64(y), float64(width), float64(y))
		dc.Stroke()
	}
}

// Render draws obstacles, active food, the snake (head last) and the score.
func Render(b Board, blockSize int, sprites Sprites) *gg.Context {
	dc := gg.NewContext(b.Width()*blockSize, b.Height()*blockSize)
	dc.DrawImage(background(b.Width(), b.Height(), blockSize), 0, 0)

	draw := func(c structs.Cell, sprite, hex string) {
		if sprites != nil {
			if img, ok := sprites.Sprite(sprite); ok {
				dc.DrawImage(img, c.X*blockSize, c.Y*blockSize)
				return
			}
		}
		dc.SetHexColor(hex)
		dc.DrawRectangle(float64(c.X*blockSize), float64(c.Y*blockSize), float64(blockSize), float64(blockSize))
		dc.Fill()
	}

	for _, c := range b.Obstacles() {
		draw(c, memimg.Obstacle, ObstacleColor)
	}
	for _, f := range b.ActiveFoods() {
		draw(f.Cell, memimg.Food, FoodColor)
	}
	body := b.Snake()
	for i, c := range body {
		if i == len(body)-1 {
			draw(c, memimg.Head, HeadColor)
		} else {
			draw(c, memimg.Body, SnakeColor)
		}
	}

	dc.SetHexColor(ScoreColor)
	dc.DrawStringAnchored(fmt.Sprintf("Score: %d", b.Score()), 4, 4, 0, 1)
	if b.Terminated() {
		dc.DrawStringAnchored("GAME OVER", float64(dc.Width())/2, float64(dc.Height())/2, 0.5, 0.5)
	}
	return dc
}

// SavePNG renders b into path, creating parent directories.
func SavePNG(b Board, blockSize int, sprites Sprites, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	return Render(b, blockSize, sprites).SavePNG(path)
}

// EncodePNG renders b as PNG into w.
func EncodePNG(w io.Writer, b Board, blockSize int, sprites Sprites) error {
	return Render(b, blockSize, sprites).EncodePNG(w)
}
