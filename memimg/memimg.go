// 精灵图缓存：从目录读取蛇头、蛇身、食物、障碍物图片，缩放到格子大小后放在内存里
package memimg

import (
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"
)

// Sprite names looked up by the renderer.
const (
	Head     = "head"
	Body     = "body"
	Food     = "food"
	Obstacle = "obstacle"
)

var (
	sprites      = make(map[string]image.Image)
	spritesMutex sync.RWMutex
)

var extensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true}

// spriteName maps "./sprites/Head.PNG" to "head"; ok is false for non-images.
func spriteName(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if !extensions[ext] {
		return "", false
	}
	base := filepath.Base(path)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base))), true
}

// LoadSprites reads every image in directory, scaled to blockSize. A
// missing directory is not an error; the renderer falls back to colours.
func LoadSprites(directory string, blockSize int) error {
	loaded := make(map[string]image.Image)
	err := filepath.WalkDir(directory, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name, ok := spriteName(path)
		if !ok {
			return nil
		}
		img, err := LoadImage(path, blockSize)
		if err != nil {
			log.Printf("skip sprite %s: %v", path, err)
			return nil
		}
		loaded[name] = img
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	spritesMutex.Lock()
	sprites = loaded
	spritesMutex.Unlock()
	return nil
}

// LoadImage decodes path and crops-to-fill a blockSize square.
func LoadImage(path string, blockSize int) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}
	if blockSize > 0 {
		img = imaging.Fill(img, blockSize, blockSize, imaging.Center, imaging.Lanczos)
	}
	return img, nil
}

// WatchSprites reloads sprites written or created in directory until done
// is closed.
func WatchSprites(directory string, blockSize int, done <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(directory); err != nil {
		return err
	}

	for {
		select {
		case <-done:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, isImage := spriteName(event.Name)
			if !isImage {
				continue
			}
			switch {
			case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
				img, err := LoadImage(event.Name, blockSize)
				if err != nil {
					// 文件可能还没写完，下一次写事件会再读
					continue
				}
				spritesMutex.Lock()
				sprites[name] = img
				spritesMutex.Unlock()
				log.Printf("sprite %s reloaded", name)
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				spritesMutex.Lock()
				delete(sprites, name)
				spritesMutex.Unlock()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Println("sprite watcher error:", err)
		}
	}
}

// GetSprite returns the cached sprite by name.
func GetSprite(name string) (image.Image, bool) {
	spritesMutex.RLock()
	img, exists := sprites[name]
	spritesMutex.RUnlock()
	return img, exists
}

// Lookup adapts GetSprite to the renderer's sprite source.
type Lookup struct{}

func (Lookup) Sprite(name string) (image.Image, bool) { return GetSprite(name) }
