package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"Forward3D/internal/logger"

	"github.com/ftrvxmtrx/tga"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// MaxTextureSize bounds either side of an uploaded texture; larger images
// are scaled down on load.
var MaxTextureSize = 4096

// TextureStats provides debugging and profiling information
type TextureStats struct {
	TotalTextures  int
	CacheHits      int
	CacheMisses    int
	ActiveTextures int
}

// textureBackend owns the GPU side of a texture.
type textureBackend interface {
	Upload2D(img *image.RGBA) uint32
	UploadCube(faces [6]*image.RGBA) uint32
	Delete(id uint32)
}

// Texture is one counted reference to a cached GPU texture. It satisfies
// ShaderResourceView; Release drops this reference only.
type Texture struct {
	id       uint32
	target   uint32
	manager  *TextureManager
	released bool
}

func (t *Texture) GLID() uint32     { return t.id }
func (t *Texture) GLTarget() uint32 { return t.target }

func (t *Texture) Release() {
	if t.released {
		return
	}
	t.released = true
	t.manager.ReleaseTexture(t.id)
}

// TextureManager manages texture loading, caching, and lifecycle
type TextureManager struct {
	backend         textureBackend
	textureCache    map[string]uint32 // key -> texture ID
	textureRefCount map[uint32]int    // texture ID -> reference count
	texturePaths    map[uint32]string // texture ID -> key (for debugging)
	textureTargets  map[uint32]uint32
	mu              sync.RWMutex
	stats           TextureStats
}

// NewTextureManager creates a texture manager that uploads through OpenGL.
func NewTextureManager() *TextureManager {
	return newTextureManager(glTextureBackend{})
}

func newTextureManager(backend textureBackend) *TextureManager {
	return &TextureManager{
		backend:         backend,
		textureCache:    make(map[string]uint32),
		textureRefCount: make(map[uint32]int),
		texturePaths:    make(map[uint32]string),
		textureTargets:  make(map[uint32]uint32),
	}
}

// cached returns a new reference to key if it is loaded. Callers hold mu.
func (tm *TextureManager) cached(key string) (*Texture, bool) {
	textureID, exists := tm.textureCache[key]
	if !exists {
		tm.stats.CacheMisses++
		return nil, false
	}
	tm.textureRefCount[textureID]++
	tm.stats.CacheHits++

	logger.Log.Debug("Texture cache hit",
		zap.String("key", key),
		zap.Uint32("textureID", textureID),
		zap.Int("refCount", tm.textureRefCount[textureID]))
	return &Texture{id: textureID, target: tm.textureTargets[textureID], manager: tm}, true
}

// track registers a freshly uploaded texture with one reference. Callers
// hold mu.
func (tm *TextureManager) track(key string, textureID, target uint32) *Texture {
	tm.textureCache[key] = textureID
	tm.textureRefCount[textureID] = 1
	tm.texturePaths[textureID] = key
	tm.textureTargets[textureID] = target
	tm.stats.TotalTextures++
	tm.stats.ActiveTextures++
	return &Texture{id: textureID, target: target, manager: tm}
}

// LoadTexture loads a 2D texture from file or returns a new reference to the
// cached one.
func (tm *TextureManager) LoadTexture(filePath string) (*Texture, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tex, ok := tm.cached(filePath); ok {
		return tex, nil
	}

	rgba, err := decodeTextureFile(filePath)
	if err != nil {
		return nil, err
	}
	tex := tm.track(filePath, tm.backend.Upload2D(rgba), gl.TEXTURE_2D)

	logger.Log.Info("Texture loaded and cached",
		zap.String("path", filePath),
		zap.Uint32("textureID", tex.id),
		zap.Int("width", rgba.Rect.Dx()),
		zap.Int("height", rgba.Rect.Dy()))
	return tex, nil
}

// CreateTextureFromImage uploads img under name, or returns a new reference
// if name is already loaded.
func (tm *TextureManager) CreateTextureFromImage(img image.Image, name string) (*Texture, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tex, ok := tm.cached(name); ok {
		return tex, nil
	}
	tex := tm.track(name, tm.backend.Upload2D(fitTexture(img)), gl.TEXTURE_2D)

	logger.Log.Info("Texture created from image",
		zap.String("name", name),
		zap.Uint32("textureID", tex.id))
	return tex, nil
}

// SolidTexture returns a 1x1 texture of the given color, used where a
// material has no texture under a name its shader samples.
func (tm *TextureManager) SolidTexture(c color.RGBA) (*Texture, error) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, c)
	return tm.CreateTextureFromImage(img, fmt.Sprintf("solid:%02x%02x%02x%02x", c.R, c.G, c.B, c.A))
}

// LoadCubemap builds a cube map from six face images in +X, -X, +Y, -Y,
// +Z, -Z order. All faces must share one size.
func (tm *TextureManager) LoadCubemap(name string, faces [6]string) (*Texture, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tex, ok := tm.cached(name); ok {
		return tex, nil
	}

	var images [6]*image.RGBA
	for i, path := range faces {
		rgba, err := decodeTextureFile(path)
		if err != nil {
			return nil, fmt.Errorf("cubemap %s face %d: %w", name, i, err)
		}
		if i > 0 && rgba.Rect.Size() != images[0].Rect.Size() {
			return nil, fmt.Errorf("cubemap %s face %d: size %v does not match %v", name, i, rgba.Rect.Size(), images[0].Rect.Size())
		}
		images[i] = rgba
	}
	tex := tm.track(name, tm.backend.UploadCube(images), gl.TEXTURE_CUBE_MAP)

	logger.Log.Info("Cubemap loaded",
		zap.String("name", name),
		zap.Uint32("textureID", tex.id),
		zap.Int("faceSize", images[0].Rect.Dx()))
	return tex, nil
}

// Retain returns an extra reference to the same texture.
func (tm *TextureManager) Retain(t *Texture) *Texture {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	tm.textureRefCount[t.id]++
	logger.Log.Debug("Texture reference added",
		zap.Uint32("textureID", t.id),
		zap.Int("refCount", tm.textureRefCount[t.id]))
	return &Texture{id: t.id, target: t.target, manager: tm}
}

// ReleaseTexture decrements reference count and frees texture if count reaches 0
func (tm *TextureManager) ReleaseTexture(textureID uint32) {
	if textureID == 0 {
		return
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	refCount, exists := tm.textureRefCount[textureID]
	if !exists {
		logger.Log.Warn("Attempted to release unknown texture",
			zap.Uint32("textureID", textureID))
		return
	}

	refCount--
	tm.textureRefCount[textureID] = refCount

	logger.Log.Debug("Texture reference released",
		zap.Uint32("textureID", textureID),
		zap.Int("refCount", refCount))

	if refCount <= 0 {
		tm.backend.Delete(textureID)

		path := tm.texturePaths[textureID]
		delete(tm.textureCache, path)
		delete(tm.textureRefCount, textureID)
		delete(tm.texturePaths, textureID)
		delete(tm.textureTargets, textureID)
		tm.stats.ActiveTextures--

		logger.Log.Info("Texture freed",
			zap.Uint32("textureID", textureID),
			zap.String("path", path))
	}
}

// RefCount reports the live references to a texture.
func (tm *TextureManager) RefCount(t *Texture) int {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.textureRefCount[t.id]
}

// GetStats returns current texture manager statistics
func (tm *TextureManager) GetStats() TextureStats {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	stats := tm.stats
	stats.ActiveTextures = len(tm.textureRefCount)
	return stats
}

// LogStats logs current texture statistics
func (tm *TextureManager) LogStats() {
	stats := tm.GetStats()
	hitRate := 0.0
	if lookups := stats.CacheHits + stats.CacheMisses; lookups > 0 {
		hitRate = float64(stats.CacheHits) / float64(lookups)
	}
	logger.Log.Info("Texture Manager Stats",
		zap.Int("totalTextures", stats.TotalTextures),
		zap.Int("activeTextures", stats.ActiveTextures),
		zap.Int("cacheHits", stats.CacheHits),
		zap.Int("cacheMisses", stats.CacheMisses),
		zap.Float64("hitRate", hitRate))
}

// Clear frees every texture regardless of outstanding references.
func (tm *TextureManager) Clear() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	for textureID := range tm.textureRefCount {
		tm.backend.Delete(textureID)
	}

	tm.textureCache = make(map[string]uint32)
	tm.textureRefCount = make(map[uint32]int)
	tm.texturePaths = make(map[uint32]string)
	tm.textureTargets = make(map[uint32]uint32)
	tm.stats.ActiveTextures = 0

	logger.Log.Info("Texture manager cleared")
}

// textureDecoders maps a lowercase file extension to its decoder. Formats
// are picked by extension because tga registers with image.Decode under an
// empty magic string and would claim every file.
var textureDecoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".bmp":  bmp.Decode,
	".tif":  tiff.Decode,
	".tiff": tiff.Decode,
	".webp": webp.Decode,
	".tga":  tga.Decode,
}

func decodeTextureFile(path string) (*image.RGBA, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := textureDecoders[ext]
	if !ok {
		return nil, fmt.Errorf("texture: unsupported format %q: %s", ext, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: open %s: %w", path, err)
	}
	defer f.Close()

	img, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	logger.Log.Debug("Texture decoded", zap.String("path", path), zap.String("format", ext))
	return fitTexture(img), nil
}

// fitTexture converts img to tightly packed RGBA, scaling it down so neither
// side exceeds MaxTextureSize.
func fitTexture(img image.Image) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > MaxTextureSize || h > MaxTextureSize {
		scale := float64(MaxTextureSize) / float64(max(w, h))
		w = max(1, int(float64(w)*scale))
		h = max(1, int(float64(h)*scale))
		logger.Log.Warn("Texture scaled down",
			zap.Int("fromWidth", b.Dx()),
			zap.Int("fromHeight", b.Dy()),
			zap.Int("width", w),
			zap.Int("height", h))
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		xdraw.Draw(rgba, rgba.Bounds(), img, b.Min, xdraw.Src)
	} else {
		xdraw.ApproxBiLinear.Scale(rgba, rgba.Bounds(), img, b, xdraw.Src, nil)
	}
	return rgba
}

type glTextureBackend struct{}

func (glTextureBackend) Upload2D(rgba *image.RGBA) uint32 {
	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_2D, textureID)
	gl.TexImage2D(
		gl.TEXTURE_2D, 0, gl.RGBA,
		int32(rgba.Rect.Dx()), int32(rgba.Rect.Dy()),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	return textureID
}

func (glTextureBackend) UploadCube(faces [6]*image.RGBA) uint32 {
	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, textureID)
	for i, face := range faces {
		gl.TexImage2D(
			gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, gl.RGBA,
			int32(face.Rect.Dx()), int32(face.Rect.Dy()),
			0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(face.Pix))
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	return textureID
}

func (glTextureBackend) Delete(id uint32) {
	gl.DeleteTextures(1, &id)
}
