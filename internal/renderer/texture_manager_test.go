package renderer

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTextureBackend struct {
	next    uint32
	deleted []uint32
	cubes   int
	last    *image.RGBA
}

func (b *fakeTextureBackend) Upload2D(img *image.RGBA) uint32 {
	b.next++
	b.last = img
	return b.next
}

func (b *fakeTextureBackend) UploadCube(faces [6]*image.RGBA) uint32 {
	b.cubes++
	b.next++
	return b.next
}

func (b *fakeTextureBackend) Delete(id uint32) { b.deleted = append(b.deleted, id) }

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestTextureManagerCachesAndCounts(t *testing.T) {
	backend := &fakeTextureBackend{}
	tm := newTextureManager(backend)
	path := writePNG(t, t.TempDir(), "albedo.png", 4, 2)

	a, err := tm.LoadTexture(path)
	require.NoError(t, err)
	b, err := tm.LoadTexture(path)
	require.NoError(t, err)

	assert.Equal(t, a.GLID(), b.GLID())
	assert.Equal(t, 2, tm.RefCount(a))
	assert.Equal(t, 1, tm.GetStats().CacheHits)
	assert.Equal(t, 4, backend.last.Rect.Dx())

	a.Release()
	a.Release()
	assert.Equal(t, 1, tm.RefCount(b), "releasing one handle twice should count once")
	assert.Empty(t, backend.deleted)

	b.Release()
	assert.Equal(t, []uint32{b.GLID()}, backend.deleted)
	assert.Equal(t, 0, tm.GetStats().ActiveTextures)
}

func TestTextureManagerMaterialReplacementFreesTexture(t *testing.T) {
	backend := &fakeTextureBackend{}
	tm := newTextureManager(backend)
	dir := t.TempDir()
	first, err := tm.LoadTexture(writePNG(t, dir, "a.png", 1, 1))
	require.NoError(t, err)
	second, err := tm.LoadTexture(writePNG(t, dir, "b.png", 1, 1))
	require.NoError(t, err)

	m, _ := newTestMaterial(&callLog{})
	m.AddTextureSRV("Albedo", first)
	m.AddTextureSRV("Albedo", second)

	assert.Equal(t, []uint32{first.GLID()}, backend.deleted)
}

func writeTGA(t *testing.T, dir, name string, c color.NRGBA) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, tga.Encode(f, img))
	return path
}

func TestTextureManagerDecodesByExtension(t *testing.T) {
	backend := &fakeTextureBackend{}
	tm := newTextureManager(backend)
	dir := t.TempDir()

	_, err := tm.LoadTexture(writePNG(t, dir, "albedo.png", 4, 2))
	require.NoError(t, err, "PNG must not be claimed by the tga decoder")
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, backend.last.RGBAAt(0, 0))

	_, err = tm.LoadTexture(writeTGA(t, dir, "albedo.tga", color.NRGBA{0, 0, 255, 255}))
	require.NoError(t, err)
	assert.Equal(t, 2, backend.last.Rect.Dx())
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, backend.last.RGBAAt(1, 1))

	_, err = tm.LoadTexture(filepath.Join(dir, "albedo.dds"))
	assert.ErrorContains(t, err, "unsupported format")
}

func TestTextureManagerRetain(t *testing.T) {
	tm := newTextureManager(&fakeTextureBackend{})
	tex, err := tm.SolidTexture(color.RGBA{255, 255, 255, 255})
	require.NoError(t, err)

	extra := tm.Retain(tex)
	assert.Equal(t, 2, tm.RefCount(tex))

	again, err := tm.SolidTexture(color.RGBA{255, 255, 255, 255})
	require.NoError(t, err)
	assert.Equal(t, tex.GLID(), again.GLID())
	assert.Equal(t, 3, tm.RefCount(extra))
}

func TestTextureManagerLoadErrors(t *testing.T) {
	tm := newTextureManager(&fakeTextureBackend{})
	_, err := tm.LoadTexture(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))
	_, err = tm.LoadTexture(bad)
	assert.Error(t, err)
}

func TestTextureManagerCubemap(t *testing.T) {
	backend := &fakeTextureBackend{}
	tm := newTextureManager(backend)
	dir := t.TempDir()

	var faces [6]string
	for i := range faces {
		faces[i] = writePNG(t, dir, string(rune('a'+i))+".png", 8, 8)
	}
	tex, err := tm.LoadCubemap("sky", faces)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.cubes)
	assert.NotEqual(t, tex.GLTarget(), uint32(0))

	faces[3] = writePNG(t, dir, "small.png", 4, 4)
	_, err = tm.LoadCubemap("mismatched", faces)
	assert.Error(t, err)
}

func TestFitTextureScalesDown(t *testing.T) {
	saved := MaxTextureSize
	MaxTextureSize = 16
	t.Cleanup(func() { MaxTextureSize = saved })

	rgba := fitTexture(image.NewNRGBA(image.Rect(0, 0, 64, 32)))

	assert.Equal(t, 16, rgba.Rect.Dx())
	assert.Equal(t, 8, rgba.Rect.Dy())
	assert.Equal(t, rgba.Rect.Dx()*4, rgba.Stride)
}
