package scene

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toy-engine/gpu"
	"toy-engine/gpu/gputest"
	"toy-engine/shader"
)

func writePNG(t *testing.T, dir, name string, size int, c color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func cubeFaces(t *testing.T) CubeFaces {
	dir := t.TempDir()
	red := color.RGBA{R: 255, A: 255}
	return CubeFaces{
		PosX: writePNG(t, dir, "px.png", 4, red),
		NegX: writePNG(t, dir, "nx.png", 4, red),
		PosY: writePNG(t, dir, "py.png", 4, red),
		NegY: writePNG(t, dir, "ny.png", 4, red),
		PosZ: writePNG(t, dir, "pz.png", 4, red),
		NegZ: writePNG(t, dir, "nz.png", 4, red),
	}
}

func waitCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestLoadImageAndResample(t *testing.T) {
	path := writePNG(t, t.TempDir(), "a.png", 4, color.RGBA{G: 255, A: 255})
	img, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())

	big := Resample(img, 16)
	assert.Equal(t, image.Rect(0, 0, 16, 16), big.Bounds())
	c := big.RGBAAt(8, 8)
	assert.Greater(t, c.G, uint8(250))
	assert.Zero(t, c.R)
	assert.Same(t, img, Resample(img, 4))

	_, err = LoadImage(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestLoadImageRejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.png")
	require.NoError(t, os.WriteFile(path, []byte("definitely not pixels"), 0o644))
	_, err := LoadImage(path)
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestCubeTextureUploadsOnFirstBind(t *testing.T) {
	s := gputest.New(1, 1)
	tex := NewCubeTexture(cubeFaces(t), 8, nil)
	loaded := 0
	tex.OnLoad = func() { loaded++ }

	assert.False(t, tex.Bind(s, 0))

	tex.Load(context.Background())
	require.NoError(t, tex.Wait(waitCtx(t)))
	assert.False(t, tex.Ready())

	require.True(t, tex.Bind(s, 0))
	assert.True(t, tex.Ready())
	for _, face := range gpu.CubeFaces {
		assert.Equal(t, 1, s.TexUploads[face])
	}
	require.True(t, tex.Bind(s, 0))
	assert.Equal(t, 1, s.TexUploads[gpu.CubePosX])
	assert.Equal(t, 1, loaded)
	assert.Equal(t, shader.SamplerCube, tex.Feature())
}

func TestCubeTextureCanceledLoad(t *testing.T) {
	tex := NewCubeTexture(cubeFaces(t), 8, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tex.Load(ctx)
	assert.ErrorIs(t, tex.Wait(waitCtx(t)), context.Canceled)
	assert.False(t, tex.Bind(gputest.New(1, 1), 0))
}

func TestCubeTextureMissingFace(t *testing.T) {
	faces := cubeFaces(t)
	faces.NegZ = filepath.Join(t.TempDir(), "missing.png")
	tex := NewCubeTexture(faces, 0, nil)
	assert.Equal(t, DefaultCubeLength, tex.Length)

	tex.Load(context.Background())
	assert.Error(t, tex.Wait(waitCtx(t)))
	assert.False(t, tex.Bind(gputest.New(1, 1), 0))
	assert.False(t, tex.Ready())
}

func TestSkyBoxWaitsForTexture(t *testing.T) {
	s := gputest.New(800, 600)
	tex := NewCubeTexture(cubeFaces(t), 8, nil)
	sky, err := NewSkyBox(s, tex)
	require.NoError(t, err)
	sky.SetCamera(mgl32.Translate3D(5, 5, 5), mgl32.Perspective(1, 1, 1, 100))

	require.NoError(t, sky.Render())
	assert.Empty(t, s.Draws)

	tex.Load(context.Background())
	require.NoError(t, tex.Wait(waitCtx(t)))
	require.NoError(t, sky.Render())
	require.Len(t, s.Draws, 1)
	assert.Equal(t, 6, s.Draws[0].Count)
	assert.Equal(t, []gpu.DepthFunc{gpu.DepthLessEqual, gpu.DepthLess}, s.DepthFuncs)

	// translation is dropped from the view
	inv := s.UniformValue(sky.Material().Program(), uniformSkyboxInverse)
	want := mgl32.Perspective(1, 1, 1, 100).Inv()
	for i := range want {
		assert.InDelta(t, want[i], inv[i], 1e-4)
	}
}

func TestSceneBindsReadyTexture(t *testing.T) {
	s, sc := newScene(t, shader.NewOption(shader.Sampler2D))
	path := writePNG(t, t.TempDir(), "tex.png", 2, color.RGBA{B: 255, A: 255})
	tex := NewTexture2D(path, nil)

	box, err := NewBox(nil, BoxOptions{})
	require.NoError(t, err)
	box.Texture = tex
	sc.AddModel(box)

	require.NoError(t, sc.Render())
	_, ok := s.BufferFor(sc.Material().Program(), AttrUV)
	assert.False(t, ok)

	tex.Load(context.Background())
	require.NoError(t, tex.Wait(waitCtx(t)))
	require.NoError(t, sc.Render())
	_, ok = s.BufferFor(sc.Material().Program(), AttrUV)
	assert.True(t, ok)
	assert.Equal(t, 1, s.TexUploads[gpu.Texture2D])
	assert.Equal(t, 2, tex.Width)
}

func TestSceneDetachesUVForUnreadyTexture(t *testing.T) {
	s, sc := newScene(t, shader.NewOption(shader.Sampler2D))
	dir := t.TempDir()
	ready := NewTexture2D(writePNG(t, dir, "ready.png", 2, color.RGBA{R: 255, A: 255}), nil)
	pending := NewTexture2D(writePNG(t, dir, "pending.png", 2, color.RGBA{G: 255, A: 255}), nil)

	box, err := NewBox(nil, BoxOptions{})
	require.NoError(t, err)
	box.Texture = ready
	sphere, err := NewSphere(nil, SphereOptions{Latitude: Arc{Sub: 4}, Longitude: Arc{Sub: 4}})
	require.NoError(t, err)
	sphere.Texture = pending
	sc.AddModel(box, sphere)

	ready.Load(context.Background())
	require.NoError(t, ready.Wait(waitCtx(t)))
	require.NoError(t, sc.Render())
	require.Len(t, s.Draws, 2)

	p := sc.Material().Program()
	_, ok := s.BufferFor(p, AttrUV)
	assert.False(t, ok, "uv left attached after an untextured draw")

	sc2 := NewScene(s, sc.Material(), sphere, box)
	require.NoError(t, sc2.Render())
	buf, ok := s.BufferFor(p, AttrUV)
	require.True(t, ok)
	assert.Len(t, s.BufferState[buf], len(box.Geometry.UV))
}

func TestSceneBindsCubeSize(t *testing.T) {
	s, sc := newScene(t, shader.NewOption(shader.SamplerCube))
	tex := NewCubeTexture(cubeFaces(t), 8, nil)
	box, err := NewBox(nil, BoxOptions{X: 10, Y: 20, Z: 30})
	require.NoError(t, err)
	box.Texture = tex
	sc.AddModel(box)

	tex.Load(context.Background())
	require.NoError(t, tex.Wait(waitCtx(t)))
	require.NoError(t, sc.Render())
	assert.Equal(t, []float32{10, 20, 30}, s.UniformValue(sc.Material().Program(), UniformCubeSize))
}
