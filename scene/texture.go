package scene

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"sync"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"toy-engine/core"
	"toy-engine/gpu"
	"toy-engine/shader"
)

// Texture is an image source a model samples instead of its color
// buffer. Decoding happens off the draw thread; the upload happens on the
// first Bind after decoding finished.
type Texture interface {
	// Feature is the shader feature a material needs to sample it.
	Feature() shader.Feature
	// Ready reports whether the texture has been uploaded.
	Ready() bool
	// Bind uploads pending pixels if needed and binds the texture to
	// unit. It reports false while the image is still loading or failed.
	Bind(s gpu.Surface, unit int) bool
}

// DefaultCubeLength is the edge length cube faces are resampled to.
const DefaultCubeLength = 512

// ErrNotImage is returned for files whose contents are not an image.
var ErrNotImage = errors.New("not an image")

// sniffLen covers the magic numbers of every supported format.
const sniffLen = 262

// LoadImage decodes a PNG, JPEG, BMP or WebP file into RGBA.
func LoadImage(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("read texture %q: %w", path, err)
	}
	if !filetype.IsImage(head[:n]) {
		return nil, fmt.Errorf("texture %q: %w", path, ErrNotImage)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("read texture %q: %w", path, err)
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", path, err)
	}
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba, nil
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba, nil
}

// Resample scales img to size x size with bilinear filtering. An image
// already at that size is returned as is.
func Resample(img *image.RGBA, size int) *image.RGBA {
	if img.Bounds().Dx() == size && img.Bounds().Dy() == size {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// loader tracks the decode half of a texture. It is the only part
// touched from more than one goroutine.
type loader struct {
	mu     sync.Mutex
	done   chan struct{}
	err    error
	images []*image.RGBA
}

func (l *loader) start(decode func() ([]*image.RGBA, error)) {
	l.mu.Lock()
	if l.done != nil {
		l.mu.Unlock()
		return
	}
	l.done = make(chan struct{})
	l.mu.Unlock()

	go func() {
		images, err := decode()
		l.mu.Lock()
		l.images, l.err = images, err
		l.mu.Unlock()
		close(l.done)
	}()
}

// result returns the decoded images once decoding finished.
func (l *loader) result() (images []*image.RGBA, done bool, err error) {
	l.mu.Lock()
	ch := l.done
	l.mu.Unlock()
	if ch == nil {
		return nil, false, nil
	}
	select {
	case <-ch:
	default:
		return nil, false, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.images, true, l.err
}

func (l *loader) wait(ctx context.Context) error {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	if done == nil {
		return fmt.Errorf("texture not loading")
	}
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// CubeFaces names the six image files of a cube map.
type CubeFaces struct {
	PosX, NegX, PosY, NegY, PosZ, NegZ string
}

func (f CubeFaces) ordered() [6]string {
	return [6]string{f.PosX, f.NegX, f.PosY, f.NegY, f.PosZ, f.NegZ}
}

// CubeTexture is a six-face cube map. Faces are resampled to Length.
type CubeTexture struct {
	Faces  CubeFaces
	Length int
	// OnLoad runs on the draw thread right after the upload.
	OnLoad func()

	log      core.Logger
	load     loader
	tex      gpu.Texture
	uploaded bool
	failed   bool
}

// NewCubeTexture returns an unloaded cube texture. A length of zero
// means DefaultCubeLength.
func NewCubeTexture(faces CubeFaces, length int, log core.Logger) *CubeTexture {
	if length <= 0 {
		length = DefaultCubeLength
	}
	return &CubeTexture{Faces: faces, Length: length, log: core.OrNop(log)}
}

func (t *CubeTexture) Feature() shader.Feature { return shader.SamplerCube }

// Load starts decoding the six faces in parallel. Calling it again has
// no effect.
func (t *CubeTexture) Load(ctx context.Context) {
	t.load.start(func() ([]*image.RGBA, error) {
		images := make([]*image.RGBA, 6)
		g, gctx := errgroup.WithContext(ctx)
		for i, path := range t.Faces.ordered() {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				img, err := LoadImage(path)
				if err != nil {
					return err
				}
				images[i] = Resample(img, t.Length)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return images, nil
	})
}

// Wait blocks until decoding finished and returns its error.
func (t *CubeTexture) Wait(ctx context.Context) error { return t.load.wait(ctx) }

func (t *CubeTexture) Ready() bool { return t.uploaded }

func (t *CubeTexture) Bind(s gpu.Surface, unit int) bool {
	if !t.uploaded && !t.upload(s) {
		return false
	}
	s.ActiveTexture(unit)
	s.BindTexture(gpu.TextureCube, t.tex)
	return true
}

func (t *CubeTexture) upload(s gpu.Surface) bool {
	if t.failed {
		return false
	}
	images, done, err := t.load.result()
	if !done {
		return false
	}
	if err != nil {
		t.log.Errorf("cube texture: %v", err)
		t.failed = true
		return false
	}
	t.tex = s.CreateTexture()
	s.BindTexture(gpu.TextureCube, t.tex)
	for i, target := range gpu.CubeFaces {
		s.TexImage(target, t.Length, t.Length, images[i].Pix)
	}
	s.GenerateMipmap(gpu.TextureCube)
	t.uploaded = true
	if t.OnLoad != nil {
		t.OnLoad()
	}
	return true
}

// Texture2D is a single image sampled with per-vertex UVs.
type Texture2D struct {
	Path   string
	OnLoad func()

	Width, Height int

	log      core.Logger
	load     loader
	tex      gpu.Texture
	uploaded bool
	failed   bool
}

func NewTexture2D(path string, log core.Logger) *Texture2D {
	return &Texture2D{Path: path, log: core.OrNop(log)}
}

func (t *Texture2D) Feature() shader.Feature { return shader.Sampler2D }

// Load starts decoding the image. Calling it again has no effect.
func (t *Texture2D) Load(ctx context.Context) {
	t.load.start(func() ([]*image.RGBA, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := LoadImage(t.Path)
		if err != nil {
			return nil, err
		}
		return []*image.RGBA{img}, nil
	})
}

// Wait blocks until decoding finished and returns its error.
func (t *Texture2D) Wait(ctx context.Context) error { return t.load.wait(ctx) }

func (t *Texture2D) Ready() bool { return t.uploaded }

func (t *Texture2D) Bind(s gpu.Surface, unit int) bool {
	if !t.uploaded && !t.upload(s) {
		return false
	}
	s.ActiveTexture(unit)
	s.BindTexture(gpu.Texture2D, t.tex)
	return true
}

func (t *Texture2D) upload(s gpu.Surface) bool {
	if t.failed {
		return false
	}
	images, done, err := t.load.result()
	if !done {
		return false
	}
	if err != nil {
		t.log.Errorf("texture %q: %v", t.Path, err)
		t.failed = true
		return false
	}
	img := images[0]
	t.Width, t.Height = img.Bounds().Dx(), img.Bounds().Dy()
	t.tex = s.CreateTexture()
	s.BindTexture(gpu.Texture2D, t.tex)
	s.TexImage(gpu.Texture2D, t.Width, t.Height, img.Pix)
	s.GenerateMipmap(gpu.Texture2D)
	t.uploaded = true
	if t.OnLoad != nil {
		t.OnLoad()
	}
	return true
}
