package sprite

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/png"
	"io/fs"
	"path"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var ErrMissingFrames = errors.New("sprite: direction has no frames")

// frame index ranges of a player sheet, inclusive
var frameRanges = map[Direction][2]int{
	Direction_Front: {1, 4},
	Direction_Right: {5, 8},
	Direction_Left:  {9, 12},
	Direction_Back:  {14, 16},
}

var frameExtensions = []string{"png", "bmp", "webp"}

// Set holds the ordered frames of every direction of a player sprite.
type Set struct {
	frames map[Direction][]image.Image
}

func NewSet(frames map[Direction][]image.Image) (*Set, error) {
	s := &Set{frames: make(map[Direction][]image.Image, len(directionNames))}
	for d := range directionNames {
		if len(frames[d]) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingFrames, d)
		}
		s.frames[d] = append([]image.Image(nil), frames[d]...)
	}
	return s, nil
}

// Frames returns the ordered frames of a direction.
func (s *Set) Frames(d Direction) []image.Image {
	return s.frames[d]
}

// Frame returns the pose drawn for a direction. Players are always drawn in
// their first frame.
func (s *Set) Frame(d Direction) image.Image {
	return s.frames[d][0]
}

// Image returns the frame showing a target with heading targetAngle to a
// viewer with heading viewerAngle.
func (s *Set) Image(viewerAngle, targetAngle float64) image.Image {
	return s.Frame(Resolve(viewerAngle, targetAngle))
}

// LoadDir reads frame-NNN.<ext> files from fsys. Individual frames may be
// missing but every direction needs at least one.
func LoadDir(fsys fs.FS, dir string) (*Set, error) {
	frames := make(map[Direction][]image.Image, len(frameRanges))

	for d, r := range frameRanges {
		for i := r[0]; i <= r[1]; i++ {
			img, err := loadFrame(fsys, dir, i)
			if err != nil {
				return nil, err
			}
			if img != nil {
				frames[d] = append(frames[d], img)
			}
		}
	}

	return NewSet(frames)
}

func loadFrame(fsys fs.FS, dir string, index int) (image.Image, error) {
	for _, ext := range frameExtensions {
		name := path.Join(dir, fmt.Sprintf("frame-%03d.%s", index, ext))
		file, err := fsys.Open(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}

		img, _, err := image.Decode(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return img, nil
	}
	return nil, nil
}

// Placeholder builds a set of flat silhouettes, one colour per direction, for
// running without an asset directory.
func Placeholder(width, height int) *Set {
	colors := map[Direction]color.RGBA{
		Direction_Front: {220, 60, 60, 255},
		Direction_Right: {60, 180, 60, 255},
		Direction_Left:  {60, 90, 220, 255},
		Direction_Back:  {200, 200, 60, 255},
	}

	frames := make(map[Direction][]image.Image, len(colors))
	for d, c := range colors {
		frames[d] = []image.Image{silhouette(width, height, c)}
	}

	s, err := NewSet(frames)
	if err != nil {
		panic(err)
	}
	return s
}

// silhouette draws a head over a body on a transparent background.
func silhouette(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill := image.NewUniform(c)

	head := height / 4
	draw.Draw(img, image.Rect(width/2-head/2, 0, width/2+head/2, head), fill, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(width/6, head, width-width/6, height), fill, image.Point{}, draw.Src)

	return img
}
