package state

import (
	"fmt"
	"image"
	"math/rand/v2"
	"sync"

	"github.com/rook-computer/wallmaker/internal/assets"
	"github.com/rook-computer/wallmaker/internal/colormath"
	"github.com/rook-computer/wallmaker/internal/render"
)

type BackgroundMode int

const (
	GRADIENT BackgroundMode = iota
	SOLID
	IMAGE
)

func (m BackgroundMode) String() string {
	switch m {
	case GRADIENT:
		return "gradient"
	case SOLID:
		return "solid"
	case IMAGE:
		return "image"
	default:
		return fmt.Sprintf("BackgroundMode(%d)", int(m))
	}
}

// ParseBackgroundMode accepts "gradient", "solid" or "image".
func ParseBackgroundMode(s string) (BackgroundMode, error) {
	switch s {
	case "", "gradient":
		return GRADIENT, nil
	case "solid":
		return SOLID, nil
	case "image", "photo":
		return IMAGE, nil
	default:
		return 0, fmt.Errorf("unknown background mode %q", s)
	}
}

// State is one wallpaper session.
type State struct {
	Message    string
	Mode       BackgroundMode
	Palette    int
	Solid      colormath.RGB
	Images     []image.Image
	ImageIndex int
	Overlay    float64
	Grain      float64
	Font       render.FontSpec
	TextColor  colormath.RGB
	Shadow     bool
	QRCode     string
	Target     render.Size
	Frame      render.Size
}

// Params snapshots the session into render parameters.
func (s State) Params() render.Params {
	return render.Params{
		Message:    s.Message,
		Background: s.background(),
		Overlay:    s.Overlay,
		Grain:      s.Grain,
		Font:       s.Font,
		TextColor:  s.TextColor.RGBA(),
		Target:     s.Target,
		Shadow:     s.Shadow,
		QRCode:     s.QRCode,
	}
}

func (s State) background() render.Background {
	switch s.Mode {
	case SOLID:
		return render.Solid{Color: s.Solid}
	case IMAGE:
		if len(s.Images) == 0 {
			return render.Photo{}
		}
		return render.Photo{Image: s.Images[s.ImageIndex%len(s.Images)]}
	default:
		p := assets.Palettes[wrapIndex(s.Palette, len(assets.Palettes))]
		return render.Gradient{A: colormath.MustHex(p.A), B: colormath.MustHex(p.B)}
	}
}

// Default is the session a fresh start shows: the first palette and prompt
// at the first preset size.
func Default() State {
	preset := assets.PresetSizes[0]
	return State{
		Message:   assets.Prompts[0],
		Mode:      GRADIENT,
		Solid:     colormath.MustHex("#111827"),
		Overlay:   0.10,
		Grain:     0.06,
		Font:      render.FontSpec{Family: assets.DefaultFamily, Weight: 800, SizePx: render.DefaultFontSizePx},
		TextColor: colormath.MustHex(assets.Palettes[0].Text),
		Shadow:    true,
		Target:    render.Size{Width: preset.Width, Height: preset.Height},
	}
}

// Store guards the session. OnChange runs after every mutation, outside
// the lock.
type Store struct {
	mu       sync.RWMutex
	state    State
	rng      *rand.Rand
	OnChange func()
}

func NewStore(initial State, rng *rand.Rand) *Store {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Store{state: initial, rng: rng}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	s := store.state
	s.Images = append([]image.Image(nil), s.Images...)
	return s
}

// Params is Snapshot().Params() under a single read lock.
func (store *Store) Params() render.Params {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state.Params()
}

// Update applies fn to the session.
func (store *Store) Update(fn func(*State)) {
	store.mu.Lock()
	fn(&store.state)
	store.mu.Unlock()
	if store.OnChange != nil {
		store.OnChange()
	}
}

func (store *Store) SetMessage(msg string) {
	store.Update(func(s *State) { s.Message = msg })
}

func (store *Store) SetTarget(target render.Size) {
	store.Update(func(s *State) { s.Target = target })
}

// SetFrame records the observed frame. It does not fire OnChange; the
// redraw scheduler applies its own resize threshold.
func (store *Store) SetFrame(frame render.Size) {
	store.mu.Lock()
	store.state.Frame = frame
	store.mu.Unlock()
}

// Frame is the last observed frame.
func (store *Store) Frame() render.Size {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state.Frame
}

// SetImages replaces the loaded images and switches to image mode when any
// loaded.
func (store *Store) SetImages(imgs []image.Image) {
	store.Update(func(s *State) {
		s.Images = imgs
		s.ImageIndex = 0
		if len(imgs) > 0 {
			s.Mode = IMAGE
		}
	})
}

// NextBackground advances to the next loaded image, or the next palette
// when there are no images.
func (store *Store) NextBackground() {
	store.Update(func(s *State) {
		if s.Mode == IMAGE && len(s.Images) > 0 {
			s.ImageIndex = (s.ImageIndex + 1) % len(s.Images)
			return
		}
		s.Mode = GRADIENT
		s.Palette = wrapIndex(s.Palette+1, len(assets.Palettes))
		s.TextColor = colormath.MustHex(assets.Palettes[s.Palette].Text)
	})
}

// RandomPrompt picks a prompt different from the current message when
// there is a choice.
func (store *Store) RandomPrompt() {
	store.Update(func(s *State) {
		s.Message = pickOther(store.rng, assets.Prompts, s.Message)
	})
}

// RandomPalette switches to a random gradient palette and adopts its text
// color.
func (store *Store) RandomPalette() {
	store.Update(func(s *State) {
		s.Mode = GRADIENT
		s.Palette = store.rng.IntN(len(assets.Palettes))
		s.TextColor = colormath.MustHex(assets.Palettes[s.Palette].Text)
	})
}

func pickOther(rng *rand.Rand, choices []string, current string) string {
	others := make([]string, 0, len(choices))
	for _, c := range choices {
		if c != current {
			others = append(others, c)
		}
	}
	if len(others) == 0 {
		return current
	}
	return others[rng.IntN(len(others))]
}

func wrapIndex(i, n int) int {
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}
