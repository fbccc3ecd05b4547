package motion

import (
	"fmt"
	"strconv"
	"strings"
)

// Rect is an element's box in document coordinates.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Bottom returns the y coordinate of the lower edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Empty reports whether the box has no area (the element is not laid out).
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Viewport is the visible window onto the document.
type Viewport struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	ScrollY float64 `json:"scroll_y"`
}

// Style holds the visual properties the player interpolates. X and Y are
// translate offsets relative to the element's laid out position.
type Style struct {
	Opacity float64 `json:"opacity"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Scale   float64 `json:"scale"`
}

// Rest is the untransformed, fully visible style.
var Rest = Style{Opacity: 1, Scale: 1}

// Element is anything whose live box the observer can measure.
type Element interface {
	Bounds() Rect
	Mounted() bool
}

// Animatable is an element whose style the player can drive.
type Animatable interface {
	Element
	Style() Style
	SetStyle(Style)
}

// missing reports whether e cannot be measured or animated at all.
func missing(e Element) bool {
	return e == nil || !e.Mounted()
}

// Node is the headless view handle used by the simulator and tests. All
// methods are safe on a nil *Node, which behaves as an unmounted element.
type Node struct {
	ID      string
	bounds  Rect
	style   Style
	mounted bool
}

// NewNode returns a mounted node at rest.
func NewNode(id string, bounds Rect) *Node {
	return &Node{ID: id, bounds: bounds, style: Rest, mounted: true}
}

func (n *Node) Bounds() Rect {
	if n == nil {
		return Rect{}
	}
	return n.bounds
}

func (n *Node) SetBounds(r Rect) {
	if n != nil {
		n.bounds = r
	}
}

func (n *Node) Mounted() bool { return n != nil && n.mounted }

func (n *Node) Mount() {
	if n != nil {
		n.mounted = true
	}
}

func (n *Node) Unmount() {
	if n != nil {
		n.mounted = false
	}
}

func (n *Node) Style() Style {
	if n == nil {
		return Style{}
	}
	return n.style
}

func (n *Node) SetStyle(s Style) {
	if n != nil {
		n.style = s
	}
}

// Threshold is a trigger position: the point Edge of the way down the element
// meeting the point Viewport of the way down the viewport. "top 80%" is
// {Edge: 0, Viewport: 0.8}.
type Threshold struct {
	Edge     float64
	Viewport float64
}

// Common thresholds.
var (
	TopCenter    = Threshold{Edge: 0, Viewport: 0.5}
	BottomCenter = Threshold{Edge: 1, Viewport: 0.5}
	Top80        = Threshold{Edge: 0, Viewport: 0.8}
	Bottom20     = Threshold{Edge: 1, Viewport: 0.2}
)

// scrollAt returns the scroll offset at which the threshold is met for an
// element with bounds r in a viewport of height vh.
func (t Threshold) scrollAt(r Rect, vh float64) float64 {
	return r.Y + t.Edge*r.Height - t.Viewport*vh
}

func (t Threshold) String() string {
	return positionName(t.Edge) + " " + positionName(t.Viewport)
}

func positionName(f float64) string {
	switch f {
	case 0:
		return "top"
	case 0.5:
		return "center"
	case 1:
		return "bottom"
	}
	return strconv.FormatFloat(f*100, 'f', -1, 64) + "%"
}

// ParseThreshold parses "<element> <viewport>" pairs such as "top 80%",
// "bottom center" or "25% top".
func ParseThreshold(s string) (Threshold, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Threshold{}, fmt.Errorf("threshold %q: want \"<element> <viewport>\"", s)
	}
	edge, err := parsePosition(fields[0])
	if err != nil {
		return Threshold{}, fmt.Errorf("threshold %q: %w", s, err)
	}
	vp, err := parsePosition(fields[1])
	if err != nil {
		return Threshold{}, fmt.Errorf("threshold %q: %w", s, err)
	}
	return Threshold{Edge: edge, Viewport: vp}, nil
}

func parsePosition(s string) (float64, error) {
	switch strings.ToLower(s) {
	case "top":
		return 0, nil
	case "center":
		return 0.5, nil
	case "bottom":
		return 1, nil
	}
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(pct, 64)
		if err != nil {
			return 0, fmt.Errorf("bad percentage %q", s)
		}
		return v / 100, nil
	}
	return 0, fmt.Errorf("unknown position %q", s)
}
