package depict

import (
	"bytes"
	"context"
	"image/png"
	"math"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/turtacn/MolViz/internal/domain/molecule"
	"github.com/turtacn/MolViz/pkg/errors"
)

// Default drawing parameters.
const (
	DefaultSize        = 300
	DefaultMaxBondPx   = 40.0
	DefaultMarginRatio = 0.08
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithMaxBondLength caps the on-screen bond length in pixels.
func WithMaxBondLength(px float64) Option {
	return func(r *Renderer) { r.maxBondPx = px }
}

// WithSeed makes layouts reproducible.
func WithSeed(seed int64) Option {
	return func(r *Renderer) { r.seed = &seed }
}

// Renderer implements molecule.Renderer with a fogleman/gg canvas.
type Renderer struct {
	maxBondPx float64
	seed      *int64
}

var _ molecule.Renderer = (*Renderer)(nil)

// NewRenderer creates a Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{maxBondPx: DefaultMaxBondPx}
	for _, o := range opts {
		o(r)
	}
	return r
}

var (
	fontOnce sync.Once
	fontTTF  *truetype.Font
)

// face returns the label font at size points, falling back to the built-in
// bitmap face when the TrueType font cannot be parsed.
func face(size float64) font.Face {
	fontOnce.Do(func() {
		fontTTF, _ = truetype.Parse(goregular.TTF)
	})
	if fontTTF == nil {
		return basicfont.Face7x13
	}
	return truetype.NewFace(fontTTF, &truetype.Options{Size: size})
}

// RenderPNG draws mol into a width x height PNG with a white background.
func (r *Renderer) RenderPNG(mol *molecule.Molecule, width, height int) ([]byte, error) {
	if mol == nil || mol.NumAtoms() == 0 {
		return nil, errors.New(errors.CodeRenderFailed, "nothing to draw")
	}
	if width <= 0 || height <= 0 {
		return nil, errors.Newf(errors.CodeRenderFailed, "invalid image size %dx%d", width, height)
	}
	seed := time.Now().UnixNano()
	if r.seed != nil {
		seed = *r.seed
	}
	pts, err := Layout(context.Background(), mol, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeRenderFailed, "layout failed")
	}

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	tr := fit(pts, width, height, r.maxBondPx)
	fontSize := math.Max(8, math.Min(tr.scale*0.45, 20))
	dc.SetFontFace(face(fontSize))
	dc.SetLineWidth(math.Max(1, tr.scale/20))
	dc.SetLineCap(gg.LineCapRound)

	labels := make([]string, mol.NumAtoms())
	for i := range labels {
		labels[i] = AtomLabel(mol, i)
	}
	pad := fontSize * 0.6

	for bi := range mol.Bonds {
		drawBond(dc, mol, bi, pts, tr, labels, pad)
	}
	for i, text := range labels {
		if text == "" {
			continue
		}
		x, y := tr.apply(pts[i])
		dc.SetHexColor(atomColor(mol, i))
		dc.DrawStringAnchored(text, x, y, 0.5, 0.35)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, errors.Wrap(err, errors.CodeRenderFailed, "png encoding failed")
	}
	return buf.Bytes(), nil
}

// transform maps layout units to pixels with y pointing down.
type transform struct {
	scale, cx, cy, ox, oy float64
}

func (t transform) apply(p Point) (float64, float64) {
	return t.ox + (p.X-t.cx)*t.scale, t.oy - (p.Y-t.cy)*t.scale
}

func fit(pts []Point, width, height int, maxBond float64) transform {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	w, h := float64(width), float64(height)
	margin := math.Min(w, h) * DefaultMarginRatio
	scale := maxBond
	if rx := maxX - minX; rx > 0 {
		scale = math.Min(scale, (w-2*margin)/rx)
	}
	if ry := maxY - minY; ry > 0 {
		scale = math.Min(scale, (h-2*margin)/ry)
	}
	return transform{
		scale: scale,
		cx:    (minX + maxX) / 2,
		cy:    (minY + maxY) / 2,
		ox:    w / 2,
		oy:    h / 2,
	}
}

func drawBond(dc *gg.Context, m *molecule.Molecule, bi int, pts []Point, tr transform, labels []string, pad float64) {
	b := &m.Bonds[bi]
	x1, y1 := tr.apply(pts[b.Begin])
	x2, y2 := tr.apply(pts[b.End])
	length := math.Hypot(x2-x1, y2-y1)
	if length == 0 {
		return
	}
	ux, uy := (x2-x1)/length, (y2-y1)/length
	if labels[b.Begin] != "" {
		x1, y1 = x1+ux*pad, y1+uy*pad
	}
	if labels[b.End] != "" {
		x2, y2 = x2-ux*pad, y2-uy*pad
	}
	// normal
	nx, ny := -uy, ux
	gap := tr.scale * 0.15

	line := func(ax, ay, bx, by float64) {
		mx, my := (ax+bx)/2, (ay+by)/2
		dc.SetHexColor(atomColor(m, b.Begin))
		dc.DrawLine(ax, ay, mx, my)
		dc.Stroke()
		dc.SetHexColor(atomColor(m, b.End))
		dc.DrawLine(mx, my, bx, by)
		dc.Stroke()
	}

	switch b.Order {
	case molecule.BondDouble:
		if side, ok := ringSide(m, bi, pts); ok {
			// inner line toward the ring centre, shortened at both ends
			sx, sy := nx*gap*side, ny*gap*side
			trim := 0.15
			dx, dy := (x2-x1)*trim, (y2-y1)*trim
			line(x1, y1, x2, y2)
			line(x1+sx+dx, y1+sy+dy, x2+sx-dx, y2+sy-dy)
			return
		}
		line(x1+nx*gap/2, y1+ny*gap/2, x2+nx*gap/2, y2+ny*gap/2)
		line(x1-nx*gap/2, y1-ny*gap/2, x2-nx*gap/2, y2-ny*gap/2)
	case molecule.BondTriple, molecule.BondQuadruple:
		line(x1, y1, x2, y2)
		line(x1+nx*gap, y1+ny*gap, x2+nx*gap, y2+ny*gap)
		line(x1-nx*gap, y1-ny*gap, x2-nx*gap, y2-ny*gap)
	default:
		line(x1, y1, x2, y2)
	}
}

// ringSide returns +1 or -1 for the screen-space normal direction pointing
// into the smallest ring holding bond bi.
func ringSide(m *molecule.Molecule, bi int, pts []Point) (float64, bool) {
	if !m.IsRingBond(bi) {
		return 0, false
	}
	b := &m.Bonds[bi]
	var ring []int
	for _, r := range m.Rings() {
		if containsBoth(r, b.Begin, b.End) && (ring == nil || len(r) < len(ring)) {
			ring = r
		}
	}
	if ring == nil {
		return 0, false
	}
	var cx, cy float64
	for _, a := range ring {
		cx += pts[a].X
		cy += pts[a].Y
	}
	cx /= float64(len(ring))
	cy /= float64(len(ring))
	p, q := pts[b.Begin], pts[b.End]
	// layout y is flipped on screen, which mirrors the normal as well
	cross := (q.X-p.X)*(cy-p.Y) - (q.Y-p.Y)*(cx-p.X)
	if cross > 0 {
		return -1, true
	}
	return 1, true
}

func containsBoth(ring []int, a, b int) bool {
	fa, fb := false, false
	for _, x := range ring {
		fa = fa || x == a
		fb = fb || x == b
	}
	return fa && fb
}

func atomColor(m *molecule.Molecule, i int) string {
	if e := m.Atoms[i].Element(); e != nil {
		return e.Color
	}
	return "#000000"
}

// AtomLabel returns the text drawn at atom i: empty for a plain bonded
// carbon, otherwise the symbol with hydrogens, isotope and charge.
func AtomLabel(m *molecule.Molecule, i int) string {
	a := &m.Atoms[i]
	if a.AtomicNumber == 6 && a.Charge == 0 && a.Isotope == 0 && m.Degree(i) > 0 {
		return ""
	}
	var buf bytes.Buffer
	if a.Isotope > 0 {
		buf.WriteString(strconv.Itoa(a.Isotope))
	}
	buf.WriteString(a.Symbol)
	if h := a.HCount; h > 0 {
		buf.WriteByte('H')
		if h > 1 {
			buf.WriteString(strconv.Itoa(h))
		}
	}
	switch c := a.Charge; {
	case c == 1:
		buf.WriteByte('+')
	case c == -1:
		buf.WriteByte('-')
	case c > 1:
		buf.WriteString(strconv.Itoa(c) + "+")
	case c < -1:
		buf.WriteString(strconv.Itoa(-c) + "-")
	}
	return buf.String()
}

//Personal.AI order the ending
