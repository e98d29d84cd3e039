package serialize

import (
	"fmt"
	"io"

	"github.com/yangf10/aris/dynamic"
)

// AdamsWriter is implemented by callers that want ExportAdams's walk over
// a model without committing this package to one particular MSC Adams
// dataset dialect (spec §6 "Adams export", a downstream integration hook
// rather than a fully specified wire format — see DESIGN.md). A minimal
// implementation can simply format each call's arguments onto an
// io.Writer in the caller's chosen .adm-like grammar.
type AdamsWriter interface {
	Part(name string, pm [4][4]float64)
	Marker(partName, name string, local [4][4]float64)
	Joint(kind, name, markerI, markerJ string)
	Motion(name, markerI, markerJ string, axis [6]float64, position float64)
}

// ExportAdams walks m in pool order, calling back into w for every part,
// marker, joint, and motion — the same pool order toFile uses, though
// general motions and forces are not visited — kept separate so a caller
// wanting Adams output does not have to depend on this package's own
// file-format internals.
func ExportAdams(m *dynamic.Model, w AdamsWriter) {
	for i := 0; i < m.Parts.Size(); i++ {
		p := m.Parts.At(i)
		w.Part(p.Name, p.Pm)
		for j := 0; j < p.Markers.Size(); j++ {
			mk := p.Markers.At(j)
			w.Marker(p.Name, mk.Name, mk.Local)
		}
	}
	m.Joints.Each(func(_ int, name string, c dynamic.Constraint) {
		w.Joint(jointKind(c), name, c.MarkerI().Name, c.MarkerJ().Name)
	})
	m.Motions.Each(func(_ int, name string, mo *dynamic.Motion) {
		w.Motion(name, mo.MarkerI().Name, mo.MarkerJ().Name, mo.Axis, mo.Mp)
	})
}

// adamsTextWriter is a minimal AdamsWriter writing one directive per line
// in a flat, made-up-but-plausible .adm-like grammar, enough to exercise
// the ExportAdams walk end to end without claiming to be a real Adams
// dataset grammar (spec §6 notes this boundary is a hook, not a fully
// specified format).
type adamsTextWriter struct {
	w   io.Writer
	err error
}

// NewAdamsTextWriter returns an AdamsWriter that writes directives to w.
func NewAdamsTextWriter(w io.Writer) AdamsWriter { return &adamsTextWriter{w: w} }

func (a *adamsTextWriter) printf(format string, args ...interface{}) {
	if a.err != nil {
		return
	}
	_, a.err = fmt.Fprintf(a.w, format, args...)
}

func (a *adamsTextWriter) Part(name string, pm [4][4]float64) {
	a.printf("PART/%s, QG=%g,%g,%g\n", name, pm[0][3], pm[1][3], pm[2][3])
}

func (a *adamsTextWriter) Marker(partName, name string, local [4][4]float64) {
	a.printf("MARKER/%s, PART=%s, QP=%g,%g,%g\n", name, partName, local[0][3], local[1][3], local[2][3])
}

func (a *adamsTextWriter) Joint(kind, name, markerI, markerJ string) {
	a.printf("JOINT/%s, TYPE=%s, I=%s, J=%s\n", name, kind, markerI, markerJ)
}

func (a *adamsTextWriter) Motion(name, markerI, markerJ string, axis [6]float64, position float64) {
	a.printf("MOTION/%s, JOINT=%s-%s, FUNCTION=%g\n", name, markerI, markerJ, position)
}

// Err returns the first write error encountered, if any.
func (a *adamsTextWriter) Err() error { return a.err }
