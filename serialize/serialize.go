// Package serialize persists a dynamic.Model to and from flat, versionless
// representations: a JSON/gob-switchable encoded form and a line-oriented
// text form, plus an Adams-style export hook (spec §6 "Persistence").
//
// Grounded on fem/fileio.go's Encoder/Decoder pair (GetEncoder/GetDecoder
// choosing between encoding/gob and encoding/json from a config switch):
// a model here is never pool structs directly, but a flat file struct
// the pools are flattened into and rebuilt from, since the pools hold
// pointer graphs (marker-to-part, constraint-to-marker) that neither gob
// nor json walk correctly on their own.
package serialize

import (
	"encoding/gob"
	"encoding/json"
	"io"

	"github.com/yangf10/aris/dynamic"
	"github.com/yangf10/aris/kernel"
)

// Format selects the wire encoding Save/Load use, mirroring
// fem.GetEncoder/GetDecoder's gob-or-json switch.
type Format int

const (
	// JSON is the default, human-readable format.
	JSON Format = iota
	// Gob is the compact binary format, for checkpoints that never leave
	// the process that wrote them.
	Gob
)

func getEncoder(w io.Writer, f Format) interface {
	Encode(e interface{}) error
} {
	if f == Gob {
		return gob.NewEncoder(w)
	}
	return json.NewEncoder(w)
}

func getDecoder(r io.Reader, f Format) interface {
	Decode(e interface{}) error
} {
	if f == Gob {
		return gob.NewDecoder(r)
	}
	return json.NewDecoder(r)
}

// markerRef names a marker by its owning part's name and its own name,
// the only way to address a marker across the save/load boundary (the
// pointer itself does not survive it).
type markerRef struct {
	Part string `json:"part"`
	Name string `json:"name"`
}

func refOf(m *dynamic.Marker) markerRef { return markerRef{Part: m.Part.Name, Name: m.Name} }

type markerFile struct {
	Name  string    `json:"name"`
	Local kernel.Pm `json:"local"`
}

type partFile struct {
	Name    string       `json:"name"`
	Ground  bool         `json:"ground"`
	Pm      kernel.Pm    `json:"pm"`
	Vs      kernel.Vec6  `json:"vs"`
	As      kernel.Vec6  `json:"as"`
	Im      kernel.Mat6  `json:"im"`
	Markers []markerFile `json:"markers"`
}

type jointFile struct {
	Name    string    `json:"name"`
	Kind    string    `json:"kind"` // "revolute", "prismatic", "spherical", "universal"
	MarkerI markerRef `json:"markerI"`
	MarkerJ markerRef `json:"markerJ"`
	Cf      []float64 `json:"cf"`
}

type motionFile struct {
	Name              string      `json:"name"`
	MarkerI           markerRef   `json:"markerI"`
	MarkerJ           markerRef   `json:"markerJ"`
	Axis              kernel.Vec6 `json:"axis"`
	Mp, Mv, Ma, Mf    float64
	C0, C1, C2        float64
	FrictionSmoothing float64
	Cf                []float64 `json:"cf"`
}

type generalMotionFile struct {
	Name    string      `json:"name"`
	MarkerI markerRef   `json:"markerI"`
	MarkerJ markerRef   `json:"markerJ"`
	Mpm     kernel.Pm   `json:"mpm"`
	Mvs     kernel.Vec6 `json:"mvs"`
	Mas     kernel.Vec6 `json:"mas"`
	Cf      []float64   `json:"cf"`
}

type forceFile struct {
	Name      string      `json:"name"`
	Kind      string      `json:"kind"` // "single", "gravity"
	MarkerI   markerRef   `json:"markerI"`
	MarkerJ   markerRef   `json:"markerJ"`
	Axis      kernel.Vec6 `json:"axis"`
	Magnitude float64     `json:"magnitude"`
	Part      string      `json:"part"` // GravityForce only
}

// modelFile is the single flat structure a whole model collapses into and
// rebuilds from, in pool insertion order throughout.
type modelFile struct {
	Gravity        kernel.Vec6         `json:"gravity"`
	Parts          []partFile          `json:"parts"`
	Joints         []jointFile         `json:"joints"`
	Motions        []motionFile        `json:"motions"`
	GeneralMotions []generalMotionFile `json:"generalMotions"`
	Forces         []forceFile         `json:"forces"`
}

func toFile(m *dynamic.Model) *modelFile {
	f := &modelFile{Gravity: m.Env.Gravity}
	for i := 0; i < m.Parts.Size(); i++ {
		p := m.Parts.At(i)
		pf := partFile{Name: p.Name, Ground: p.Ground, Pm: p.Pm, Vs: p.Vs, As: p.As, Im: p.Im}
		for j := 0; j < p.Markers.Size(); j++ {
			mk := p.Markers.At(j)
			pf.Markers = append(pf.Markers, markerFile{Name: mk.Name, Local: mk.Local})
		}
		f.Parts = append(f.Parts, pf)
	}
	m.Joints.Each(func(_ int, name string, c dynamic.Constraint) {
		kind := jointKind(c)
		f.Joints = append(f.Joints, jointFile{
			Name: name, Kind: kind,
			MarkerI: refOf(c.MarkerI()), MarkerJ: refOf(c.MarkerJ()),
			Cf: append([]float64(nil), cfOf(c)...),
		})
	})
	m.Motions.Each(func(_ int, name string, mo *dynamic.Motion) {
		f.Motions = append(f.Motions, motionFile{
			Name: name, MarkerI: refOf(mo.MarkerI()), MarkerJ: refOf(mo.MarkerJ()),
			Axis: mo.Axis, Mp: mo.Mp, Mv: mo.Mv, Ma: mo.Ma, Mf: mo.Mf,
			C0: mo.C0, C1: mo.C1, C2: mo.C2, FrictionSmoothing: mo.FrictionSmoothing,
			Cf: append([]float64(nil), cfOf(mo)...),
		})
	})
	m.GeneralMotions.Each(func(_ int, name string, g *dynamic.GeneralMotion) {
		f.GeneralMotions = append(f.GeneralMotions, generalMotionFile{
			Name: name, MarkerI: refOf(g.MarkerI()), MarkerJ: refOf(g.MarkerJ()),
			Mpm: g.Mpm, Mvs: g.Mvs, Mas: g.Mas,
			Cf: append([]float64(nil), cfOf(g)...),
		})
	})
	m.Forces.Each(func(_ int, name string, force dynamic.Force) {
		switch ff := force.(type) {
		case *dynamic.SingleComponentForce:
			f.Forces = append(f.Forces, forceFile{
				Name: name, Kind: "single",
				MarkerI: refOf(ff.MarkerI()), MarkerJ: refOf(ff.MarkerJ()),
				Axis: ff.Axis, Magnitude: ff.Magnitude,
			})
		case *dynamic.GravityForce:
			f.Forces = append(f.Forces, forceFile{
				Name: name, Kind: "gravity",
				MarkerI: refOf(ff.MarkerI()), Part: ff.Part.Name,
			})
		default:
			dynamic.Panic("serialize: toFile: unknown force kind for %q", name)
		}
	})
	return f
}

// cfOf reads back a constraint's solved force through the narrow surface
// every jointBase-backed Constraint exposes via SetCf's counterpart.
type cfReader interface {
	CfPtr() []float64
}

func cfOf(c dynamic.Constraint) []float64 {
	if r, ok := c.(cfReader); ok {
		return r.CfPtr()
	}
	return nil
}

func jointKind(c dynamic.Constraint) string {
	switch c.(type) {
	case *dynamic.RevoluteJoint:
		return "revolute"
	case *dynamic.PrismaticJoint:
		return "prismatic"
	case *dynamic.SphericalJoint:
		return "spherical"
	case *dynamic.UniversalJoint:
		return "universal"
	default:
		dynamic.Panic("serialize: jointKind: unknown joint type %T", c)
		return ""
	}
}

// fromFile rebuilds a fresh Model from a decoded modelFile, the inverse of
// toFile; markers are resolved by the (part,name) pair saved in markerRef
// against a lookup table built while parts/markers are reconstructed.
func fromFile(f *modelFile) *dynamic.Model {
	m := dynamic.NewModel()
	m.Env.Gravity = f.Gravity

	markers := make(map[markerRef]*dynamic.Marker)
	parts := make(map[string]*dynamic.Part)
	for _, pf := range f.Parts {
		var p *dynamic.Part
		if pf.Ground {
			p = m.Ground
		} else {
			p = m.AddPart(pf.Name, pf.Pm, pf.Im)
		}
		p.Vs, p.As = pf.Vs, pf.As
		parts[pf.Name] = p
		for _, mk := range pf.Markers {
			marker := p.AddMarker(mk.Name, mk.Local)
			markers[markerRef{Part: pf.Name, Name: mk.Name}] = marker
		}
	}
	resolve := func(ref markerRef) *dynamic.Marker {
		mk, ok := markers[ref]
		if !ok {
			dynamic.Panic("serialize: fromFile: unresolved marker %s.%s", ref.Part, ref.Name)
		}
		return mk
	}

	for _, jf := range f.Joints {
		mi, mj := resolve(jf.MarkerI), resolve(jf.MarkerJ)
		var j dynamic.Constraint
		switch jf.Kind {
		case "revolute":
			j = dynamic.NewRevoluteJoint(jf.Name, mi, mj)
		case "prismatic":
			j = dynamic.NewPrismaticJoint(jf.Name, mi, mj)
		case "spherical":
			j = dynamic.NewSphericalJoint(jf.Name, mi, mj)
		case "universal":
			j = dynamic.NewUniversalJoint(jf.Name, mi, mj)
		default:
			dynamic.Panic("serialize: fromFile: unknown joint kind %q", jf.Kind)
		}
		if len(jf.Cf) > 0 {
			j.SetCf(jf.Cf)
		}
		m.Joints.Add(jf.Name, j)
	}
	for _, mf := range f.Motions {
		mi, mj := resolve(mf.MarkerI), resolve(mf.MarkerJ)
		mo := dynamic.NewMotion(mf.Name, mi, mj, mf.Axis, nil)
		mo.Mp, mo.Mv, mo.Ma, mo.Mf = mf.Mp, mf.Mv, mf.Ma, mf.Mf
		mo.C0, mo.C1, mo.C2 = mf.C0, mf.C1, mf.C2
		mo.FrictionSmoothing = mf.FrictionSmoothing
		if len(mf.Cf) > 0 {
			mo.SetCf(mf.Cf)
		}
		m.Motions.Add(mf.Name, mo)
	}
	for _, gf := range f.GeneralMotions {
		mi, mj := resolve(gf.MarkerI), resolve(gf.MarkerJ)
		g := dynamic.NewGeneralMotion(gf.Name, mi, mj)
		g.Mpm, g.Mvs, g.Mas = gf.Mpm, gf.Mvs, gf.Mas
		if len(gf.Cf) > 0 {
			g.SetCf(gf.Cf)
		}
		m.GeneralMotions.Add(gf.Name, g)
	}
	for _, ff := range f.Forces {
		switch ff.Kind {
		case "single":
			mi, mj := resolve(ff.MarkerI), resolve(ff.MarkerJ)
			m.AddForce(ff.Name, dynamic.NewSingleComponentForce(ff.Name, mi, mj, ff.Axis, ff.Magnitude))
		case "gravity":
			at := resolve(ff.MarkerI)
			part, ok := parts[ff.Part]
			if !ok {
				dynamic.Panic("serialize: fromFile: unresolved part %q for gravity force %q", ff.Part, ff.Name)
			}
			m.AddForce(ff.Name, dynamic.NewGravityForce(ff.Name, m.Env, part, at))
		default:
			dynamic.Panic("serialize: fromFile: unknown force kind %q", ff.Kind)
		}
	}
	m.Init()
	return m
}

// Save writes m to w in the given format (spec §6 "save").
func Save(w io.Writer, m *dynamic.Model, f Format) error {
	return getEncoder(w, f).Encode(toFile(m))
}

// Load reads a model back from r in the given format, the inverse of Save
// (spec §6 "load").
func Load(r io.Reader, f Format) (*dynamic.Model, error) {
	var mf modelFile
	if err := getDecoder(r, f).Decode(&mf); err != nil {
		return nil, err
	}
	return fromFile(&mf), nil
}

// SaveJSON is Save with Format fixed to JSON, the common case.
func SaveJSON(w io.Writer, m *dynamic.Model) error { return Save(w, m, JSON) }

// LoadJSON is Load with Format fixed to JSON.
func LoadJSON(r io.Reader) (*dynamic.Model, error) { return Load(r, JSON) }
