package serialize

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/utl"
	"github.com/yangf10/aris/dynamic"
	"github.com/yangf10/aris/kernel"
)

// SaveText and LoadText implement the model's second persisted form: one
// line per entity, a leading tag naming its kind, then a sequence of
// "!key:value" tokens, the keycode convention fem/essenbcs.go reads
// extra boundary-condition parameters with via utl.Keycode. Vector and
// matrix fields are comma-joined floats within a single token's value.
//
// This form exists for the same reason inp's text-based input files
// exist alongside fem's gob/json solution checkpoints: something a human
// can open, diff, and hand-edit, at the cost of being slower to parse
// than the gob/JSON form.

func floats(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func parseFloats(s string) []float64 {
	if s == "" {
		return nil
	}
	fields := strings.Split(s, ",")
	out := make([]float64, len(fields))
	for i, f := range fields {
		out[i] = utl.Atof(f)
	}
	return out
}

func vec6(s string) (v kernel.Vec6) {
	f := parseFloats(s)
	copy(v[:], f)
	return
}

func mat6(s string) (m kernel.Mat6) {
	f := parseFloats(s)
	for r := 0; r < 6; r++ {
		copy(m[r][:], f[6*r:6*r+6])
	}
	return
}

func pm(s string) (p kernel.Pm) {
	f := parseFloats(s)
	for r := 0; r < 4; r++ {
		copy(p[r][:], f[4*r:4*r+4])
	}
	return
}

func pmStr(p kernel.Pm) string {
	flat := make([]float64, 0, 16)
	for r := 0; r < 4; r++ {
		flat = append(flat, p[r][:]...)
	}
	return floats(flat)
}

func mat6Str(m kernel.Mat6) string {
	flat := make([]float64, 0, 36)
	for r := 0; r < 6; r++ {
		flat = append(flat, m[r][:]...)
	}
	return floats(flat)
}

// token renders a single "!key:value" keycode token.
func token(key, value string) string { return "!" + key + ":" + value }

func refStr(ref markerRef) string { return ref.Part + "." + ref.Name }

func parseRef(s string) markerRef {
	i := strings.Index(s, ".")
	if i < 0 {
		dynamic.Panic("serialize: parseRef: malformed marker reference %q", s)
	}
	return markerRef{Part: s[:i], Name: s[i+1:]}
}

// keycode extracts a token's value by key, panicking if absent — every
// field in this format is mandatory, unlike essenbcs.go's optional extra
// parameters.
func keycode(extra, key string) string {
	val, found := utl.Keycode(extra, key)
	if !found {
		dynamic.Panic("serialize: keycode: missing required key %q in %q", key, extra)
	}
	return val
}

// SaveText writes m to w in the line-oriented keycode format.
func SaveText(w io.Writer, m *dynamic.Model) error {
	bw := bufio.NewWriter(w)
	var werr error
	printf := func(format string, args ...interface{}) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(bw, format, args...)
	}

	printf("ENV %s\n", token("gravity", floats(m.Env.Gravity[:])))

	for i := 0; i < m.Parts.Size(); i++ {
		p := m.Parts.At(i)
		printf("PART %s %s %s %s %s %s\n",
			token("name", p.Name), token("ground", strconv.FormatBool(p.Ground)),
			token("pm", pmStr(p.Pm)), token("vs", floats(p.Vs[:])),
			token("as", floats(p.As[:])), token("im", mat6Str(p.Im)))
		for j := 0; j < p.Markers.Size(); j++ {
			mk := p.Markers.At(j)
			printf("MARKER %s %s %s\n",
				token("part", p.Name), token("name", mk.Name), token("local", pmStr(mk.Local)))
		}
	}

	m.Joints.Each(func(_ int, name string, c dynamic.Constraint) {
		printf("JOINT %s %s %s %s %s\n",
			token("kind", jointKind(c)), token("name", name),
			token("mi", refStr(refOf(c.MarkerI()))), token("mj", refStr(refOf(c.MarkerJ()))),
			token("cf", floats(cfOf(c))))
	})
	m.Motions.Each(func(_ int, name string, mo *dynamic.Motion) {
		printf("MOTION %s %s %s %s %s %s %s %s %s %s %s %s %s\n",
			token("name", name), token("mi", refStr(refOf(mo.MarkerI()))), token("mj", refStr(refOf(mo.MarkerJ()))),
			token("axis", floats(mo.Axis[:])),
			token("mp", strconv.FormatFloat(mo.Mp, 'g', -1, 64)),
			token("mv", strconv.FormatFloat(mo.Mv, 'g', -1, 64)),
			token("ma", strconv.FormatFloat(mo.Ma, 'g', -1, 64)),
			token("mf", strconv.FormatFloat(mo.Mf, 'g', -1, 64)),
			token("c0", strconv.FormatFloat(mo.C0, 'g', -1, 64)),
			token("c1", strconv.FormatFloat(mo.C1, 'g', -1, 64)),
			token("c2", strconv.FormatFloat(mo.C2, 'g', -1, 64)),
			token("fs", strconv.FormatFloat(mo.FrictionSmoothing, 'g', -1, 64)),
			token("cf", floats(mo.CfPtr())))
	})
	m.GeneralMotions.Each(func(_ int, name string, g *dynamic.GeneralMotion) {
		printf("GM %s %s %s %s %s %s %s\n",
			token("name", name), token("mi", refStr(refOf(g.MarkerI()))), token("mj", refStr(refOf(g.MarkerJ()))),
			token("mpm", pmStr(g.Mpm)), token("mvs", floats(g.Mvs[:])), token("mas", floats(g.Mas[:])),
			token("cf", floats(g.CfPtr())))
	})
	m.Forces.Each(func(_ int, name string, force dynamic.Force) {
		switch ff := force.(type) {
		case *dynamic.SingleComponentForce:
			printf("FORCE %s %s %s %s %s %s\n",
				token("kind", "single"), token("name", name),
				token("mi", refStr(refOf(ff.MarkerI()))), token("mj", refStr(refOf(ff.MarkerJ()))),
				token("axis", floats(ff.Axis[:])), token("mag", strconv.FormatFloat(ff.Magnitude, 'g', -1, 64)))
		case *dynamic.GravityForce:
			printf("FORCE %s %s %s %s\n",
				token("kind", "gravity"), token("name", name),
				token("part", ff.Part.Name), token("at", refStr(refOf(ff.MarkerI()))))
		}
	})
	if werr != nil {
		return werr
	}
	return bw.Flush()
}

// LoadText reads a model back from the format SaveText writes, the
// inverse of SaveText.
func LoadText(r io.Reader) (*dynamic.Model, error) {
	m := dynamic.NewModel()
	markers := make(map[markerRef]*dynamic.Marker)
	parts := make(map[string]*dynamic.Part)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		sp := strings.SplitN(line, " ", 2)
		tag, extra := sp[0], ""
		if len(sp) > 1 {
			extra = sp[1]
		}
		switch tag {
		case "ENV":
			m.Env.Gravity = vec6(keycode(extra, "gravity"))

		case "PART":
			name := keycode(extra, "name")
			isGround, _ := strconv.ParseBool(keycode(extra, "ground"))
			p := m.Ground
			if !isGround {
				p = m.AddPart(name, pm(keycode(extra, "pm")), mat6(keycode(extra, "im")))
			}
			p.Vs = vec6(keycode(extra, "vs"))
			p.As = vec6(keycode(extra, "as"))
			parts[name] = p

		case "MARKER":
			partName := keycode(extra, "part")
			p, ok := parts[partName]
			if !ok {
				dynamic.Panic("serialize: LoadText: marker references unknown part %q", partName)
			}
			name := keycode(extra, "name")
			mk := p.AddMarker(name, pm(keycode(extra, "local")))
			markers[markerRef{Part: partName, Name: name}] = mk

		case "JOINT":
			mi := markers[parseRef(keycode(extra, "mi"))]
			mj := markers[parseRef(keycode(extra, "mj"))]
			name := keycode(extra, "name")
			var j dynamic.Constraint
			switch keycode(extra, "kind") {
			case "revolute":
				j = dynamic.NewRevoluteJoint(name, mi, mj)
			case "prismatic":
				j = dynamic.NewPrismaticJoint(name, mi, mj)
			case "spherical":
				j = dynamic.NewSphericalJoint(name, mi, mj)
			case "universal":
				j = dynamic.NewUniversalJoint(name, mi, mj)
			}
			if cf := parseFloats(keycode(extra, "cf")); len(cf) > 0 {
				j.SetCf(cf)
			}
			m.Joints.Add(name, j)

		case "MOTION":
			mi := markers[parseRef(keycode(extra, "mi"))]
			mj := markers[parseRef(keycode(extra, "mj"))]
			name := keycode(extra, "name")
			mo := dynamic.NewMotion(name, mi, mj, vec6(keycode(extra, "axis")), nil)
			mo.Mp = utl.Atof(keycode(extra, "mp"))
			mo.Mv = utl.Atof(keycode(extra, "mv"))
			mo.Ma = utl.Atof(keycode(extra, "ma"))
			mo.Mf = utl.Atof(keycode(extra, "mf"))
			mo.C0 = utl.Atof(keycode(extra, "c0"))
			mo.C1 = utl.Atof(keycode(extra, "c1"))
			mo.C2 = utl.Atof(keycode(extra, "c2"))
			mo.FrictionSmoothing = utl.Atof(keycode(extra, "fs"))
			if cf := parseFloats(keycode(extra, "cf")); len(cf) > 0 {
				mo.SetCf(cf)
			}
			m.Motions.Add(name, mo)

		case "GM":
			mi := markers[parseRef(keycode(extra, "mi"))]
			mj := markers[parseRef(keycode(extra, "mj"))]
			name := keycode(extra, "name")
			g := dynamic.NewGeneralMotion(name, mi, mj)
			g.Mpm = pm(keycode(extra, "mpm"))
			g.Mvs = vec6(keycode(extra, "mvs"))
			g.Mas = vec6(keycode(extra, "mas"))
			if cf := parseFloats(keycode(extra, "cf")); len(cf) > 0 {
				g.SetCf(cf)
			}
			m.GeneralMotions.Add(name, g)

		case "FORCE":
			name := keycode(extra, "name")
			switch keycode(extra, "kind") {
			case "single":
				mi := markers[parseRef(keycode(extra, "mi"))]
				mj := markers[parseRef(keycode(extra, "mj"))]
				axis := vec6(keycode(extra, "axis"))
				mag := utl.Atof(keycode(extra, "mag"))
				m.AddForce(name, dynamic.NewSingleComponentForce(name, mi, mj, axis, mag))
			case "gravity":
				partName := keycode(extra, "part")
				at := markers[parseRef(keycode(extra, "at"))]
				p, ok := parts[partName]
				if !ok {
					dynamic.Panic("serialize: LoadText: gravity force references unknown part %q", partName)
				}
				m.AddForce(name, dynamic.NewGravityForce(name, m.Env, p, at))
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	m.Init()
	return m, nil
}
