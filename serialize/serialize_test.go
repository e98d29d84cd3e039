package serialize

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/yangf10/aris/dynamic"
	"github.com/yangf10/aris/kernel"
)

// sampleModel builds a single-revolute pendulum with a motion, a gravity
// force, and a general motion, giving every entity kind in modelFile at
// least one instance to round-trip.
func sampleModel() *dynamic.Model {
	m := dynamic.NewModel()
	im := kernel.Inertia(2.0, [3]float64{0.3, 0, 0}, [3][3]float64{{0.04, 0, 0}, {0, 0.04, 0}, {0, 0, 0.04}})
	link := m.AddPart("link", kernel.Eye4(), im)
	j := m.AddRevoluteJoint("j1", m.Ground, link, [3]float64{0, 0, 0}, [3]float64{0, 0, 1})
	mo := m.AddMotion("mo1", j)
	mo.Mp, mo.Mv, mo.C0, mo.C1 = 0.4, 0.1, 0.2, 0.05
	mo.SetCf([]float64{1.23})

	gAt := link.AddMarker("com", kernel.Eye4())
	m.AddForce("gravity", dynamic.NewGravityForce("gravity", m.Env, link, gAt))

	tip := link.AddMarker("tip", kernel.Eye4())
	ref := m.Ground.AddMarker("ref", kernel.Eye4())
	m.AddGeneralMotion("ee", tip, ref)

	m.Env.Gravity = kernel.Vec6{0, 0, 0, 0, -9.81, 0}
	m.Init()
	return m
}

func checkRoundTrip(tst *testing.T, got, want *dynamic.Model) {
	wantLink := want.Parts.MustFind("link")
	gotLink := got.Parts.MustFind("link")
	chk.Vector(tst, "link.Pm row0", 1e-12, gotLink.Pm[0][:], wantLink.Pm[0][:])

	wantMo, ok := want.Motions.FindByName("mo1")
	if !ok {
		tst.Fatal("want model missing mo1")
	}
	gotMo, ok := got.Motions.FindByName("mo1")
	if !ok {
		tst.Fatal("round-tripped model missing mo1")
	}
	chk.Vector(tst, "motion Mp/Mv/C0/C1/Cf", 1e-12,
		[]float64{gotMo.Mp, gotMo.Mv, gotMo.C0, gotMo.C1, gotMo.CfPtr()[0]},
		[]float64{wantMo.Mp, wantMo.Mv, wantMo.C0, wantMo.C1, wantMo.CfPtr()[0]})

	if got.GeneralMotions.Size() != want.GeneralMotions.Size() {
		tst.Errorf("general motion count mismatch: got %d want %d", got.GeneralMotions.Size(), want.GeneralMotions.Size())
	}
	if got.Forces.Size() != want.Forces.Size() {
		tst.Errorf("force count mismatch: got %d want %d", got.Forces.Size(), want.Forces.Size())
	}
}

func Test_serialize01(tst *testing.T) {

	chk.PrintTitle("serialize01: SaveJSON/LoadJSON round-trips a model's state including solved constraint forces")

	m := sampleModel()
	var buf bytes.Buffer
	if err := SaveJSON(&buf, m); err != nil {
		tst.Fatalf("SaveJSON failed: %v", err)
	}

	loaded, err := LoadJSON(&buf)
	if err != nil {
		tst.Fatalf("LoadJSON failed: %v", err)
	}
	checkRoundTrip(tst, loaded, m)
}

func Test_serialize02(tst *testing.T) {

	chk.PrintTitle("serialize02: Save/Load with the Gob format round-trips the same way as JSON")

	m := sampleModel()
	var buf bytes.Buffer
	if err := Save(&buf, m, Gob); err != nil {
		tst.Fatalf("Save(Gob) failed: %v", err)
	}

	loaded, err := Load(&buf, Gob)
	if err != nil {
		tst.Fatalf("Load(Gob) failed: %v", err)
	}
	checkRoundTrip(tst, loaded, m)
}

func Test_serialize03(tst *testing.T) {

	chk.PrintTitle("serialize03: SaveText/LoadText round-trips a model through the line-oriented keycode format")

	m := sampleModel()
	var buf bytes.Buffer
	if err := SaveText(&buf, m); err != nil {
		tst.Fatalf("SaveText failed: %v", err)
	}

	loaded, err := LoadText(&buf)
	if err != nil {
		tst.Fatalf("LoadText failed: %v", err)
	}
	checkRoundTrip(tst, loaded, m)
}

func Test_serialize04(tst *testing.T) {

	chk.PrintTitle("serialize04: ExportAdams emits part, joint, and motion directives for the model")

	m := sampleModel()
	var buf bytes.Buffer
	w := NewAdamsTextWriter(&buf)
	ExportAdams(m, w)

	if err := w.(*adamsTextWriter).Err(); err != nil {
		tst.Fatalf("adams export failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"PART/link", "JOINT/j1", "MOTION/mo1"} {
		if !strings.Contains(out, want) {
			tst.Errorf("adams output missing %q\noutput:\n%s", want, out)
		}
	}
}
