package dynamic

import "github.com/yangf10/aris/kernel"

// Marker is a coordinate frame fixed to exactly one part, stored as a
// part-local 4x4 transform (spec §3 "Marker"). Every joint, motion,
// general motion, and force references two markers rather than parts
// directly, so the same part can expose several attachment frames.
type Marker struct {
	Name  string
	Part  *Part
	Local kernel.Pm // transform in part coordinates
}

// WorldPm returns world(m) = world(part(m)) * local(m), invariant P1 of
// the data model (spec §3 invariant 1, §8 P1).
func (m *Marker) WorldPm() kernel.Pm {
	return kernel.PmMul(m.Part.Pm, m.Local)
}

// LocalVs returns the part's spatial velocity re-expressed at the
// marker's own frame: vs_marker = Ad(Local^-1)*vs_part. Local being
// time-invariant, there is no additional Coriolis term from the
// part-to-marker offset itself.
func (m *Marker) LocalVs() kernel.Vec6 {
	return kernel.AdApply(kernel.PmInv(m.Local), m.Part.Vs)
}

// LocalAs returns the part's spatial acceleration re-expressed at the
// marker's own frame, analogous to LocalVs.
func (m *Marker) LocalAs() kernel.Vec6 {
	return kernel.AdApply(kernel.PmInv(m.Local), m.Part.As)
}

// WorldVs returns the marker's spatial velocity transformed into world
// frame: vs_world = Ad(world(m))*vs_marker.
func (m *Marker) WorldVs() kernel.Vec6 {
	return kernel.AdApply(m.WorldPm(), m.LocalVs())
}

// WorldAs returns the marker's spatial acceleration transformed into
// world frame, analogous to WorldVs.
func (m *Marker) WorldAs() kernel.Vec6 {
	return kernel.AdApply(m.WorldPm(), m.LocalAs())
}
