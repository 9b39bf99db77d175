package cpu

// Quirks selects between semantics that differ across CHIP-8 revisions.
// The zero value is the behavior of most modern interpreters.
type Quirks struct {
	// ShiftUsesVY makes 8XY6/8XYE shift VY into VX, as the COSMAC VIP did.
	ShiftUsesVY bool
	// LoadStoreIncrementsI makes FX55/FX65 leave I at I+X+1.
	LoadStoreIncrementsI bool
	// ClipSprites clips sprite pixels at the screen edges instead of wrapping them.
	// The starting coordinate always wraps.
	ClipSprites bool
	// LogicResetsVF makes 8XY1/8XY2/8XY3 clear VF.
	LogicResetsVF bool
}

// VIPQuirks is the behavior of the original COSMAC VIP interpreter.
var VIPQuirks = Quirks{
	ShiftUsesVY:          true,
	LoadStoreIncrementsI: true,
	ClipSprites:          true,
	LogicResetsVF:        true,
}
