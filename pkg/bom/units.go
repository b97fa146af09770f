package bom

// Units used on material lines.
const (
	UnitEach  = "u"
	UnitBar   = "barra"
	UnitRoll  = "rollos"
	UnitMeter = "m"
	UnitKit   = "kit"
)
