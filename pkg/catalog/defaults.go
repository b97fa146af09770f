package catalog

// Fallback values used when a catalog file cannot be read.
var (
	DefaultVelocityLimits = VelocityLimits{MinMS: 0.6, MaxMS: 2.0}

	DefaultAccessSpacing = AccessSpacing{GeneralM: 30, ToFixturesM: 10}

	// DefaultProbableFlow is the Argentine residential simultaneity table.
	DefaultProbableFlow = ProbableFlowTable{
		{UC: 1.5, FlowLS: 0.15},
		{UC: 3, FlowLS: 0.20},
		{UC: 4.5, FlowLS: 0.25},
		{UC: 6, FlowLS: 0.30},
		{UC: 8, FlowLS: 0.35},
		{UC: 10, FlowLS: 0.40},
		{UC: 15, FlowLS: 0.50},
		{UC: 20, FlowLS: 0.60},
		{UC: 30, FlowLS: 0.80},
	}
)
