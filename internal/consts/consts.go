package consts

const (
	DefaultS      = 1.0 // Frequency variable when none is given
	DefaultGain   = 2.0 // Controlled-source gain when none is bound
	DefaultMutual = 0.0 // Mutual inductance when none is bound

	DefaultSolver = "dense"
	DefaultAddr   = ":5001"

	MaxBodyBytes = 1 << 20 // Netlist request limit (bytes)
)
