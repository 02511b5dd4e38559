package experiment

import "fmt"

// Outcome describes how a Session ended
type Outcome int

const (
	NotConverged Outcome = iota
	Converged
)

// String implements the fmt.Stringer interface
func (o Outcome) String() string {
	if o == Converged {
		return "Converged"
	}
	return "NotConverged"
}

// Result is the outcome of a Session.
//
// Episodes is the number of training episodes run. MeanTestReturn is
// the mean return over the deterministic test episodes and is only
// meaningful if the Session converged. TrainMean is the running mean
// of training returns when training stopped.
type Result struct {
	Outcome
	Episodes       int
	MeanTestReturn float64
	TrainMean      float64
}

// Converged returns whether the Session converged
func (r Result) Converged() bool {
	return r.Outcome == Converged
}

// String implements the fmt.Stringer interface
func (r Result) String() string {
	if r.Converged() {
		return fmt.Sprintf("Converged{Episodes: %v, MeanTestReturn: %v}",
			r.Episodes, r.MeanTestReturn)
	}
	return fmt.Sprintf("NotConverged{Episodes: %v}", r.Episodes)
}
