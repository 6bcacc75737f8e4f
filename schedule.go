package anns

// Schedule provides the learning rate for a given epoch. The labs use a fixed rate
// throughout, but a schedule lets an experiment anneal it without touching the
// training loop.
type Schedule interface {
	// Value returns the learning rate to use for the given epoch.
	Value(epoch int) float64
}

type constant float64

// Constant returns a Schedule that always yields the given learning rate.
func Constant(rate float64) Schedule {
	return constant(rate)
}

func (c constant) Value(epoch int) float64 {
	return float64(c)
}

type step struct {
	epoch int
	rate  float64
}

type stepper []step

// Step returns a Schedule starting at the given base rate. Further rates taking
// effect at later epochs can be added with Add.
func Step(base float64) *stepper {
	s := stepper([]step{{0, base}})
	return &s
}

// Add adds a step to the Schedule: from the given epoch onward the given rate is
// used, until a later step takes over. Add returns its receiver for chaining.
func (s *stepper) Add(epoch int, rate float64) *stepper {
	*s = append(*s, step{epoch, rate})
	return s
}

func (s *stepper) Value(epoch int) float64 {
	sl := []step(*s)
	for i := 1; i < len(sl); i++ {
		if sl[i].epoch > epoch {
			return sl[i-1].rate
		}
	}

	return sl[len(sl)-1].rate
}
