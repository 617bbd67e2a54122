package services

// sagaStep is one (action, compensation) pair of a multi-step flow.
// compensate may be nil for steps that need no rollback.
type sagaStep struct {
	name       string
	run        func() error
	compensate func()
}

// runSaga executes steps in order. On the first failure it runs the
// compensations of every previously completed step in reverse and returns
// the failing step's name and error.
func runSaga(steps []sagaStep) (string, error) {
	for i, step := range steps {
		if err := step.run(); err != nil {
			for j := i - 1; j >= 0; j-- {
				if steps[j].compensate != nil {
					steps[j].compensate()
				}
			}
			return step.name, err
		}
	}
	return "", nil
}
