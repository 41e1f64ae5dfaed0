package evaluator

// Budget holds the resource limits for a program execution.
type Budget struct {
	// MaxSteps caps the number of executed statements; 0 means unlimited.
	MaxSteps int64
}

// BudgetTracker tracks resource consumption during execution.
type BudgetTracker struct {
	Steps    int64
	Depth    int
	MaxDepth int
}
