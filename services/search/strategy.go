package search

// Strategy is the backend path a request resolves to.
type Strategy string

const (
	StrategyContent Strategy = "content"
	StrategyUnified Strategy = "unified"
	StrategyJobs    Strategy = "jobs"
)

// SelectStrategy classifies a request. It is pure: same request, same
// strategy, no side effects.
func SelectStrategy(req Request) Strategy {
	if req.HasJobFilters() {
		return StrategyJobs
	}
	if len(req.Entities) > 0 {
		return StrategyUnified
	}
	return StrategyContent
}
