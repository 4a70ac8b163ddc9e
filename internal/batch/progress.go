package batch

// ProgressReporter receives batch progress events. OnRequestDone calls are
// serialized by the runner.
type ProgressReporter interface {
	// OnBatchStart is called once before any request runs.
	OnBatchStart(total int)

	// OnRequestDone is called after each request finishes, in completion order.
	OnRequestDone(item *Item)

	// OnBatchComplete is called once after every request has finished.
	OnBatchComplete(summary *Summary)
}

// NoOpProgressReporter ignores all events.
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnBatchStart(total int)           {}
func (n *NoOpProgressReporter) OnRequestDone(item *Item)         {}
func (n *NoOpProgressReporter) OnBatchComplete(summary *Summary) {}
