package tasks

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application to manage background snapshot generation.
// Example usage:
//
//	scheduler := NewScheduler(service, reg, snapshotRepo)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewSnapshotTask(...))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
