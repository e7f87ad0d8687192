package daemon

// Please add the dependencies if you add your own priority here.
// Otherwise investigating deadlocks at shutdown is much more complicated.

const (
	PriorityCloseDatabase = iota // no dependencies
	PriorityProtocol             // depends on CloseDatabase
	PrioritySporks               // depends on Protocol
	PriorityStaking              // depends on Sporks
	PriorityMetrics
)
