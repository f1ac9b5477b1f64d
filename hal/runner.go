package hal

// Runner is the OS as seen by a host loop: advanced once per frame, stopped once.
type Runner interface {
	Step() error
	Shutdown()
}
