package core

import "time"

// Exchange summarizes one connection task after its response attempt.
type Exchange struct {
	ConnID       string
	RemoteAddr   string
	Request      Request // partially filled when routing failed
	Matched      bool    // a registered handler was invoked
	Status       Status
	BytesWritten int
	Started      time.Time
	Latency      time.Duration
	Err          error // the transport or protocol error behind a non-handler status, if any
}

// Observer receives connection lifecycle events. Implementations must be safe
// for concurrent use; they are called from every connection task.
type Observer interface {
	Accepted()
	AcceptFailed(err error)
	Observe(ex Exchange)
}

// Observers fans each event out to every member.
type Observers []Observer

func (o Observers) Accepted() {
	for _, x := range o {
		x.Accepted()
	}
}

func (o Observers) AcceptFailed(err error) {
	for _, x := range o {
		x.AcceptFailed(err)
	}
}

func (o Observers) Observe(ex Exchange) {
	for _, x := range o {
		x.Observe(ex)
	}
}
