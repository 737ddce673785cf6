package call

import "github.com/looplab/fsm"

// Phase is where the page believes the call is.
// States:
//
//	ended -> starting -> active -> ended
//	            \-> ended (start failed)
type Phase string

const (
	ENDED    Phase = "ended"
	STARTING Phase = "starting" // start request in flight
	ACTIVE   Phase = "active"
)

type Event string

const (
	START   Event = "start"
	STARTED Event = "started"
	FAILED  Event = "failed"
	STOP    Event = "stop"
)

const (
	TextActive = "Call in progress..."
	TextEnded  = "Call ended"
)

func newMachine() *fsm.FSM {
	return fsm.NewFSM(
		string(ENDED),
		fsm.Events{
			{Name: string(START), Src: []string{string(ENDED)}, Dst: string(STARTING)},
			{Name: string(STARTED), Src: []string{string(STARTING)}, Dst: string(ACTIVE)},
			{Name: string(FAILED), Src: []string{string(STARTING)}, Dst: string(ENDED)},
			{Name: string(STOP), Src: []string{string(ACTIVE)}, Dst: string(ENDED)},
		},
		fsm.Callbacks{},
	)
}
