package job

import "github.com/apples/silk/internal/sched"

const (
	stateFanSpawn sched.StateID = "spawn"
	stateFanDone  sched.StateID = "done"
)

// FanOut spawns width counting children on the shared scheduler and
// completes once every child has finished, whatever order they finish in.
type FanOut struct {
	sched.Routine
	Width int
	Steps int // yields per child
}

// NewFanOut creates a fan-out task with width children of the given depth.
func NewFanOut(width, steps int) *FanOut {
	t := &FanOut{Width: width, Steps: steps}
	t.Init(stateFanSpawn, map[sched.StateID]sched.StateFunc{
		stateFanSpawn: sched.State0(t.spawn),
		stateFanDone:  sched.State0(t.done),
	})
	return t
}

func (t *FanOut) spawn() sched.TaskStatus {
	children := make([]sched.Task, t.Width)
	for i := range children {
		children[i] = NewCount(t.Steps)
	}
	return t.WaitForMany(stateFanDone, children...)
}

func (t *FanOut) done() sched.TaskStatus {
	return t.Succeed()
}
