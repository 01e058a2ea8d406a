package multi

import (
	"sync"

	"github.com/danmuck/sensorlink/internal/channel"
)

// Mode selects how a driver operation is dispatched across channels.
type Mode int

const (
	// Sequential runs the operation on each channel in turn on the
	// caller's goroutine. Total latency is additive.
	Sequential Mode = iota
	// Concurrent spawns one worker per channel for the duration of the
	// operation and joins all of them before returning. Appropriate when
	// commands carry a long wait before the response can be read.
	Concurrent
)

// Driver duplicates a single-device driver once per contained channel and
// dispatches each operation to all duplicates. It is the explicit
// composition replacing per-type wrapper synthesis.
type Driver[D any] struct {
	mc      *Channel
	drivers []D
	mode    Mode
}

// NewDriver builds one driver per sub-channel using construct.
func NewDriver[D any](mc *Channel, mode Mode, construct func(channel.Channel) D) *Driver[D] {
	drivers := make([]D, 0, mc.Count())
	for i := 0; i < mc.Count(); i++ {
		drivers = append(drivers, construct(mc.ChannelAt(i)))
	}
	return &Driver[D]{mc: mc, drivers: drivers, mode: mode}
}

// Count is the number of duplicated drivers.
func (d *Driver[D]) Count() int { return len(d.drivers) }

// Each runs op on every duplicated driver inside one transaction bracket
// and returns the results ordered by channel position, independent of
// completion order. In sequential mode the first failure aborts the
// remaining calls; in concurrent mode every worker is joined first and the
// lowest-indexed failure is reported, with no partial results.
func Each[D, R any](d *Driver[D], op func(D) (R, error)) ([]R, error) {
	d.mc.Open()
	defer d.mc.Close()

	results := make([]R, len(d.drivers))
	if d.mode == Sequential {
		for i, drv := range d.drivers {
			r, err := op(drv)
			if err != nil {
				return nil, err
			}
			results[i] = r
		}
		return results, nil
	}

	errs := make([]error, len(d.drivers))
	var wg sync.WaitGroup
	for i, drv := range d.drivers {
		wg.Add(1)
		go func(i int, drv D) {
			defer wg.Done()
			results[i], errs[i] = op(drv)
		}(i, drv)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
