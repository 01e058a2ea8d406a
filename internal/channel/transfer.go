package channel

import (
	"time"

	"github.com/danmuck/sensorlink/internal/protocol"
)

// Transfer bundles one logical sensor operation: the command descriptor,
// its arguments, the expected response layout and the timing hints. A
// sequence of transfers executes as one unit via ExecuteTransfer.
type Transfer struct {
	Tx   *protocol.TxData
	Rx   *protocol.RxData
	Args []any
	// PostProcessingDelay is the wait after the exchange before the next
	// communication with the device. Zero means unset.
	PostProcessingDelay time.Duration
}

// Pack serializes the transfer's command and arguments. A transfer without
// tx data packs to nil.
func (t Transfer) Pack() ([]byte, error) {
	if t.Tx == nil {
		return nil, nil
	}
	return t.Tx.Pack(t.Args...)
}

// CommandWidth is the byte width of the command identifier, zero without
// tx data.
func (t Transfer) CommandWidth() int {
	if t.Tx == nil {
		return 0
	}
	return t.Tx.CommandWidth()
}

// DeviceBusyDelay is the busy delay declared by the tx descriptor.
func (t Transfer) DeviceBusyDelay() time.Duration {
	if t.Tx == nil {
		return 0
	}
	return t.Tx.DeviceBusyDelay
}

// SlaveAddress is the explicit target address of this transfer, nil for
// the channel default.
func (t Transfer) SlaveAddress() *byte {
	if t.Tx == nil {
		return nil
	}
	return t.Tx.SlaveAddress
}

// IgnoreError reports whether a failed acknowledgment should be swallowed.
func (t Transfer) IgnoreError() bool {
	if t.Tx == nil {
		return false
	}
	return t.Tx.IgnoreAck
}

// ExecuteTransfer runs a sequence of transfers over ch as one logical
// operation. All but the last execute for their side effect; the decoded
// values of the last transfer are returned.
func ExecuteTransfer(ch Channel, transfers ...Transfer) ([]protocol.Value, error) {
	var (
		result []protocol.Value
		err    error
	)
	for i, t := range transfers {
		tx, perr := t.Pack()
		if perr != nil {
			return nil, perr
		}
		result, err = ch.WriteRead(tx, t.CommandWidth(), t.Rx, Options{
			DeviceBusyDelay:     t.DeviceBusyDelay(),
			PostProcessingDelay: t.PostProcessingDelay,
			SlaveAddress:        t.SlaveAddress(),
			IgnoreErrors:        t.IgnoreError(),
		})
		if err != nil {
			return nil, err
		}
		if i < len(transfers)-1 {
			result = nil
		}
	}
	return result, err
}
