// Package memory places tensors in device memory. Tensors are laid out
// largest first, devices are used round-robin, and every allocation starts
// on a 64-byte boundary.
package memory

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"gwrTimetable/src/misc"
	"gwrTimetable/src/platform"
	"gwrTimetable/src/tensor"
)

// Alignment is the byte boundary every allocation is rounded up to.
const Alignment uint64 = 64

var ErrNoDevices = errors.New("no memory devices to allocate from")

type device struct {
	name   string
	cursor uint64
}

// DeviceAllocator hands out addresses from a set of memory devices. Each
// device keeps a bump cursor that only moves forward. Capacity is not
// checked.
type DeviceAllocator struct {
	devices []device
	next    int
	logger  logrus.FieldLogger
}

// NewDeviceAllocator builds an allocator over the distinct devices of
// ranges, in order of first appearance. A device's cursor starts at the base
// address of its first range; later ranges of the same device are ignored.
func NewDeviceAllocator(ranges []platform.MemoryRange, logger logrus.FieldLogger) (*DeviceAllocator, error) {
	if logger == nil {
		logger = misc.DiscardLogger()
	}

	seen := make(map[string]bool, len(ranges))
	devices := make([]device, 0, len(ranges))
	for _, r := range ranges {
		if seen[r.Device] {
			continue
		}
		seen[r.Device] = true
		devices = append(devices, device{name: r.Device, cursor: r.BaseAddress.Bytes()})
	}
	if len(devices) == 0 {
		return nil, ErrNoDevices
	}

	return &DeviceAllocator{devices: devices, logger: logger}, nil
}

// Devices returns device names in allocation order.
func (a *DeviceAllocator) Devices() []string {
	names := make([]string, len(a.devices))
	for i, d := range a.devices {
		names[i] = d.name
	}
	return names
}

// Allocate reserves sizeBytes on the next device and returns its name and
// the starting address.
func (a *DeviceAllocator) Allocate(sizeBytes uint64) (string, uint64) {
	d := &a.devices[a.next]
	a.next = (a.next + 1) % len(a.devices)

	addr := d.cursor
	d.cursor += AlignUp(sizeBytes)
	return d.name, addr
}

// Layout assigns an address to every record of table. Records are visited in
// descending size; equal sizes keep table order.
func (a *DeviceAllocator) Layout(table *tensor.Table) *Layout {
	records := table.Records()
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].SizeBytes > records[j].SizeBytes
	})

	layout := newLayout(len(records))
	for _, r := range records {
		dev, addr := a.Allocate(r.SizeBytes)
		layout.add(Placement{Tensor: r.Name, Device: dev, Address: addr, SizeBytes: r.SizeBytes})
	}

	for _, d := range a.devices {
		a.logger.WithFields(logrus.Fields{
			"device":  d.name,
			"cursor":  d.cursor,
			"tensors": layout.perDevice[d.name],
		}).Debug("device allocation")
	}
	return layout
}

// AlignUp rounds size up to the next multiple of Alignment.
func AlignUp(size uint64) uint64 {
	return (size + Alignment - 1) / Alignment * Alignment
}
