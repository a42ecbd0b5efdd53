package platform

// LocalMemory is the SRAM of one processing element. A transfer larger than
// the capacity is split into capacity-sized chunks.
type LocalMemory struct {
	Name     string
	capacity uint64
}

// Chunk is one piece of a split transfer, relative to the transfer's start.
type Chunk struct {
	Offset   uint64
	NumBytes uint64
}

// NewLocalMemory constructs a local memory of the given capacity in bytes.
// A zero capacity falls back to DefaultSramBytes.
func NewLocalMemory(name string, capacity uint64) *LocalMemory {
	if capacity == 0 {
		capacity = DefaultSramBytes
	}
	return &LocalMemory{Name: name, capacity: capacity}
}

// Capacity returns the capacity in bytes.
func (m *LocalMemory) Capacity() uint64 {
	return m.capacity
}

// NumChunks returns ceil(bytes/capacity) without overflowing for
// capacities near 2^64.
func (m *LocalMemory) NumChunks(bytes uint64) uint64 {
	if bytes == 0 {
		return 0
	}
	return (bytes-1)/m.capacity + 1
}

// Chunks splits a transfer of the given size. Every chunk but the last is
// exactly Capacity bytes; the sizes sum to bytes. A zero-byte transfer has
// no chunks.
func (m *LocalMemory) Chunks(bytes uint64) []Chunk {
	n := m.NumChunks(bytes)
	chunks := make([]Chunk, 0, n)
	for k := uint64(0); k < n; k++ {
		offset := k * m.capacity
		size := bytes - offset
		if size > m.capacity {
			size = m.capacity
		}
		chunks = append(chunks, Chunk{Offset: offset, NumBytes: size})
	}
	return chunks
}
