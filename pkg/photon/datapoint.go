package photon

import "github.com/df07/go-photon-transport/pkg/core"

// NoLogID is the SolidID of a DataPoint slot that was never written
const NoLogID = 0

// DataPoint records one energy-changing event. DeltaWeight is positive for
// deposits and for weight leaving a solid, negative for weight entering one.
type DataPoint struct {
	Position    core.Vec3
	DeltaWeight float64
	SolidID     int
	SurfaceID   int // scene.NoSurfaceID for volume deposits
}

// IsEmpty reports whether the slot is unused
func (d DataPoint) IsEmpty() bool {
	return d.SolidID == NoLogID
}

// Log is a flat buffer split into one fixed-size window per photon
type Log struct {
	points   []DataPoint
	capacity int
}

// NewLog allocates windows of capacity entries for n photons
func NewLog(n, capacity int) *Log {
	return &Log{
		points:   make([]DataPoint, n*capacity),
		capacity: capacity,
	}
}

// Capacity returns the size of a single photon's window
func (l *Log) Capacity() int {
	return l.capacity
}

// Points returns the whole buffer, unused slots included
func (l *Log) Points() []DataPoint {
	return l.points
}

// Window returns the window of photon i. Windows of different photons never
// overlap, so they can be filled concurrently.
func (l *Log) Window(i int) *LogWindow {
	start := i * l.capacity
	end := start + l.capacity
	return &LogWindow{entries: l.points[start:end:end]}
}

// LogWindow is the append-only segment of the log owned by one photon
type LogWindow struct {
	entries []DataPoint
	count   int
}

// NewLogWindow creates a standalone window of the given capacity
func NewLogWindow(capacity int) *LogWindow {
	return &LogWindow{entries: make([]DataPoint, capacity)}
}

// Append records a data point. It returns false, writing nothing, when the
// window is full.
func (w *LogWindow) Append(point DataPoint) bool {
	if w.count >= len(w.entries) {
		return false
	}
	w.entries[w.count] = point
	w.count++
	return true
}

// Remaining returns the number of free slots
func (w *LogWindow) Remaining() int {
	return len(w.entries) - w.count
}

// Len returns the number of recorded points
func (w *LogWindow) Len() int {
	return w.count
}

// Points returns the recorded points
func (w *LogWindow) Points() []DataPoint {
	return w.entries[:w.count]
}
