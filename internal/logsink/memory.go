package logsink

import "sync"

// Memory keeps records in process memory, grouped by label. Used by tests
// and by anything that wants to inspect recent checks without touching disk.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]Record
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string][]Record)}
}

func (m *Memory) Append(label string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[label] = append(m.records[label], rec)
	return nil
}

// ByLabel returns a copy of the records appended for one label, in append
// order.
func (m *Memory) ByLabel(label string) []Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Record(nil), m.records[label]...)
}

// Len reports the number of records appended for one label.
func (m *Memory) Len(label string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records[label])
}
