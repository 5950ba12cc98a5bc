package agent

// syntheticIDBase offsets generated IDs so they never collide with small
// provider-issued integers. Presentation-layer workaround only; a synthetic
// ID is not an authorization token.
const syntheticIDBase = 1000

// IDMapper assigns small stable synthetic integer identifiers to opaque
// provider-issued item IDs, so different providers reusing the same ID space
// never collide in one response. A mapper is scoped to a single orchestration
// run: construct a fresh one per run (or call Reset), never share across
// requests.
type IDMapper struct {
	providerIDs map[string]int
	audit       map[int]string
	counter     int
}

// NewIDMapper creates an empty mapper.
func NewIDMapper() *IDMapper {
	return &IDMapper{
		providerIDs: make(map[string]int),
		audit:       make(map[int]string),
	}
}

// MapProviderID returns the synthetic ID for the given provider ID,
// allocating a new one on first sight. The same providerID always yields the
// same synthetic ID for the lifetime of this mapper. providerName is recorded
// in the audit trail only; distinct providers reusing a providerID string are
// the caller's concern to disambiguate.
func (m *IDMapper) MapProviderID(providerID, providerName string) int {
	if id, ok := m.providerIDs[providerID]; ok {
		return id
	}

	m.counter++
	id := syntheticIDBase + m.counter

	m.providerIDs[providerID] = id
	m.audit[id] = providerName + "_" + providerID

	return id
}

// OriginalID returns the audit entry (providerName_providerID) for a
// synthetic ID, if one was allocated.
func (m *IDMapper) OriginalID(syntheticID int) (string, bool) {
	original, ok := m.audit[syntheticID]
	return original, ok
}

// Reset clears all mappings, returning the mapper to its initial state.
func (m *IDMapper) Reset() {
	m.providerIDs = make(map[string]int)
	m.audit = make(map[int]string)
	m.counter = 0
}

// Len returns the number of allocated mappings.
func (m *IDMapper) Len() int { return len(m.providerIDs) }
