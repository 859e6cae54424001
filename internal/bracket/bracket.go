package bracket

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/DoyleJ11/mst-sync/internal/scoreboard"
)

// PendingSet is a set the bracket site still lists as awaiting a result.
type PendingSet struct {
	ID             scoreboard.SetID     `json:"id"`
	Entrant1ID     scoreboard.EntrantID `json:"entrant1Id"`
	Entrant1Name   string               `json:"entrant1Name"`
	Entrant1Prefix string               `json:"entrant1Prefix"`
	Entrant1Score  int                  `json:"entrant1Score"`
	Entrant2ID     scoreboard.EntrantID `json:"entrant2Id"`
	Entrant2Name   string               `json:"entrant2Name"`
	Entrant2Prefix string               `json:"entrant2Prefix"`
	Entrant2Score  int                  `json:"entrant2Score"`
	FullRoundText  string               `json:"fullRoundText"`
	BestOf         int                  `json:"bestOf"`
}

type Pending map[scoreboard.EntrantID][]PendingSet

// FindSharedSet returns the one set both entrants are waiting on. Zero or
// several shared sets leave nothing to auto-advance to.
func FindSharedSet(pending Pending, a, b scoreboard.EntrantID) (PendingSet, bool) {
	ofA := map[scoreboard.SetID]bool{}
	for _, s := range pending[a] {
		ofA[s.ID] = true
	}

	var shared []PendingSet
	seen := map[scoreboard.SetID]bool{}
	for _, s := range pending[b] {
		if ofA[s.ID] && !seen[s.ID] {
			seen[s.ID] = true
			shared = append(shared, s)
		}
	}
	if len(shared) != 1 {
		return PendingSet{}, false
	}
	return shared[0], true
}

type Entrant struct {
	ID     scoreboard.EntrantID `json:"id"`
	Name   string               `json:"name"`
	Prefix string               `json:"prefix"`
}

// Source supplies pending sets keyed by entrant.
type Source interface {
	PendingSets(ctx context.Context, entrants []scoreboard.EntrantID) (Pending, error)
}

// Directory maps netplay connect codes to bracket entrants.
type Directory interface {
	EntrantByConnectCode(ctx context.Context, code string) (Entrant, bool, error)
}

// MemorySource serves sets and entrants held in memory.
type MemorySource struct {
	mu       sync.RWMutex
	sets     Pending
	entrants map[string]Entrant
}

func NewMemorySource() *MemorySource {
	return &MemorySource{sets: Pending{}, entrants: map[string]Entrant{}}
}

func (m *MemorySource) PutEntrant(code string, e Entrant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entrants[strings.ToUpper(code)] = e
}

func (m *MemorySource) EntrantByConnectCode(_ context.Context, code string) (Entrant, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entrants[strings.ToUpper(code)]
	return e, ok, nil
}

func (m *MemorySource) Put(entrant scoreboard.EntrantID, sets []PendingSet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[entrant] = sets
}

func (m *MemorySource) PendingSets(_ context.Context, entrants []scoreboard.EntrantID) (Pending, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := Pending{}
	for _, id := range entrants {
		if sets, ok := m.sets[id]; ok {
			out[id] = append([]PendingSet(nil), sets...)
		}
	}
	return out, nil
}

type snapshotFile struct {
	Entrants    map[string]Entrant                    `json:"entrants"`
	PendingSets map[scoreboard.EntrantID][]PendingSet `json:"pendingSets"`
}

// LoadMemorySource reads a bracket export: entrants keyed by connect code and
// pending sets keyed by entrant id.
func LoadMemorySource(path string) (*MemorySource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap snapshotFile
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	m := NewMemorySource()
	for code, e := range snap.Entrants {
		m.PutEntrant(code, e)
	}
	for id, sets := range snap.PendingSets {
		m.Put(id, sets)
	}
	return m, nil
}
