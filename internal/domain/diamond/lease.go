package diamond

import "sync"

type leaseKey struct {
	projectID string
	phase     Phase
}

// leases is a single-writer guard per (project, stage). A held lease is what
// readers see as in_progress; it is never persisted.
type leases struct {
	mu   sync.Mutex
	held map[leaseKey]struct{}
}

func newLeases() *leases {
	return &leases{held: make(map[leaseKey]struct{})}
}

func (l *leases) acquire(projectID string, phase Phase) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := leaseKey{projectID: projectID, phase: phase}
	if _, ok := l.held[key]; ok {
		return false
	}
	l.held[key] = struct{}{}
	return true
}

func (l *leases) release(projectID string, phase Phase) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, leaseKey{projectID: projectID, phase: phase})
}

// overlay marks in-flight stages on a loaded project. Completed stages keep
// their status while being regenerated; they are only listed in Generating.
func (l *leases) overlay(p *Project) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p.Generating = nil
	for _, phase := range Stages {
		if _, ok := l.held[leaseKey{projectID: p.ID, phase: phase}]; !ok {
			continue
		}
		p.Generating = append(p.Generating, phase)
		if st := p.State(phase); st.Status == StatusPending {
			st.Status = StatusInProgress
		}
	}
}
