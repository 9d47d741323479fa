package server

import (
	"log"
	"sync"

	"github.com/chimed/chimed/common"
)

// Pool is the set of IPC connections attached to the alert event feed.
// Lifecycle events are broadcast to every attached connection; connections
// that fail to receive are dropped from the pool.
type Pool struct {
	mu   sync.RWMutex
	subs map[*SyncConn]struct{}
	log  *log.Logger
}

func NewPool(l *log.Logger) *Pool {
	return &Pool{
		subs: make(map[*SyncConn]struct{}),
		log:  l,
	}
}

// Attach subscribes the connection to the event feed.
func (p *Pool) Attach(sconn *SyncConn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs[sconn] = struct{}{}
}

// Detach removes the connection from the event feed.
func (p *Pool) Detach(sconn *SyncConn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.subs, sconn)
}

// Count returns the number of attached connections.
func (p *Pool) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subs)
}

// Broadcast pushes an alert lifecycle event to every attached connection.
func (p *Pool) Broadcast(ev *common.AlertEvent) {
	data := MakeResult(common.UPDATE_EVENT, ev)

	p.mu.RLock()
	conns := make([]*SyncConn, 0, len(p.subs))
	for sconn := range p.subs {
		conns = append(conns, sconn)
	}
	p.mu.RUnlock()

	var failed []*SyncConn
	for _, sconn := range conns {
		if err := sconn.Write(data); err != nil {
			if p.log != nil {
				p.log.Printf("Error broadcasting event: %v", err)
			}
			failed = append(failed, sconn)
		}
	}

	if len(failed) > 0 {
		p.mu.Lock()
		for _, sconn := range failed {
			delete(p.subs, sconn)
		}
		p.mu.Unlock()
	}
}
