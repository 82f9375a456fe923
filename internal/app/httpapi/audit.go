package httpapi

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// auditEntry records one admin action: who did it, what entity it touched
// and what the decision was, plus enough request context to trace it back.
type auditEntry struct {
	Time       time.Time `json:"time"`
	Actor      string    `json:"actor"`
	Kind       string    `json:"kind"`
	Entity     string    `json:"entity"`
	EntityID   string    `json:"entity_id,omitempty"`
	Action     string    `json:"action"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Status     int       `json:"status"`
	RemoteAddr string    `json:"remote_addr,omitempty"`
}

// classifyAdminAction turns the /admin/... path segments into the entity,
// entity ID and action an operator would search the trail for. Route verbs
// (approve, reject, resolve, adjust, ...) win over the HTTP method.
func classifyAdminAction(method string, parts []string) (entity, entityID, action string) {
	if len(parts) == 0 {
		return "", "", ""
	}
	entity = parts[0]
	rest := parts[1:]

	// Catalog routes nest one level deeper: /admin/catalog/packages/{id}.
	if entity == "catalog" && len(rest) > 0 {
		entity = "catalog/" + rest[0]
		rest = rest[1:]
	}

	for _, seg := range rest {
		switch seg {
		case "approve", "reject", "resolve", "adjust", "stats", "dashboard", "tree", "summary":
			action = seg
		default:
			if entityID == "" {
				entityID = seg
			}
		}
	}
	if action != "" {
		return entity, entityID, action
	}

	switch method {
	case "GET":
		if entityID == "" {
			action = "list"
		} else {
			action = "view"
		}
	case "POST":
		action = "create"
	case "PATCH", "PUT":
		action = "update"
	case "DELETE":
		action = "delete"
	default:
		action = "other"
	}
	return entity, entityID, action
}

// auditLog keeps the most recent entries in a fixed-size ring and mirrors
// every entry to an optional sink for durable storage.
type auditLog struct {
	mu    sync.Mutex
	ring  []auditEntry
	next  int
	count int
	sink  auditSink
}

type auditSink interface {
	Write(entry auditEntry) error
}

func newAuditLog(max int, sink auditSink) *auditLog {
	if max <= 0 {
		max = 200
	}
	return &auditLog{ring: make([]auditEntry, max), sink: sink}
}

func (l *auditLog) add(entry auditEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ring[l.next] = entry
	l.next = (l.next + 1) % len(l.ring)
	if l.count < len(l.ring) {
		l.count++
	}
	if l.sink != nil {
		// Sink failures must not disturb the request that is being audited.
		_ = l.sink.Write(entry)
	}
}

// listLimit returns up to limit entries, oldest first.
func (l *auditLog) listLimit(limit int) []auditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if limit <= 0 || limit > l.count {
		limit = l.count
	}
	out := make([]auditEntry, 0, limit)
	start := l.next - limit
	if start < 0 {
		start += len(l.ring)
	}
	for i := 0; i < limit; i++ {
		out = append(out, l.ring[(start+i)%len(l.ring)])
	}
	return out
}

// fileAuditSink appends entries to a JSONL file shared across requests.
type fileAuditSink struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

func newFileAuditSink(path string) (*fileAuditSink, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, err
	}
	return &fileAuditSink{file: f, enc: json.NewEncoder(f)}, nil
}

func (s *fileAuditSink) Write(entry auditEntry) error {
	if s == nil || s.file == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(entry)
}
