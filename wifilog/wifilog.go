package wifilog

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultSize is the number of entries kept for the logs endpoint.
	DefaultSize = 500
	mask        = "********"
)

// secretFields are redacted from every entry before it is written or kept.
var secretFields = []string{"psk", "passphrase", "passcode", "password", "secret"}

type Entry struct {
	Session uuid.UUID              `json:"session"`
	Time    time.Time              `json:"time"`
	Level   string                 `json:"level"`
	Message string                 `json:"message"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

// WifiLog is a logrus hook that redacts secrets and keeps the most recent
// entries in memory.
type WifiLog struct {
	session uuid.UUID
	mu      sync.RWMutex
	entries []*Entry
	pos     int
	full    bool
}

var _ log.Hook = (*WifiLog)(nil)

func New() *WifiLog {
	return NewWithSize(DefaultSize)
}

func NewWithSize(size int) *WifiLog {
	if size <= 0 {
		size = DefaultSize
	}

	return &WifiLog{
		session: uuid.New(),
		entries: make([]*Entry, size),
	}
}

func (l *WifiLog) Levels() []log.Level {
	return log.AllLevels
}

func (l *WifiLog) Fire(entry *log.Entry) error {
	fields := make(map[string]interface{}, len(entry.Data))

	for key, value := range entry.Data {
		if isSecret(key) {
			entry.Data[key] = mask
			value = mask
		}

		if err, ok := value.(error); ok {
			value = err.Error()
		}

		fields[key] = value
	}

	if len(fields) == 0 {
		fields = nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[l.pos] = &Entry{
		Session: l.session,
		Time:    entry.Time,
		Level:   entry.Level.String(),
		Message: entry.Message,
		Fields:  fields,
	}

	l.pos = (l.pos + 1) % len(l.entries)
	if l.pos == 0 {
		l.full = true
	}

	return nil
}

// Session identifies the current process run.
func (l *WifiLog) Session() uuid.UUID {
	return l.session
}

// Entries returns up to limit of the most recent entries, oldest first. A
// limit of zero returns everything kept.
func (l *WifiLog) Entries(limit int) []*Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var entries []*Entry
	if l.full {
		entries = make([]*Entry, 0, len(l.entries))
		entries = append(entries, l.entries[l.pos:]...)
		entries = append(entries, l.entries[:l.pos]...)
	} else {
		entries = make([]*Entry, l.pos)
		copy(entries, l.entries[:l.pos])
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	return entries
}

func isSecret(key string) bool {
	key = strings.ToLower(key)

	for _, field := range secretFields {
		if strings.Contains(key, field) {
			return true
		}
	}

	return false
}
