package award

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Record is one issued ticket, kept for audit. Nothing here is ever redeemed or validated.
type Record struct {
	SessionID  string    `json:"sessionId"`
	Code       string    `json:"code"`
	CodePrefix string    `json:"codePrefix"`
	PrizeName  string    `json:"prizeName"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Variant    string    `json:"variant"`
	AwardedAt  time.Time `json:"awardedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// Ledger appends award records to data/awards.json.
type Ledger struct {
	mu      sync.Mutex
	dataDir string
}

func NewLedger(dataDir string) *Ledger {
	if dataDir == "" {
		dataDir = "data"
	}
	return &Ledger{dataDir: dataDir}
}

func (l *Ledger) path() string {
	return filepath.Join(l.dataDir, "awards.json")
}

func (l *Ledger) readLocked() ([]*Record, error) {
	data, err := os.ReadFile(l.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var list []*Record
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Append adds r to the end of the ledger file.
func (l *Ledger) Append(r *Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := os.MkdirAll(l.dataDir, 0755); err != nil {
		return err
	}
	list, err := l.readLocked()
	if err != nil {
		// Keep the unreadable history for inspection and start a fresh list.
		aside := fmt.Sprintf("%s.corrupt-%s", l.path(), time.Now().UTC().Format("20060102T150405.000"))
		if rerr := os.Rename(l.path(), aside); rerr != nil {
			return fmt.Errorf("move aside unreadable ledger: %w", rerr)
		}
		log.WithError(err).WithField("moved_to", aside).Warn("Award ledger unreadable, starting a new one")
		list = nil
	}
	list = append(list, r)
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(l.path(), data, 0644)
}

// GetByCode returns the most recent record for code, or nil when absent.
func (l *Ledger) GetByCode(code string) (*Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	list, err := l.readLocked()
	if err != nil {
		return nil, err
	}
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Code == code {
			return list[i], nil
		}
	}
	return nil, nil
}

// Count returns the number of records per code prefix.
func (l *Ledger) Count() (map[string]int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	list, err := l.readLocked()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int)
	for _, r := range list {
		out[r.CodePrefix]++
	}
	return out, nil
}
