package history

import (
	"encoding/json"
	"time"

	"divination-app/internal/domain/entitlement"
)

// Key is the history blob's key in the client key-value store.
const Key = "iching_history_v1"

// Max entries kept; older ones fall off the end.
const Max = 5

// Item is one past divination.
type Item struct {
	Timestamp    int64  `json:"timestamp"`
	N1           int    `json:"n1"`
	N2           int    `json:"n2"`
	N3           int    `json:"n3"`
	HexagramName string `json:"hexagramName"`
	ChangingLine int    `json:"changingLine"`
}

// List is the KV-backed history, newest first.
type List struct {
	kv    entitlement.KV
	items []Item
}

func NewList(kv entitlement.KV) *List {
	l := &List{kv: kv}
	raw, ok := kv.Get(Key)
	if !ok {
		return l
	}
	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		// A corrupt blob degrades to an empty history.
		return l
	}
	l.items = items
	return l
}

func (l *List) Items() []Item {
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

// Add prepends the item, trims to Max, and persists. The persisted blob is
// adopted in memory only after the write succeeded.
func (l *List) Add(item Item) error {
	if item.Timestamp == 0 {
		item.Timestamp = time.Now().UnixMilli()
	}
	next := append([]Item{item}, l.items...)
	if len(next) > Max {
		next = next[:Max]
	}
	raw, err := json.Marshal(next)
	if err != nil {
		return err
	}
	if err := l.kv.Set(Key, string(raw)); err != nil {
		return err
	}
	l.items = next
	return nil
}
