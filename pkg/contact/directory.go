package contact

import (
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/wasex/go-whatsapp-sender-console/pkg/log"
	"github.com/wasex/go-whatsapp-sender-console/pkg/validation"
	pkgWhatsApp "github.com/wasex/go-whatsapp-sender-console/pkg/whatsapp"
)

// Directory owns the in-memory contact map and its persisted snapshot.
// Every mutation goes through it and is flushed to the Store; a failing
// flush is logged and the directory keeps serving from memory.
type Directory struct {
	mu       sync.RWMutex
	contacts map[string]*Contact
	store    Store
	now      func() time.Time
}

func NewDirectory(store Store) *Directory {
	return &Directory{
		contacts: make(map[string]*Contact),
		store:    store,
		now:      time.Now,
	}
}

// Load replaces the in-memory map with the persisted snapshot. Called
// once at startup; a missing snapshot is not an error.
func (d *Directory) Load() error {
	saved, err := d.store.Load()
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.contacts = make(map[string]*Contact, len(saved))
	for i := range saved {
		c := saved[i]
		d.contacts[c.ID] = &c
	}
	return nil
}

// Merge ingests a contact sighting from any sync source. Non-personal
// addresses (groups, broadcasts, system) are rejected. A real incoming
// name upgrades a placeholder, never the other way around. Returns
// whether anything changed; repeating the same merge is a no-op.
func (d *Directory) Merge(rawID, rawName string) bool {
	if rawID == "" || !isUserAddress(rawID) {
		return false
	}

	phone := phoneFromAddress(rawID)
	displayName := rawName
	if displayName == "" {
		displayName = phone
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	existing, ok := d.contacts[rawID]
	if !ok {
		d.contacts[rawID] = &Contact{ID: rawID, Phone: phone, Name: displayName}
		d.persistLocked()
		return true
	}
	if displayName != phone && existing.HasPlaceholderName() {
		existing.Name = displayName
		d.persistLocked()
		return true
	}
	return false
}

// MarkUsed bumps usage accounting after a confirmed send. Unknown IDs
// are logged and ignored.
func (d *Directory) MarkUsed(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.contacts[id]
	if !ok {
		log.Print(nil).WithField("id", id).Warn("Cannot mark unknown contact as used")
		return
	}
	c.UseCount++
	c.LastUsed = d.now().UnixMilli()
	d.persistLocked()
}

// List returns every contact, most frequently messaged first, then
// alphabetical. Contacts with zero usage always sort after any contact
// with usage, and alphabetically among themselves.
func (d *Directory) List() []Contact {
	d.mu.RLock()
	result := make([]Contact, 0, len(d.contacts))
	for _, c := range d.contacts {
		result = append(result, *c)
	}
	d.mu.RUnlock()

	sortRanked(result)
	return result
}

// Search filters List by case-insensitive substring match on name or phone.
func (d *Directory) Search(query string) []Contact {
	q := strings.ToLower(query)
	all := d.List()
	result := make([]Contact, 0, len(all))
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(c.Phone, q) {
			result = append(result, c)
		}
	}
	return result
}

// AddManual creates or overwrites an entry from operator input. The
// phone is normalized to its canonical address and usage is reset.
func (d *Directory) AddManual(phone, name string) {
	id := pkgWhatsApp.NormalizeJID(phone)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.contacts[id] = &Contact{ID: id, Phone: phoneFromAddress(id), Name: name}
	d.persistLocked()
}

// Clear empties the directory and persists the empty snapshot.
func (d *Directory) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.contacts = make(map[string]*Contact)
	d.persistLocked()
}

// FindByPhone returns the best-ranked contact whose phone contains the
// punctuation-stripped query.
func (d *Directory) FindByPhone(query string) (Contact, bool) {
	q := validation.StripPhonePunctuation(query)
	for _, c := range d.List() {
		if strings.Contains(c.Phone, q) {
			return c, true
		}
	}
	return Contact{}, false
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.contacts)
}

// persistLocked flushes the snapshot while holding the write lock, so a
// racing mutation can never interleave between change and save.
func (d *Directory) persistLocked() {
	snapshot := make([]Contact, 0, len(d.contacts))
	for _, c := range d.contacts {
		snapshot = append(snapshot, *c)
	}
	sortRanked(snapshot)
	if err := d.store.Save(snapshot); err != nil {
		log.Print(nil).WithError(err).Error("Failed to persist contact directory, continuing in-memory only")
	}
}

func sortRanked(contacts []Contact) {
	collator := collate.New(language.Spanish, collate.IgnoreCase)
	sort.SliceStable(contacts, func(i, j int) bool {
		a, b := contacts[i], contacts[j]
		if a.UseCount > 0 || b.UseCount > 0 {
			if a.UseCount != b.UseCount {
				return a.UseCount > b.UseCount
			}
		}
		return collator.CompareString(a.Name, b.Name) < 0
	})
}
