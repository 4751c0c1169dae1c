package history

import (
	"encoding/json"
	"strings"
	"sync"

	apperrors "github.com/gdelafosse/seerrbridge/internal/errors"
	"github.com/gdelafosse/seerrbridge/internal/logger"
	"github.com/gdelafosse/seerrbridge/internal/models"
	"github.com/gdelafosse/seerrbridge/internal/settings"
)

const maxEntries = 10

type entry struct {
	Query string `json:"query"`
}

// History keeps the most recent search queries, newest first, capped
// at ten entries. All mutations are serialized so concurrent searches
// cannot interleave a read-modify-write.
type History struct {
	store  settings.Store
	logger *logger.Logger
	mu     sync.Mutex
}

// New creates a search history backed by the given settings store
func New(store settings.Store) *History {
	return &History{
		store:  store,
		logger: logger.AppLogger(),
	}
}

// Record adds a query to the front of the history. A blank query is
// ignored. A query already present is moved to the front instead of
// being duplicated, and the list is trimmed to the cap.
func (h *History) Record(query string) error {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	entries := h.load()

	updated := make([]entry, 0, len(entries)+1)
	updated = append(updated, entry{Query: query})
	for _, e := range entries {
		if e.Query == query {
			continue
		}
		updated = append(updated, e)
	}
	if len(updated) > maxEntries {
		updated = updated[:maxEntries]
	}

	return h.save(updated)
}

// List returns the stored queries, most recent first. Missing or
// unreadable state yields an empty list rather than an error.
func (h *History) List() ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := h.load()
	queries := make([]string, 0, len(entries))
	for _, e := range entries {
		queries = append(queries, e.Query)
	}
	return queries, nil
}

// Clear removes the whole search history
func (h *History) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.store.Delete(models.KeySearchHistory); err != nil && !apperrors.IsNotFound(err) {
		return err
	}
	return nil
}

func (h *History) load() []entry {
	raw, err := h.store.Get(models.KeySearchHistory)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			h.logger.WithField("error", err.Error()).Warn("failed to load search history")
		}
		return nil
	}

	var entries []entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		h.logger.WithField("error", err.Error()).Warn("discarding corrupt search history")
		return nil
	}
	return entries
}

func (h *History) save(entries []entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to encode search history")
	}
	return h.store.Set(models.KeySearchHistory, string(data))
}
