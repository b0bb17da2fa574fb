// Package catalogfs loads topic catalogs from JSON files on disk.
package catalogfs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bobmcallan/finbot/internal/common"
	"github.com/bobmcallan/finbot/internal/interfaces"
	"github.com/bobmcallan/finbot/internal/models"
)

// legacyTopicsKey is the root key of the keyed catalog layout.
const legacyTopicsKey = "topics"

// Store implements interfaces.ContentStore over the local filesystem.
type Store struct {
	logger *common.Logger
}

// NewStore creates a catalog file store.
func NewStore(logger *common.Logger) *Store {
	return &Store{logger: logger}
}

// Load reads and normalizes a catalog file. A missing file yields an empty
// catalog; an unreadable or malformed one yields an empty catalog and an error.
func (s *Store) Load(path string) (models.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug().Str("path", path).Msg("Catalog file not found, using empty catalog")
			return models.Catalog{}, nil
		}
		return models.Catalog{}, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	catalog, err := Parse(data)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	s.logger.Debug().Str("path", path).Int("topics", len(catalog)).Msg("Catalog loaded")
	return catalog, nil
}

// Parse normalizes catalog JSON. It accepts an array of records or the
// legacy {"topics": {<key>: <record>}} object, where each key becomes the
// record's topic when the record has none. Keys keep document order. Any
// other well-formed JSON value yields an empty catalog.
func Parse(data []byte) (models.Catalog, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return models.Catalog{}, fmt.Errorf("empty catalog document")
	}

	switch trimmed[0] {
	case '[':
		return parseList(trimmed)
	case '{':
		return parseLegacy(trimmed)
	default:
		if !json.Valid(trimmed) {
			return models.Catalog{}, fmt.Errorf("invalid JSON")
		}
		return models.Catalog{}, nil
	}
}

// parseList decodes an array of records, skipping elements that are not objects.
func parseList(data []byte) (models.Catalog, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return models.Catalog{}, err
	}

	catalog := make(models.Catalog, 0, len(entries))
	for _, raw := range entries {
		if !isObject(raw) {
			continue
		}
		var rec models.TopicRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return models.Catalog{}, err
		}
		catalog = append(catalog, rec)
	}
	return catalog, nil
}

// parseLegacy decodes the keyed layout.
func parseLegacy(data []byte) (models.Catalog, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return models.Catalog{}, err
	}

	topics, ok := root[legacyTopicsKey]
	if !ok {
		return models.Catalog{}, nil
	}
	if !isObject(topics) {
		return models.Catalog{}, fmt.Errorf("%q must be an object", legacyTopicsKey)
	}

	dec := json.NewDecoder(bytes.NewReader(topics))
	if _, err := dec.Token(); err != nil {
		return models.Catalog{}, err
	}

	catalog := models.Catalog{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return models.Catalog{}, err
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return models.Catalog{}, err
		}
		if !isObject(raw) {
			return models.Catalog{}, fmt.Errorf("topic %q must be an object", key)
		}

		var rec models.TopicRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return models.Catalog{}, fmt.Errorf("topic %q: %w", key, err)
		}
		if !rec.HasTopicField() {
			rec.SetTopic(key)
		}
		catalog = append(catalog, rec)
	}
	return catalog, nil
}

func isObject(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '{'
}

var _ interfaces.ContentStore = (*Store)(nil)
