package storage

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/mrbooshehri/folio/internal/transform"
)

// SearchIndex is the persisted search index
type SearchIndex struct {
	BuiltAt time.Time                   `json:"builtAt"`
	Items   []transform.SearchIndexItem `json:"items"`
}

// IndexStats summarizes a search index
type IndexStats struct {
	Entries       int            `json:"entries"`
	BuiltAt       time.Time      `json:"builtAt"`
	Stale         bool           `json:"stale"`
	AverageWeight float64        `json:"averageWeight"`
	ByCategory    map[string]int `json:"byCategory"`
	ByStatus      map[string]int `json:"byStatus"`
}

// LoadIndex loads the search index from disk
func (s *Storage) LoadIndex() (*SearchIndex, error) {
	var idx SearchIndex
	if err := readJSONFile(s.indexFile, &idx); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("search index: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read search index: %w", err)
	}
	return &idx, nil
}

// SaveIndex saves the search index to disk
func (s *Storage) SaveIndex(items []transform.SearchIndexItem) error {
	idx := SearchIndex{BuiltAt: time.Now().UTC(), Items: items}
	if idx.Items == nil {
		idx.Items = []transform.SearchIndexItem{}
	}
	return writeJSONFile(s.indexFile, idx)
}

// IsIndexStale checks if the index needs rebuilding: it is missing, or a
// data file changed after it was written
func (s *Storage) IsIndexStale() (bool, error) {
	indexInfo, err := os.Stat(s.indexFile)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil // Index doesn't exist
		}
		return false, err
	}

	indexModTime := indexInfo.ModTime()

	files, err := s.ListDataFiles()
	if err != nil {
		return false, err
	}

	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		if info.ModTime().After(indexModTime) {
			return true, nil
		}
	}

	return false, nil
}

// EnsureIndexFresh rebuilds the index with build if it's stale. It
// reports whether a rebuild happened.
func (s *Storage) EnsureIndexFresh(build func() ([]transform.SearchIndexItem, error)) (bool, error) {
	stale, err := s.IsIndexStale()
	if err != nil {
		return false, err
	}
	if !stale {
		return false, nil
	}

	items, err := build()
	if err != nil {
		return false, fmt.Errorf("failed to build search index: %w", err)
	}
	return true, s.SaveIndex(items)
}

// IndexStats returns statistics about the persisted index
func (s *Storage) IndexStats() (IndexStats, error) {
	idx, err := s.LoadIndex()
	if err != nil {
		return IndexStats{}, err
	}
	stale, err := s.IsIndexStale()
	if err != nil {
		return IndexStats{}, err
	}

	stats := idx.Stats()
	stats.Stale = stale
	return stats, nil
}

// Stats computes counts and average weight
func (idx *SearchIndex) Stats() IndexStats {
	stats := IndexStats{
		Entries:    len(idx.Items),
		BuiltAt:    idx.BuiltAt,
		ByCategory: make(map[string]int),
		ByStatus:   make(map[string]int),
	}

	total := 0.0
	for _, item := range idx.Items {
		stats.ByCategory[string(item.Category)]++
		stats.ByStatus[string(item.Status)]++
		total += item.Weight
	}
	if len(idx.Items) > 0 {
		stats.AverageWeight = total / float64(len(idx.Items))
	}
	return stats
}

// Search returns items whose text or keywords contain every query term,
// heaviest first
func (idx *SearchIndex) Search(q string) []transform.SearchIndexItem {
	terms := strings.Fields(strings.ToLower(q))
	out := make([]transform.SearchIndexItem, 0, len(idx.Items))

	for _, item := range idx.Items {
		if matchesAll(item, terms) {
			out = append(out, item)
		}
	}

	slices.SortStableFunc(out, func(a, b transform.SearchIndexItem) int {
		switch {
		case a.Weight > b.Weight:
			return -1
		case a.Weight < b.Weight:
			return 1
		}
		return 0
	})
	return out
}

func matchesAll(item transform.SearchIndexItem, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(item.Text, term) {
			continue
		}
		if !slices.ContainsFunc(item.Keywords, func(k string) bool { return strings.Contains(k, term) }) {
			return false
		}
	}
	return true
}
