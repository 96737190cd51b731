package services

import (
	"context"
	"fmt"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/database/repositories"
	"github.com/sahilm/fuzzy"
)

// fragmentSearchItems implements fuzzy.Source over fragment key + title.
type fragmentSearchItems []*models.Fragment

func (items fragmentSearchItems) Len() int {
	return len(items)
}

func (items fragmentSearchItems) String(i int) string {
	return fmt.Sprintf("%s %s", items[i].FragmentKey, items[i].Title)
}

// FragmentSearchService finds fragments by fuzzy-matching keys and titles.
// Used by admin tooling, not on the story hot path.
type FragmentSearchService struct {
	graph repositories.GraphRepository
}

func NewFragmentSearchService(graph repositories.GraphRepository) *FragmentSearchService {
	return &FragmentSearchService{graph: graph}
}

// Search scans all active chapters and returns fragments ranked by match
// quality, best first.
func (s *FragmentSearchService) Search(ctx context.Context, query string, limit int) ([]*models.Fragment, error) {
	chapters, err := s.graph.ActiveChapters(ctx)
	if err != nil {
		return nil, err
	}

	var items fragmentSearchItems
	for _, chapter := range chapters {
		fragments, err := s.graph.FragmentsByChapter(ctx, chapter.ID)
		if err != nil {
			return nil, err
		}
		for _, f := range fragments {
			if f.Active {
				items = append(items, f)
			}
		}
	}

	if query == "" {
		if limit > 0 && len(items) > limit {
			items = items[:limit]
		}
		return items, nil
	}

	matches := fuzzy.FindFrom(query, items)
	var out []*models.Fragment
	for _, m := range matches {
		out = append(out, items[m.Index])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
