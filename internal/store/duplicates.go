package store

import (
	"fmt"

	"github.com/zaiko-app/zaikogo/internal/models"
)

// DuplicateGroup describes products sharing the same
// (product_name, manufacturer, dealer) tuple.
type DuplicateGroup struct {
	ProductName  string  `json:"product_name"`
	Manufacturer string  `json:"manufacturer"`
	Dealer       *string `json:"dealer"`
	Count        int     `json:"count"`
	ProductIDs   []uint  `json:"product_ids"`
}

type identityTuple struct {
	name         string
	manufacturer string
	dealer       string
	hasDealer    bool
}

// ListDuplicateGroups finds identity tuples held by more than one product.
// Grouping is done in memory to stay portable across Postgres and the sqlite
// test database.
func (s *Store) ListDuplicateGroups() ([]DuplicateGroup, error) {
	products, err := s.ListAll("")
	if err != nil {
		return nil, err
	}

	byTuple := map[identityTuple][]models.Product{}
	var order []identityTuple
	for _, p := range products {
		t := identityTuple{name: p.ProductName, manufacturer: p.Manufacturer}
		if p.Dealer != nil {
			t.dealer, t.hasDealer = *p.Dealer, true
		}
		if _, seen := byTuple[t]; !seen {
			order = append(order, t)
		}
		byTuple[t] = append(byTuple[t], p)
	}

	var groups []DuplicateGroup
	for _, t := range order {
		members := byTuple[t]
		if len(members) < 2 {
			continue
		}
		g := DuplicateGroup{
			ProductName:  t.name,
			Manufacturer: t.manufacturer,
			Count:        len(members),
		}
		if t.hasDealer {
			d := t.dealer
			g.Dealer = &d
		}
		for _, m := range members {
			g.ProductIDs = append(g.ProductIDs, m.ID)
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// CleanDuplicateGroups deletes every duplicate except the lowest-id member of
// each group, history included. Returns the number of products removed.
func (s *Store) CleanDuplicateGroups() (int64, error) {
	groups, err := s.ListDuplicateGroups()
	if err != nil {
		return 0, err
	}

	var doomed []uint
	for _, g := range groups {
		keep := g.ProductIDs[0]
		for _, id := range g.ProductIDs {
			if id < keep {
				keep = id
			}
		}
		for _, id := range g.ProductIDs {
			if id != keep {
				doomed = append(doomed, id)
			}
		}
	}
	if len(doomed) == 0 {
		return 0, nil
	}

	deleted, err := s.DeleteProducts(doomed)
	if err != nil {
		return 0, fmt.Errorf("clean duplicates: %w", err)
	}
	return deleted, nil
}
