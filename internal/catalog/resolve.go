package catalog

import (
	"context"
	"errors"
	"sort"

	"github.com/leapstack-labs/sqlfront/pkg/ast"
)

// Relations returns the distinct table names referenced by FROM clauses
// anywhere under node, sorted.
func Relations(node ast.Node) []string {
	seen := make(map[string]struct{})
	for _, sel := range ast.Inspect[*ast.Select](node) {
		if id, ok := sel.Relation.(*ast.Identifier); ok {
			seen[id.Name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolution reports which referenced tables are registered.
type Resolution struct {
	Found   []*ast.CreateTable
	Missing []string
}

// Resolve looks up every relation referenced by node.
func (s *Store) Resolve(ctx context.Context, node ast.Node) (*Resolution, error) {
	res := &Resolution{}
	for _, name := range Relations(node) {
		table, err := s.Get(ctx, name)
		switch {
		case errors.Is(err, ErrTableNotFound):
			res.Missing = append(res.Missing, name)
		case err != nil:
			return nil, err
		default:
			res.Found = append(res.Found, table)
		}
	}
	return res, nil
}
