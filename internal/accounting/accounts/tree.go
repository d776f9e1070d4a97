package accounts

import (
	"errors"
	"fmt"
	"sort"

	"github.com/meridian-erp/meridian-erp/internal/money"
)

var (
	// ErrCycleDetected indicates an account's parent chain revisits itself.
	ErrCycleDetected = errors.New("accounts: parent cycle detected")
	// ErrOrphanParent indicates a parent_id referencing a missing account.
	ErrOrphanParent = errors.New("accounts: parent account does not exist")
	// ErrDuplicateID indicates two accounts sharing an id.
	ErrDuplicateID = errors.New("accounts: duplicate account id")
	// ErrAccountNotFound indicates a lookup for an unknown account.
	ErrAccountNotFound = errors.New("accounts: account not found")
)

// Node is one account with its children, ordered by code.
type Node struct {
	Account
	Children []*Node
}

// Tree is the validated chart of accounts forest.
type Tree struct {
	Roots []*Node
	index map[int64]*Node
}

// BuildTree links a flat account list into a forest. It fails with
// ErrOrphanParent when a parent reference dangles and ErrCycleDetected
// when any parent chain loops.
func BuildTree(list []Account) (*Tree, error) {
	index := make(map[int64]*Node, len(list))
	for _, acc := range list {
		if _, exists := index[acc.ID]; exists {
			return nil, fmt.Errorf("%w: id %d", ErrDuplicateID, acc.ID)
		}
		index[acc.ID] = &Node{Account: acc}
	}

	for _, acc := range list {
		if acc.ParentID == nil {
			continue
		}
		if _, ok := index[*acc.ParentID]; !ok {
			return nil, fmt.Errorf("%w: account %s references parent %d", ErrOrphanParent, acc.Code, *acc.ParentID)
		}
	}

	// Walk every parent chain; a chain longer than the account count can
	// only mean a loop.
	for _, acc := range list {
		seen := map[int64]bool{acc.ID: true}
		parent := acc.ParentID
		for parent != nil {
			if seen[*parent] {
				return nil, fmt.Errorf("%w: via account %s", ErrCycleDetected, acc.Code)
			}
			seen[*parent] = true
			parent = index[*parent].ParentID
		}
	}

	tree := &Tree{index: index}
	for _, acc := range list {
		node := index[acc.ID]
		if acc.ParentID == nil {
			tree.Roots = append(tree.Roots, node)
			continue
		}
		parent := index[*acc.ParentID]
		parent.Children = append(parent.Children, node)
	}

	sortNodes(tree.Roots)
	for _, node := range index {
		sortNodes(node.Children)
	}
	return tree, nil
}

func sortNodes(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Code < nodes[j].Code })
}

// Lookup returns the node for an account id.
func (t *Tree) Lookup(id int64) (*Node, error) {
	node, ok := t.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrAccountNotFound, id)
	}
	return node, nil
}

// Walk visits every node of the forest in code order, parents before
// children.
func (t *Tree) Walk(visit func(*Node)) {
	var walk func(*Node)
	walk = func(n *Node) {
		visit(n)
		for _, child := range n.Children {
			walk(child)
		}
	}
	for _, root := range t.Roots {
		walk(root)
	}
}

// RollupBalance sums a node's own posted leaf balance with the rollup of
// every descendant, bottom-up. Accounts absent from leafBalances
// contribute zero.
func (t *Tree) RollupBalance(id int64, leafBalances map[int64]money.Money) (money.Money, error) {
	node, err := t.Lookup(id)
	if err != nil {
		return money.Zero(), err
	}
	return rollup(node, leafBalances), nil
}

func rollup(node *Node, leafBalances map[int64]money.Money) money.Money {
	total := leafBalances[node.ID]
	for _, child := range node.Children {
		total = total.Add(rollup(child, leafBalances))
	}
	return total
}
