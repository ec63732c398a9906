package model

// Store indexes a loaded tree by node id.
// Ids are dense and assigned in pre-order, so the root is always id 0.
// Parent links live in a side table instead of on the nodes.
type Store struct {
	nodes   []*Node
	parents []int
}

// NewStore assigns ids to every node under root and builds the parent table
func NewStore(root *Node) *Store {
	s := &Store{}
	if root == nil {
		return s
	}
	s.add(root, NoID)
	return s
}

func (s *Store) add(n *Node, parent int) {
	n.ID = len(s.nodes)
	s.nodes = append(s.nodes, n)
	s.parents = append(s.parents, parent)
	for _, c := range n.Children {
		s.add(c, n.ID)
	}
}

// Root returns the root node, or nil for an empty store
func (s *Store) Root() *Node {
	if len(s.nodes) == 0 {
		return nil
	}
	return s.nodes[0]
}

// Len returns the number of nodes
func (s *Store) Len() int {
	return len(s.nodes)
}

// Get returns the node with the given id
func (s *Store) Get(id int) (*Node, bool) {
	if id < 0 || id >= len(s.nodes) {
		return nil, false
	}
	return s.nodes[id], true
}

// Parent returns the parent id of id, or NoID for the root and unknown ids
func (s *Store) Parent(id int) int {
	if id < 0 || id >= len(s.parents) {
		return NoID
	}
	return s.parents[id]
}

// Counts returns the number of files and folders in the store, excluding free space
func (s *Store) Counts() (files, dirs int) {
	for _, n := range s.nodes {
		switch {
		case n.IsFreeSpace:
		case n.IsFolder:
			dirs++
		default:
			files++
		}
	}
	return files, dirs
}
