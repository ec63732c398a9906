package model

import "sort"

// SortBySize sorts nodes by total size descending, then by name ascending
func SortBySize(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		si, sj := nodes[i].TotalSize(), nodes[j].TotalSize()
		if si != sj {
			return si > sj
		}
		return nodes[i].Name < nodes[j].Name
	})
}

// SortTree sorts every folder's children with SortBySize
func SortTree(n *Node) {
	if n == nil || len(n.Children) == 0 {
		return
	}
	SortBySize(n.Children)
	for _, c := range n.Children {
		SortTree(c)
	}
}

// Walk visits n and its descendants in pre-order, stopping early when fn returns false
func Walk(n *Node, fn func(n *Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n, depth) {
		return false
	}
	for _, c := range n.Children {
		if !walk(c, depth+1, fn) {
			return false
		}
	}
	return true
}
