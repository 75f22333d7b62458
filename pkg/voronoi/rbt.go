package voronoi

// rbt is a red-black tree whose nodes are also chained in order through
// previous/next. The beach line and the circle event queue both live in one.
type rbt struct {
	root *rbtNode
}

type rbtNodeValue interface {
	bindToNode(node *rbtNode)
	Node() *rbtNode
}

type rbtNode struct {
	value    rbtNodeValue
	left     *rbtNode
	right    *rbtNode
	parent   *rbtNode
	previous *rbtNode
	next     *rbtNode
	red      bool
}

func isRed(n *rbtNode) bool {
	return n != nil && n.red
}

// insertSuccessor puts value right after node in order. A nil node inserts at the front.
func (t *rbt) insertSuccessor(node *rbtNode, value rbtNodeValue) {
	successor := &rbtNode{value: value, red: true}
	value.bindToNode(successor)

	var parent *rbtNode
	switch {
	case node != nil:
		successor.previous = node
		successor.next = node.next
		if node.next != nil {
			node.next.previous = successor
		}
		node.next = successor
		if node.right != nil {
			parent = t.getFirst(node.right)
			parent.left = successor
		} else {
			node.right = successor
			parent = node
		}
	case t.root != nil:
		first := t.getFirst(t.root)
		successor.next = first
		first.previous = successor
		first.left = successor
		parent = first
	default:
		t.root = successor
	}

	successor.parent = parent
	t.fixInsert(successor)
}

func (t *rbt) fixInsert(node *rbtNode) {
	parent := node.parent
	for parent != nil && parent.red {
		grandpa := parent.parent
		if parent == grandpa.left {
			uncle := grandpa.right
			if isRed(uncle) {
				parent.red = false
				uncle.red = false
				grandpa.red = true
				node = grandpa
			} else {
				if node == parent.right {
					t.rotateLeft(parent)
					node = parent
					parent = node.parent
				}
				parent.red = false
				grandpa.red = true
				t.rotateRight(grandpa)
			}
		} else {
			uncle := grandpa.left
			if isRed(uncle) {
				parent.red = false
				uncle.red = false
				grandpa.red = true
				node = grandpa
			} else {
				if node == parent.left {
					t.rotateRight(parent)
					node = parent
					parent = node.parent
				}
				parent.red = false
				grandpa.red = true
				t.rotateLeft(grandpa)
			}
		}
		parent = node.parent
	}
	t.root.red = false
}

func (t *rbt) removeNode(node *rbtNode) {
	if node.next != nil {
		node.next.previous = node.previous
	}
	if node.previous != nil {
		node.previous.next = node.next
	}
	node.next = nil
	node.previous = nil

	parent := node.parent
	left := node.left
	right := node.right

	var next *rbtNode
	switch {
	case left == nil:
		next = right
	case right == nil:
		next = left
	default:
		next = t.getFirst(right)
	}

	if parent != nil {
		if parent.left == node {
			parent.left = next
		} else {
			parent.right = next
		}
	} else {
		t.root = next
	}

	var removedRed bool
	if left != nil && right != nil {
		removedRed = next.red
		next.red = node.red
		next.left = left
		left.parent = next
		if next != right {
			parent = next.parent
			next.parent = node.parent
			node = next.right
			parent.left = node
			next.right = right
			right.parent = next
		} else {
			next.parent = parent
			parent = next
			node = next.right
		}
	} else {
		removedRed = node.red
		node = next
	}

	if node != nil {
		node.parent = parent
	}
	if removedRed {
		return
	}
	if isRed(node) {
		node.red = false
		return
	}
	t.fixRemove(node, parent)
}

// fixRemove restores the black height after a black node was unlinked above node.
func (t *rbt) fixRemove(node, parent *rbtNode) {
	for node != t.root {
		var sibling *rbtNode
		if node == parent.left {
			sibling = parent.right
			if sibling.red {
				sibling.red = false
				parent.red = true
				t.rotateLeft(parent)
				sibling = parent.right
			}
			if isRed(sibling.left) || isRed(sibling.right) {
				if !isRed(sibling.right) {
					sibling.left.red = false
					sibling.red = true
					t.rotateRight(sibling)
					sibling = parent.right
				}
				sibling.red = parent.red
				parent.red = false
				sibling.right.red = false
				t.rotateLeft(parent)
				node = t.root
				break
			}
		} else {
			sibling = parent.left
			if sibling.red {
				sibling.red = false
				parent.red = true
				t.rotateRight(parent)
				sibling = parent.left
			}
			if isRed(sibling.left) || isRed(sibling.right) {
				if !isRed(sibling.left) {
					sibling.right.red = false
					sibling.red = true
					t.rotateLeft(sibling)
					sibling = parent.left
				}
				sibling.red = parent.red
				parent.red = false
				sibling.left.red = false
				t.rotateRight(parent)
				node = t.root
				break
			}
		}
		sibling.red = true
		node = parent
		parent = parent.parent
		if node.red {
			break
		}
	}
	if node != nil {
		node.red = false
	}
}

func (t *rbt) rotateLeft(p *rbtNode) {
	q := p.right
	t.replaceChild(p, q)
	p.parent = q
	p.right = q.left
	if p.right != nil {
		p.right.parent = p
	}
	q.left = p
}

func (t *rbt) rotateRight(p *rbtNode) {
	q := p.left
	t.replaceChild(p, q)
	p.parent = q
	p.left = q.right
	if p.left != nil {
		p.left.parent = p
	}
	q.right = p
}

// replaceChild hangs q where p used to be.
func (t *rbt) replaceChild(p, q *rbtNode) {
	parent := p.parent
	if parent != nil {
		if parent.left == p {
			parent.left = q
		} else {
			parent.right = q
		}
	} else {
		t.root = q
	}
	q.parent = parent
}

func (t *rbt) getFirst(node *rbtNode) *rbtNode {
	for node.left != nil {
		node = node.left
	}
	return node
}
