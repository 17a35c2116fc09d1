package maskcache

// lruNode is a node in a doubly-linked LRU list. The node stores its key
// for O(1) deletion from the parent map.
type lruNode struct {
	key  string
	prev *lruNode
	next *lruNode
}

// lruList is a doubly-linked list for LRU eviction: head is the most
// recently used, tail the least. Not thread-safe; the owning shard locks.
type lruList struct {
	head *lruNode
	tail *lruNode
	len  int
}

func newLRUList() *lruList {
	return &lruList{}
}

// pushFront adds a new node at the front and returns it.
func (l *lruList) pushFront(key string) *lruNode {
	node := &lruNode{key: key}
	if l.head == nil {
		l.head = node
		l.tail = node
	} else {
		node.next = l.head
		l.head.prev = node
		l.head = node
	}
	l.len++
	return node
}

// moveToFront marks an existing node as most recently used.
func (l *lruList) moveToFront(node *lruNode) {
	if node == nil || node == l.head {
		return
	}
	l.unlink(node)

	node.prev = nil
	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
	l.len++
}

// remove unlinks a node from the list.
func (l *lruList) remove(node *lruNode) {
	if node == nil {
		return
	}
	l.unlink(node)
}

// removeOldest removes and returns the key of the least recently used node.
func (l *lruList) removeOldest() (string, bool) {
	if l.tail == nil {
		return "", false
	}
	node := l.tail
	l.unlink(node)
	return node.key, true
}

func (l *lruList) unlink(node *lruNode) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev = nil
	node.next = nil
	l.len--
}
