package flatfs

import "sync"

// rootInode is reserved for the mount's root directory.
const rootInode = 1

// inodeTable hands out stable inode numbers per filename for the lifetime
// of a mount.
type inodeTable struct {
	mu     sync.Mutex
	next   uint64
	byName map[string]uint64
}

func newInodeTable() *inodeTable {
	return &inodeTable{next: rootInode, byName: make(map[string]uint64)}
}

func (t *inodeTable) get(name string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ino, ok := t.byName[name]; ok {
		return ino
	}
	t.next++
	t.byName[name] = t.next
	return t.next
}

func (t *inodeTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.byName)
}
