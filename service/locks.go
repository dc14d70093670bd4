package service

import (
	"fmt"
	"hash/fnv"
	"sync"
)

// Striped in-process locks serializing the check-and-create sections.
// take uses a per-(user,task) key, moderation a per-assignment key, task
// creation a per-level key. The database transaction around each locked
// section re-checks its precondition, so a hash collision only costs
// contention, never correctness.
const lockStripes = 64

var stripes [lockStripes]sync.Mutex

func lockKey(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	m := &stripes[h.Sum32()%lockStripes]
	m.Lock()
	return m.Unlock
}

func lockPair(userID, taskID uint) func() {
	return lockKey(fmt.Sprintf("take:%d:%d", userID, taskID))
}

func lockAssignment(id uint) func() {
	return lockKey(fmt.Sprintf("assignment:%d", id))
}

func lockLevel(level string) func() {
	return lockKey("task-create:" + level)
}
