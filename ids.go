package main

import "sync/atomic"

// firstAllocatedID is the first id handed out per kind; 1 belongs to the seeds.
const firstAllocatedID = 2

// idAllocator issues strictly increasing ids and never reuses one.
type idAllocator struct {
	next atomic.Int64
}

func newIDAllocator(first int64) *idAllocator {
	a := &idAllocator{}
	a.next.Store(first)
	return a
}

func (a *idAllocator) Next() int64 {
	return a.next.Add(1) - 1
}
