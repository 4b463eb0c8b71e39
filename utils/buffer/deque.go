// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package buffer

// Deque is a double-ended queue.
type Deque[T any] interface {
	// Place an element at the leftmost end of the deque.
	PushLeft(T)
	// Remove and return the leftmost element of the deque.
	// If the deque is empty, returns false.
	PopLeft() (T, bool)
	// Return the leftmost element of the deque without removing it.
	// If the deque is empty, returns false.
	PeekLeft() (T, bool)
	// Place an element at the rightmost end of the deque.
	PushRight(T)
	// Remove and return the rightmost element of the deque.
	// If the deque is empty, returns false.
	PopRight() (T, bool)
	// Return the rightmost element of the deque without removing it.
	// If the deque is empty, returns false.
	PeekRight() (T, bool)
	// Returns the element at the given index.
	// Returns false if the index is out of bounds.
	// The leftmost element is at index 0.
	Index(int) (T, bool)
	// Returns the number of elements in the deque.
	Len() int
	// Returns the elements in the deque from left to right.
	List() []T
}
