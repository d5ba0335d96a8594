// Package ints defines a compact set of small non-negative integers, used for rule ids.
package ints

import "math/bits"

const IntSizeShift = 5 + (^uint(0) >> 32 & 1)
const IntSize = 1 << IntSizeShift

// Set is a bit set. Zero value is not usable, use NewSet.
type Set struct {
	lowItem, highItem int
	chunks            []uint
}

func NewSet(items ...int) *Set {
	result := &Set{0, 0, []uint{}}
	if len(items) > 0 {
		result.Add(items...)
	}
	return result
}

// ToSlice returns set items in ascending order.
func (s *Set) ToSlice() []int {
	result := make([]int, 0, s.Len())
	item := s.lowItem
	for _, chunk := range s.chunks {
		for chunk != 0 {
			shift := bits.TrailingZeros(chunk)
			result = append(result, item+shift)
			chunk &= chunk - 1
		}
		item += IntSize
	}
	return result
}

// Len returns the number of items.
func (s *Set) Len() int {
	result := 0
	for _, chunk := range s.chunks {
		result += bits.OnesCount(chunk)
	}
	return result
}

func (s *Set) baseItem(item int) int {
	return item & ^(IntSize - 1)
}

func (s *Set) allocate(low, high int) {
	lowItem := s.baseItem(low)
	highItem := s.baseItem(high) + IntSize
	if lowItem >= s.lowItem && highItem <= s.highItem {
		return
	}

	if len(s.chunks) != 0 {
		lowItem = min(lowItem, s.lowItem)
		highItem = max(highItem, s.highItem)
	}

	chunks := make([]uint, (highItem-lowItem)>>IntSizeShift)
	if len(s.chunks) != 0 {
		copy(chunks[(s.lowItem-lowItem)>>IntSizeShift:], s.chunks)
	}
	s.chunks = chunks
	s.lowItem = lowItem
	s.highItem = highItem
}

func (s *Set) chunkIndex(item int) int {
	return (item - s.lowItem) >> IntSizeShift
}

func bitMask(item int) uint {
	return 1 << (uint(item) & (IntSize - 1))
}

func (s *Set) Add(items ...int) *Set {
	if len(items) == 0 {
		return s
	}

	s.allocate(minMax(items))
	for _, item := range items {
		s.chunks[s.chunkIndex(item)] |= bitMask(item)
	}
	return s
}

func (s *Set) Remove(items ...int) *Set {
	for _, item := range items {
		if s.Contains(item) {
			s.chunks[s.chunkIndex(item)] &^= bitMask(item)
		}
	}
	return s
}

func (s *Set) Contains(item int) bool {
	if item < s.lowItem || item >= s.highItem {
		return false
	}
	return s.chunks[s.chunkIndex(item)]&bitMask(item) != 0
}

func (s *Set) IsEmpty() bool {
	for _, chunk := range s.chunks {
		if chunk != 0 {
			return false
		}
	}
	return true
}

func minMax(items []int) (low, high int) {
	low = items[0]
	high = items[0]
	for _, item := range items[1:] {
		low = min(low, item)
		high = max(high, item)
	}
	return
}
