package model

import (
	"encoding/binary"
	"math/bits"
)

// bitset over point indices
type bitset []uint64

func newBitset(size int) bitset {
	return make(bitset, (size+63)/64)
}

func (b bitset) set(i int) { b[i/64] |= 1 << (i % 64) }

func (b bitset) has(i int) bool { return b[i/64]&(1<<(i%64)) != 0 }

func (b bitset) count() int {
	total := 0
	for _, word := range b {
		total += bits.OnesCount64(word)
	}
	return total
}

// countNotIn returns |b \ other|
func (b bitset) countNotIn(other bitset) int {
	total := 0
	for i, word := range b {
		total += bits.OnesCount64(word &^ other[i])
	}
	return total
}

func (b bitset) clone() bitset {
	return append(bitset(nil), b...)
}

// key is a compact string identity of the bitset, usable as a map key
func (b bitset) key() string {
	bytes := make([]byte, 0, len(b)*8)
	for _, word := range b {
		bytes = binary.LittleEndian.AppendUint64(bytes, word)
	}
	return string(bytes)
}

// coverageState tracks which points are covered by the partial selection of a search.
// Marks are acquired per branch and released on every exit path of that branch.
type coverageState struct {
	covered bitset
	count   int
	size    int
}

func newCoverageState(size int) *coverageState {
	return &coverageState{covered: newBitset(size), size: size}
}

// mark covers a single point permanently; it returns false if it was already covered
func (state *coverageState) mark(point int) bool {
	if state.covered.has(point) {
		return false
	}
	state.covered.set(point)
	state.count++
	return true
}

// acquire covers every point of mask and returns exactly the points it newly covered
func (state *coverageState) acquire(mask bitset) bitset {
	delta := make(bitset, len(mask))
	for i, word := range mask {
		delta[i] = word &^ state.covered[i]
		state.covered[i] |= delta[i]
		state.count += bits.OnesCount64(delta[i])
	}
	return delta
}

// release undoes a previous acquire
func (state *coverageState) release(delta bitset) {
	for i, word := range delta {
		state.covered[i] &^= word
		state.count -= bits.OnesCount64(word)
	}
}

func (state *coverageState) remaining() int { return state.size - state.count }

// marginal is the number of still uncovered points of mask
func (state *coverageState) marginal(mask bitset) int {
	return mask.countNotIn(state.covered)
}

func (state *coverageState) clone() *coverageState {
	return &coverageState{covered: state.covered.clone(), count: state.count, size: state.size}
}
