package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffIDs(t *testing.T) {
	prev := NewIDSet("item/1", "item/2", "call/5")
	next := NewIDSet("item/2", "item/3", "item/4")

	added, removed := DiffIDs(prev, next)
	assert.Equal(t, []string{"item/3", "item/4"}, added)
	assert.Equal(t, []string{"call/5", "item/1"}, removed)
}

func TestDiffIDsNoChange(t *testing.T) {
	set := NewIDSet("item/1")
	added, removed := DiffIDs(set, NewIDSet("item/1"))
	assert.Empty(t, added)
	assert.Empty(t, removed)
}

func TestDiffIDsFromEmpty(t *testing.T) {
	added, removed := DiffIDs(IDSet{}, NewIDSet("item/9"))
	assert.Equal(t, []string{"item/9"}, added)
	assert.Empty(t, removed)

	added, removed = DiffIDs(NewIDSet("item/9"), IDSet{})
	assert.Empty(t, added)
	assert.Equal(t, []string{"item/9"}, removed)
}

// A status move shows up as leave-one-bucket, enter-another.
func TestDiffIDsAcrossBuckets(t *testing.T) {
	prev := NewIDSet("cooking/12")
	next := NewIDSet("ready/12")
	added, removed := DiffIDs(prev, next)
	assert.Equal(t, []string{"ready/12"}, added)
	assert.Equal(t, []string{"cooking/12"}, removed)
}
