package parsetree

import (
	"testing"

	"github.com/shapestone/shape-expand/internal/position"
)

func TestIsComplete(t *testing.T) {
	var nilNode *Node
	if nilNode.IsComplete() {
		t.Fatal("a nil node should not be complete")
	}

	noEnd := &Node{Kind: KindNumber, Start: position.Start()}
	if noEnd.IsComplete() {
		t.Fatal("a node with no End should not be complete")
	}

	end := position.Start().Advance('1')
	withEnd := &Node{Kind: KindNumber, Start: position.Start(), End: &end}
	if !withEnd.IsComplete() {
		t.Fatal("a node with End set should be complete")
	}
}
