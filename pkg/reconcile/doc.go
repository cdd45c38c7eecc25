// Package reconcile transforms one keyed sequence into another with the
// fewest node moves.
//
// The caller supplies the sequences, a key function, and three callbacks
// bound to its concrete tree:
//
//	reconcile.Reconcile(prev, next, func(n *Node) string { return n.Key },
//	    reconcile.Ops[*Node]{
//	        Patch:   func(prev **Node, next *Node, anchor **Node) { ... },
//	        Move:    func(node *Node, anchor **Node) { ... },
//	        Unmount: func(node *Node) { ... },
//	    })
//
// Patch with a nil prev mounts next before anchor; a nil anchor means the
// end of the container. Matched nodes are patched in place. Nodes whose
// relative order changed are moved, except for the longest run whose
// order is preserved, computed by Sequence.
//
// Keys must be unique within each sequence. A Reconciler created with
// WithStrict(true) checks this and returns ErrDuplicateKey.
package reconcile
