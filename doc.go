// Package actor implements a small hierarchical actor runtime: cells
// addressed by slash-separated paths, a supervision tree rooted at
// /user, and a dispatcher that maps many cells onto a bounded pool of
// serial execution contexts.
package actor
