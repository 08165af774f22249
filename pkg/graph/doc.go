// Package graph defines the scene graph of the fire truck model.
// The scene graph is a DAG of group, draw and repeat nodes. Groups carry a
// local transform recipe, draw nodes issue primitive draws with the
// current transform, and repeat nodes instance their children a number of
// times computed from the control state. Subtrees may be shared, so the
// four wheels reference a single wheel subtree.
//
// A graph is built once and re-evaluated every frame; nothing in it
// changes between frames except through the Env passed to the ops.
package graph
