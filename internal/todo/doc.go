// Package todo defines the todo list state and the actions that change it.
//
// Actions form a closed set: the Action interface has an unexported method,
// so only the variants declared here satisfy it, and Handlers maps every
// variant to a pure handler. Decode is the untyped boundary; names it does
// not recognise come back as store.Descriptor values and fail at dispatch
// with store.ErrHandlerNotFound.
//
// Handlers never write to the previous state. They copy the todo slice
// before changing it, and unchanged slices are shared between states.
package todo
