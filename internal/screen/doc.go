// Package screen holds one controller per screen. A controller owns the
// state holders its screen observes, any pagination cursor, and a session
// context; Close cancels the session and nothing the controller started
// publishes afterwards.
//
// Every operation follows the same shape: Begin on the holder, run the call
// on the shared task executor, Resolve with the sequence number from Begin.
// Side effects that accompany a success (advancing a cursor, appending
// items, updating a collected flag) happen under the controller lock in the
// same critical section as Resolve, so readers never see one without the
// other.
package screen
