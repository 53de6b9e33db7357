/*
Package tracker contains the song state store and the adapter driving the audio
engine.

The store is split in two. Reducer is a pure function from (Song, Intent) to
(Song, Effect): it never touches the engine. Model wraps the reducer on the UI
goroutine: it keeps the current Song, sends the effects to the adapter through
the Broker and folds the events reported back by the adapter into the state by
dispatching them as Delegate intents.

Adapter owns the engine and the resource-binding map from track id to the
engine track and sampler of that track. It executes the effects one at a time
on its own goroutine (see Adapter.Run) and reports every outcome, success or
failure, as an Event. Engine failures never propagate to the store as errors;
they become track statuses and alerts.

User interfaces do not dispatch intents directly, rather, they use the Action
helpers of the Model, e.g. model.TogglePlay().Do() or
model.AddTrack(multitrack.Drum).Do().
*/
package tracker
