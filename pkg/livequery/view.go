// Package livequery is the client-side counterpart of the backend's live
// subscriptions: a materialized view over a remote collection, a pure
// projector for filtering/sorting/paging it, a head-change notifier and a
// callable-envelope action invoker. The backend remains the only source of
// truth; nothing in this package mutates state optimistically.
package livequery

import "sync"

//Event kinds delivered by a live subscription.
const (
	Added    = "added"
	Modified = "modified"
	Removed  = "removed"
)

//Event One incremental change to a subscribed collection.
type Event struct {
	Kind string
	ID   string
	Doc  interface{}
}

//Item One materialized record of a view.
type Item struct {
	ID  string
	Doc interface{}
}

//View Keeps a local materialized list in sync with a remote collection. Items
//stay in arrival order; ordering for display is the projector's job. Safe for
//concurrent use.
type View struct {
	mu       sync.RWMutex
	items    []Item
	index    map[string]int
	onChange func([]Item)
	onError  func(error)
	failed   bool
	closed   bool
}

//NewView Creates an empty view. onChange receives a copy of the materialized
//list after every applied change; onError receives the first subscription
//error, after which the view stops applying events. Either callback may be
//nil.
func NewView(onChange func([]Item), onError func(error)) *View {
	return &View{
		index:    make(map[string]int),
		onChange: onChange,
		onError:  onError,
	}
}

//Reset Replaces the whole materialized list, used for the initial full
//delivery of a subscription.
func (v *View) Reset(snapshot []Item) {
	v.mu.Lock()
	if v.closed || v.failed {
		v.mu.Unlock()
		return
	}

	v.items = make([]Item, len(snapshot))
	copy(v.items, snapshot)
	v.index = make(map[string]int, len(snapshot))
	for i, item := range v.items {
		v.index[item.ID] = i
	}
	v.mu.Unlock()

	v.notify()
}

//Apply Applies one incremental event. An add of a known ID behaves as a
//modify and a modify of an unknown ID behaves as an add, mirroring how the
//remote store delivers catch-up events.
func (v *View) Apply(event Event) {
	v.mu.Lock()
	if v.closed || v.failed {
		v.mu.Unlock()
		return
	}

	switch event.Kind {
	case Added, Modified:
		if i, ok := v.index[event.ID]; ok {
			v.items[i] = Item{ID: event.ID, Doc: event.Doc}
		} else {
			v.index[event.ID] = len(v.items)
			v.items = append(v.items, Item{ID: event.ID, Doc: event.Doc})
		}
	case Removed:
		if i, ok := v.index[event.ID]; ok {
			v.items = append(v.items[:i], v.items[i+1:]...)
			delete(v.index, event.ID)
			for j := i; j < len(v.items); j++ {
				v.index[v.items[j].ID] = j
			}
		}
	}
	v.mu.Unlock()

	v.notify()
}

//Fail Records a subscription error. The error surfaces once through the error
//callback and the view stops applying further events; resubscribing means
//building a new view.
func (v *View) Fail(err error) {
	v.mu.Lock()
	if v.closed || v.failed {
		v.mu.Unlock()
		return
	}
	v.failed = true
	onError := v.onError
	v.mu.Unlock()

	if onError != nil {
		onError(err)
	}
}

//Items Returns a copy of the materialized list.
func (v *View) Items() []Item {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]Item, len(v.items))
	copy(out, v.items)
	return out
}

//Len Returns the number of materialized items.
func (v *View) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.items)
}

//Close Tears the view down. Events applied after Close are ignored.
func (v *View) Close() {
	v.mu.Lock()
	v.closed = true
	v.items = nil
	v.index = nil
	v.mu.Unlock()
}

func (v *View) notify() {
	v.mu.RLock()
	onChange := v.onChange
	var snapshot []Item
	if onChange != nil {
		snapshot = make([]Item, len(v.items))
		copy(snapshot, v.items)
	}
	v.mu.RUnlock()

	if onChange != nil {
		onChange(snapshot)
	}
}
