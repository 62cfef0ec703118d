package livequery

//Notifier Watches the head of a time-ordered feed and fires once when its
//identity changes. The first delivery after construction only records the
//head, so a page full of pre-existing records does not set off a notification
//storm on load.
type Notifier struct {
	emit   func(Item)
	seen   bool
	headID string
}

//NewNotifier Creates a notifier. emit is called with the new head item, at
//most once per head change.
func NewNotifier(emit func(Item)) *Notifier {
	return &Notifier{emit: emit}
}

//Observe Feeds the notifier one delivery of the feed, newest item first. An
//empty delivery emits nothing and does not reset the first-seen flag.
func (n *Notifier) Observe(items []Item) {
	if len(items) == 0 {
		return
	}

	head := items[0]

	if !n.seen {
		n.seen = true
		n.headID = head.ID
		return
	}

	if head.ID == n.headID {
		return
	}

	n.headID = head.ID
	if n.emit != nil {
		n.emit(head)
	}
}
