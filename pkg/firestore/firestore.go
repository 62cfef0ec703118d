// Package firestore holds the payload types of Firestore background triggers.
package firestore

import (
	"strings"
	"time"
)

// Event is the payload of a Firestore event.
type Event struct {
	OldValue   Value `json:"oldValue"`
	Value      Value `json:"value"`
	UpdateMask struct {
		FieldPaths []string `json:"fieldPaths"`
	} `json:"updateMask"`
}

// Value holds one document version of a Firestore event. Fields carries the
// raw Firestore field encoding; the change feed only needs the document name,
// so it stays undecoded.
type Value struct {
	CreateTime time.Time              `json:"createTime"`
	Fields     map[string]interface{} `json:"fields"`
	Name       string                 `json:"name"`
	UpdateTime time.Time              `json:"updateTime"`
}

//IsZero Reports whether this side of the event is absent, which is how
//creations and deletions are told apart.
func (v Value) IsZero() bool {
	return v.Name == ""
}

//SplitName Extracts the collection path and document ID from a fully
//qualified document name, i.e.
//"projects/p/databases/(default)/documents/groups/abc" gives ("groups",
//"abc"). Subcollection paths keep their parent segments in the collection
//part.
func SplitName(name string) (collection string, docID string) {
	const marker = "/documents/"

	i := strings.Index(name, marker)
	if i < 0 {
		return "", ""
	}
	path := name[i+len(marker):]

	j := strings.LastIndex(path, "/")
	if j < 0 {
		return "", ""
	}
	return path[:j], path[j+1:]
}
