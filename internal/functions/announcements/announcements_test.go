package announcements

import (
	"fmt"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/oweek/raceday-backend/internal/firebase/structs"
	"github.com/stretchr/testify/assert"
	"google.golang.org/api/iterator"
)

type fakeSnapshotIterator struct {
	snapshots []*firestore.DocumentSnapshot
	err       error
}

func (it *fakeSnapshotIterator) Next() (*firestore.DocumentSnapshot, error) {
	if len(it.snapshots) == 0 {
		if it.err != nil {
			return nil, it.err
		}
		return nil, iterator.Done
	}
	next := it.snapshots[0]
	it.snapshots = it.snapshots[1:]
	return next, nil
}

func TestCollectRefs(t *testing.T) {
	it := &fakeSnapshotIterator{
		snapshots: []*firestore.DocumentSnapshot{
			{Ref: &firestore.DocumentRef{ID: "a1"}},
			{Ref: &firestore.DocumentRef{ID: "a2"}},
		},
	}

	refs, err := collectRefs(it)

	assert.Nil(t, err)
	if assert.Len(t, refs, 2) {
		assert.Equal(t, "a1", refs[0].ID)
		assert.Equal(t, "a2", refs[1].ID)
	}
}

func TestCollectRefsEmpty(t *testing.T) {
	refs, err := collectRefs(&fakeSnapshotIterator{})

	assert.Nil(t, err)
	assert.Len(t, refs, 0)
}

func TestCollectRefsSurfacesIteratorError(t *testing.T) {
	it := &fakeSnapshotIterator{
		snapshots: []*firestore.DocumentSnapshot{
			{Ref: &firestore.DocumentRef{ID: "a1"}},
		},
		err: fmt.Errorf("stream broke"),
	}

	refs, err := collectRefs(it)

	assert.NotNil(t, err)
	assert.Nil(t, refs)
}

func TestRoleTopic(t *testing.T) {
	assert.Equal(t, "role-admin", RoleTopic(structs.RoleAdmin))
	assert.Equal(t, "role-sm", RoleTopic(structs.RoleSM))
	assert.Equal(t, "role-ogl", RoleTopic(structs.RoleOGL))
}
