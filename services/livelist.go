package services

import (
	"fmt"
	"sync"
)

// LiveList mirrors the result of a live query. It is updated change by
// change rather than replaced wholesale on each snapshot.
type LiveList struct {
	mu   sync.RWMutex
	docs []Document
}

func NewLiveList() *LiveList {
	return &LiveList{}
}

// Apply applies the changes of a snapshot in order. A change whose index
// does not line up with the current list means the list went out of sync;
// it is then reset to snap.Docs and an error is returned.
func (l *LiveList) Apply(snap Snapshot) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, ch := range snap.Changes {
		if err := l.applyChange(ch); err != nil {
			l.docs = copyDocuments(snap.Docs)
			return err
		}
	}
	return nil
}

func (l *LiveList) applyChange(ch Change) error {
	if ch.OldIndex >= 0 {
		if ch.OldIndex >= len(l.docs) || l.docs[ch.OldIndex].ID != ch.Doc.ID {
			return fmt.Errorf("%s change for %s at stale index %d", ch.Kind, ch.Doc.ID, ch.OldIndex)
		}
		l.docs = append(l.docs[:ch.OldIndex], l.docs[ch.OldIndex+1:]...)
	}
	if ch.NewIndex >= 0 {
		if ch.NewIndex > len(l.docs) {
			return fmt.Errorf("%s change for %s past end at %d", ch.Kind, ch.Doc.ID, ch.NewIndex)
		}
		l.docs = insertDocument(l.docs, ch.NewIndex, ch.Doc)
	}
	return nil
}

func (l *LiveList) Docs() []Document {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return copyDocuments(l.docs)
}

func (l *LiveList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.docs)
}
