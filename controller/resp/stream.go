package resp

import (
	"context"
	"io"
	"log"

	"github.com/gin-gonic/gin"

	"hotelbooking/services"
)

type ListenFunc func(ctx context.Context, fn func(services.Snapshot) error) error

type streamEvent struct {
	name string
	data any
}

type changeEvent struct {
	Type     string `json:"type"`
	OldIndex int    `json:"oldIndex"`
	NewIndex int    `json:"newIndex"`
	Item     any    `json:"item"`
}

// Stream relays a live query to the client as server-sent events. The
// first event, and any event after the mirrored list fell out of sync, is
// "snapshot" with the whole list; every other event is "change" with one
// index-addressed change.
func Stream(c *gin.Context, op string, listen ListenFunc, render func(services.Document) any) {
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	events := make(chan streamEvent)
	send := func(ev streamEvent) error {
		select {
		case events <- ev:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	renderAll := func(docs []services.Document) []any {
		out := make([]any, 0, len(docs))
		for _, d := range docs {
			out = append(out, render(d))
		}
		return out
	}

	go func() {
		defer close(events)
		list := services.NewLiveList()
		first := true
		err := listen(ctx, func(snap services.Snapshot) error {
			if first {
				first = false
				if err := list.Apply(snap); err != nil {
					log.Printf("%s: %v", op, err)
				}
				return send(streamEvent{name: "snapshot", data: renderAll(list.Docs())})
			}
			if err := list.Apply(snap); err != nil {
				log.Printf("%s: resync: %v", op, err)
				return send(streamEvent{name: "snapshot", data: renderAll(list.Docs())})
			}
			for _, ch := range snap.Changes {
				err := send(streamEvent{name: "change", data: changeEvent{
					Type:     ch.Kind.String(),
					OldIndex: ch.OldIndex,
					NewIndex: ch.NewIndex,
					Item:     render(ch.Doc),
				}})
				if err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil && ctx.Err() == nil {
			log.Printf("%s: %v", op, err)
		}
	}()

	c.Stream(func(w io.Writer) bool {
		ev, ok := <-events
		if !ok {
			return false
		}
		c.SSEvent(ev.name, ev.data)
		return true
	})
}
