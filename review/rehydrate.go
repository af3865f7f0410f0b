package review

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/TheFungusAmongUs/GeoBot/model"
	"github.com/TheFungusAmongUs/GeoBot/platform"
	"github.com/TheFungusAmongUs/GeoBot/store"
)

// Rehydrator rebuilds the controls of every stored submission at startup so
// the buttons on moderation messages posted before a restart keep working.
type Rehydrator struct {
	env      *Env
	registry *Registry
	dir      model.UserDirectory
}

func NewRehydrator(env *Env, registry *Registry, dir model.UserDirectory) *Rehydrator {
	return &Rehydrator{env: env, registry: registry, dir: dir}
}

// Rehydrate loads every store and registers one control per submission. The
// stores are handled concurrently and independently: a store that fails
// registers nothing and its error is returned joined with the others, while
// the remaining stores are still rehydrated. It returns the number of
// controls registered.
func (r *Rehydrator) Rehydrate(ctx context.Context) (int, error) {
	stores := r.env.Stores.All()
	counts := make([]int, len(stores))
	errs := make([]error, len(stores))

	var wg sync.WaitGroup
	for i, st := range stores {
		wg.Go(func() {
			counts[i], errs[i] = r.rehydrateStore(ctx, st)
		})
	}
	wg.Wait()

	total := 0
	for i, st := range stores {
		if errs[i] != nil {
			log.Printf("Error rehydrating store %s: %v", st.Name(), errs[i])
			continue
		}
		log.Printf("Rehydrated %d controls from store %s", counts[i], st.Name())
		total += counts[i]
	}
	return total, errors.Join(errs...)
}

func (r *Rehydrator) rehydrateStore(ctx context.Context, st store.Store) (int, error) {
	subs, err := st.Load(ctx, r.dir)
	if err != nil {
		return 0, err
	}

	approvalID := r.env.Options.ApprovalChannelID
	controls := make([]*Control, 0, len(subs))
	for _, sub := range subs {
		msg, err := r.env.Client.ChannelMessage(approvalID, sub.ID, discordgo.WithContext(ctx))
		if err != nil {
			if r.env.Options.SkipMissingMessages && platform.IsUnknownMessage(err) {
				log.Printf("Skipping submission %s in store %s: moderation message is gone", sub.ID, st.Name())
				continue
			}
			return 0, fmt.Errorf("store %s: fetching moderation message %s: %w", st.Name(), sub.ID, err)
		}
		c := NewControl(r.env, sub, MessageRef{ChannelID: approvalID, MessageID: msg.ID})
		if !componentsMatch(msg.Components, sub) {
			if err := c.redraw(ctx, sub); err != nil {
				log.Printf("Error refreshing controls on message %s: %v", msg.ID, err)
			}
		}
		controls = append(controls, c)
	}

	for _, c := range controls {
		r.registry.Register(c)
	}
	return len(controls), nil
}

// componentsMatch reports whether a fetched message already carries the
// buttons this version would draw for sub. Messages posted by older versions
// are redrawn so their custom ids reach the router.
func componentsMatch(have []discordgo.MessageComponent, sub *model.Submission) bool {
	return slices.Equal(buttonStates(have), buttonStates(Components(sub.Kind, sub.Status)))
}

func buttonStates(components []discordgo.MessageComponent) []string {
	var out []string
	for _, comp := range components {
		var row []discordgo.MessageComponent
		switch v := comp.(type) {
		case discordgo.ActionsRow:
			row = v.Components
		case *discordgo.ActionsRow:
			row = v.Components
		}
		for _, inner := range row {
			switch b := inner.(type) {
			case discordgo.Button:
				out = append(out, fmt.Sprintf("%s:%t", b.CustomID, b.Disabled))
			case *discordgo.Button:
				out = append(out, fmt.Sprintf("%s:%t", b.CustomID, b.Disabled))
			}
		}
	}
	return out
}
