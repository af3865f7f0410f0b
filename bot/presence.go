package bot

import (
	"context"
	"log"
	"math/rand/v2"
	"time"
)

var mapNames = []string{
	"A Diverse World", "A Community World", "AI Generated World", "A Balanced Canada",
	"A Diverse Sometimes Pinpointable AI Generated Tuas", "Plonk It", "The Daily Challenge",
	"An Arbitrary United States", "A Balanced AI Generated India", "An Extra-Rural Mongolia", "A quiz",
	"A Stochastic Populated Southern Cone", "A Balanced Australia", "An Extraordinary World",
	"A Diverse Complete World", "Phuket Island or Chang Mai",
}

const presenceInterval = time.Hour

type gameStatusUpdater interface {
	UpdateGameStatus(idle int, name string) error
}

// rotatePresence sets a random map as the playing status right away and
// then once per interval until ctx is done.
func rotatePresence(ctx context.Context, s gameStatusUpdater, interval time.Duration, pick func() string) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.UpdateGameStatus(0, pick()); err != nil {
			log.Printf("Error updating presence: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func randomMapName() string {
	return mapNames[rand.IntN(len(mapNames))]
}
