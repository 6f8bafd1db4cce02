package jobs

import (
	"context"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"campus/records/internal/kv"
)

// StartStoreProbe pings the store on an interval and reflects reachability
// in the records_store_up gauge. Stops with ctx.
func StartStoreProbe(ctx context.Context, store kv.Store, reg prometheus.Registerer, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	up := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "records_store_up",
		Help: "Whether the last store ping succeeded.",
	})
	reg.MustRegister(up)

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
				err := store.Ping(probeCtx)
				cancel()
				if err != nil {
					up.Set(0)
					log.Printf("store probe failed: %v", err)
					continue
				}
				up.Set(1)
			}
		}
	}()
}
