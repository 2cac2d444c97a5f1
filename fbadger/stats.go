package fbadger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var sizeStats = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "badger_size_bytes",
	Help: "Size of the badger LSM tree and value log",
}, []string{"part"})

func RecordSizeStats(db DB) {
	lsm, vlog := db.Size()
	sizeStats.WithLabelValues("lsm").Set(float64(lsm))
	sizeStats.WithLabelValues("vlog").Set(float64(vlog))
}
