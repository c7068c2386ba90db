package app

import (
	"time"

	"github.com/emperornerd/GhostWalk/internal/adapters/reporting"
	"github.com/emperornerd/GhostWalk/internal/adapters/web/server"
	"github.com/emperornerd/GhostWalk/internal/runlog"
	"github.com/emperornerd/GhostWalk/internal/scheduler"
	"github.com/emperornerd/GhostWalk/internal/ssidstore"
)

// statusAdapter bridges the scheduler's internal state to the control
// server's StatusProvider port.
type statusAdapter struct {
	sched     *scheduler.Scheduler
	startedAt time.Time
}

func (a *statusAdapter) Status() server.StatusSnapshot {
	stats, activeLen, dormantLen, channel, is5ghz, meshDetected, ssidCount, lowMemory := a.sched.Snapshot()
	return server.StatusSnapshot{
		Uptime:            time.Since(a.startedAt),
		ActivePoolSize:    activeLen,
		DormantPoolSize:   dormantLen,
		CurrentChannel:    channel,
		Is5GHz:            is5ghz,
		TXCount:           stats.TXCount,
		InteractionCount:  stats.InteractionCount,
		BeaconCount:       stats.BeaconCount,
		MeshRebroadcasts:  stats.MeshRebroadcasts,
		MeshDetected:      meshDetected,
		LastLearnedSSID:   stats.LastLearnedSSID,
		LearnedSSIDCount:  ssidCount,
		GovernorLowMemory: lowMemory,
	}
}

// configAdapter bridges the control server's POST /api/config endpoint
// to the scheduler's runtime toggle setters.
type configAdapter struct {
	sched *scheduler.Scheduler
}

func (a *configAdapter) ApplyConfigPatch(patch server.ConfigPatch) {
	if patch.EnableMeshRelay != nil {
		a.sched.SetEnableMeshRelay(*patch.EnableMeshRelay)
	}
	if patch.EnableInteractionSim != nil {
		a.sched.SetEnableInteractionSim(*patch.EnableInteractionSim)
	}
	if patch.EnableSequenceGaps != nil {
		a.sched.SetEnableSequenceGaps(*patch.EnableSequenceGaps)
	}
}

// reportAdapter bridges the control server's GET /api/report.pdf
// endpoint to the PDF exporter, gathering a Snapshot from live state.
type reportAdapter struct {
	sched    *scheduler.Scheduler
	store    *ssidstore.Store
	runLog   *runlog.Log
	exporter *reporting.Exporter
}

func (a *reportAdapter) BuildReport() ([]byte, error) {
	stats, activeLen, dormantLen, _, _, meshDetected, ssidCount, lowMemory := a.sched.Snapshot()

	names := make([]string, 0, ssidCount)
	for i := 0; i < ssidCount; i++ {
		names = append(names, a.store.Get(i))
	}

	snapshot := reporting.Snapshot{
		GeneratedAt:           time.Now(),
		ActivePoolSize:        activeLen,
		DormantPoolSize:       dormantLen,
		SSIDCount:             ssidCount,
		SSIDs:                 names,
		ProbeRequests:         stats.TXCount,
		AssociationRequests:   stats.InteractionCount,
		Authentications:       stats.InteractionCount,
		Beacons:               stats.BeaconCount,
		MeshDetected:          meshDetected,
		MeshCacheEntries:      a.sched.Relay.Cache.Len(),
		MeshRebroadcasts:      stats.MeshRebroadcasts,
		GovernorLowMemory:     lowMemory,
		GovernorInterventions: int(a.runLog.CountByKind(runlog.EventGovernor)),
	}
	return a.exporter.Export(snapshot)
}
