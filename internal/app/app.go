// Package app wires every component into a runnable application: it is
// the Facade the teacher's bootstrap pattern established, rebuilt around
// the phantom-traffic domain instead of the pentesting one.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/emperornerd/GhostWalk/internal/adapters/radio"
	"github.com/emperornerd/GhostWalk/internal/adapters/reporting"
	"github.com/emperornerd/GhostWalk/internal/adapters/web/server"
	"github.com/emperornerd/GhostWalk/internal/config"
	"github.com/emperornerd/GhostWalk/internal/governor"
	"github.com/emperornerd/GhostWalk/internal/mesh"
	"github.com/emperornerd/GhostWalk/internal/runlog"
	"github.com/emperornerd/GhostWalk/internal/scheduler"
	"github.com/emperornerd/GhostWalk/internal/ssidstore"
	"github.com/emperornerd/GhostWalk/internal/swarm"
	"github.com/emperornerd/GhostWalk/internal/telemetry"
)

// tickInterval is how often the scheduler's cooperative state machine is
// driven; the scheduler itself decides on every call whether any of its
// internal timers are actually due.
const tickInterval = 10 * time.Millisecond

// Application holds every wired component and manages their lifecycle.
type Application struct {
	Config    *config.Config
	Scheduler *scheduler.Scheduler
	RunLog    *runlog.Log
	Server    *server.Server

	shutdownTracer func(context.Context) error
	startedAt      time.Time
}

// New bootstraps the full component graph: config, telemetry, the
// simulated radio driver, swarm pools, SSID store, mesh relay, resource
// governor, scheduler, run log, and control/status server.
func New(cfg *config.Config) (*Application, error) {
	telemetry.InitMetrics()
	shutdownTracer, err := telemetry.InitTracer()
	if err != nil {
		return nil, fmt.Errorf("tracer init failed: %w", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	radioDriver := radio.NewSimulated(rng)
	heap := radio.NewHeapStats()

	store := ssidstore.New(cfg.MaxSSIDsToLearn)
	pools := swarm.NewPools(cfg.TargetActivePool, cfg.TargetDormantPool, rng, store)
	pools.Initialize(func() bool { return heap.FreeBytes() > governor.CriticalMemoryThreshold })

	localMAC := randomLocalMAC(rng)
	relay := mesh.NewRelay(localMAC)
	gov := governor.New()

	schedCfg := scheduler.DefaultConfig()
	schedCfg.MeshChannel = cfg.MeshChannel
	schedCfg.EnablePassiveScan = cfg.EnablePassiveScan
	schedCfg.EnableSSIDReplication = cfg.EnableSSIDReplication
	schedCfg.EnableLifecycleSim = cfg.EnableLifecycleSim
	schedCfg.EnableSequenceGaps = cfg.EnableSequenceGaps
	schedCfg.EnableBeaconEmulation = cfg.EnableBeaconEmulation
	schedCfg.EnableInteractionSim = cfg.EnableInteractionSim
	schedCfg.EnableMeshRelay = cfg.EnableMeshRelay

	sched := scheduler.New(schedCfg, pools, store, relay, gov, radioDriver, heap, rng, localMAC)

	runLog, err := runlog.Open()
	if err != nil {
		return nil, fmt.Errorf("run log init failed: %w", err)
	}
	wireRunLogHooks(sched, runLog)

	reporter := reporting.New()

	webServer := server.NewServer(
		cfg.Addr,
		&statusAdapter{sched: sched, startedAt: time.Now()},
		&configAdapter{sched: sched},
		&reportAdapter{sched: sched, store: store, runLog: runLog, exporter: reporter},
	)

	return &Application{
		Config:         cfg,
		Scheduler:      sched,
		RunLog:         runLog,
		Server:         webServer,
		shutdownTracer: shutdownTracer,
		startedAt:      time.Now(),
	}, nil
}

// randomLocalMAC draws a locally-administered, unicast address for mesh
// self-echo suppression, the same bit convention the identity generator
// uses for its synthetic devices.
func randomLocalMAC(rng *rand.Rand) [6]byte {
	var mac [6]byte
	rng.Read(mac[:])
	mac[0] = (mac[0] | 0x02) & 0xFE
	return mac
}

func wireRunLogHooks(sched *scheduler.Scheduler, runLog *runlog.Log) {
	sched.OnRotation = func(activeLen, dormantLen int) {
		runLog.Record(runlog.EventRotation, fmt.Sprintf("active=%d dormant=%d", activeLen, dormantLen))
	}
	sched.OnGovernorLowMemory = func() {
		runLog.Record(runlog.EventGovernor, "entered low-memory mode")
	}
	sched.OnMeshDecay = func() {
		runLog.Record(runlog.EventMeshDecay, "mesh detection decayed")
	}
	sched.OnMeshRebroadcast = func() {
		runLog.Record(runlog.EventMeshRebroadcast, "rebroadcast a cached mesh frame")
	}
}

// Run drives the scheduler tick loop and the control/status server until
// ctx is cancelled, then cleans up.
func (app *Application) Run(ctx context.Context) error {
	go app.driveScheduler(ctx)

	slog.Info("GhostWalk control server starting", "addr", app.Config.Addr)
	err := app.Server.Run(ctx)

	app.cleanup()
	return err
}

func (app *Application) driveScheduler(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			app.Scheduler.Tick(now)
		}
	}
}

func (app *Application) cleanup() {
	if app.RunLog != nil {
		if err := app.RunLog.Close(); err != nil {
			slog.Warn("run log close error", "error", err)
		}
	}
	if app.shutdownTracer != nil {
		if err := app.shutdownTracer(context.Background()); err != nil {
			slog.Warn("tracer shutdown error", "error", err)
		}
	}
}
