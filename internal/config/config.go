// Package config parses command-line flags and environment variables into
// a Config, following the same flags-override-environment pattern the
// teacher's configuration loader uses, renamed onto this program's knobs.
package config

import (
	"flag"
	"os"
	"strconv"
)

// Config holds every tunable named in the external interfaces contract.
type Config struct {
	Addr string // control/status HTTP server bind address

	EnablePassiveScan     bool
	EnableSSIDReplication bool
	EnableLifecycleSim    bool
	EnableSequenceGaps    bool
	EnableBeaconEmulation bool
	EnableInteractionSim  bool
	EnableMeshRelay       bool

	TargetActivePool  int
	TargetDormantPool int
	MaxSSIDsToLearn   int
	MeshChannel       int

	Debug bool
}

// Load parses environment variables first, then command-line flags
// (flags take precedence), and returns the resulting Config.
func Load() *Config {
	cfg := &Config{}

	cfg.Addr = getEnv("GHOSTWALK_ADDR", ":8080")
	cfg.EnablePassiveScan = getEnvBool("GHOSTWALK_ENABLE_PASSIVE_SCAN", true)
	cfg.EnableSSIDReplication = getEnvBool("GHOSTWALK_ENABLE_SSID_REPLICATION", true)
	cfg.EnableLifecycleSim = getEnvBool("GHOSTWALK_ENABLE_LIFECYCLE_SIM", true)
	cfg.EnableSequenceGaps = getEnvBool("GHOSTWALK_ENABLE_SEQUENCE_GAPS", true)
	cfg.EnableBeaconEmulation = getEnvBool("GHOSTWALK_ENABLE_BEACON_EMULATION", true)
	cfg.EnableInteractionSim = getEnvBool("GHOSTWALK_ENABLE_INTERACTION_SIM", true)
	cfg.EnableMeshRelay = getEnvBool("GHOSTWALK_ENABLE_MESH_RELAY", true)

	cfg.TargetActivePool = getEnvInt("GHOSTWALK_TARGET_ACTIVE_POOL", 1200)
	cfg.TargetDormantPool = getEnvInt("GHOSTWALK_TARGET_DORMANT_POOL", 2500)
	cfg.MaxSSIDsToLearn = getEnvInt("GHOSTWALK_MAX_SSIDS_TO_LEARN", 150)
	cfg.MeshChannel = getEnvInt("GHOSTWALK_MESH_CHANNEL", 1)

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "control/status HTTP server address")
	flag.BoolVar(&cfg.EnablePassiveScan, "enable-passive-scan", cfg.EnablePassiveScan, "learn SSIDs from observed probe requests")
	flag.BoolVar(&cfg.EnableSSIDReplication, "enable-ssid-replication", cfg.EnableSSIDReplication, "apply learned SSIDs into the store")
	flag.BoolVar(&cfg.EnableLifecycleSim, "enable-lifecycle-sim", cfg.EnableLifecycleSim, "rotate the active/dormant device pools")
	flag.BoolVar(&cfg.EnableSequenceGaps, "enable-sequence-gaps", cfg.EnableSequenceGaps, "occasionally skip sequence numbers")
	flag.BoolVar(&cfg.EnableBeaconEmulation, "enable-beacon-emulation", cfg.EnableBeaconEmulation, "emit fake-AP beacons")
	flag.BoolVar(&cfg.EnableInteractionSim, "enable-interaction-sim", cfg.EnableInteractionSim, "emit full auth/assoc/data sequences")
	flag.BoolVar(&cfg.EnableMeshRelay, "enable-mesh-relay", cfg.EnableMeshRelay, "listen for and rebroadcast cooperative mesh frames")
	flag.IntVar(&cfg.TargetActivePool, "target-active-pool", cfg.TargetActivePool, "target size of the active device pool")
	flag.IntVar(&cfg.TargetDormantPool, "target-dormant-pool", cfg.TargetDormantPool, "target size of the dormant device pool")
	flag.IntVar(&cfg.MaxSSIDsToLearn, "max-ssids-to-learn", cfg.MaxSSIDsToLearn, "cap on learned SSID entries")
	flag.IntVar(&cfg.MeshChannel, "mesh-channel", cfg.MeshChannel, "fixed channel used for the mesh listen window")
	flag.BoolVar(&cfg.Debug, "debug", false, "enable verbose debug logging")

	flag.Parse()

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
