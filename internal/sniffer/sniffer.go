// Package sniffer implements the two RX-callback filters the spec's
// passive learning subsystem installs on the radio driver: a
// probe-learning filter that extracts candidate SSIDs, and a mesh filter
// that extracts candidate Espressif vendor action frames. Both run in
// whatever context the radio driver delivers RX callbacks on, so they do
// nothing but bounded, non-blocking enqueues — the main task (the
// scheduler) is the only consumer. They are not allocation-free: each
// accepted SSID is copied into a new string and each accepted mesh frame
// into a new byte slice.
package sniffer

import (
	"github.com/emperornerd/GhostWalk/internal/mesh"
	"github.com/emperornerd/GhostWalk/internal/ports"
)

// SSIDQueueCapacity / MeshQueueCapacity are the bounded single-producer
// queue sizes mandated by the concurrency model (§5): drop-on-full, never
// block the RX callback.
const (
	SSIDQueueCapacity  = 20
	MeshQueueCapacity  = 5
	maxLearnedSSIDByte = 33 // fixed slot: up to 32 octets of SSID + implicit length
)

// LearnedSSID holds the SSID string copied out of a probe request's SSID
// element by the probe-learning filter.
type LearnedSSID struct {
	Name string
}

// MeshFrame is a copy of an entire accepted mesh Action frame.
type MeshFrame struct {
	Bytes []byte
}

// SSIDQueue is the bounded, drop-on-full channel the probe-learning filter
// enqueues into and the scheduler drains.
type SSIDQueue chan LearnedSSID

// NewSSIDQueue allocates a queue at the mandated capacity.
func NewSSIDQueue() SSIDQueue { return make(SSIDQueue, SSIDQueueCapacity) }

// MeshQueue is the bounded, drop-on-full channel the mesh filter enqueues
// into and the scheduler drains during a listen window.
type MeshQueue chan MeshFrame

// NewMeshQueue allocates a queue at the mandated capacity.
func NewMeshQueue() MeshQueue { return make(MeshQueue, MeshQueueCapacity) }

// enqueueSSID attempts a non-blocking send, dropping the record if the
// queue is full — acceptable loss per §7.
func enqueueSSID(q SSIDQueue, rec LearnedSSID) {
	select {
	case q <- rec:
	default:
	}
}

// enqueueMesh attempts a non-blocking send, dropping the frame if the
// queue is full.
func enqueueMesh(q MeshQueue, rec MeshFrame) {
	select {
	case q <- rec:
	default:
	}
}

// ProbeLearningFilter accepts management frames with FC byte 0 == 0x40
// (Probe Request), parses the SSID element at offset 24, and enqueues it
// if its length is in (1, 32). Frames failing any check are dropped
// silently, matching §7's "Invalid learned SSID" handling.
func ProbeLearningFilter(q SSIDQueue) func(payload []byte, frameType ports.FrameType) {
	return func(payload []byte, frameType ports.FrameType) {
		if frameType != ports.FrameMgmt {
			return
		}
		if len(payload) < 26 || payload[0] != 0x40 {
			return
		}
		tag := payload[24]
		if tag != 0 {
			return
		}
		length := int(payload[25])
		if length <= 1 || length >= 32 {
			return
		}
		if 26+length > len(payload) {
			return
		}
		name := string(payload[26 : 26+length])
		enqueueSSID(q, LearnedSSID{Name: name})
	}
}

// MeshActionFilter accepts management Action frames (FC byte0 == 0xD0) of
// total length 40..1024 whose Category Code (offset 24) is 127
// (Vendor-Specific) and whose OUI (offsets 25..27) matches the hardcoded
// Espressif prefix, copying the entire frame into the mesh queue.
func MeshActionFilter(q MeshQueue) func(payload []byte, frameType ports.FrameType) {
	return func(payload []byte, frameType ports.FrameType) {
		if frameType != ports.FrameMgmt {
			return
		}
		if len(payload) < 40 || len(payload) > 1024 {
			return
		}
		if payload[0] != 0xD0 {
			return
		}
		if payload[24] != 127 {
			return
		}
		if payload[25] != mesh.EspressifOUI[0] || payload[26] != mesh.EspressifOUI[1] || payload[27] != mesh.EspressifOUI[2] {
			return
		}
		cp := make([]byte, len(payload))
		copy(cp, payload)
		enqueueMesh(q, MeshFrame{Bytes: cp})
	}
}
