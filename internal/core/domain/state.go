package domain

import "time"

// Extension versions. Version 0 means the fee extension has never been
// initialized; FeeExtensionVersion is set by the one-time initialization.
const (
	BaseVersion         = 0
	FeeExtensionVersion = 1
)

// ControllerState is the persisted authorization state of the controller:
// the owner identity, the pause flag and the extension version marker. New
// fields may only ever be appended, never reordered or reinterpreted, so a
// newer logic version sees all prior data unchanged.
type ControllerState struct {
	Owner     Address
	Paused    bool
	Version   uint32
	CreatedAt int64
	UpdatedAt int64
}

func NewControllerState(owner Address) *ControllerState {
	now := time.Now().Unix()
	return &ControllerState{
		Owner:     owner,
		Version:   BaseVersion,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s ControllerState) ExtensionInitialized() bool {
	return s.Version >= FeeExtensionVersion
}
