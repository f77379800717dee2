package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RegistryTopic = "registry"
	SupplyTopic   = "supply"
)

type EventType string

const (
	EventTypeAssetRegistered      EventType = "asset_registered"
	EventTypeAssetUnregistered    EventType = "asset_unregistered"
	EventTypeCustodyWalletChanged EventType = "custody_wallet_changed"
	EventTypeControllerPaused     EventType = "controller_paused"
	EventTypeControllerUnpaused   EventType = "controller_unpaused"
	EventTypeExtensionInitialized EventType = "extension_initialized"
	EventTypeAssetFeeUpdated      EventType = "asset_fee_updated"
	EventTypeTokensMinted         EventType = "tokens_minted"
	EventTypeTokensBurned         EventType = "tokens_burned"
	EventTypeBatchMinted          EventType = "batch_minted"
	EventTypeBatchBurned          EventType = "batch_burned"
)

type Event interface {
	Type() EventType
	EventId() string
}

// BaseEvent carries what every record event has in common: a unique id, the
// operator that triggered it and the time it happened.
type BaseEvent struct {
	Id        string  `json:"id"`
	Operator  Address `json:"operator"`
	Timestamp int64   `json:"timestamp"`
}

func NewBaseEvent(operator Address) BaseEvent {
	return BaseEvent{
		Id:        uuid.NewString(),
		Operator:  operator,
		Timestamp: time.Now().Unix(),
	}
}

func (e BaseEvent) EventId() string { return e.Id }

type AssetRegistered struct {
	BaseEvent
	AssetId       string  `json:"asset_id"`
	Name          string  `json:"name"`
	TokenAddress  Address `json:"token_address"`
	CustodyWallet Address `json:"custody_wallet"`
}

func (AssetRegistered) Type() EventType { return EventTypeAssetRegistered }

type AssetUnregistered struct {
	BaseEvent
	AssetId string `json:"asset_id"`
	Name    string `json:"name"`
}

func (AssetUnregistered) Type() EventType { return EventTypeAssetUnregistered }

type CustodyWalletChanged struct {
	BaseEvent
	AssetId   string  `json:"asset_id"`
	OldWallet Address `json:"old_wallet"`
	NewWallet Address `json:"new_wallet"`
}

func (CustodyWalletChanged) Type() EventType { return EventTypeCustodyWalletChanged }

type ControllerPaused struct {
	BaseEvent
}

func (ControllerPaused) Type() EventType { return EventTypeControllerPaused }

type ControllerUnpaused struct {
	BaseEvent
}

func (ControllerUnpaused) Type() EventType { return EventTypeControllerUnpaused }

type ExtensionInitialized struct {
	BaseEvent
	Version uint32 `json:"version"`
}

func (ExtensionInitialized) Type() EventType { return EventTypeExtensionInitialized }

type AssetFeeUpdated struct {
	BaseEvent
	AssetId string `json:"asset_id"`
	Fee     uint64 `json:"fee"`
}

func (AssetFeeUpdated) Type() EventType { return EventTypeAssetFeeUpdated }

type TokensMinted struct {
	BaseEvent
	AssetId string  `json:"asset_id"`
	To      Address `json:"to"`
	Amount  uint64  `json:"amount"`
}

func (TokensMinted) Type() EventType { return EventTypeTokensMinted }

type TokensBurned struct {
	BaseEvent
	AssetId string  `json:"asset_id"`
	From    Address `json:"from"`
	Amount  uint64  `json:"amount"`
}

func (TokensBurned) Type() EventType { return EventTypeTokensBurned }

type BatchMinted struct {
	BaseEvent
	AssetId     string    `json:"asset_id"`
	Recipients  []Address `json:"recipients"`
	Amounts     []uint64  `json:"amounts"`
	TotalAmount uint64    `json:"total_amount"`
}

func (BatchMinted) Type() EventType { return EventTypeBatchMinted }

type BatchBurned struct {
	BaseEvent
	AssetId     string    `json:"asset_id"`
	Holders     []Address `json:"holders"`
	Amounts     []uint64  `json:"amounts"`
	TotalAmount uint64    `json:"total_amount"`
}

func (BatchBurned) Type() EventType { return EventTypeBatchBurned }
