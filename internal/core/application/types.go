package application

import "github.com/rakesh-sdlc/ng-contracts/internal/core/domain"

type AssetInfo struct {
	Id            string
	Name          string
	TokenAddress  domain.Address
	CustodyWallet domain.Address
	CreatedAt     int64
}

func assetInfoFromRecord(record domain.AssetRecord) AssetInfo {
	return AssetInfo{
		Id:            record.Id.String(),
		Name:          record.Name,
		TokenAddress:  record.TokenAddress,
		CustodyWallet: record.CustodyWallet,
		CreatedAt:     record.CreatedAt,
	}
}

type ControllerStatus struct {
	Owner                domain.Address
	Paused               bool
	Version              uint32
	ExtensionInitialized bool
	RegisteredAssets     int
}
