package domain

import "strings"

// AssetType is one of the tradable metals.
type AssetType string

const (
	AssetGold     AssetType = "GOLD"
	AssetSilver   AssetType = "SILVER"
	AssetPlatinum AssetType = "PLATINUM"
)

// AssetTypes lists every tradable asset in display order.
var AssetTypes = []AssetType{AssetGold, AssetSilver, AssetPlatinum}

// ParseAssetType normalizes and validates an asset type string.
func ParseAssetType(s string) (AssetType, bool) {
	a := AssetType(strings.ToUpper(strings.TrimSpace(s)))
	switch a {
	case AssetGold, AssetSilver, AssetPlatinum:
		return a, true
	}
	return "", false
}
