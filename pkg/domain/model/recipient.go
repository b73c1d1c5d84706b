package model

import (
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/types"
)

// Address is a kind-tagged contact address (email address or phone number)
type Address struct {
	Kind  types.AddressKind `json:"kind"`
	Value string            `json:"value"`
}

// String returns the address value
func (a Address) String() string {
	return a.Value
}

// Recipient is a client resolved for one delivery channel.
// It is produced by the repository and never modified by the dispatcher.
type Recipient struct {
	ID          types.ClientID `json:"id"`
	DisplayName string         `json:"display_name"`
	Address     Address        `json:"address"`
	HasAddress  bool           `json:"has_address"`
}
