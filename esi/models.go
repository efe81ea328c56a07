package esi

import "time"

// Contract mirrors an ESI corporation contract record. Contracts are
// read-only upstream data; nothing in this process mutates them.
type Contract struct {
	ContractID          int        `json:"contract_id"`
	IssuerID            int        `json:"issuer_id"`
	IssuerCorporationID int        `json:"issuer_corporation_id"`
	AssigneeID          int        `json:"assignee_id"`
	AcceptorID          int        `json:"acceptor_id"`
	StartLocationID     int64      `json:"start_location_id"`
	EndLocationID       int64      `json:"end_location_id"`
	Type                string     `json:"type"`
	Status              string     `json:"status"`
	Title               string     `json:"title"`
	ForCorporation      bool       `json:"for_corporation"`
	Availability        string     `json:"availability"`
	DateIssued          time.Time  `json:"date_issued"`
	DateExpired         time.Time  `json:"date_expired"`
	DateAccepted        *time.Time `json:"date_accepted,omitempty"`
	DateCompleted       *time.Time `json:"date_completed,omitempty"`
	DaysToComplete      int        `json:"days_to_complete"`
	Price               float64    `json:"price"`
	Reward              float64    `json:"reward"`
	Collateral          float64    `json:"collateral"`
	Buyout              float64    `json:"buyout"`
	Volume              float64    `json:"volume"`
}

// ContractItem mirrors an ESI contract item record. ItemName is not part of
// the upstream payload; it is filled in from the universe type lookup.
type ContractItem struct {
	RecordID    int64  `json:"record_id"`
	TypeID      int    `json:"type_id"`
	Quantity    int    `json:"quantity"`
	RawQuantity *int   `json:"raw_quantity,omitempty"`
	IsSingleton bool   `json:"is_singleton"`
	IsIncluded  bool   `json:"is_included"`
	ItemName    string `json:"item_name,omitempty"`
}

// CharacterIdentity is the SSO verify endpoint's view of the token holder.
// The verify endpoint uses PascalCase keys and a zone-less ExpiresOn.
type CharacterIdentity struct {
	CharacterID        int    `json:"CharacterID"`
	CharacterName      string `json:"CharacterName"`
	ExpiresOn          string `json:"ExpiresOn"`
	Scopes             string `json:"Scopes"`
	TokenType          string `json:"TokenType"`
	CharacterOwnerHash string `json:"CharacterOwnerHash"`
}

type typeInfo struct {
	TypeID int    `json:"type_id"`
	Name   string `json:"name"`
}
