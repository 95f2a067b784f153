// Package ledger abstracts the permissioned ledger behind a narrow
// query/invoke contract so the certificate service never depends on how
// chaincode calls are transmitted.
package ledger

import "context"

// Chaincode function names of the stock asset-transfer contract.
const (
	FnReadAsset    = "ReadAsset"
	FnGetAllAssets = "GetAllAssets"
	FnCreateAsset  = "CreateAsset"
	FnUpdateAsset  = "UpdateAsset"
)

// Placeholder positional values the asset schema requires. They carry no
// business meaning for certificates.
const (
	PlaceholderSize      = "1"
	PlaceholderAppraisal = "100"
)

// Asset is the wire shape of a ledger record. The field names are fixed by
// the asset-transfer chaincode: Color carries the composite certificate
// field and Owner carries the issuer.
type Asset struct {
	ID             string `json:"ID"`
	Color          string `json:"Color"`
	Size           int    `json:"Size"`
	Owner          string `json:"Owner"`
	AppraisedValue int    `json:"AppraisedValue"`
}

// Client executes chaincode operations. Query evaluates and returns the raw
// payload; Invoke submits a transaction and waits for the ack. CreateAsset
// and UpdateAsset behave as upsert at this layer: the service does not check
// for prior existence before writing.
type Client interface {
	Query(ctx context.Context, fn string, args ...string) ([]byte, error)
	Invoke(ctx context.Context, fn string, args ...string) error
}
