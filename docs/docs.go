// Package docs exposes static field descriptors for the ledger entities.
// External documentation tooling renders API reference pages from these
// tables; the ledger core never consumes them at runtime. The registry is
// populated exactly once by Init during startup and is read-only after
// that: no descriptor is computed lazily or mutated on access.
package docs

import (
	"sync"
)

// FieldDescriptor describes one serialized field of a ledger entity.
// Example is nil when the field publishes no example value.
type FieldDescriptor struct {
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Optional bool        `json:"optional,omitempty"`
	Example  interface{} `json:"example,omitempty"`
	Doc      string      `json:"doc"`
}

// HasExample reports whether the field publishes an example value.
func (f FieldDescriptor) HasExample() bool {
	return f.Example != nil
}

// EntityDescriptor describes one ledger entity and its serialized fields.
type EntityDescriptor struct {
	Name   string            `json:"name"`
	Doc    string            `json:"doc"`
	Fields []FieldDescriptor `json:"fields"`
}

var (
	initOnce sync.Once
	registry map[string]EntityDescriptor
	ordered  []string
)

const (
	exampleAccount    = "4d3cf1d9e4547d324de2084b568f807ef12045075a7a01b8bec1e7f013fc3732"
	exampleRecipient  = "ad1f8845c0e01ff3fc5a42720395dfd1bae72e6ff265f37b01a3b071a1b4c6ee"
	exampleIdentifier = "d606af9d1d769192813d71051148ef5896e1bd9b8d8a6f1a7df9c6f35a3d2f0e"
	exampleLock       = "created6bb7ba83e6d0a87e1a130b94c44b05a42f0bca26b00a9e3b4b6b3da4a"
	exampleSignature  = "ee5a2f2a2f5261c1b633e08dd61182fd0db5604c853ebd8498f6f28ce8e2ccbbc38093918610ea88a7ad47c7f3192ed955d9d1529e7e390013e43f25a5915c0f"
)

// Init populates the registry. Calling it more than once is harmless; the
// first call wins and later calls are no-ops.
func Init() {
	initOnce.Do(func() {
		registry = make(map[string]EntityDescriptor)
		for _, entity := range entityTable() {
			registry[entity.Name] = entity
			ordered = append(ordered, entity.Name)
		}
	})
}

// Get returns the descriptor of the named entity.
func Get(name string) (EntityDescriptor, bool) {
	entity, ok := registry[name]
	return entity, ok
}

// All returns every entity descriptor in declaration order.
func All() []EntityDescriptor {
	entities := make([]EntityDescriptor, 0, len(ordered))
	for _, name := range ordered {
		entities = append(entities, registry[name])
	}
	return entities
}

func entityTable() []EntityDescriptor {
	return []EntityDescriptor{
		{
			Name: "SignedChangeRequest",
			Doc:  "The unit of mutation accepted by the blockchain, bound to its signer by an Ed25519 signature over the canonical message bytes.",
			Fields: []FieldDescriptor{
				{Name: "signer", Type: "string", Example: exampleAccount,
					Doc: "Account number of the requester, hex encoded Ed25519 public key."},
				{Name: "request_type", Type: "string", Example: "coin-transfer",
					Doc: "Mutation kind, one of node-declaration or coin-transfer."},
				{Name: "node_declaration", Type: "object(NodeDeclarationMessage)", Optional: true,
					Doc: "Payload when request_type is node-declaration."},
				{Name: "coin_transfer", Type: "object(CoinTransferMessage)", Optional: true,
					Doc: "Payload when request_type is coin-transfer."},
				{Name: "signature", Type: "string", Example: exampleSignature,
					Doc: "Hex encoded Ed25519 signature over the canonical request type and payload bytes."},
			},
		},
		{
			Name: "NodeDeclarationMessage",
			Doc:  "Registers or updates the signer's node record.",
			Fields: []FieldDescriptor{
				{Name: "network_addresses", Type: "array(string)", Example: []string{"https://node.example.com"},
					Doc: "Absolute http(s) URLs the node is reachable at, possibly empty."},
				{Name: "fee_amount", Type: "integer", Example: uint64(3),
					Doc: "Fee the node charges per processed transfer."},
				{Name: "fee_account", Type: "string", Optional: true,
					Doc: "Account collecting the node's fees when different from the signer."},
			},
		},
		{
			Name: "CoinTransferMessage",
			Doc:  "Moves coins from the signer to one or more recipients.",
			Fields: []FieldDescriptor{
				{Name: "balance_lock", Type: "string", Example: exampleLock,
					Doc: "The signer's current balance lock; admitting the transfer rotates it to the hash of this message."},
				{Name: "transactions", Type: "array(Transaction)",
					Doc: "Outputs of the transfer, at least one."},
			},
		},
		{
			Name: "Transaction",
			Doc:  "A single output of a coin transfer.",
			Fields: []FieldDescriptor{
				{Name: "recipient", Type: "string", Example: exampleRecipient,
					Doc: "Account number credited by this output."},
				{Name: "amount", Type: "integer", Example: uint64(100),
					Doc: "Credited amount, strictly positive."},
				{Name: "is_fee", Type: "boolean", Optional: true,
					Doc: "Marks the output as a node or validator fee."},
				{Name: "memo", Type: "string", Optional: true,
					Doc: "Free form note carried with the output."},
			},
		},
		{
			Name: "Block",
			Doc:  "Binds one validated change request to a position in the hash linked chain.",
			Fields: []FieldDescriptor{
				{Name: "number", Type: "integer", Example: int64(0),
					Doc: "Position in the chain, contiguous from 0."},
				{Name: "identifier", Type: "string", Example: exampleIdentifier,
					Doc: "SHA3-256 hash of the canonical block serialization."},
				{Name: "previous_block_identifier", Type: "string",
					Doc: "Identifier of the previous block, or the all zero genesis sentinel for block 0."},
				{Name: "timestamp", Type: "integer",
					Doc: "Creation time in unix milliseconds, non decreasing along the chain."},
				{Name: "validator", Type: "string", Example: exampleAccount,
					Doc: "Account number of the validator that produced the block."},
				{Name: "validator_signature", Type: "string", Example: exampleSignature,
					Doc: "Validator's Ed25519 signature over the block identifier."},
				{Name: "change_request", Type: "object(SignedChangeRequest)",
					Doc: "The embedded, already validated change request."},
			},
		},
		{
			Name: "AccountState",
			Doc:  "Balance and balance lock of a single account.",
			Fields: []FieldDescriptor{
				{Name: "balance", Type: "integer", Example: uint64(1000),
					Doc: "Spendable coin balance."},
				{Name: "balance_lock", Type: "string", Example: exampleLock,
					Doc: "Replay protection lock. A fresh account is locked by its own account number."},
			},
		},
		{
			Name: "Node",
			Doc:  "A declared validator node record.",
			Fields: []FieldDescriptor{
				{Name: "network_addresses", Type: "array(string)", Example: []string{"https://node.example.com"},
					Doc: "Absolute http(s) URLs the node is reachable at."},
				{Name: "fee_amount", Type: "integer", Example: uint64(3),
					Doc: "Fee the node charges per processed transfer."},
				{Name: "fee_account", Type: "string", Optional: true,
					Doc: "Account collecting the node's fees when different from the declarer."},
			},
		},
		{
			Name: "BlockchainState",
			Doc:  "The materialized ledger state after applying all blocks up to last_block_number. Durable snapshots of it are the blockchain-state artifacts.",
			Fields: []FieldDescriptor{
				{Name: "last_block_number", Type: "integer", Example: int64(-1),
					Doc: "Highest applied block number, -1 for the genesis state."},
				{Name: "accounts", Type: "map(string -> AccountState)",
					Doc: "Account number to account state."},
				{Name: "nodes", Type: "map(string -> Node)",
					Doc: "Declaring account number to node record."},
				{Name: "root_hash", Type: "string", Example: exampleIdentifier,
					Doc: "SHA3-256 digest of the state, recomputed on every mutation."},
			},
		},
		{
			Name: "StateMeta",
			Doc:  "Addressing metadata of one blockchain state snapshot artifact.",
			Fields: []FieldDescriptor{
				{Name: "last_block_number", Type: "integer", Example: int64(-1),
					Doc: "Last block number reflected by the snapshot."},
				{Name: "url_path", Type: "string",
					Example: "/blockchain/blockchain-states/0/0/0/0/0/0/0/0/000000000!-blockchain-state.msgpack",
					Doc:     "Server relative path of the artifact."},
				{Name: "urls", Type: "array(string)",
					Doc: "Absolute artifact URLs in configured base URL order."},
			},
		},
	}
}
