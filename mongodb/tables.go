package mongodb

// MgoBlock is the searchable summary of an appended block. The full
// signed artifact stays in the file store; the archive keeps the fields
// explorers and reports query on.
type MgoBlock struct {
	Number             int64  `bson:"_id"`
	Identifier         string `bson:"identifier"`
	PreviousIdentifier string `bson:"previousidentifier"`
	Timestamp          int64  `bson:"timestamp"`
	Validator          string `bson:"validator"`
	RequestType        string `bson:"requesttype"`
	Signer             string `bson:"signer"`
	TotalAmount        uint64 `bson:"totalamount"`
	InitTime           int64  `bson:"inittime"`
}

// MgoSnapshot records a published blockchain state snapshot.
type MgoSnapshot struct {
	LastBlockNumber int64  `bson:"_id"`
	RootHash        string `bson:"roothash"`
	URLPath         string `bson:"urlpath"`
	Accounts        int    `bson:"accounts"`
	Nodes           int    `bson:"nodes"`
	InitTime        int64  `bson:"inittime"`
}
