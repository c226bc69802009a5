package mongodb

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nishp77/thenewboston-node/log"
)

const (
	tbBlocks    string = "Blocks"
	tbSnapshots string = "Snapshots"
)

var (
	database *mongo.Database

	collBlocks    *mongo.Collection
	collSnapshots *mongo.Collection
)

func initCollections() {
	database = client.Database(databaseName)

	initCollection(tbBlocks, &collBlocks, "timestamp", "signer")
	initCollection(tbSnapshots, &collSnapshots, "inittime")
}

func initCollection(table string, collection **mongo.Collection, indexKey ...string) {
	*collection = database.Collection(table)
	if len(indexKey) != 0 {
		createOneIndex(*collection, indexKey...)
	}
}

func createOneIndex(coll *mongo.Collection, indexes ...string) {
	keys := make([]bson.E, len(indexes))
	for i, index := range indexes {
		keys[i] = bson.E{Key: index, Value: 1}
	}
	model := mongo.IndexModel{Keys: keys}
	_, err := coll.Indexes().CreateOne(clientCtx, model)
	if err != nil {
		log.Error("[mongodb] create indexes failed", "collection", coll.Name(), "indexes", indexes, "err", err)
	}
}
