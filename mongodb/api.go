package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nishp77/thenewboston-node/log"
)

const maxCountOfResults = 5000

// --------------- block --------------------------------

// AddBlock add block summary
func AddBlock(mb *MgoBlock) error {
	if mb.InitTime == 0 {
		mb.InitTime = time.Now().Unix()
	}
	_, err := collBlocks.InsertOne(clientCtx, mb)
	if err == nil {
		log.Info("[mongodb] add block", "number", mb.Number, "identifier", mb.Identifier)
	} else {
		log.Debug("[mongodb] add block failed", "number", mb.Number, "err", err)
	}
	return mgoError(err)
}

// FindBlock find block summary by number
func FindBlock(number int64) (*MgoBlock, error) {
	var result MgoBlock
	err := collBlocks.FindOne(clientCtx, bson.M{"_id": number}).Decode(&result)
	if err != nil {
		return nil, mgoError(err)
	}
	return &result, nil
}

// FindLatestBlock find the block summary with the highest number
func FindLatestBlock() (*MgoBlock, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})
	var result MgoBlock
	err := collBlocks.FindOne(clientCtx, bson.M{}, opts).Decode(&result)
	if err != nil {
		return nil, mgoError(err)
	}
	return &result, nil
}

// FindBlocksBySigner find block summaries whose change request was signed
// by the given account, oldest first
func FindBlocksBySigner(signer string, offset, limit int) ([]*MgoBlock, error) {
	if limit <= 0 || limit > maxCountOfResults {
		limit = maxCountOfResults
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := collBlocks.Find(clientCtx, bson.M{"signer": signer}, opts)
	if err != nil {
		return nil, mgoError(err)
	}
	result := make([]*MgoBlock, 0, 20)
	err = cur.All(clientCtx, &result)
	if err != nil {
		return nil, mgoError(err)
	}
	return result, nil
}

// --------------- snapshot --------------------------------

// AddSnapshot add snapshot record
func AddSnapshot(ms *MgoSnapshot) error {
	if ms.InitTime == 0 {
		ms.InitTime = time.Now().Unix()
	}
	_, err := collSnapshots.InsertOne(clientCtx, ms)
	if err == nil {
		log.Info("[mongodb] add snapshot", "lastBlockNumber", ms.LastBlockNumber, "rootHash", ms.RootHash)
	} else {
		log.Debug("[mongodb] add snapshot failed", "lastBlockNumber", ms.LastBlockNumber, "err", err)
	}
	return mgoError(err)
}

// FindSnapshot find snapshot record by last block number
func FindSnapshot(lastBlockNumber int64) (*MgoSnapshot, error) {
	var result MgoSnapshot
	err := collSnapshots.FindOne(clientCtx, bson.M{"_id": lastBlockNumber}).Decode(&result)
	if err != nil {
		return nil, mgoError(err)
	}
	return &result, nil
}

// FindLatestSnapshot find the most recent snapshot record
func FindLatestSnapshot() (*MgoSnapshot, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})
	var result MgoSnapshot
	err := collSnapshots.FindOne(clientCtx, bson.M{}, opts).Decode(&result)
	if err != nil {
		return nil, mgoError(err)
	}
	return &result, nil
}
