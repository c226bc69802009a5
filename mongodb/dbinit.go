// Package mongodb keeps a queryable archive of appended blocks and
// published state snapshots. The archive is populated asynchronously by
// the archive worker and is never consulted by the chain engine itself,
// so a mongodb outage degrades reporting only.
package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/nishp77/thenewboston-node/log"
)

var (
	client    *mongo.Client
	clientCtx = context.Background()

	appIdentifier string
	databaseName  string
)

// HasClient returns whether the mongodb server is connected.
func HasClient() bool {
	return client != nil
}

// MongoServerInit connects the mongodb server and initializes the collections.
func MongoServerInit(appName string, hosts []string, dbName, user, pass string) {
	appIdentifier = appName
	databaseName = dbName

	clientOpts := options.Client().SetAppName(appIdentifier).SetHosts(hosts)
	if user != "" || pass != "" {
		clientOpts = clientOpts.SetAuth(options.Credential{
			AuthSource: dbName,
			Username:   user,
			Password:   pass,
		})
	}

	mongoConnect(clientOpts)
	initCollections()
}

func mongoConnect(opts *options.ClientOptions) {
	log.Info("[mongodb] connect database start", "hosts", opts.Hosts, "dbName", databaseName)
	for {
		ctx, cancel := context.WithTimeout(clientCtx, 10*time.Second)
		c, err := mongo.Connect(ctx, opts)
		if err == nil {
			err = c.Ping(ctx, readpref.Primary())
		}
		cancel()
		if err == nil {
			client = c
			log.Info("[mongodb] connect database finished", "dbName", databaseName)
			return
		}
		log.Warn("[mongodb] connect database failed", "hosts", opts.Hosts, "err", err)
		time.Sleep(1 * time.Second)
	}
}
