package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testAccount = "4d3cf1d9e4547d324de2084b568f807ef12045075a7a01b8bec1e7f013fc3732"

func validTestConfig() *NodeConfig {
	return &NodeConfig{
		Identifier: "test-node",
		Validator:  &ValidatorConfig{KeyFile: "", SigningKey: "1234567890abcdef1234567890abcdef1234567890abcdef1234567890abcdef"},
		APIServer:  &APIServerConfig{Port: 8555},
		Genesis:    &GenesisConfig{TreasuryAccount: testAccount},
		Extra:      &ExtraConfig{IsTestMode: true},
	}
}

func TestCheckConfig(t *testing.T) {
	defer SetConfig(nil)

	SetConfig(validTestConfig())
	assert.Nil(t, CheckConfig())

	config := validTestConfig()
	config.Identifier = ""
	SetConfig(config)
	assert.Error(t, CheckConfig())

	config = validTestConfig()
	config.Validator = nil
	SetConfig(config)
	assert.Error(t, CheckConfig())

	// inline signing keys are only for test mode
	config = validTestConfig()
	config.Extra = nil
	SetConfig(config)
	assert.Error(t, CheckConfig())

	config = validTestConfig()
	config.Genesis.TreasuryAccount = "not-an-account"
	SetConfig(config)
	assert.Error(t, CheckConfig())

	config = validTestConfig()
	config.Blockchain = &BlockchainConfig{BaseURLs: []string{"ftp://wrong.example.com"}}
	SetConfig(config)
	assert.Error(t, CheckConfig())

	config = validTestConfig()
	config.Blockchain = &BlockchainConfig{BaseURLs: []string{"https://node1.example.com", "http://localhost:8555"}}
	SetConfig(config)
	assert.Nil(t, CheckConfig())

	config = validTestConfig()
	config.MongoDB = &MongoDBConfig{DBName: "archive"}
	SetConfig(config)
	assert.Error(t, CheckConfig())

	config = validTestConfig()
	config.MongoDB = &MongoDBConfig{DBName: "archive", DBURL: "localhost:27017", DBURLs: []string{"localhost:27018"}}
	SetConfig(config)
	assert.Error(t, CheckConfig())

	config = validTestConfig()
	config.MongoDB = &MongoDBConfig{DBName: "archive", DBURL: "localhost:27017"}
	SetConfig(config)
	assert.Nil(t, CheckConfig())
}

func TestMongoDBConfigGetHosts(t *testing.T) {
	cfg := &MongoDBConfig{DBURL: "localhost:27017"}
	assert.Equal(t, []string{"localhost:27017"}, cfg.GetHosts())

	cfg = &MongoDBConfig{DBURLs: []string{"a:27017", "b:27017"}}
	assert.Equal(t, []string{"a:27017", "b:27017"}, cfg.GetHosts())
}

func TestDefaultGetters(t *testing.T) {
	defer SetConfig(nil)

	SetConfig(validTestConfig())
	assert.Equal(t, 8555, GetAPIPort())
	assert.Equal(t, DefaultTreasuryBalance, GetTreasuryBalance())
	assert.Equal(t, DefaultSnapshotPeriod, GetSnapshotPeriod())
	assert.Equal(t, []string{"http://localhost:8555"}, GetBaseURLs())
	assert.Equal(t, "", GetMirrorsDir())
	assert.True(t, IsTestMode())

	config := validTestConfig()
	config.APIServer.Port = 0
	config.Genesis.TreasuryBalance = 5000
	config.Blockchain = &BlockchainConfig{
		BaseURLs:       []string{"https://node1.example.com/"},
		SnapshotPeriod: 25,
		MirrorsDir:     "/var/mirrors",
	}
	SetConfig(config)
	assert.Equal(t, defaultAPIPort, GetAPIPort())
	assert.Equal(t, uint64(5000), GetTreasuryBalance())
	assert.Equal(t, uint64(25), GetSnapshotPeriod())
	assert.Equal(t, []string{"https://node1.example.com/"}, GetBaseURLs())
	assert.Equal(t, "/var/mirrors", GetMirrorsDir())
}
