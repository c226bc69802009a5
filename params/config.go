package params

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/nishp77/thenewboston-node/common"
	"github.com/nishp77/thenewboston-node/log"
)

const (
	defaultAPIPort = 8555

	// DefaultTreasuryBalance is the total coin supply granted to the
	// treasury account at genesis when the config does not override it.
	DefaultTreasuryBalance = uint64(281474976710656)

	// DefaultSnapshotPeriod is how many blocks pass between periodic
	// snapshots when the config does not override it.
	DefaultSnapshotPeriod = uint64(100)
)

var (
	locDataDir        string
	nodeConfig        *NodeConfig
	loadConfigStarter sync.Once
)

// NodeConfig config items (decode from toml file)
type NodeConfig struct {
	Identifier string
	Validator  *ValidatorConfig
	APIServer  *APIServerConfig
	Genesis    *GenesisConfig
	Blockchain *BlockchainConfig `toml:",omitempty" json:",omitempty"`
	MongoDB    *MongoDBConfig    `toml:",omitempty" json:",omitempty"`
	Email      *EmailConfig      `toml:",omitempty" json:",omitempty"`
	Extra      *ExtraConfig      `toml:",omitempty" json:",omitempty"`
}

// ValidatorConfig validator identity config
type ValidatorConfig struct {
	KeyFile    string `json:"-"`
	SigningKey string `toml:",omitempty" json:"-"`
}

// APIServerConfig api service config
type APIServerConfig struct {
	Port             int
	AllowedOrigins   []string
	MaxRequestsLimit int
}

// GenesisConfig initial ledger state config
type GenesisConfig struct {
	TreasuryAccount string
	TreasuryBalance uint64 `toml:",omitempty" json:",omitempty"`
}

// BlockchainConfig blockchain storage and publishing config
type BlockchainConfig struct {
	BaseURLs       []string `toml:",omitempty" json:",omitempty"`
	SnapshotPeriod uint64   `toml:",omitempty" json:",omitempty"`
	MirrorsDir     string   `toml:",omitempty" json:",omitempty"`
}

// MongoDBConfig mongodb config
type MongoDBConfig struct {
	DBURL    string   `toml:",omitempty" json:",omitempty"`
	DBURLs   []string `toml:",omitempty" json:",omitempty"`
	DBName   string
	UserName string `json:"-"`
	Password string `json:"-"`
}

// EmailConfig alert mail config
type EmailConfig struct {
	Server   string
	Port     int
	From     string
	FromName string `toml:",omitempty" json:",omitempty"`
	Password string `json:"-"`
	To       []string
}

// ExtraConfig extra config
type ExtraConfig struct {
	IsTestMode  bool `toml:",omitempty" json:",omitempty"`
	IsDebugMode bool `toml:",omitempty" json:",omitempty"`
}

// GetIdentifier get node identifier
func GetIdentifier() string {
	return GetConfig().Identifier
}

// GetAPIPort get api service port
func GetAPIPort() int {
	apiPort := GetConfig().APIServer.Port
	if apiPort == 0 {
		apiPort = defaultAPIPort
	}
	return apiPort
}

// GetValidatorConfig get validator config
func GetValidatorConfig() *ValidatorConfig {
	return GetConfig().Validator
}

// GetAPIServerConfig get api server config
func GetAPIServerConfig() *APIServerConfig {
	return GetConfig().APIServer
}

// GetGenesisConfig get genesis config
func GetGenesisConfig() *GenesisConfig {
	return GetConfig().Genesis
}

// GetTreasuryBalance get the genesis treasury balance
func GetTreasuryBalance() uint64 {
	balance := GetGenesisConfig().TreasuryBalance
	if balance == 0 {
		balance = DefaultTreasuryBalance
	}
	return balance
}

// GetBlockchainConfig get blockchain config (maybe nil)
func GetBlockchainConfig() *BlockchainConfig {
	return GetConfig().Blockchain
}

// GetBaseURLs get the configured artifact base URLs, defaulting to the
// node's own api server address.
func GetBaseURLs() []string {
	if cfg := GetBlockchainConfig(); cfg != nil && len(cfg.BaseURLs) > 0 {
		urls := make([]string, len(cfg.BaseURLs))
		copy(urls, cfg.BaseURLs)
		return urls
	}
	return []string{fmt.Sprintf("http://localhost:%d", GetAPIPort())}
}

// GetSnapshotPeriod get how many blocks pass between periodic snapshots
func GetSnapshotPeriod() uint64 {
	if cfg := GetBlockchainConfig(); cfg != nil && cfg.SnapshotPeriod > 0 {
		return cfg.SnapshotPeriod
	}
	return DefaultSnapshotPeriod
}

// GetMirrorsDir get the watched mirrors directory (maybe empty)
func GetMirrorsDir() string {
	if cfg := GetBlockchainConfig(); cfg != nil {
		return cfg.MirrorsDir
	}
	return ""
}

// GetMongoDBConfig get mongodb config (maybe nil)
func GetMongoDBConfig() *MongoDBConfig {
	return GetConfig().MongoDB
}

// GetHosts returns the configured mongodb server addresses.
func (cfg *MongoDBConfig) GetHosts() []string {
	if len(cfg.DBURLs) > 0 {
		hosts := make([]string, len(cfg.DBURLs))
		copy(hosts, cfg.DBURLs)
		return hosts
	}
	return []string{cfg.DBURL}
}

// GetEmailConfig get alert mail config (maybe nil)
func GetEmailConfig() *EmailConfig {
	return GetConfig().Email
}

// GetExtraConfig get extra config (maybe nil)
func GetExtraConfig() *ExtraConfig {
	return GetConfig().Extra
}

// IsTestMode is test mode (allow inline signing key, relax checks)
func IsTestMode() bool {
	return GetExtraConfig() != nil && GetExtraConfig().IsTestMode
}

// IsDebugMode is debug mode, add more debugging log infos
func IsDebugMode() bool {
	return GetExtraConfig() != nil && GetExtraConfig().IsDebugMode
}

// GetConfig get node config
func GetConfig() *NodeConfig {
	return nodeConfig
}

// SetConfig set node config
func SetConfig(config *NodeConfig) {
	nodeConfig = config
}

// LoadConfig load config
func LoadConfig(configFile string) *NodeConfig {
	loadConfigStarter.Do(func() {
		if configFile == "" {
			log.Fatalf("LoadConfig error: no config file specified")
		}
		log.Println("Config file is", configFile)
		if !common.FileExist(configFile) {
			log.Fatalf("LoadConfig error: config file %v not exist", configFile)
		}
		config := &NodeConfig{}
		if _, err := toml.DecodeFile(configFile, &config); err != nil {
			log.Fatalf("LoadConfig error (toml DecodeFile): %v", err)
		}

		SetConfig(config)
		var bs []byte
		if log.JSONFormat {
			bs, _ = json.Marshal(config)
		} else {
			bs, _ = json.MarshalIndent(config, "", "  ")
		}
		log.Println("LoadConfig finished.", string(bs))
		if err := CheckConfig(); err != nil {
			log.Fatalf("Check config failed. %v", err)
		}
		log.Info("Check config success", "configFile", configFile)
	})
	return nodeConfig
}

// SetDataDir set data dir
func SetDataDir(dir string) {
	if dir == "" {
		log.Fatal("must specify '--datadir' to locate the blockchain storage")
	}
	currDir, err := common.CurrentDir()
	if err != nil {
		log.Fatal("get current dir failed", "err", err)
	}
	locDataDir = common.AbsolutePath(currDir, dir)
	log.Info("set data dir success", "datadir", locDataDir)
}

// GetDataDir get data dir
func GetDataDir() string {
	return locDataDir
}

// GetBlockchainDir get the artifact store root under the data dir
func GetBlockchainDir() string {
	return filepath.Join(GetDataDir(), "blockchain")
}

// GetChainIndexDir get the chain index database dir under the data dir
func GetChainIndexDir() string {
	return filepath.Join(GetDataDir(), "chainindex")
}
