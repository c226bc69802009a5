package params

import (
	"errors"
	"net/url"

	"github.com/nishp77/thenewboston-node/common"
	"github.com/nishp77/thenewboston-node/tools/crypto"
)

// CheckConfig check config
func CheckConfig() (err error) {
	config := GetConfig()
	if config.Identifier == "" {
		return errors.New("node must config non empty 'Identifier'")
	}
	if config.Validator == nil {
		return errors.New("node must config 'Validator'")
	}
	err = config.Validator.CheckConfig()
	if err != nil {
		return err
	}
	if config.APIServer == nil {
		return errors.New("node must config 'APIServer'")
	}
	if config.Genesis == nil {
		return errors.New("node must config 'Genesis'")
	}
	err = config.Genesis.CheckConfig()
	if err != nil {
		return err
	}
	if config.Blockchain != nil {
		err = config.Blockchain.CheckConfig()
		if err != nil {
			return err
		}
	}
	if config.MongoDB != nil {
		err = config.MongoDB.CheckConfig()
		if err != nil {
			return err
		}
	}
	if config.Email != nil {
		err = config.Email.CheckConfig()
		if err != nil {
			return err
		}
	}
	return nil
}

// CheckConfig check validator config
func (c *ValidatorConfig) CheckConfig() error {
	if c.KeyFile == "" && c.SigningKey == "" {
		return errors.New("validator must config 'KeyFile'")
	}
	if c.SigningKey != "" {
		if !IsTestMode() {
			return errors.New("inline 'SigningKey' is only allowed in test mode")
		}
		if _, err := crypto.AccountFromSigningKey(c.SigningKey); err != nil {
			return err
		}
	}
	if c.KeyFile != "" && !common.FileExist(c.KeyFile) {
		return errors.New("validator 'KeyFile' does not exist")
	}
	return nil
}

// CheckConfig check genesis config
func (c *GenesisConfig) CheckConfig() error {
	if !crypto.IsValidAccountNumber(c.TreasuryAccount) {
		return errors.New("genesis must config a valid 'TreasuryAccount'")
	}
	return nil
}

// CheckConfig check blockchain config
func (c *BlockchainConfig) CheckConfig() error {
	for _, base := range c.BaseURLs {
		u, err := url.Parse(base)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.New("blockchain 'BaseURLs' must be absolute http(s) urls")
		}
	}
	return nil
}

// CheckConfig check mongodb config
func (c *MongoDBConfig) CheckConfig() error {
	if c.DBName == "" {
		return errors.New("mongodb must config 'DBName'")
	}
	if c.DBURL == "" && len(c.DBURLs) == 0 {
		return errors.New("mongodb must config 'DBURL' or 'DBURLs'")
	}
	if c.DBURL != "" && len(c.DBURLs) != 0 {
		return errors.New("mongodb must config only one of 'DBURL' and 'DBURLs'")
	}
	return nil
}

// CheckConfig check alert mail config
func (c *EmailConfig) CheckConfig() error {
	if c.Server == "" || c.Port == 0 {
		return errors.New("email must config 'Server' and 'Port'")
	}
	if c.From == "" {
		return errors.New("email must config 'From'")
	}
	if len(c.To) == 0 {
		return errors.New("email must config 'To'")
	}
	return nil
}
