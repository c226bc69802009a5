package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nishp77/thenewboston-node/filestore"
)

// RPCGet http get with json result
func RPCGet(result interface{}, url string) error {
	resp, err := httpClient.R().Get(url)
	if err != nil {
		return fmt.Errorf("GET request error: %v (url: %v)", err, url)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("error response status: %v (url: %v)", resp.StatusCode(), url)
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return fmt.Errorf("unmarshal result error: %v", err)
	}
	return nil
}

// GetStateMeta resolves a blockchain state reference on a remote node.
func GetStateMeta(nodeURL, reference string) (*filestore.StateMeta, error) {
	url := strings.TrimRight(nodeURL, "/") + "/api/v1/blockchain-states-meta/" + reference + "/"
	var meta filestore.StateMeta
	if err := RPCGet(&meta, url); err != nil {
		return nil, err
	}
	return &meta, nil
}

// FetchArtifact downloads a raw artifact from one of its published urls.
func FetchArtifact(url string) ([]byte, error) {
	resp, err := httpClient.R().Get(url)
	if err != nil {
		return nil, fmt.Errorf("GET request error: %v (url: %v)", err, url)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("error response status: %v (url: %v)", resp.StatusCode(), url)
	}
	return resp.Body(), nil
}
