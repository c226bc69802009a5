package client

import (
	"encoding/json"
	"fmt"
)

// RequestBody is a JSON-RPC 2.0 request envelope.
type RequestBody struct {
	Version string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
	ID      int         `json:"id"`
}

type jsonError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (err *jsonError) Error() string {
	return fmt.Sprintf("json-rpc error %d, %s", err.Code, err.Message)
}

type jsonrpcResponse struct {
	Version string          `json:"jsonrpc,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
	Error   *jsonError      `json:"error,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// RPCPost posts a JSON-RPC request and decodes the result. A single
// param is sent as the request object itself, which is the form the
// gorilla json2 codec expects.
func RPCPost(result interface{}, url, method string, params ...interface{}) error {
	reqBody := &RequestBody{
		Version: "2.0",
		Method:  method,
		ID:      defaultRequestID,
	}
	switch len(params) {
	case 0:
	case 1:
		reqBody.Params = params[0]
	default:
		reqBody.Params = params
	}

	resp, err := httpClient.R().
		SetHeader("Content-Type", "application/json").
		SetBody(reqBody).
		Post(url)
	if err != nil {
		return fmt.Errorf("POST request error: %v (url: %v, method: %v)", err, url, method)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("wrong response status %v. message: %v", resp.StatusCode(), string(resp.Body()))
	}

	var jsonResp jsonrpcResponse
	if err := json.Unmarshal(resp.Body(), &jsonResp); err != nil {
		return fmt.Errorf("unmarshal body error: %v", err)
	}
	if jsonResp.Error != nil {
		return fmt.Errorf("return error: %v", jsonResp.Error.Error())
	}
	if err := json.Unmarshal(jsonResp.Result, &result); err != nil {
		return fmt.Errorf("unmarshal result error: %v", err)
	}
	return nil
}
