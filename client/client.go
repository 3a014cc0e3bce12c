// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package client

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aungmawjj/juria-cfhello/consensus"
	"github.com/aungmawjj/juria-cfhello/core"
	"github.com/aungmawjj/juria-cfhello/execution"
	"github.com/aungmawjj/juria-cfhello/txpool"
)

var ErrTxNotFound = errors.New("submitted tx not found")

const DefaultPollInterval = 50 * time.Millisecond

// Client calls the node api
type Client struct {
	endpoint     string
	httpClient   *http.Client
	pollInterval time.Duration
}

func New(endpoint string) *Client {
	return &Client{
		endpoint:     endpoint,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		pollInterval: DefaultPollInterval,
	}
}

func (c *Client) SetPollInterval(val time.Duration) *Client {
	c.pollInterval = val
	return c
}

func (c *Client) SubmitTx(ctx context.Context, tx *core.Transaction) error {
	b, err := json.Marshal(tx)
	if err != nil {
		return err
	}
	resp, err := c.post(ctx, "/transactions", b)
	if err != nil {
		return fmt.Errorf("cannot submit tx %w", err)
	}
	resp.Body.Close()
	return nil
}

func (c *Client) GetTxStatus(ctx context.Context, hash []byte) (txpool.TxStatus, error) {
	var status txpool.TxStatus
	err := c.getJSON(ctx, fmt.Sprintf("/transactions/%s/status", hex.EncodeToString(hash)), &status)
	return status, err
}

func (c *Client) GetTxCommit(ctx context.Context, hash []byte) (*core.TxCommit, error) {
	txc := core.NewTxCommit()
	err := c.getJSON(ctx, fmt.Sprintf("/transactions/%s/commit", hex.EncodeToString(hash)), txc)
	if err != nil {
		return nil, err
	}
	return txc, nil
}

// WaitTxCommit polls the tx status until it is committed and returns its commit
func (c *Client) WaitTxCommit(ctx context.Context, hash []byte) (*core.TxCommit, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		status, err := c.GetTxStatus(ctx, hash)
		if err != nil {
			return nil, fmt.Errorf("get tx status error %w", err)
		}
		switch status {
		case txpool.TxStatusNotFound:
			return nil, ErrTxNotFound
		case txpool.TxStatusCommited:
			return c.GetTxCommit(ctx, hash)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// SubmitTxAndWait submits tx and waits for its commit
func (c *Client) SubmitTxAndWait(ctx context.Context, tx *core.Transaction) (*core.TxCommit, error) {
	if err := c.SubmitTx(ctx, tx); err != nil {
		return nil, err
	}
	return c.WaitTxCommit(ctx, tx.Hash())
}

func (c *Client) QueryState(ctx context.Context, query *execution.QueryData) ([]byte, error) {
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	resp, err := c.post(ctx, "/querystate", b)
	if err != nil {
		return nil, fmt.Errorf("cannot query state %w", err)
	}
	defer resp.Body.Close()
	var ret []byte
	return ret, json.NewDecoder(resp.Body).Decode(&ret)
}

func (c *Client) GetConsensusStatus(ctx context.Context) (*consensus.Status, error) {
	ret := new(consensus.Status)
	if err := c.getJSON(ctx, "/consensus", ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func (c *Client) GetTxPoolStatus(ctx context.Context) (*txpool.Status, error) {
	ret := new(txpool.Status)
	if err := c.getJSON(ctx, "/txpool", ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func (c *Client) GetBlockByHeight(ctx context.Context, height uint64) (*core.Block, error) {
	ret := core.NewBlock()
	if err := c.getJSON(ctx, fmt.Sprintf("/blocksbyh/%d", height), ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(v)
}

func (c *Client) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return resp, nil
}

func checkResponse(resp *http.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return fmt.Errorf("status code %d, %s", resp.StatusCode, string(msg))
	}
	return nil
}
