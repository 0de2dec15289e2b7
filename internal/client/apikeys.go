package client

import (
	"context"
	"strconv"

	"github.com/nesirat/MCP/internal/core/domain"
)

// ListKeys returns the full ordered key collection for the
// authenticated principal.
func (c *Client) ListKeys(ctx context.Context) ([]domain.APIKey, error) {
	resp, err := c.get(ctx, "/api-keys")
	if err != nil {
		return nil, err
	}

	var keys []domain.APIKey
	if err := parseResponse(resp, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

// CreateKey mints a new key. The response is authoritative for the new
// record, including the server-assigned id and secret value.
func (c *Client) CreateKey(ctx context.Context, name, description string) (*domain.APIKey, error) {
	body := map[string]string{
		"name":        name,
		"description": description,
	}

	resp, err := c.postJSON(ctx, "/api-keys", body)
	if err != nil {
		return nil, err
	}

	var key domain.APIKey
	if err := parseResponse(resp, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

// RevokeKey deactivates a key. Irreversible from the client side.
func (c *Client) RevokeKey(ctx context.Context, id int64) error {
	resp, err := c.postJSON(ctx, "/api-keys/"+strconv.FormatInt(id, 10)+"/revoke", nil)
	if err != nil {
		return err
	}
	return parseResponse(resp, nil)
}

// DeleteKey removes a key permanently.
func (c *Client) DeleteKey(ctx context.Context, id int64) error {
	resp, err := c.delete(ctx, "/api-keys/"+strconv.FormatInt(id, 10))
	if err != nil {
		return err
	}
	return parseResponse(resp, nil)
}
