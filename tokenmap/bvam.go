package tokenmap

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"

	"github.com/polyrabbit/tokenmap/http"
	"github.com/polyrabbit/tokenmap/model"
)

const DefaultBVAMChain = "counterparty"

// AssetInfo returns the BVAM metadata of one asset
func (c *Client) AssetInfo(ctx context.Context, name, chain string) (*model.BVAMAsset, error) {
	if chain == "" {
		chain = DefaultBVAMChain
	}
	body, err := c.fetcher.Get(ctx, "bvam/"+chain+"/asset/"+name, nil)
	if err != nil {
		return nil, err
	}
	if emptyJSON(body) {
		return nil, nil
	}
	asset := new(model.BVAMAsset)
	if err := json.Unmarshal(body, asset); err != nil {
		return nil, errors.Wrapf(http.ErrUnexpectedResponse, "decode asset %s: %v", name, err)
	}
	return asset, nil
}

// MultipleAssetsInfo returns BVAM metadata keyed by asset name, nil when the service has nothing
func (c *Client) MultipleAssetsInfo(ctx context.Context, names []string, chain string) (map[string]*model.BVAMAsset, error) {
	if chain == "" {
		chain = DefaultBVAMChain
	}
	body, err := c.fetcher.Get(ctx, "bvam/"+chain+"/assets", map[string]string{"assets": strings.Join(names, ",")})
	if err != nil {
		return nil, err
	}
	if emptyJSON(body) {
		return nil, nil
	}

	output := make(map[string]*model.BVAMAsset, len(names))
	var entryErr error
	_, err = jsonparser.ArrayEach(body, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
		if entryErr != nil || dataType != jsonparser.Object {
			return
		}
		name, err := jsonparser.GetString(value, "asset")
		if err != nil {
			return
		}
		asset := new(model.BVAMAsset)
		if err := json.Unmarshal(value, asset); err != nil {
			entryErr = errors.Wrapf(http.ErrUnexpectedResponse, "decode asset %s: %v", name, err)
			return
		}
		output[name] = asset
	})
	if err != nil {
		return nil, errors.Wrapf(http.ErrUnexpectedResponse, "decode asset list: %v", err)
	}
	if entryErr != nil {
		return nil, entryErr
	}
	return output, nil
}
