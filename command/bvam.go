package command

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/polyrabbit/tokenmap/model"
	"github.com/polyrabbit/tokenmap/tokenmap"
)

type bvamCommand struct {
	*Env
}

func NewBVAMCommand(env *Env) Command {
	return &bvamCommand{env}
}

func (c *bvamCommand) GetName() string {
	return "bvam"
}

func (c *bvamCommand) Usage() string {
	return "ASSET [ASSET...]"
}

// Run looks assets up on the counterparty chain unless --chain names another one
func (c *bvamCommand) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError(c)
	}
	chain := tokenmap.DefaultBVAMChain
	if c.Config.Chain != "" && c.Config.Chain != "bitcoin" {
		chain = c.Config.Chain
	}

	if len(args) == 1 {
		asset, err := c.Client.AssetInfo(ctx, args[0], chain)
		if err != nil {
			return err
		}
		var assets []*model.BVAMAsset
		if asset != nil {
			assets = append(assets, asset)
		}
		return c.Writer.RenderAssets(assets)
	}

	byName, err := c.Client.MultipleAssetsInfo(ctx, args, chain)
	if err != nil {
		return err
	}
	// Keep the requested order
	assets := make([]*model.BVAMAsset, 0, len(args))
	for _, name := range args {
		if asset, ok := byName[name]; ok {
			assets = append(assets, asset)
		} else {
			logrus.Warnf("No BVAM data for %s", name)
		}
	}
	return c.Writer.RenderAssets(assets)
}

func init() {
	Register(NewBVAMCommand)
}
