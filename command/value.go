package command

import (
	"context"

	"github.com/sirupsen/logrus"
)

type rateCommand struct {
	*Env
}

func NewRateCommand(env *Env) Command {
	return &rateCommand{env}
}

func (c *rateCommand) GetName() string {
	return "rate"
}

func (c *rateCommand) Usage() string {
	return "[FIAT]"
}

func (c *rateCommand) Run(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return usageError(c)
	}
	fiat := c.Config.Fiat
	if len(args) == 1 {
		fiat = args[0]
	}
	price, err := c.Client.ReferenceQuoteWithFallback(ctx, fiat, c.Config.FallbackSources, c.Config.Staleness())
	if err != nil {
		return err
	}
	return c.Writer.RenderValue(c.Config.ReferenceAsset, price, fiat)
}

type valueCommand struct {
	*Env
}

func NewValueCommand(env *Env) Command {
	return &valueCommand{env}
}

func (c *valueCommand) GetName() string {
	return "value"
}

func (c *valueCommand) Usage() string {
	return "SOURCE TOKEN [FIAT]"
}

func (c *valueCommand) Run(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return usageError(c)
	}
	fiat := c.Config.Fiat
	if len(args) == 3 {
		fiat = args[2]
	}
	value, err := c.Client.TokenValue(ctx, args[0], args[1], fiat)
	if err != nil {
		return err
	}
	return c.Writer.RenderValue(args[1], value, fiat)
}

type populateCommand struct {
	*Env
}

func NewPopulateCommand(env *Env) Command {
	return &populateCommand{env}
}

func (c *populateCommand) GetName() string {
	return "populate"
}

func (c *populateCommand) Usage() string {
	return ""
}

func (c *populateCommand) Run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return usageError(c)
	}
	count, err := c.Client.PopulateQuotes(ctx)
	if err != nil {
		return err
	}
	logrus.Infof("Cached %d quotes", count)
	return nil
}

func init() {
	Register(NewRateCommand)
	Register(NewValueCommand)
	Register(NewPopulateCommand)
}
