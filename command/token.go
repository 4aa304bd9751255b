package command

import (
	"context"

	"github.com/pkg/errors"

	"github.com/polyrabbit/tokenmap/model"
)

var ErrTokenNotFound = errors.New("token not found")

type tokenCommand struct {
	*Env
	byAsset bool
}

func NewTokenCommand(env *Env) Command {
	return &tokenCommand{Env: env}
}

func NewAssetCommand(env *Env) Command {
	return &tokenCommand{Env: env, byAsset: true}
}

func (c *tokenCommand) GetName() string {
	if c.byAsset {
		return "asset"
	}
	return "token"
}

func (c *tokenCommand) Usage() string {
	if c.byAsset {
		return "CHAIN ASSET"
	}
	return "CHAIN SYMBOL"
}

func (c *tokenCommand) Run(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError(c)
	}
	useCache := !c.Config.ForceReload
	var (
		token *model.Token
		err   error
	)
	if c.byAsset {
		token, err = c.Client.TokenByChainAndAsset(ctx, args[0], args[1], useCache)
	} else {
		token, err = c.Client.TokenByChainAndSymbol(ctx, args[0], args[1], useCache)
	}
	if err != nil {
		return err
	}
	if token == nil {
		return errors.Wrapf(ErrTokenNotFound, "%s on %s", args[1], args[0])
	}
	return c.Writer.RenderTokens([]model.Token{*token})
}

type tokensCommand struct {
	*Env
}

func NewTokensCommand(env *Env) Command {
	return &tokensCommand{env}
}

func (c *tokensCommand) GetName() string {
	return "tokens"
}

func (c *tokensCommand) Usage() string {
	return ""
}

func (c *tokensCommand) Run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return usageError(c)
	}
	tokens, err := c.Client.AllTokens(ctx, !c.Config.ForceReload)
	if err != nil {
		return err
	}
	return c.Writer.RenderTokens(tokens)
}

func init() {
	Register(NewTokenCommand)
	Register(NewAssetCommand)
	Register(NewTokensCommand)
}
