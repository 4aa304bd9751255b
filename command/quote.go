package command

import (
	"context"
	"net"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/polyrabbit/tokenmap/model"
	"github.com/polyrabbit/tokenmap/tokenmap"
)

type quoteCommand struct {
	*Env
}

func NewQuoteCommand(env *Env) Command {
	return &quoteCommand{env}
}

func (c *quoteCommand) GetName() string {
	return "quote"
}

func (c *quoteCommand) Usage() string {
	return "CUR:TOKEN [CUR:TOKEN...]"
}

func (c *quoteCommand) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError(c)
	}
	quotes := collectQuotes(getQuotesAsync(args, func(pair string) (*model.Quote, error) {
		currency, token := model.SplitPair(pair)
		return c.Client.Quote(ctx, tokenmap.QuoteRequest{
			Currency:     currency,
			Token:        token,
			Chain:        c.Config.Chain,
			MaxStaleness: c.Config.Staleness(),
			ForceReload:  c.Config.ForceReload,
		})
	}))
	return c.Writer.RenderQuotes(quotes)
}

type sourceCommand struct {
	*Env
}

func NewSourceCommand(env *Env) Command {
	return &sourceCommand{env}
}

func (c *sourceCommand) GetName() string {
	return "source"
}

func (c *sourceCommand) Usage() string {
	return "SOURCE CUR:TOKEN [CUR:TOKEN...]"
}

func (c *sourceCommand) Run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usageError(c)
	}
	source := args[0]
	quotes := collectQuotes(getQuotesAsync(args[1:], func(pair string) (*model.Quote, error) {
		currency, token := model.SplitPair(pair)
		return c.Client.SourceQuote(ctx, source, currency, token)
	}))
	return c.Writer.RenderQuotes(quotes)
}

// Return a slice of waiting chans, each of them represents a pending request
func getQuotesAsync(pairs []string, get func(pair string) (*model.Quote, error)) []chan *model.Quote {
	// Use slice to hold the waiting chans in order to keep requested order
	waitingChans := make([]chan *model.Quote, 0, len(pairs))
	for _, pair := range pairs {
		doneCh := make(chan *model.Quote, 1)
		waitingChans = append(waitingChans, doneCh)
		go func(pair string) {
			start := time.Now()
			quote, err := get(pair)
			if err != nil {
				logEntry := logrus.WithError(err)
				var netErr net.Error
				if errors.As(err, &netErr) && netErr.Timeout() {
					logEntry = logEntry.WithField("elapsed", time.Since(start).String())
				}
				logEntry.Warnf("Failed to get quote for %s", pair)
				close(doneCh) // closed without a value means the request failed
				return
			}
			doneCh <- quote
		}(pair)
	}
	return waitingChans
}

func collectQuotes(waitingChans []chan *model.Quote) []*model.Quote {
	quotes := make([]*model.Quote, 0, len(waitingChans))
	for _, doneCh := range waitingChans {
		if quote := <-doneCh; quote != nil {
			quotes = append(quotes, quote)
		}
	}
	return quotes
}

func init() {
	Register(NewQuoteCommand)
	Register(NewSourceCommand)
}
