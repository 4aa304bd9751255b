package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/polyrabbit/tokenmap/config"
	"github.com/polyrabbit/tokenmap/tokenmap"
	"github.com/polyrabbit/tokenmap/writer"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("wrong number of arguments")
)

// Env carries what every command needs to talk to the service and print results
type Env struct {
	Client *tokenmap.Client
	Writer *writer.TableWriter
	Config *config.Config
}

type Command interface {
	GetName() string
	// Usage describes the positional arguments, eg. "CUR:TOKEN [chain]"
	Usage() string
	Run(ctx context.Context, args []string) error
}

type CommandProvider func(env *Env) Command

var providers []CommandProvider

func Register(p CommandProvider) {
	providers = append(providers, p)
}

type Registry struct {
	commands      map[string]Command
	officialNames []string
}

func NewRegistry(env *Env) *Registry {
	r := &Registry{commands: make(map[string]Command)}
	for _, p := range providers {
		cmd := p(env)
		r.officialNames = append(r.officialNames, cmd.GetName())
		upperName := strings.ToUpper(cmd.GetName())
		if _, exist := r.commands[upperName]; exist {
			panic(fmt.Errorf("%q already exists in command registry", upperName))
		}
		r.commands[upperName] = cmd
	}
	return r
}

func (r *Registry) GetAllNames() []string {
	sort.Strings(r.officialNames)
	return r.officialNames
}

// Describe lists every command with its usage, sorted by name
func (r *Registry) Describe() []string {
	names := r.GetAllNames()
	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, strings.TrimSpace(name+" "+r.getCommand(name).Usage()))
	}
	return lines
}

func (r *Registry) Run(ctx context.Context, name string, args []string) error {
	cmd := r.getCommand(name)
	if cmd == nil {
		return errors.Wrap(ErrUnknownCommand, name)
	}
	return cmd.Run(ctx, args)
}

func (r *Registry) getCommand(name string) Command {
	name = strings.ToUpper(name)
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	return nil
}

func usageError(cmd Command) error {
	return errors.Wrapf(ErrUsage, "usage: %s %s", cmd.GetName(), cmd.Usage())
}
