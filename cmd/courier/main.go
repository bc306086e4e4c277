// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.astrophena.name/courier/internal/atomicio"
	"go.astrophena.name/courier/internal/cli"
	"go.astrophena.name/courier/internal/cli/envflag"
	"go.astrophena.name/courier/internal/discord"
	"go.astrophena.name/courier/internal/discord/attach"
	"go.astrophena.name/courier/internal/discord/content"
	"go.astrophena.name/courier/internal/discord/payload"
	"go.astrophena.name/courier/internal/discord/target"
	"go.astrophena.name/courier/internal/httplogger"
	"go.astrophena.name/courier/internal/logger"
	httprequest "go.astrophena.name/courier/internal/request"
	"go.astrophena.name/courier/internal/starlark/interpreter"
	discordlib "go.astrophena.name/courier/internal/starlark/lib/discord"

	"github.com/joho/godotenv"
	starlarkjson "go.starlark.net/lib/json"
	"go.starlark.net/starlark"
	"gopkg.in/yaml.v3"
)

func main() { cli.Main(new(app)) }

type app struct {
	env *envflag.Set

	// configuration
	strict          *bool
	maxLength       *int
	allowedMentions *string
	repliedUser     *bool
	concurrency     *int
	verbose         *bool
	envFile         string
	script          string
	out             string
	httpc           *http.Client // for tests
}

func (a *app) Flags(fs *flag.FlagSet, getenv func(string) string) {
	a.env = envflag.New(fs, getenv, "COURIER_")
	a.strict = envflag.Value(a.env, "strict", false, "Fail on targets of unknown kind instead of using the channel rules.")
	a.maxLength = envflag.Value(a.env, "max-length", content.MaxLength, "Split limit used when split options don't set one.")
	a.allowedMentions = envflag.Value(a.env, "allowed-mentions", "", "Default mention types to parse, comma-separated, or none.")
	a.repliedUser = envflag.Value(a.env, "replied-user", false, "Mention the author of replied messages by default.")
	a.concurrency = envflag.Value(a.env, "concurrency", 4, "Number of files resolved at once. Zero means no limit.")
	a.verbose = envflag.Value(a.env, "verbose", false, "Log debug messages.")
	fs.StringVar(&a.envFile, "env-file", "", "Read COURIER_* variables missing from the environment from dotenv `file`.")
	fs.StringVar(&a.script, "script", "", "Run Starlark `file` instead of reading a request.")
	fs.StringVar(&a.out, "out", "", "Resolve files and write multipart request bodies into `dir`.")
}

func (a *app) Run(ctx context.Context, env *cli.Env) error {
	if err := a.env.Err(); err != nil {
		return fmt.Errorf("%w: %v", cli.ErrInvalidArgs, err)
	}
	if a.envFile != "" {
		vals, err := godotenv.Read(a.envFile)
		if err != nil {
			return err
		}
		if err := a.env.Layer(vals); err != nil {
			return fmt.Errorf("%w: %s: %v", cli.ErrInvalidArgs, a.envFile, err)
		}
	}

	level := slog.LevelInfo
	if *a.verbose {
		level = slog.LevelDebug
	}
	log := logger.Slog(env.Logf, level)

	cfg, err := a.config(log)
	if err != nil {
		return err
	}

	var batches [][]*payload.Builder
	switch {
	case a.script != "":
		if len(env.Args) != 0 {
			return fmt.Errorf("%w: no arguments are accepted with -script", cli.ErrInvalidArgs)
		}
		batches, err = a.runScript(ctx, env, cfg)
	case len(env.Args) == 1:
		batches, err = a.readRequests(env, cfg)
	default:
		return fmt.Errorf("%w: expected one argument: request file or -", cli.ErrInvalidArgs)
	}
	if err != nil {
		return err
	}

	return a.emit(ctx, env, log, batches)
}

func (a *app) config(log *slog.Logger) (payload.Config, error) {
	mentions, err := parseMentions(*a.allowedMentions, *a.repliedUser)
	if err != nil {
		return payload.Config{}, err
	}

	httpc := a.httpc
	if httpc == nil {
		httpc = &http.Client{
			Timeout:   httprequest.DefaultClient.Timeout,
			Transport: httplogger.New(nil, log),
		}
	}

	return payload.Config{
		AllowedMentions: mentions,
		Resolver: attach.NewResolver(attach.Config{
			Loader:      attach.NewLoader(attach.LoaderConfig{HTTPClient: httpc}),
			Concurrency: *a.concurrency,
			Logger:      log,
		}),
		Strict:    *a.strict,
		MaxLength: *a.maxLength,
		Logger:    log,
	}, nil
}

// parseMentions parses the default mention policy. An empty list and no
// replied user mean the service default.
func parseMentions(list string, repliedUser bool) (*discord.AllowedMentions, error) {
	if list == "" && !repliedUser {
		return nil, nil
	}
	am := new(discord.AllowedMentions)
	switch list {
	case "":
	case "none":
		am.Parse = []discord.MentionType{}
	default:
		for part := range strings.SplitSeq(list, ",") {
			mt := discord.MentionType(strings.TrimSpace(part))
			switch mt {
			case discord.MentionRoles, discord.MentionUsers, discord.MentionEveryone:
			default:
				return nil, fmt.Errorf("%w: unknown mention type %q", cli.ErrInvalidArgs, part)
			}
			am.Parse = append(am.Parse, mt)
		}
	}
	if repliedUser {
		am.RepliedUser = &repliedUser
	}
	return am, nil
}

// request is one document of a request file.
type request struct {
	Target  target.Spec    `yaml:"target"`
	Options map[string]any `yaml:"options"`
}

func (a *app) readRequests(env *cli.Env, cfg payload.Config) ([][]*payload.Builder, error) {
	r := env.Stdin
	if name := env.Args[0]; name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var batches [][]*payload.Builder
	dec := yaml.NewDecoder(r)
	for i := 1; ; i++ {
		var req request
		if err := dec.Decode(&req); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}

		t, err := req.Target.Target()
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
		opts, err := payload.Decode(req.Options)
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
		builders, err := payload.New(t, opts, cfg).Split()
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
		batches = append(batches, builders)
	}
	return batches, nil
}

func (a *app) runScript(ctx context.Context, env *cli.Env, cfg payload.Config) ([][]*payload.Builder, error) {
	var batches [][]*payload.Builder
	intr := &interpreter.Interpreter{
		Predeclared: starlark.StringDict{
			"discord": discordlib.Module(discordlib.Config{
				Payload: cfg,
				Built:   func(bs []*payload.Builder) { batches = append(batches, bs) },
			}),
			"json": starlarkjson.Module,
		},
		// Scripts load other scripts from their own directory.
		Loader: interpreter.FSLoader(os.DirFS(filepath.Dir(a.script))),
		Logger: func(file string, line int, msg string) { env.Logf("%s:%d: %s", file, line, msg) },
	}

	if _, err := intr.ExecModule(ctx, filepath.Base(a.script)); err != nil {
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			return nil, errors.New(evalErr.Backtrace())
		}
		return nil, err
	}
	return batches, nil
}

func (a *app) emit(ctx context.Context, env *cli.Env, log *slog.Logger, batches [][]*payload.Builder) error {
	if a.out != "" {
		if err := os.MkdirAll(a.out, 0o755); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(env.Stdout)
	enc.SetEscapeHTML(false)

	n := 0
	for _, builders := range batches {
		for _, b := range builders {
			n++
			p, err := b.Build()
			if err != nil {
				return fmt.Errorf("message %d: %w", n, err)
			}
			if err := enc.Encode(p); err != nil {
				return err
			}
			if a.out == "" {
				continue
			}
			if err := a.writeBody(ctx, log, n, b, p); err != nil {
				return fmt.Errorf("message %d: %w", n, err)
			}
		}
	}
	return nil
}

func (a *app) writeBody(ctx context.Context, log *slog.Logger, n int, b *payload.Builder, p *payload.Payload) error {
	files, err := b.ResolveFiles(ctx)
	if err != nil {
		return err
	}
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	path := filepath.Join(a.out, fmt.Sprintf("%03d.body", n))
	var contentType string
	if err := atomicio.Write(path, 0o644, func(w io.Writer) error {
		contentType, err = payload.Encode(w, p, files)
		return err
	}); err != nil {
		return err
	}

	log.Info("wrote request body",
		slog.String("path", path),
		slog.String("content_type", contentType),
		slog.Int("files", len(files)),
	)
	return nil
}
