package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Jerry-Shen0527/rznode/internal/ctxlog"
	"github.com/Jerry-Shen0527/rznode/internal/executor"
	"github.com/Jerry-Shen0527/rznode/internal/graphmodel"
	"github.com/Jerry-Shen0527/rznode/internal/host"
	"github.com/Jerry-Shen0527/rznode/internal/manifest"
	"github.com/Jerry-Shen0527/rznode/internal/nodekind"
	"github.com/Jerry-Shen0527/rznode/internal/storage"
	"github.com/Jerry-Shen0527/rznode/internal/storage/redisstorage"
	"github.com/Jerry-Shen0527/rznode/internal/typed"
	"github.com/redis/go-redis/v9"
)

// ExitError is an error that carries the process exit code the caller
// should use, mirroring the teacher's flag-parsing error type.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

// CLI holds state shared across subcommands: where output goes and the
// logger each subcommand runs with.
type CLI struct {
	out    io.Writer
	logger *slog.Logger
}

// New returns a CLI that writes to w with an info-level text logger.
func New(w io.Writer) *CLI {
	return &CLI{
		out:    w,
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

// RootCommand builds the "rznode" root command with its subcommands and
// persistent --log-level/--log-format flags attached.
func (c *CLI) RootCommand() *cobra.Command {
	var logLevel, logFormat string

	root := &cobra.Command{
		Use:          "rznode",
		Short:        "rznode drives a reactive dataflow graph from the command line",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLogLevel(logLevel)
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}
			handler, err := newLogHandler(c.out, logFormat, level)
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}
			c.logger = slog.New(handler)
			return nil
		},
	}
	root.SetOut(c.out)
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn, or error")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "text or json")

	root.AddCommand(c.runCommand())
	root.AddCommand(c.validateCommand())
	return root
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log-level %q: must be debug, info, warn, or error", s)
	}
}

func newLogHandler(w io.Writer, format string, level slog.Level) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(format) {
	case "text":
		return slog.NewTextHandler(w, opts), nil
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("invalid log-format %q: must be text or json", format)
	}
}

// loadTree parses the manifest at manifestPath (if non-empty) and the
// graph document at graphPath, returning a ready NodeTree; its Kinds and
// Types accessors expose the registries it was built against.
func (c *CLI) loadTree(ctx context.Context, manifestPath, graphPath string) (*graphmodel.NodeTree, error) {
	types := typed.NewRegistry()
	kinds := nodekind.NewRegistry()

	if manifestPath != "" {
		if err := manifest.New(types, kinds).Load(ctx, manifestPath); err != nil {
			return nil, fmt.Errorf("loading manifest: %w", err)
		}
	}

	blob, err := os.ReadFile(graphPath)
	if err != nil {
		return nil, fmt.Errorf("reading graph %s: %w", graphPath, err)
	}

	tree := graphmodel.New(kinds, types)
	if err := tree.Deserialize(blob); err != nil {
		return nil, fmt.Errorf("deserializing graph %s: %w", graphPath, err)
	}
	return tree, nil
}

func (c *CLI) runCommand() *cobra.Command {
	var manifestPath, graphPath, requiredNode, redisAddr, redisPrefix string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load a graph and execute it once",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxlog.WithLogger(cmd.Context(), c.logger)

			tree, err := c.loadTree(ctx, manifestPath, graphPath)
			if err != nil {
				return &ExitError{Code: 1, Message: err.Error()}
			}

			ex := executor.New().WithStorage(storageFor(redisAddr, tree.Types(), redisPrefix))

			h := host.New()
			h.Init(tree)
			h.SetExecutor(ex)

			var required *graphmodel.NodeId
			if requiredNode != "" {
				id := graphmodel.NodeId(requiredNode)
				required = &id
			}

			h.Execute(ctx, false, required)
			defer h.Finalize(ctx)

			return c.printResults(tree)
		},
	}
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "path to an HCL node-kind manifest file or directory")
	cmd.Flags().StringVar(&graphPath, "graph", "", "path to a JSON graph document")
	cmd.Flags().StringVar(&requiredNode, "required", "", "only compute what a specific node needs, instead of the always_required set")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "use a Redis-backed named storage at this address, instead of in-memory")
	cmd.Flags().StringVar(&redisPrefix, "redis-prefix", "rznode", "key prefix for the Redis-backed named storage")
	cmd.MarkFlagRequired("graph")
	return cmd
}

func (c *CLI) validateCommand() *cobra.Command {
	var manifestPath, graphPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Parse a graph document and report structural errors without executing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxlog.WithLogger(cmd.Context(), c.logger)

			tree, err := c.loadTree(ctx, manifestPath, graphPath)
			if err != nil {
				return &ExitError{Code: 1, Message: err.Error()}
			}

			tree.EnsureTopologyCache()
			if tree.HasAvailableLinkCycle() {
				return &ExitError{Code: 1, Message: "graph contains a cycle reachable through available links"}
			}
			fmt.Fprintf(c.out, "ok: %d nodes, %d links, %d sockets\n", len(tree.Nodes), len(tree.Links), tree.SocketCount())
			return nil
		},
	}
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "path to an HCL node-kind manifest file or directory")
	cmd.Flags().StringVar(&graphPath, "graph", "", "path to a JSON graph document")
	cmd.MarkFlagRequired("graph")
	return cmd
}

// printResults reports the per-node outcome of the most recent Execute
// call: which nodes ran as required, which were skipped, and which failed.
func (c *CLI) printResults(tree *graphmodel.NodeTree) error {
	var failed int
	for _, id := range tree.LeftToRight() {
		n, ok := tree.FindNode(id)
		if !ok || !n.Required {
			continue
		}
		switch {
		case n.ExecutionFailed != "":
			failed++
			fmt.Fprintf(c.out, "FAIL  %s (%s): %s\n", n.ID, n.TypeInfo.IDName, n.ExecutionFailed)
		case n.MissingInput:
			fmt.Fprintf(c.out, "SKIP  %s (%s): missing required input\n", n.ID, n.TypeInfo.IDName)
		default:
			fmt.Fprintf(c.out, "OK    %s (%s)\n", n.ID, n.TypeInfo.IDName)
		}
	}
	if failed > 0 {
		return &ExitError{Code: 1, Message: fmt.Sprintf("%d node(s) failed", failed)}
	}
	return nil
}

// storageFor picks the run subcommand's NamedStorage backend: in-memory when
// redisAddr is empty, otherwise Redis-backed at redisAddr under prefix.
func storageFor(redisAddr string, types *typed.Registry, prefix string) storage.NamedStorage {
	if redisAddr == "" {
		return storage.NewMemory()
	}
	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	return redisstorage.New(client, types, prefix)
}
