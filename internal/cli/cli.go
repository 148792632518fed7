package cli

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/yiblet/clipkeep/internal/config"
	"github.com/yiblet/clipkeep/internal/datadir"
	"github.com/yiblet/clipkeep/internal/history"
	"github.com/yiblet/clipkeep/internal/logging"
	"github.com/yiblet/clipkeep/internal/pasteboard"
	"github.com/yiblet/clipkeep/internal/pasteboard/cmdboard"
	"github.com/yiblet/clipkeep/internal/pasteboard/sysboard"
	"github.com/yiblet/clipkeep/internal/store"
	"github.com/yiblet/clipkeep/internal/store/dbstore"
	"github.com/yiblet/clipkeep/internal/store/jsonstore"
	"github.com/yiblet/clipkeep/internal/transform"
	"github.com/yiblet/clipkeep/internal/tui"
)

// CLI handles the command-line interface
type CLI struct {
	configManager *config.ConfigManager
	config        *config.Config
	dir           *datadir.Dir
	board         pasteboard.Board
	manager       *history.Manager

	in  io.Reader
	out io.Writer
	now func() time.Time
}

// Option customizes a CLI.
type Option func(*CLI)

// WithBoard uses b instead of the system clipboard.
func WithBoard(b pasteboard.Board) Option {
	return func(c *CLI) { c.board = b }
}

// WithIO sets where prompts are read from and output is written to.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(c *CLI) {
		c.in = in
		c.out = out
	}
}

// New creates a new CLI instance with default settings
func New() (*CLI, error) {
	return NewWithArgs(nil)
}

// NewWithArgs creates a CLI using the config file, history location and
// log settings named in args.
func NewWithArgs(args *Args, opts ...Option) (*CLI, error) {
	if args == nil {
		args = &Args{}
	}

	c := &CLI{
		in:  os.Stdin,
		out: os.Stdout,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if args.ConfigPath != nil {
		c.configManager = config.NewConfigManagerWithPath(*args.ConfigPath)
	} else {
		cm, err := config.NewConfigManager()
		if err != nil {
			return nil, err
		}
		c.configManager = cm
	}

	cfg, err := c.configManager.Load()
	if err != nil {
		return nil, err
	}
	c.config = cfg

	logFormat, logLevel := cfg.LogFormat, cfg.LogLevel
	if args.LogFormat != nil {
		logFormat = *args.LogFormat
	}
	if args.LogLevel != nil {
		logLevel = *args.LogLevel
	}
	logging.Setup(logging.ParseFormat(logFormat), logging.ParseLevel(logLevel))

	// Precedence: flag > config > default
	historyPath := cfg.HistoryLocation
	if args.History != nil {
		historyPath = *args.History
	}
	c.dir, err = datadir.NewWithHistoryPath(historyPath)
	if err != nil {
		return nil, err
	}

	s, err := openStore(cfg.Storage, c.dir)
	if err != nil {
		return nil, err
	}

	if c.board == nil {
		c.board = openBoard()
	}

	var src pasteboard.Source
	if c.board != nil {
		src = c.board
	}
	c.manager = history.NewManager(s, src, history.Settings{
		MaxHistoryCount:  cfg.MaxHistoryCount,
		EnabledTypes:     cfg.EnabledTypes,
		ExcludePasswords: cfg.ExcludePasswords,
		AutoCleanup:      cfg.AutoCleanup,
		CleanupAfter:     cfg.CleanupAfter,
	})

	return c, nil
}

func openStore(kind string, dir *datadir.Dir) (store.HistoryStore, error) {
	switch kind {
	case config.StorageSQLite:
		s, err := dbstore.NewSQLiteStore(dir.Path(dbstore.DefaultFileName))
		if err != nil {
			return nil, fmt.Errorf("failed to create database store: %w", err)
		}
		return s, nil
	default:
		return jsonstore.New(dir.Path(jsonstore.DefaultFileName)), nil
	}
}

// openBoard returns the native clipboard, falling back to the platform
// clipboard commands. It returns nil when neither is available.
func openBoard() pasteboard.Board {
	sb, err := sysboard.New()
	if err == nil {
		return sb
	}
	slog.Debug("native clipboard unavailable", "err", err)

	if cmdboard.IsSupported() {
		return cmdboard.New()
	}
	slog.Warn("no clipboard available, capture and copy are disabled")
	return nil
}

// Close saves pending changes and releases the history store.
func (c *CLI) Close() error {
	return c.manager.Close()
}

// Execute runs the CLI command based on parsed arguments
func (c *CLI) Execute(args *Args) error {
	if err := args.Validate(); err != nil {
		return err
	}

	switch {
	case args.Watch != nil:
		return c.executeWatch()
	case args.List != nil:
		return c.executeList(args.List)
	case args.Search != nil:
		return c.executeSearch(args.Search)
	case args.Show != nil:
		return c.executeShow(args.Show)
	case args.Copy != nil:
		return c.executeCopy(args.Copy)
	case args.Fav != nil:
		return c.executeFav(args.Fav)
	case args.Tag != nil:
		return c.executeTag(args.Tag)
	case args.Untag != nil:
		return c.executeUntag(args.Untag)
	case args.Title != nil:
		return c.executeTitle(args.Title)
	case args.Rm != nil:
		return c.executeRm(args.Rm)
	case args.Clear != nil:
		return c.executeClear(args.Clear)
	case args.Import != nil:
		return c.executeImport(args.Import)
	case args.Export != nil:
		return c.executeExport(args.Export)
	case args.Stats != nil:
		return c.executeStats()
	case args.Transform != nil:
		return c.executeTransform(args.Transform)
	case args.Config != nil:
		return c.executeConfig(args.Config)
	default:
		// Default behavior: launch TUI
		return c.launchTUI()
	}
}

// starter is a pasteboard that has to be started before it reports changes.
type starter interface {
	Start(ctx context.Context)
}

// executeWatch records clipboard changes until SIGINT or SIGTERM
func (c *CLI) executeWatch() error {
	if c.board == nil {
		return fmt.Errorf("no clipboard available to watch")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if s, ok := c.board.(starter); ok {
		s.Start(ctx)
	}

	events, cancel := c.manager.Subscribe()
	defer cancel()
	go func() {
		for ev := range events {
			slog.Info("history changed", "event", ev.Kind.String(), "id", ev.ID, "items", ev.Len)
		}
	}()

	slog.Info("watching clipboard",
		"interval", c.config.PollInterval,
		"items", c.manager.Len(),
		"history", c.dir.Root(),
	)
	err := c.manager.Run(ctx, c.config.PollInterval)
	if errors.Is(err, context.Canceled) {
		slog.Info("stopped watching")
		return nil
	}
	return err
}

// executeList prints the history, newest first
func (c *CLI) executeList(cmd *ListCmd) error {
	items := c.manager.Items()
	if cmd.Favorites {
		items = slices.DeleteFunc(items, func(it *store.Item) bool { return !it.IsFavorite })
	}
	if cmd.Limit > 0 && len(items) > cmd.Limit {
		items = items[:cmd.Limit]
	}

	if len(items) == 0 {
		fmt.Fprintln(c.out, "History is empty.")
		return nil
	}
	for _, it := range items {
		c.printItem(it)
	}
	return nil
}

// executeSearch prints fuzzy matches, best first
func (c *CLI) executeSearch(cmd *SearchCmd) error {
	results := c.manager.Search(cmd.Query)
	if len(results) == 0 {
		return fmt.Errorf("no matches found for: %s", cmd.Query)
	}

	for _, it := range results {
		if cmd.IDOnly {
			fmt.Fprintln(c.out, it.ID)
			continue
		}
		c.printItem(it)
	}
	return nil
}

func (c *CLI) printItem(it *store.Item) {
	mark := " "
	if it.IsFavorite {
		mark = "★"
	}
	line := fmt.Sprintf("%s %s %-2s %s", it.ID, mark, it.Type.Info().Icon, history.DisplayTitle(it))
	if len(it.Tags) > 0 {
		line += "  #" + strings.Join(it.Tags, " #")
	}
	fmt.Fprintf(c.out, "%s  (%s)\n", line, humanize.RelTime(it.Timestamp, c.now(), "ago", "from now"))
}

// resolve finds the item named by id or by a unique prefix of its id.
func (c *CLI) resolve(id string) (*store.Item, error) {
	if it, err := c.manager.Get(id); err == nil {
		return it, nil
	}

	var matches []*store.Item
	for _, it := range c.manager.Items() {
		if id != "" && strings.HasPrefix(it.ID, id) {
			matches = append(matches, it)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", history.ErrNotFound, id)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("id prefix %q matches %d items", id, len(matches))
	}
}

// executeShow writes an item's content to stdout. Images are written as
// raw image data.
func (c *CLI) executeShow(cmd *ShowCmd) error {
	it, err := c.resolve(cmd.ID)
	if err != nil {
		return err
	}

	if it.Type == store.TypeImage {
		data, err := base64.StdEncoding.DecodeString(it.Content)
		if err != nil {
			return fmt.Errorf("failed to decode image: %w", err)
		}
		_, err = c.out.Write(data)
		return err
	}

	_, err = io.WriteString(c.out, it.Content)
	return err
}

// executeCopy puts an item back on the clipboard
func (c *CLI) executeCopy(cmd *CopyCmd) error {
	if c.board == nil {
		return fmt.Errorf("no clipboard available")
	}
	it, err := c.resolve(cmd.ID)
	if err != nil {
		return err
	}

	if err := c.manager.CopyToPasteboard(it.ID, c.board); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Copied to clipboard: %s\n", history.DisplayTitle(it))
	return nil
}

func (c *CLI) executeFav(cmd *FavCmd) error {
	it, err := c.resolve(cmd.ID)
	if err != nil {
		return err
	}
	if err := c.manager.ToggleFavorite(it.ID); err != nil {
		return err
	}

	if it.IsFavorite {
		fmt.Fprintf(c.out, "Unfavorited: %s\n", history.DisplayTitle(it))
	} else {
		fmt.Fprintf(c.out, "Favorited: %s\n", history.DisplayTitle(it))
	}
	return nil
}

func (c *CLI) executeTag(cmd *TagCmd) error {
	it, err := c.resolve(cmd.ID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(cmd.Tag) == "" {
		return fmt.Errorf("tag must not be empty")
	}
	return c.manager.AddTag(it.ID, cmd.Tag)
}

func (c *CLI) executeUntag(cmd *UntagCmd) error {
	it, err := c.resolve(cmd.ID)
	if err != nil {
		return err
	}
	return c.manager.RemoveTag(it.ID, cmd.Tag)
}

func (c *CLI) executeTitle(cmd *TitleCmd) error {
	it, err := c.resolve(cmd.ID)
	if err != nil {
		return err
	}

	var title string
	if cmd.Title != nil {
		title = *cmd.Title
	}
	if err := c.manager.SetCustomTitle(it.ID, title); err != nil {
		return err
	}

	updated, err := c.manager.Get(it.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Title: %s\n", history.DisplayTitle(updated))
	return nil
}

func (c *CLI) executeRm(cmd *RmCmd) error {
	for _, id := range cmd.IDs {
		it, err := c.resolve(id)
		if err != nil {
			return err
		}
		if err := c.manager.Remove(it.ID); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Removed: %s\n", history.DisplayTitle(it))
	}
	return nil
}

// executeClear handles the 'clipkeep clear' command
func (c *CLI) executeClear(cmd *ClearCmd) error {
	items := c.manager.Items()
	count := len(items)
	if cmd.KeepFavorites {
		count = 0
		for _, it := range items {
			if !it.IsFavorite {
				count++
			}
		}
	}

	if count == 0 {
		fmt.Fprintln(c.out, "Nothing to clear.")
		return nil
	}

	// Prompt for confirmation unless --force is used
	if !cmd.Force {
		fmt.Fprintf(c.out, "This will delete %d item(s) from history. Continue? [y/N]: ", count)
		var response string
		fmt.Fscanln(c.in, &response)
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(c.out, "Cancelled.")
			return nil
		}
	}

	if cmd.KeepFavorites {
		c.manager.ClearKeepingFavorites()
	} else {
		c.manager.ClearAll()
	}

	fmt.Fprintf(c.out, "Cleared %d item(s) from history.\n", count)
	return nil
}

func (c *CLI) executeImport(cmd *ImportCmd) error {
	summary, err := c.manager.ImportFrom(cmd.File)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Imported %d item(s), skipped %d already in history or invalid.\n", summary.Added, summary.Skipped)
	if summary.Evicted > 0 {
		fmt.Fprintf(c.out, "%d imported item(s) were older than the %d kept and were dropped.\n",
			summary.Evicted, c.manager.MaxHistoryCount())
	}
	return nil
}

func (c *CLI) executeExport(cmd *ExportCmd) error {
	path := datadir.ExportPath(c.now().Format("20060102-150405"))
	if cmd.File != nil {
		path = *cmd.File
	}

	ids := make([]string, 0, len(cmd.IDs))
	for _, id := range cmd.IDs {
		it, err := c.resolve(id)
		if err != nil {
			return &history.TransferError{Op: "export", Path: path, Err: err}
		}
		ids = append(ids, it.ID)
	}

	if err := c.manager.ExportTo(path, ids...); err != nil {
		return err
	}

	count := len(ids)
	if count == 0 {
		count = c.manager.Len()
	}
	fmt.Fprintf(c.out, "Exported %d item(s) to %s\n", count, path)
	return nil
}

func (c *CLI) executeStats() error {
	stats := c.manager.Stats()

	fmt.Fprintf(c.out, "Items:      %s (%s favorites)\n", humanize.Comma(int64(stats.Total)), humanize.Comma(int64(stats.Favorites)))
	fmt.Fprintf(c.out, "Total uses: %s\n", humanize.Comma(int64(stats.TotalUsage)))
	if stats.MostUsed != nil {
		fmt.Fprintf(c.out, "Most used:  %s (%s)\n", history.DisplayTitle(stats.MostUsed), humanize.Comma(int64(stats.MostUsed.UsageCount)))
	}

	if stats.Total > 0 {
		fmt.Fprintln(c.out, "By type:")
		for _, t := range store.AllTypes() {
			if n := stats.ByType[t]; n > 0 {
				fmt.Fprintf(c.out, "  %-2s %-10s %d\n", t.Info().Icon, t.Info().DisplayName, n)
			}
		}
	}
	return nil
}

// executeTransform prints a transformed copy of an item's text. The
// stored item is not changed.
func (c *CLI) executeTransform(cmd *TransformCmd) error {
	op, err := transform.Parse(cmd.Operation)
	if err != nil {
		return err
	}
	it, err := c.resolve(cmd.ID)
	if err != nil {
		return err
	}
	if !it.Type.IsTextual() {
		return fmt.Errorf("cannot transform %s items", it.Type.Info().DisplayName)
	}

	result, err := transform.Apply(op, it.Content)
	if err != nil {
		return err
	}

	if cmd.Copy {
		if c.board == nil {
			return fmt.Errorf("no clipboard available")
		}
		if err := c.board.WriteText(result); err != nil {
			return fmt.Errorf("failed to write to clipboard: %w", err)
		}
	}

	fmt.Fprintln(c.out, result)
	return nil
}

// executeConfig handles the 'clipkeep config' command
func (c *CLI) executeConfig(cmd *ConfigCmd) error {
	switch {
	case cmd.Get != nil:
		value, err := c.configManager.Get(cmd.Get.Key)
		if err != nil {
			return fmt.Errorf("failed to get config value: %w", err)
		}
		fmt.Fprintf(c.out, "%s\n", value)
		return nil
	case cmd.Set != nil:
		if err := c.configManager.Update(cmd.Set.Key, cmd.Set.Value); err != nil {
			return fmt.Errorf("failed to set config value: %w", err)
		}
		fmt.Fprintf(c.out, "Set %s = %s\n", cmd.Set.Key, cmd.Set.Value)
		return nil
	case cmd.List != nil:
		values, err := c.configManager.List()
		if err != nil {
			return fmt.Errorf("failed to list config values: %w", err)
		}

		keys := make([]string, 0, len(values))
		for key := range values {
			keys = append(keys, key)
		}
		slices.Sort(keys)

		fmt.Fprintf(c.out, "Current configuration (%s):\n", c.configManager.GetConfigPath())
		for _, key := range keys {
			fmt.Fprintf(c.out, "  %s = %s\n", key, values[key])
		}
		return nil
	default:
		return fmt.Errorf("no config subcommand specified")
	}
}

// launchTUI starts the interactive browser
func (c *CLI) launchTUI() error {
	if c.manager.Len() == 0 {
		fmt.Fprintln(c.out, "History is empty!")
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "To start recording the clipboard:")
		fmt.Fprintln(c.out, "  clipkeep watch")
		return nil
	}

	var w pasteboard.Writer
	if c.board != nil {
		w = c.board
	}
	return tui.Run(c.manager, w)
}
