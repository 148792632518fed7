package cli

import (
	"fmt"
	"strings"

	"github.com/yiblet/clipkeep/internal/transform"
)

// Args represents the top-level command structure
type Args struct {
	ConfigPath *string `arg:"--config" help:"Config file (default: ~/.config/clipkeep/config.yaml)"`
	History    *string `arg:"--history" help:"History directory (absolute, or relative to ~/.config/clipkeep)"`
	LogFormat  *string `arg:"--log-format" help:"Log format: auto, text or json"`
	LogLevel   *string `arg:"--log-level" help:"Log level: debug, info, warn or error"`

	Watch     *WatchCmd     `arg:"subcommand:watch" help:"Record clipboard changes until interrupted"`
	Browse    *BrowseCmd    `arg:"subcommand:browse" help:"Open the interactive history browser (default)"`
	List      *ListCmd      `arg:"subcommand:list" help:"List history items, newest first"`
	Search    *SearchCmd    `arg:"subcommand:search" help:"Fuzzy search titles, tags and content"`
	Show      *ShowCmd      `arg:"subcommand:show" help:"Print an item's content"`
	Copy      *CopyCmd      `arg:"subcommand:copy" help:"Copy an item back to the clipboard"`
	Fav       *FavCmd       `arg:"subcommand:fav" help:"Toggle an item's favorite flag"`
	Tag       *TagCmd       `arg:"subcommand:tag" help:"Add a tag to an item"`
	Untag     *UntagCmd     `arg:"subcommand:untag" help:"Remove a tag from an item"`
	Title     *TitleCmd     `arg:"subcommand:title" help:"Set or clear an item's custom title"`
	Rm        *RmCmd        `arg:"subcommand:rm" help:"Remove an item"`
	Clear     *ClearCmd     `arg:"subcommand:clear" help:"Clear the history"`
	Import    *ImportCmd    `arg:"subcommand:import" help:"Merge items from an exported file"`
	Export    *ExportCmd    `arg:"subcommand:export" help:"Write items to a file"`
	Stats     *StatsCmd     `arg:"subcommand:stats" help:"Show usage statistics"`
	Transform *TransformCmd `arg:"subcommand:transform" help:"Transform an item's text"`
	Config    *ConfigCmd    `arg:"subcommand:config" help:"Manage configuration settings"`
}

// WatchCmd represents 'clipkeep watch'
type WatchCmd struct{}

// BrowseCmd represents 'clipkeep browse'
type BrowseCmd struct{}

// ListCmd represents 'clipkeep list'
type ListCmd struct {
	Limit     int  `arg:"-n,--limit" help:"Show at most N items (0 = all)"`
	Favorites bool `arg:"-f,--favorites" help:"Only show favorites"`
}

// SearchCmd represents 'clipkeep search'
type SearchCmd struct {
	Query  string `arg:"positional,required" help:"Text to search for"`
	IDOnly bool   `arg:"-i,--id-only" help:"Print only the ids of matches"`
}

// ShowCmd represents 'clipkeep show'
type ShowCmd struct {
	ID string `arg:"positional,required" help:"Item id"`
}

// CopyCmd represents 'clipkeep copy'
type CopyCmd struct {
	ID string `arg:"positional,required" help:"Item id"`
}

// FavCmd represents 'clipkeep fav'
type FavCmd struct {
	ID string `arg:"positional,required" help:"Item id"`
}

// TagCmd represents 'clipkeep tag'
type TagCmd struct {
	ID  string `arg:"positional,required" help:"Item id"`
	Tag string `arg:"positional,required" help:"Tag to add"`
}

// UntagCmd represents 'clipkeep untag'
type UntagCmd struct {
	ID  string `arg:"positional,required" help:"Item id"`
	Tag string `arg:"positional,required" help:"Tag to remove"`
}

// TitleCmd represents 'clipkeep title'
type TitleCmd struct {
	ID    string  `arg:"positional,required" help:"Item id"`
	Title *string `arg:"positional" help:"New title (omit to clear)"`
}

// RmCmd represents 'clipkeep rm'
type RmCmd struct {
	IDs []string `arg:"positional,required" help:"Item ids"`
}

// ClearCmd represents 'clipkeep clear'
type ClearCmd struct {
	KeepFavorites bool `arg:"-k,--keep-favorites" help:"Keep favorite items"`
	Force         bool `arg:"-f,--force" help:"Skip confirmation prompt"`
}

// ImportCmd represents 'clipkeep import'
type ImportCmd struct {
	File string `arg:"positional,required" help:"File written by export"`
}

// ExportCmd represents 'clipkeep export'
type ExportCmd struct {
	File *string  `arg:"-o,--output" help:"Output file (default: clipkeep-export-<time>.json)"`
	IDs  []string `arg:"positional" help:"Item ids to export (default: all)"`
}

// StatsCmd represents 'clipkeep stats'
type StatsCmd struct{}

// TransformCmd represents 'clipkeep transform'
type TransformCmd struct {
	Operation string `arg:"positional,required" help:"Operation, e.g. uppercase, trim or json-pretty"`
	ID        string `arg:"positional,required" help:"Item id"`
	Copy      bool   `arg:"-c,--copy" help:"Copy the result to the clipboard"`
}

// ConfigCmd represents 'clipkeep config'
type ConfigCmd struct {
	Get  *ConfigGetCmd  `arg:"subcommand:get" help:"Get configuration value"`
	Set  *ConfigSetCmd  `arg:"subcommand:set" help:"Set configuration value"`
	List *ConfigListCmd `arg:"subcommand:list" help:"List all configuration values"`
}

// ConfigGetCmd represents 'clipkeep config get'
type ConfigGetCmd struct {
	Key string `arg:"positional,required" help:"Configuration key"`
}

// ConfigSetCmd represents 'clipkeep config set'
type ConfigSetCmd struct {
	Key   string `arg:"positional,required" help:"Configuration key"`
	Value string `arg:"positional,required" help:"Configuration value"`
}

// ConfigListCmd represents 'clipkeep config list'
type ConfigListCmd struct{}

// Description returns the program description
func (Args) Description() string {
	return "clipkeep - clipboard history with search, favorites and tags"
}

// Version returns the program version
func (Args) Version() string {
	return "clipkeep 0.1.0"
}

// Epilogue returns additional help text
func (Args) Epilogue() string {
	return `Examples:
  clipkeep watch                     # Record the clipboard in the foreground
  clipkeep                           # Browse the history
  clipkeep list -n 10                # Ten newest items
  clipkeep search "docker run"       # Fuzzy search
  clipkeep copy <id>                 # Put an item back on the clipboard
  clipkeep tag <id> work             # Tag an item
  clipkeep transform json-pretty <id> --copy
  clipkeep export -o backup.json     # Export everything
  clipkeep config set max-history-count 500

Configuration keys:
  max-history-count, enabled-types, exclude-passwords, auto-cleanup,
  cleanup-after, poll-interval, storage, history-location, log-format,
  log-level`
}

// Validate performs validation on the parsed arguments
func (args *Args) Validate() error {
	switch {
	case args.List != nil:
		return args.List.Validate()
	case args.Search != nil:
		return args.Search.Validate()
	case args.Transform != nil:
		return args.Transform.Validate()
	case args.Config != nil:
		return args.Config.Validate()
	}
	return nil
}

// Validate validates list command arguments
func (l *ListCmd) Validate() error {
	if l.Limit < 0 {
		return fmt.Errorf("limit must be non-negative")
	}
	return nil
}

// Validate validates search command arguments
func (s *SearchCmd) Validate() error {
	if strings.TrimSpace(s.Query) == "" {
		return fmt.Errorf("search query must not be empty")
	}
	return nil
}

// Validate validates transform command arguments
func (t *TransformCmd) Validate() error {
	_, err := transform.Parse(t.Operation)
	return err
}

// Validate validates config command arguments
func (c *ConfigCmd) Validate() error {
	if c.Get == nil && c.Set == nil && c.List == nil {
		return fmt.Errorf("no config subcommand specified (get, set or list)")
	}
	return nil
}
