package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/bryanchriswhite/FocusTabs/internal/api"
	"github.com/bryanchriswhite/FocusTabs/internal/config"
	"github.com/bryanchriswhite/FocusTabs/internal/tabs"
)

var ctlCmd = &cobra.Command{
	Use:   "ctl",
	Short: "Control a running container",
	Long: `Control a running FocusTabs container through its control socket.

The container must run with --control or control.enabled set. Without
--socket or --window the container is taken from $XEMBED, which every
client started by a container has.`,
}

var ctlListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tabs",
	Example: `  # List tabs in table format (default)
  focustabs ctl list

  # List tabs in JSON format
  focustabs ctl list --format json`,
	Args: cobra.NoArgs,
	RunE: runCtlList,
}

var ctlSelectCmd = &cobra.Command{
	Use:   "select INDEX|0xWINDOW",
	Short: "Select a tab",
	Args:  cobra.ExactArgs(1),
	RunE:  runCtlSelect,
}

var ctlCloseCmd = &cobra.Command{
	Use:   "close [INDEX|0xWINDOW]",
	Short: "Close a tab, or the selected one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCtlClose,
}

var ctlSpawnCmd = &cobra.Command{
	Use:   "spawn [ARG ...]",
	Short: "Start a client with extra arguments",
	Example: `  # Open another tab of the container's command
  focustabs ctl spawn

  # Open surf on a page
  focustabs ctl spawn https://example.org`,
	RunE: runCtlSpawn,
}

var ctlWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the tab list as JSON on every change",
	Args:  cobra.NoArgs,
	RunE:  runCtlWatch,
}

var (
	ctlSocket string
	ctlWindow string
	ctlFormat string
)

func init() {
	rootCmd.AddCommand(ctlCmd)
	ctlCmd.AddCommand(ctlListCmd)
	ctlCmd.AddCommand(ctlSelectCmd)
	ctlCmd.AddCommand(ctlCloseCmd)
	ctlCmd.AddCommand(ctlSpawnCmd)
	ctlCmd.AddCommand(ctlWatchCmd)

	ctlCmd.PersistentFlags().StringVar(&ctlSocket, "socket", "", "control socket path")
	ctlCmd.PersistentFlags().StringVarP(&ctlWindow, "window", "w", "", "container window id (default is $XEMBED)")
	ctlListCmd.Flags().StringVarP(&ctlFormat, "format", "f", "table", "output format (table or json)")
}

// ctlClient resolves the socket from the flags, the config and $XEMBED.
func ctlClient() (*api.Client, error) {
	if ctlSocket != "" {
		return api.NewClient(ctlSocket), nil
	}

	if configMgr, err := config.NewManager(GetConfigFile()); err == nil {
		if socket := configMgr.Get().Control.Socket; socket != "" && ctlWindow == "" {
			return api.NewClient(socket), nil
		}
	}

	id := ctlWindow
	if id == "" {
		id = os.Getenv("XEMBED")
	}
	if id == "" {
		return nil, fmt.Errorf("no container given: use --socket, --window or run inside a container")
	}
	w, err := parseWindow(id)
	if err != nil {
		return nil, err
	}
	return api.NewClient(api.DefaultSocketPath(w)), nil
}

func parseWindow(s string) (tabs.Window, error) {
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return tabs.Window(n), nil
}

// parseTarget reads "0x..." as a window and anything else as an index.
func parseTarget(s string) (api.Target, error) {
	if strings.HasPrefix(s, "0x") {
		w, err := parseWindow(s)
		if err != nil {
			return api.Target{}, err
		}
		return api.Target{Window: &w}, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return api.Target{}, fmt.Errorf("invalid tab %q: want an index or a 0x window id", s)
	}
	return api.Target{Index: &i}, nil
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

func runCtlList(cmd *cobra.Command, args []string) error {
	c, err := ctlClient()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext()
	defer cancel()

	snap, err := c.Tabs(ctx)
	if err != nil {
		return err
	}

	switch ctlFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(snap)
	case "table":
		return printTabsTable(snap)
	default:
		return fmt.Errorf("unsupported format: %s (use 'table' or 'json')", ctlFormat)
	}
}

func printTabsTable(snap tabs.Snapshot) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "INDEX\tWINDOW\tSTATE\tTITLE")
	fmt.Fprintln(w, "-----\t------\t-----\t-----")

	for _, t := range snap.Tabs {
		state := ""
		switch {
		case t.Selected:
			state = "selected"
		case t.Urgent:
			state = "urgent"
		}
		fmt.Fprintf(w, "%d\t0x%x\t%s\t%s\n", t.Index, uint32(t.Window), state, t.Title)
	}

	return nil
}

func runCtlSelect(cmd *cobra.Command, args []string) error {
	t, err := parseTarget(args[0])
	if err != nil {
		return err
	}
	c, err := ctlClient()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext()
	defer cancel()

	_, err = c.Select(ctx, t)
	return err
}

func runCtlClose(cmd *cobra.Command, args []string) error {
	var t api.Target
	if len(args) == 1 {
		var err error
		if t, err = parseTarget(args[0]); err != nil {
			return err
		}
	}
	c, err := ctlClient()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext()
	defer cancel()

	return c.Close(ctx, t)
}

func runCtlSpawn(cmd *cobra.Command, args []string) error {
	c, err := ctlClient()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext()
	defer cancel()

	return c.Spawn(ctx, args)
}

func runCtlWatch(cmd *cobra.Command, args []string) error {
	c, err := ctlClient()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	encoder := json.NewEncoder(os.Stdout)
	return c.Watch(ctx, func(snap tabs.Snapshot) error {
		return encoder.Encode(snap)
	})
}
