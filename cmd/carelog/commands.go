package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/carelog/carelog/internal/api"
	"github.com/carelog/carelog/internal/camera"
	"github.com/carelog/carelog/internal/config"
	"github.com/carelog/carelog/internal/discovery"
	"github.com/carelog/carelog/internal/tui"
)

// Command flags
var (
	apiBaseURL      string
	discoverTimeout int
	deleteConfirmed bool
)

func init() {
	// Common flag for all record commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api", "", "API base URL (skips discovery, e.g. http://192.168.1.20:5000)")

	// Add subcommands directly to root
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(discoverCmd)
}

// resolveClient builds an API client from the --api flag, the config file,
// or mDNS discovery, in that order of preference.
func resolveClient() (*api.Client, error) {
	if apiBaseURL != "" {
		return api.NewClient(apiBaseURL), nil
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if settings.APIBaseURL != "" {
		return api.NewClient(settings.APIBaseURL), nil
	}

	// Nothing configured, try discovery
	fmt.Println("No API URL configured, attempting auto-discovery...")
	scanner := discovery.NewScanner()
	scanner.Timeout = time.Duration(settings.DiscoverTimeout) * time.Second

	svc, err := scanner.First(context.Background())
	if err != nil {
		return nil, fmt.Errorf("discovery failed: %w (use --api to specify the URL manually)", err)
	}

	fmt.Printf("Found service: %s\n\n", svc)
	return api.NewClient(svc.BaseURL()), nil
}

// runInteractive launches the interactive terminal interface. This is the
// default when carelog is invoked without a subcommand.
func runInteractive(cmd *cobra.Command, args []string) error {
	client, err := resolveClient()
	if err != nil {
		return err
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cam := camera.NewStream(settings.CaptureCommand)
	return tui.Run(client, cam)
}

// listCmd prints all registered records
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered records",
	Long: `List all registered care-recipient records.

Each row shows the record ID and the registered name. Use 'carelog show <id>'
to display the full record.`,
	Example: `  # List all records
  carelog list

  # List records from a specific server
  carelog list --api http://192.168.1.20:5000`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := resolveClient()
	if err != nil {
		return err
	}

	records, err := client.ListRecords(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	printSummaries(records, "")
	return nil
}

// searchCmd searches records by name
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search records by name",
	Long: `Search care-recipient records by name.

The query is matched as a substring of the registered name. An empty query
returns all records.`,
	Example: `  # Find everyone named 田中
  carelog search 田中`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	client, err := resolveClient()
	if err != nil {
		return err
	}

	query := args[0]
	records, err := client.SearchRecords(context.Background(), query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	printSummaries(records, query)
	return nil
}

func printSummaries(records []api.Summary, query string) {
	if len(records) == 0 {
		if query != "" {
			fmt.Printf("「%s」に一致するユーザーはいません。\n", query)
		} else {
			fmt.Println("登録されているユーザーはいません。")
		}
		return
	}

	for _, rec := range records {
		fmt.Printf("ID: %d - 名前: %s\n", rec.ID, rec.Name)
	}
	fmt.Printf("\n%d件\n", len(records))
}

// showCmd displays one full record
var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a full record",
	Long: `Display the full care-recipient record for the given ID.

All sections are printed: basic information, photo, emergency contact,
medical history, support information and emergency response details.`,
	Example: `  # Show record 7
  carelog show 7`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid record ID %q", args[0])
	}

	client, err := resolveClient()
	if err != nil {
		return err
	}

	rec, err := client.GetRecord(context.Background(), id)
	if err != nil {
		return fmt.Errorf("failed to get record: %w", err)
	}

	width, _ := tui.GetTerminalSize()

	for _, section := range api.DetailSections() {
		fmt.Printf("【%s】\n", section.Title)
		for _, field := range section.Fields {
			fmt.Printf("  %s: %s\n", field.Label, fitLine(formatFieldValue(rec, field.ID), width-8))
		}
		fmt.Println()
	}
	if created := rec.String(api.FieldCreatedAt); created != "" {
		fmt.Printf("登録日時: %s\n", created)
	}

	return nil
}

// fitLine collapses a multi-line value to one line and truncates it to the
// given display width.
func fitLine(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if width < 8 {
		width = 8
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

// formatFieldValue renders one record field for terminal output, using the
// same display conventions as the interactive detail screen.
func formatFieldValue(rec api.Record, id string) string {
	if id == api.FieldPhotoPath {
		v := rec.String(id)
		if strings.HasPrefix(v, "data:image/") ||
			strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
			return "[顔写真あり]"
		}
		return "写真なし"
	}
	if api.IsFlagField(id) {
		if rec.Flag(id) {
			return "はい"
		}
		return "いいえ"
	}
	if v := rec.String(id); v != "" {
		return v
	}
	return "N/A"
}

// deleteCmd deletes a record
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a record",
	Long: `Delete the care-recipient record with the given ID.

This operation cannot be undone. The --yes flag is required so the record
is never removed by accident.`,
	Example: `  # Delete record 7
  carelog delete 7 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteConfirmed, "yes", false, "Confirm the deletion")
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid record ID %q", args[0])
	}

	if !deleteConfirmed {
		return fmt.Errorf("deletion is permanent; re-run with --yes to confirm")
	}

	client, err := resolveClient()
	if err != nil {
		return err
	}

	if err := client.DeleteRecord(context.Background(), id); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	fmt.Printf("✓ Record %d deleted\n", id)
	return nil
}

// discoverCmd scans the local network for record services
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover record services on the network",
	Long: `Discover care record services using mDNS/DNS-SD.

This command listens for mDNS broadcasts and displays all discovered
services with their addresses and metadata.`,
	Example: `  # Scan with the default 5-second timeout
  carelog discover

  # Longer scan for slow networks
  carelog discover --timeout 15`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().IntVar(&discoverTimeout, "timeout", 5, "Scan timeout in seconds")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for record services (timeout: %ds)...\n\n", discoverTimeout)

	scanner := discovery.NewScanner()
	scanner.Timeout = time.Duration(discoverTimeout) * time.Second

	services, err := scanner.Scan(context.Background())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(services) == 0 {
		fmt.Println("No services found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the record server is running on the local network")
		fmt.Println("  - Check that mDNS traffic is not blocked by your firewall")
		fmt.Println("  - Try increasing --timeout for slower networks")
		fmt.Println("  - Use --api to specify the URL manually if discovery fails")
		return nil
	}

	fmt.Printf("Found %d service(s):\n\n", len(services))

	for i, svc := range services {
		fmt.Printf("%d. %s\n", i+1, svc.Instance)
		fmt.Printf("   Address: %s:%d\n", svc.IP, svc.Port)
		if svc.Hostname != "" {
			fmt.Printf("   Host:    %s\n", svc.Hostname)
		}
		if len(svc.Metadata) > 0 {
			fmt.Printf("   Metadata: %v\n", svc.Metadata)
		}
		fmt.Println()
	}

	fmt.Println("Use 'carelog --api http://<address>:<port>' to connect to a service")

	return nil
}
