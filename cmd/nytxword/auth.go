package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"nytxword/pkg/auth"
	"nytxword/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored NYT session cookies",
	Long: `Manage stored NYT session cookies securely.

Cookies are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read-only fallback)

Never share your cookie or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [account]",
	Short: "Store a NYT session cookie securely",
	Long: `Store a NYT session cookie securely in the system keychain or an
encrypted file.

To get the cookie value:
1. Log into nytimes.com in your browser
2. Open Developer Tools (F12)
3. Go to Application/Storage > Cookies
4. Find and copy the NYT-S cookie value`,
	Example: `  # Interactive login under the default account name
  nytxword auth login

  # Store under a specific account name
  nytxword auth login personal`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [account]",
	Short: "Remove a stored session cookie",
	Args:  cobra.MaximumNArgs(1),
	Run:   runLogout,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored accounts",
	Long:  `List all stored accounts with masked cookie values.`,
	Run:   runList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	name := "default"
	if len(args) > 0 {
		name = args[0]
	}

	token, err := promptForToken()
	if err != nil {
		ui.PrintError("Failed to read session cookie", err.Error())
		os.Exit(1)
	}
	if token == "" {
		ui.PrintError("Session cookie cannot be empty")
		os.Exit(1)
	}

	// Accept either the bare value or a full NYT-S=<value> string
	if strings.HasPrefix(token, "NYT-S=") {
		token = strings.TrimPrefix(token, "NYT-S=")
	}

	account := &auth.Account{
		Name:         name,
		SessionToken: token,
	}

	if err := manager.Store(account); err != nil {
		ui.PrintError("Failed to store credentials", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess(fmt.Sprintf("Session cookie stored for account %q", name))
}

// promptForToken reads the cookie value without echoing it when stdin is a
// terminal.
func promptForToken() (string, error) {
	fmt.Print("NYT-S cookie value: ")

	if term.IsTerminal(int(syscall.Stdin)) {
		value, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(value)), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	name := "default"
	if len(args) > 0 {
		name = args[0]
	}

	if err := manager.Delete(name); err != nil {
		ui.PrintError("Failed to remove credentials", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess(fmt.Sprintf("Removed stored cookie for account %q", name))
}

func runList(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	accounts, err := manager.List()
	if err != nil {
		ui.PrintError("Failed to list accounts", err.Error())
		os.Exit(1)
	}

	if len(accounts) == 0 {
		fmt.Println("No stored accounts. Use 'nytxword auth login' to add one.")
		return
	}

	for _, account := range accounts {
		fmt.Printf("%s  %s  (stored %s)\n",
			ui.Cyan(account.Name),
			auth.MaskToken(account.SessionToken),
			account.LastModified.Format("2006-01-02 15:04"),
		)
	}
}
