package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/amonks/lists/auth"
	"github.com/amonks/lists/listable"
	"github.com/amonks/lists/server"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	Args:  cobra.NoArgs,
	RunE:  runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Update your profile",
	Args:  cobra.NoArgs,
	RunE:  runProfile,
}

var locationCmd = &cobra.Command{
	Use:   "location <latitude> <longitude>",
	Short: "Set your location from coordinates",
	Args:  cobra.ExactArgs(2),
	RunE:  runLocation,
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users you can share with",
	Args:  cobra.NoArgs,
	RunE:  runUsers,
}

var (
	sessionName  string
	sessionEmail string
	whoamiJSON   bool
	profileName  string
	profilePhoto string
)

func init() {
	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd, profileCmd, locationCmd, usersCmd)

	registerCmd.Flags().StringVar(&sessionName, "name", "", "Display name")
	registerCmd.Flags().StringVar(&sessionEmail, "email", "", "Email address")
	loginCmd.Flags().StringVar(&sessionEmail, "email", "", "Email address")
	whoamiCmd.Flags().BoolVar(&whoamiJSON, "json", false, "Output as JSON")
	profileCmd.Flags().StringVar(&profileName, "name", "", "New display name")
	profileCmd.Flags().StringVar(&profilePhoto, "photo", "", "New photo URL")
}

func runRegister(cmd *cobra.Command, _ []string) error {
	client, err := newClient(false)
	if err != nil {
		return err
	}
	in := bufio.NewReader(cmd.InOrStdin())
	email, err := promptValue(cmd, in, "Email: ", sessionEmail)
	if err != nil {
		return err
	}
	password, err := readPassword(cmd, in, "Password: ")
	if err != nil {
		return err
	}
	confirm := password
	if isTerminal(cmd.InOrStdin()) {
		if confirm, err = readPassword(cmd, in, "Confirm password: "); err != nil {
			return err
		}
	}

	session, err := client.Register(cmd.Context(), auth.Registration{
		Name:            sessionName,
		Email:           email,
		Password:        password,
		ConfirmPassword: confirm,
	})
	if err != nil {
		return err
	}
	return finishSession(cmd, client, session)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	client, err := newClient(false)
	if err != nil {
		return err
	}
	in := bufio.NewReader(cmd.InOrStdin())
	email, err := promptValue(cmd, in, "Email: ", sessionEmail)
	if err != nil {
		return err
	}
	password, err := readPassword(cmd, in, "Password: ")
	if err != nil {
		return err
	}
	session, err := client.Login(cmd.Context(), email, password)
	if err != nil {
		return err
	}
	return finishSession(cmd, client, session)
}

func finishSession(cmd *cobra.Command, client *server.Client, session server.SessionResponse) error {
	if err := saveSession(client.BaseURL(), session); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", session.User.DisplayName())
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	url, err := serverURL()
	if err != nil {
		return err
	}
	removed, err := removeSession(server.NewClient(url, "").BaseURL())
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	client, err := newClient(true)
	if err != nil {
		return err
	}
	user, err := client.Me(cmd.Context())
	if err != nil {
		return err
	}
	if whoamiJSON {
		return encodeJSON(cmd.OutOrStdout(), user)
	}
	fmt.Fprint(cmd.OutOrStdout(), formatUser(user))
	return nil
}

func runProfile(cmd *cobra.Command, _ []string) error {
	var req server.UpdateMeRequest
	if cmd.Flags().Changed("name") {
		req.Name = &profileName
	}
	if cmd.Flags().Changed("photo") {
		req.PhotoURL = &profilePhoto
	}
	if req.Name == nil && req.PhotoURL == nil {
		return errors.New("nothing to update (use --name or --photo)")
	}
	client, err := newClient(true)
	if err != nil {
		return err
	}
	user, err := client.UpdateMe(cmd.Context(), req)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatUser(user))
	return nil
}

func runLocation(cmd *cobra.Command, args []string) error {
	lat, lon, err := parseCoordinates(args[0], args[1])
	if err != nil {
		return err
	}
	client, err := newClient(true)
	if err != nil {
		return err
	}
	user, err := client.UpdateLocation(cmd.Context(), lat, lon)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Location: %s\n", user.Location)
	return nil
}

func runUsers(cmd *cobra.Command, _ []string) error {
	client, err := newClient(true)
	if err != nil {
		return err
	}
	users, err := client.Users(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatUsersTable(users))
	return nil
}

func formatUser(user listable.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", user.DisplayName())
	if user.Email != "" {
		fmt.Fprintf(&b, "Email:    %s\n", user.Email)
	}
	if user.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", user.Location)
	}
	if user.PhotoURL != "" {
		fmt.Fprintf(&b, "Photo:    %s\n", user.PhotoURL)
	}
	fmt.Fprintf(&b, "ID:       %s\n", user.ID)
	return b.String()
}

// promptValue returns value, or prompts for a line when it is empty.
func promptValue(cmd *cobra.Command, in *bufio.Reader, prompt, value string) (string, error) {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value), nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, err := readLine(in)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads a password without echo from a terminal, or a line
// from any other input.
func readPassword(cmd *cobra.Command, in *bufio.Reader, prompt string) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
		password, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(password), nil
	}
	line, err := readLine(in)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return line, nil
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
