package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nao1215/swaggercov/internal/fetch"
)

// errEmptyPassword is returned when no password was entered.
var errEmptyPassword = errors.New("empty password")

// NewCredentialsCmd creates the credentials command.
func NewCredentialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage basic auth passwords in the OS keyring",
		Long: `Credentials stores the basic auth password of an API user in the OS keyring
so that "swaggercov run --user <name> --keyring" does not need the password on
the command line or in the environment.

Examples:
  swaggercov credentials set --api dm-api-account --user tester
  echo "$PASSWORD" | swaggercov credentials set -a dm-api-account -u tester --stdin
  swaggercov credentials delete --api dm-api-account --user tester`,
	}

	cmd.AddCommand(newCredentialsSetCmd())
	cmd.AddCommand(newCredentialsDeleteCmd())

	return cmd
}

func addCredentialFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("api", "a", "", "Name of the API")
	cmd.Flags().StringP("user", "u", "", "Basic auth user name")
	_ = cmd.MarkFlagRequired("api")  //nolint:errcheck // flag is defined above
	_ = cmd.MarkFlagRequired("user") //nolint:errcheck // flag is defined above
}

func newCredentialsSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store a password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			apiName, user, err := credentialFlags(cmd)
			if err != nil {
				return err
			}
			fromStdin, err := cmd.Flags().GetBool("stdin")
			if err != nil {
				return err
			}

			var password string
			if fromStdin {
				password, err = readPasswordLine(cmd.InOrStdin())
			} else {
				password, err = promptPassword(cmd.ErrOrStderr(), fmt.Sprintf("Password for %s@%s: ", user, apiName))
			}
			if err != nil {
				return err
			}

			if err := fetch.StorePassword(apiName, user, password); err != nil {
				return fmt.Errorf("failed to store password: %w", err)
			}
			newConsole(cmd.OutOrStdout()).success("Stored password for %s@%s", user, apiName)
			return nil
		},
	}
	addCredentialFlags(cmd)
	cmd.Flags().Bool("stdin", false, "Read the password from the first line of stdin")
	return cmd
}

func newCredentialsDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a stored password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			apiName, user, err := credentialFlags(cmd)
			if err != nil {
				return err
			}
			if err := fetch.DeletePassword(apiName, user); err != nil {
				return err
			}
			newConsole(cmd.OutOrStdout()).success("Deleted password for %s@%s", user, apiName)
			return nil
		},
	}
	addCredentialFlags(cmd)
	return cmd
}

func credentialFlags(cmd *cobra.Command) (string, string, error) {
	apiName, err := cmd.Flags().GetString("api")
	if err != nil {
		return "", "", err
	}
	user, err := cmd.Flags().GetString("user")
	if err != nil {
		return "", "", err
	}
	return apiName, user, nil
}

// promptPassword reads a password from the terminal without echo.
func promptPassword(prompt io.Writer, message string) (string, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in int
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal: use --stdin to pipe the password")
	}

	fmt.Fprint(prompt, message)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return nonEmpty(string(b))
}

// readPasswordLine reads the first line of r.
func readPasswordLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return nonEmpty(strings.TrimRight(line, "\r\n"))
}

func nonEmpty(password string) (string, error) {
	if password == "" {
		return "", errEmptyPassword
	}
	return password, nil
}
