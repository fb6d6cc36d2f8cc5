// Command hashpw produces and checks bcrypt hashes for BASIC_AUTH_PASSWORD_HASH.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/awesome-computers/store-membership-api/internal/platform/auth/basicauth"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "hashpw",
		Short:        "Manage bcrypt hashes for the membership API basic auth password",
		SilenceUsage: true,
	}
	root.AddCommand(newHashCmd(), newCheckCmd())
	return root
}

func newHashCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash [password]",
		Short: "Print a bcrypt hash of the password (read from stdin when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordArg(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			hash, err := basicauth.HashPassword(pw, cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost factor")
	return cmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <hash> [password]",
		Short: "Verify that the password matches the hash",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordArg(cmd.InOrStdin(), args[1:])
			if err != nil {
				return err
			}
			if !basicauth.CheckPassword(args[0], pw) {
				return errors.New("password does not match hash")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func passwordArg(in io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.Wrap(err, "read password")
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", errors.New("password must not be empty")
	}
	return pw, nil
}
