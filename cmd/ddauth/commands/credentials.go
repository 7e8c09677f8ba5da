package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

func getCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "print the credentials stored for a machine",
		ArgsUsage: "<machine>",
		Action:    getAction,
	}
}

func getAction(ctx context.Context, cmd *cli.Command) error {
	machine, err := machineArg(cmd)
	if err != nil {
		return err
	}

	application, cleanup, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	creds, err := application.Lookup(ctx, machine)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.Root().Writer, "login=%s\npassword=%s\n", creds.Login, creds.Password)
	return err
}

func setCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "store the password (and optionally the login) for a machine",
		ArgsUsage: "<machine>",
		Description: "The password is prompted for when stdin is a terminal and read from\n" +
			"the first line of stdin otherwise or with --password-stdin.\n" +
			"Without --login an existing login is kept.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "login",
				Aliases: []string{"l"},
				Usage:   "login to store along with the password",
			},
			&cli.BoolFlag{
				Name:  "password-stdin",
				Usage: "read the password from the first line of stdin, even on a terminal",
			},
		},
		Action: setAction,
	}
}

func setAction(ctx context.Context, cmd *cli.Command) error {
	machine, err := machineArg(cmd)
	if err != nil {
		return err
	}

	password, err := readPassword(cmd.Root().Reader, cmd.Root().ErrWriter, cmd.Bool("password-stdin"))
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	if password == "" {
		return errors.New("password cannot be empty")
	}

	application, cleanup, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	return application.Store(ctx, machine, cmd.String("login"), password)
}

// readPassword prompts without echo when in is a terminal, otherwise or when
// fromStdin is set it reads the first line of in.
func readPassword(in io.Reader, prompt io.Writer, fromStdin bool) (string, error) {
	if f, ok := in.(*os.File); ok && !fromStdin && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		password, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return string(password), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
